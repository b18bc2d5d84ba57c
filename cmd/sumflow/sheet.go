package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"nickandperla.net/sumflow/pkg/sumflow"
)

const shortIDLen = 8

func newSheetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Manage stored notebooks",
	}
	cmd.AddCommand(
		newSheetListCmd(a),
		newSheetNewCmd(a),
		newSheetShowCmd(a),
		newSheetSetCmd(a),
		newSheetRenameCmd(a),
		newSheetRmCmd(a),
		newSheetExportCmd(a),
		newSheetImportCmd(a),
	)
	return cmd
}

// withRuntime opens the persistent runtime for the duration of fn.
func (a *app) withRuntime(fn func(*sumflow.Runtime) error) error {
	rt, err := a.openRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func newSheetListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notebooks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(func(rt *sumflow.Runtime) error {
				sheets, err := rt.Sheets()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tLINES\tMODIFIED")
				for _, s := range sheets {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
						shortID(s.ID), s.Name, len(splitLines(s.Content)), humanize.Time(s.LastModified))
				}
				return tw.Flush()
			})
		},
	}
}

func newSheetNewCmd(a *app) *cobra.Command {
	var (
		from    string
		welcome bool
	)
	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a notebook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(func(rt *sumflow.Runtime) error {
				var (
					s   sumflow.Sheet
					err error
				)
				if welcome {
					s, err = rt.AddWelcomeSheet()
				} else {
					content := ""
					if from != "" {
						data, rerr := readSource(a.in, from)
						if rerr != nil {
							return rerr
						}
						content = data
					}
					name := ""
					if len(args) == 1 {
						name = args[0]
					}
					s, err = rt.CreateSheet(name, content)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s %s\n", shortID(s.ID), s.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "read content from file (- for stdin)")
	cmd.Flags().BoolVar(&welcome, "welcome", false, "create a copy of the welcome notebook")
	return cmd
}

func newSheetShowCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <sheet>",
		Short: "Evaluate and print a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(func(rt *sumflow.Runtime) error {
				s, err := rt.Resolve(args[0])
				if err != nil {
					return err
				}
				if raw {
					_, err := io.WriteString(a.out, s.Content)
					return err
				}
				r := a.renderer()
				if err := r.Title(a.out, s.Name); err != nil {
					return err
				}
				lines := splitLines(s.Content)
				return r.Sheet(a.out, lines, rt.Evaluate(lines))
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print content without results")
	return cmd
}

func newSheetSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <sheet> [file]",
		Short: "Replace a notebook's content from a file or stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 2 {
				src = args[1]
			}
			content, err := readSource(a.in, src)
			if err != nil {
				return err
			}
			return a.withRuntime(func(rt *sumflow.Runtime) error {
				s, err := rt.Resolve(args[0])
				if err != nil {
					return err
				}
				_, err = rt.UpdateContent(s.ID, content)
				return err
			})
		},
	}
}

func newSheetRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <sheet> <name>",
		Short: "Rename a notebook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(func(rt *sumflow.Runtime) error {
				s, err := rt.Resolve(args[0])
				if err != nil {
					return err
				}
				_, err = rt.Rename(s.ID, args[1])
				return err
			})
		},
	}
}

func newSheetRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <sheet>",
		Aliases: []string{"delete"},
		Short:   "Delete a notebook",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(func(rt *sumflow.Runtime) error {
				s, err := rt.Resolve(args[0])
				if err != nil {
					return err
				}
				return rt.DeleteSheet(s.ID)
			})
		},
	}
}

func newSheetExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all notebooks as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(func(rt *sumflow.Runtime) error {
				if len(args) == 0 || args[0] == "-" {
					return rt.Export(a.out)
				}
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				if err := rt.Export(f); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			})
		},
	}
}

func newSheetImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Read notebooks written by export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			data, err := readSource(a.in, src)
			if err != nil {
				return err
			}
			return a.withRuntime(func(rt *sumflow.Runtime) error {
				n, err := rt.Import(strings.NewReader(data))
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "imported %s\n", english.Plural(n, "sheet", "sheets"))
				return nil
			})
		},
	}
}

// readSource reads a file, or in when path is "-".
func readSource(in io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
