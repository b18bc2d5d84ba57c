package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"nickandperla.net/sumflow/pkg/sumflow"
)

var errCheckFailed = errors.New("check failed")

type checkResult struct {
	path   string
	failed []sumflow.LineResult
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		dirs []string
		ext  string
	)
	cmd := &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Report lines that fail to evaluate",
		Long: `Evaluates each file and lists every line without a result.
Lines starting with // are treated as comments and not reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := append([]string(nil), args...)
			for _, dir := range dirs {
				found, err := findNotebooks(dir, ext)
				if err != nil {
					return fmt.Errorf("scanning directory %s: %w", dir, err)
				}
				files = append(files, found...)
			}
			if len(files) == 0 {
				return fmt.Errorf("no %s files found", ext)
			}

			rt, err := a.openRuntime(false)
			if err != nil {
				return err
			}
			defer rt.Close()

			passed, failed := 0, 0
			for _, f := range files {
				result, err := checkFile(a, rt, f)
				if err != nil {
					return err
				}
				if len(result.failed) == 0 {
					passed++
					fmt.Fprintf(a.out, "OK   %s\n", f)
					continue
				}
				failed++
				fmt.Fprintf(a.out, "FAIL %s\n", f)
				for _, r := range result.failed {
					fmt.Fprintf(a.out, "     line %d: %v\n", r.Line, r.Err)
				}
			}

			fmt.Fprintf(a.out, "\n--- Summary ---\n")
			fmt.Fprintf(a.out, "Passed: %d\n", passed)
			fmt.Fprintf(a.out, "Failed: %d\n", failed)
			fmt.Fprintf(a.out, "Total:  %d\n", len(files))

			if failed > 0 {
				return errCheckFailed
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&dirs, "dir", nil, "check every matching file under this directory (repeatable)")
	cmd.Flags().StringVar(&ext, "ext", ".sumflow", "file extension used with --dir")
	return cmd
}

func checkFile(a *app, rt *sumflow.Runtime, path string) (checkResult, error) {
	text, err := readSource(a.in, path)
	if err != nil {
		return checkResult{}, err
	}
	lines := splitLines(text)
	res := checkResult{path: path}
	for i, r := range rt.Evaluate(lines) {
		if r.State != sumflow.Failed || isComment(lines[i]) {
			continue
		}
		res.failed = append(res.failed, r)
	}
	return res, nil
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "//")
}

// findNotebooks recursively finds all files with extension ext under dir.
func findNotebooks(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
