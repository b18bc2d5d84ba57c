package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nickandperla.net/sumflow/internal/render"
	"nickandperla.net/sumflow/pkg/sumflow"
)

// Alt+key mappings: Alt+key sends ESC (0x1b) followed by the key byte
var altKeyMappings = map[byte]string{
	'4': "$", // Alt+4
	'e': "€", // Alt+e
	'l': "£", // Alt+l
	'y': "¥", // Alt+y
	'w': "₩", // Alt+w
	'r': "₽", // Alt+r
	'i': "₹", // Alt+i
	'b': "₿", // Alt+b
	'x': "×", // Alt+x
	'/': "÷", // Alt+/
}

const replHelp = `Commands:
  :show           print the whole notebook with results
  :clear          start an empty notebook
  :open <sheet>   load a stored notebook
  :save <name>    store the notebook
  :help           show this help
  :quit           exit (or Ctrl+D)
`

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "sumflow REPL (Ctrl+D to exit, :help for commands)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Currencies (use Alt+key):")
	fmt.Fprintln(w, "  Alt+4 → $   Alt+e → €   Alt+l → £   Alt+y → ¥")
	fmt.Fprintln(w, "  Alt+w → ₩   Alt+r → ₽   Alt+i → ₹   Alt+b → ₿")
	fmt.Fprintln(w, "  Alt+x → ×   Alt+/ → ÷")
	fmt.Fprintln(w)
}

func newReplCmd(a *app) *cobra.Command {
	var open string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive notebook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			s := &session{rt: rt, r: a.renderer(), out: a.out}
			if open != "" {
				if err := s.open(open); err != nil {
					return err
				}
			}
			runREPL(a, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&open, "open", "", "start from a stored notebook")
	return cmd
}

// session is the notebook being typed. Every entered line is appended and
// the whole notebook is evaluated again.
type session struct {
	rt    *sumflow.Runtime
	r     *render.Renderer
	out   io.Writer
	lines []string
}

// handle processes one line of input. It reports whether to exit.
func (s *session) handle(input string) bool {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}

	s.lines = append(s.lines, input)
	results := s.rt.Evaluate(s.lines)
	last := results[len(results)-1]
	switch {
	case last.OK() && last.Variable != "":
		fmt.Fprintf(s.out, "= %s (%s)\n", last.Formatted, last.Variable)
	case last.OK():
		fmt.Fprintf(s.out, "= %s\n", last.Formatted)
	case last.Err != nil:
		fmt.Fprintf(s.out, "Error: %v\n", last.Err)
	}
	return false
}

func (s *session) command(input string) bool {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":q", ":quit", ":exit":
		return true
	case ":clear":
		s.lines = nil
	case ":show":
		if err := s.r.Sheet(s.out, s.lines, s.rt.Evaluate(s.lines)); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	case ":open":
		if err := s.open(arg); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			break
		}
		fmt.Fprintf(s.out, "loaded %d lines\n", len(s.lines))
	case ":save":
		sh, err := s.rt.CreateSheet(arg, strings.Join(s.lines, "\n"))
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			break
		}
		fmt.Fprintf(s.out, "saved %s %s\n", shortID(sh.ID), sh.Name)
	case ":help":
		io.WriteString(s.out, replHelp)
	default:
		fmt.Fprintf(s.out, "Unknown command %s (:help for commands)\n", name)
	}
	return false
}

func (s *session) open(ref string) error {
	sh, err := s.rt.Resolve(ref)
	if err != nil {
		return err
	}
	s.lines = splitLines(sh.Content)
	return nil
}

func runREPL(a *app, s *session) {
	printBanner(a.out)

	// Check if stdin is a terminal
	f, ok := a.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		// Not a TTY, fall back to basic mode
		runBasicREPL(a.in, s)
		return
	}

	runRawREPL(int(f.Fd()), f, s)
}

// runBasicREPL handles non-TTY input (piped input)
func runBasicREPL(in io.Reader, s *session) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(s.out, ">>> ")

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(s.out)
			return
		}
		if s.handle(strings.TrimRight(line, "\r\n")) {
			return
		}
		if err != nil {
			fmt.Fprintln(s.out)
			return
		}
	}
}

// crlfWriter translates \n to \r\n for output while the terminal is raw.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, strings.ReplaceAll(string(p), "\n", "\r\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}

// runRawREPL handles TTY input with Alt+key support
func runRawREPL(fd int, in io.Reader, s *session) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		runBasicREPL(in, s)
		return
	}
	defer term.Restore(fd, oldState)

	out := s.out
	s.out = crlfWriter{w: out}
	defer func() { s.out = out }()

	ed := &lineEditor{in: in, out: out}
	for {
		fmt.Fprint(out, ">>> ")

		line, eof := ed.readLine()
		if eof {
			fmt.Fprint(out, "\r\n")
			return
		}
		if s.handle(line) {
			return
		}
	}
}

// lineEditor reads a line in raw mode with Alt+key support.
type lineEditor struct {
	in   io.Reader
	out  io.Writer
	line []rune
	// Position in line (for arrow key navigation)
	cursor int
}

func (e *lineEditor) readByte() (byte, bool) {
	buf := make([]byte, 1)
	n, err := e.in.Read(buf)
	if err != nil || n == 0 {
		return 0, false
	}
	return buf[0], true
}

// redrawFromCursor clears from the cursor to the end of the line, prints
// the rest of the line and moves the cursor back.
func (e *lineEditor) redrawFromCursor() {
	fmt.Fprint(e.out, "\x1b[K")
	fmt.Fprint(e.out, string(e.line[e.cursor:]))
	if e.cursor < len(e.line) {
		fmt.Fprintf(e.out, "\x1b[%dD", len(e.line)-e.cursor)
	}
}

func (e *lineEditor) insert(runes []rune) {
	newLine := make([]rune, 0, len(e.line)+len(runes))
	newLine = append(newLine, e.line[:e.cursor]...)
	newLine = append(newLine, runes...)
	newLine = append(newLine, e.line[e.cursor:]...)
	e.line = newLine
	e.cursor += len(runes)
	fmt.Fprint(e.out, string(runes))
	if e.cursor < len(e.line) {
		e.redrawFromCursor()
	}
}

func (e *lineEditor) deleteAtCursor() {
	if e.cursor < len(e.line) {
		e.line = append(e.line[:e.cursor], e.line[e.cursor+1:]...)
		e.redrawFromCursor()
	}
}

// readLine returns the line and whether EOF was encountered.
func (e *lineEditor) readLine() (string, bool) {
	e.line, e.cursor = nil, 0

	for {
		b, ok := e.readByte()
		if !ok {
			return string(e.line), true
		}

		switch b {
		case 0x04: // Ctrl+D
			if len(e.line) == 0 {
				return "", true
			}
			e.deleteAtCursor()

		case 0x03: // Ctrl+C
			fmt.Fprint(e.out, "^C\r\n")
			return "", false

		case 0x0d, 0x0a: // Enter (CR or LF)
			fmt.Fprint(e.out, "\r\n")
			return string(e.line), false

		case 0x7f, 0x08: // Backspace (DEL or BS)
			if e.cursor > 0 {
				e.cursor--
				e.line = append(e.line[:e.cursor], e.line[e.cursor+1:]...)
				fmt.Fprint(e.out, "\b")
				e.redrawFromCursor()
			}

		case 0x1b: // ESC - could be Alt+key or arrow key sequence
			next, ok := e.readByte()
			if !ok {
				continue
			}
			if next != '[' {
				if glyph, ok := altKeyMappings[next]; ok {
					e.insert([]rune(glyph))
				}
				continue
			}
			// Arrow key sequence: ESC [ A/B/C/D
			code, ok := e.readByte()
			if !ok {
				continue
			}
			switch code {
			case 'C': // Right arrow
				if e.cursor < len(e.line) {
					e.cursor++
					fmt.Fprint(e.out, "\x1b[C")
				}
			case 'D': // Left arrow
				if e.cursor > 0 {
					e.cursor--
					fmt.Fprint(e.out, "\x1b[D")
				}
			case '3': // Delete key: ESC [ 3 ~
				if t, ok := e.readByte(); ok && t == '~' {
					e.deleteAtCursor()
				}
			}

		case 0x01: // Ctrl+A - beginning of line
			if e.cursor > 0 {
				fmt.Fprintf(e.out, "\x1b[%dD", e.cursor)
				e.cursor = 0
			}

		case 0x05: // Ctrl+E - end of line
			if e.cursor < len(e.line) {
				fmt.Fprintf(e.out, "\x1b[%dC", len(e.line)-e.cursor)
				e.cursor = len(e.line)
			}

		case 0x0b: // Ctrl+K - kill to end of line
			if e.cursor < len(e.line) {
				e.line = e.line[:e.cursor]
				fmt.Fprint(e.out, "\x1b[K")
			}

		case 0x15: // Ctrl+U - kill to beginning of line
			if e.cursor > 0 {
				fmt.Fprintf(e.out, "\x1b[%dD", e.cursor)
				e.line = e.line[e.cursor:]
				e.cursor = 0
				e.redrawFromCursor()
			}

		default:
			if b >= 0x20 && b < 0x7f {
				e.insert([]rune{rune(b)})
			} else if b >= 0x80 {
				e.insert([]rune{e.readUTF8(b)})
			}
		}
	}
}

// readUTF8 reads the continuation bytes of a multi-byte sequence that
// starts with lead.
func (e *lineEditor) readUTF8(lead byte) rune {
	utfBuf := []byte{lead}
	numBytes := 0
	switch {
	case lead&0xE0 == 0xC0:
		numBytes = 1
	case lead&0xF0 == 0xE0:
		numBytes = 2
	case lead&0xF8 == 0xF0:
		numBytes = 3
	}
	for i := 0; i < numBytes; i++ {
		b, ok := e.readByte()
		if !ok {
			break
		}
		utfBuf = append(utfBuf, b)
	}
	return []rune(string(utfBuf))[0]
}
