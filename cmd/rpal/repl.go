package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/ludeesha-cse/rpal20/pkg/driver"
	"github.com/ludeesha-cse/rpal20/pkg/interpreter"
	"github.com/ludeesha-cse/rpal20/pkg/parser"
	"github.com/ludeesha-cse/rpal20/pkg/runtime"
)

const (
	promptMain  = "rpal> "
	promptCont  = "  ... "
	historyFile = ".rpal_history"
)

// replSession buffers input lines until they form a program, then runs
// it. Each program is evaluated on its own; nothing carries over.
type replSession struct {
	opts    *options
	out     io.Writer
	errOut  io.Writer
	pending strings.Builder
}

func runRepl(opts *options, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "rpal repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 2
	}
	s := &replSession{opts: opts, out: os.Stdout, errOut: os.Stderr}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return s.runStream(os.Stdin)
	}
	return s.runInteractive()
}

func (s *replSession) runInteractive() int {
	fmt.Fprintf(s.out, "%s (type :quit to exit)\n", cliToolVersion)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		prompt := promptMain
		if s.pending.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			s.pending.Reset()
			continue
		}
		if err != nil {
			fmt.Fprintf(s.errOut, "%v\n", err)
			return 1
		}
		if handled, exit := s.command(line); handled {
			if exit {
				return 0
			}
			continue
		}
		src, ready := s.add(line)
		if !ready {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		s.eval(src)
	}
}

// runStream reads programs from piped input. A trailing incomplete
// program is still evaluated so its error is reported.
func (s *replSession) runStream(in io.Reader) int {
	scanner := bufio.NewScanner(in)
	failed := false
	for scanner.Scan() {
		line := scanner.Text()
		if handled, exit := s.command(line); handled {
			if exit {
				break
			}
			continue
		}
		if src, ready := s.add(line); ready && !s.eval(src) {
			failed = true
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(s.errOut, "read input: %v\n", err)
		return 1
	}
	if s.pending.Len() > 0 {
		src := s.pending.String()
		s.pending.Reset()
		if !s.eval(src) {
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}

// command handles :quit and :help when no program is pending.
func (s *replSession) command(line string) (handled, exit bool) {
	if s.pending.Len() > 0 {
		return false, false
	}
	cmd := strings.TrimSpace(line)
	if !strings.HasPrefix(cmd, ":") {
		return false, false
	}
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true, true
	case ":help":
		fmt.Fprintln(s.out, "Enter an RPAL expression; it runs once it parses. :quit exits.")
	default:
		fmt.Fprintln(s.out, "unknown command. Type :quit to exit.")
	}
	return true, false
}

// add appends a line and returns the buffered program once it parses or
// fails for a reason more input cannot fix.
func (s *replSession) add(line string) (string, bool) {
	if s.pending.Len() > 0 {
		s.pending.WriteByte('\n')
	}
	s.pending.WriteString(line)
	src := s.pending.String()
	if strings.TrimSpace(src) == "" {
		s.pending.Reset()
		return "", false
	}
	if _, err := parser.Parse(src); err != nil && parser.IsIncomplete(err) {
		return "", false
	}
	s.pending.Reset()
	return src, true
}

// eval runs src and echoes its value unless it is dummy.
func (s *replSession) eval(src string) bool {
	prog, err := driver.Load("<repl>", src)
	if err != nil {
		reportError(s.errOut, err)
		return false
	}
	interp := interpreter.New(interpreter.Options{Stdout: s.out, MaxDepth: s.opts.maxDepth})
	v, err := interp.Evaluate(prog.Root)
	if err != nil {
		fmt.Fprintln(s.out)
		reportError(s.errOut, err)
		return false
	}
	if _, ok := v.(runtime.DummyValue); !ok {
		fmt.Fprint(s.out, interpreter.Expand(v.String()))
	}
	fmt.Fprintln(s.out)
	return true
}
