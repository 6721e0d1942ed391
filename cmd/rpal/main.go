package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/checker"
	"github.com/ludeesha-cse/rpal20/pkg/control"
	"github.com/ludeesha-cse/rpal20/pkg/driver"
	"github.com/ludeesha-cse/rpal20/pkg/interpreter"
)

const cliToolVersion = "rpal-cli 0.0.0-dev"

type options struct {
	printAST bool
	printST  bool
	printCS  bool
	verbose  bool
	debug    bool
	version  bool
	maxDepth int
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log.SetDefaultsForClientTools()
	log.SetLogLevelQuiet(log.Warning)
	if level := strings.TrimSpace(os.Getenv("RPAL_LOG_LEVEL")); level != "" {
		if err := log.SetLogLevelStr(level); err != nil {
			fmt.Fprintf(os.Stderr, "warning: ignoring RPAL_LOG_LEVEL: %v\n", err)
		}
	}

	if len(args) == 0 {
		printUsage(os.Stderr)
		return 2
	}

	opts := &options{maxDepth: interpreter.DefaultMaxDepth}
	rest, code, ok := parseFlags(opts, "rpal", args)
	if !ok {
		return code
	}
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "rpal requires a source file or subcommand")
		printUsage(os.Stderr)
		return 2
	}

	switch rest[0] {
	case "help":
		printUsage(os.Stdout)
		return 0
	case "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run", "check", "repl", "test":
		cmd := rest[0]
		cmdArgs, code, ok := parseFlags(opts, "rpal "+cmd, rest[1:])
		if !ok {
			return code
		}
		switch cmd {
		case "run":
			return runFile(opts, cmdArgs, false)
		case "check":
			return runFile(opts, cmdArgs, true)
		case "repl":
			return runRepl(opts, cmdArgs)
		default:
			return runTest(opts, cmdArgs)
		}
	default:
		return runFile(opts, rest, false)
	}
}

// parseFlags parses args into opts, keeping values set by an earlier pass.
// ok is false when the caller should exit with code.
func parseFlags(opts *options, name string, args []string) (rest []string, code int, ok bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.printAST, "ast", opts.printAST, "print the abstract syntax tree")
	fs.BoolVar(&opts.printST, "st", opts.printST, "print the standardized tree")
	fs.BoolVar(&opts.printCS, "cs", opts.printCS, "print the control structures")
	fs.BoolVar(&opts.verbose, "v", opts.verbose, "verbose logging")
	fs.BoolVar(&opts.debug, "debug", opts.debug, "debug logging")
	fs.BoolVar(&opts.version, "version", opts.version, "print the version")
	fs.BoolVar(&opts.version, "V", opts.version, "print the version")
	fs.IntVar(&opts.maxDepth, "max-depth", opts.maxDepth, "nested application limit (0 for none)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(os.Stdout)
			return nil, 0, false
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		printUsage(os.Stderr)
		return nil, 2, false
	}
	if opts.version {
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return nil, 0, false
	}
	if opts.maxDepth < 0 {
		fmt.Fprintf(os.Stderr, "invalid -max-depth %d\n", opts.maxDepth)
		return nil, 2, false
	}
	switch {
	case opts.debug:
		log.SetLogLevel(log.Debug)
	case opts.verbose:
		log.SetLogLevel(log.Verbose)
	}
	return fs.Args(), 0, true
}

func runFile(opts *options, args []string, checkOnly bool) int {
	if len(args) != 1 {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "rpal requires a source file")
		} else {
			fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		}
		return 2
	}
	path := args[0]
	src, err := driver.ReadSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	name := filepath.Base(path)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	tree, err := driver.Parse(name, src)
	if err != nil {
		reportError(os.Stderr, err)
		return 1
	}
	if opts.printAST {
		_ = ast.Fprint(out, tree.Root)
	}
	prog, err := driver.Prepare(name, tree)
	if err != nil {
		out.Flush()
		reportError(os.Stderr, err)
		return 1
	}
	if opts.printST {
		_ = ast.Fprint(out, prog.Tree.Root)
	}
	if opts.printCS {
		_ = control.Fprint(out, prog.Root)
	}
	if checkOnly {
		out.Flush()
		return reportDiagnostics(name, prog)
	}
	if opts.printAST || opts.printST || opts.printCS {
		return 0
	}

	interp := interpreter.New(interpreter.Options{Stdout: out, MaxDepth: opts.maxDepth})
	if _, err := interp.Evaluate(prog.Root); err != nil {
		out.Flush()
		reportError(os.Stderr, err)
		return 1
	}
	fmt.Fprintln(out)
	return 0
}

// reportDiagnostics runs the static checker and prints what it finds.
func reportDiagnostics(name string, prog *driver.Program) int {
	diags, err := checker.New(interpreter.IsBuiltin).Check(prog.Tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s\n", name, d)
	}
	if len(diags) > 0 {
		return 1
	}
	log.Infof("%s: ok", name)
	return 0
}

func reportError(w io.Writer, err error) {
	var evalErr *interpreter.EvalError
	if errors.As(err, &evalErr) {
		fmt.Fprintf(w, "runtime error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "%v\n", err)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  rpal [flags] <file.rpal>")
	fmt.Fprintln(w, "  rpal run [flags] <file.rpal>")
	fmt.Fprintln(w, "  rpal check [flags] <file.rpal>")
	fmt.Fprintln(w, "  rpal repl")
	fmt.Fprintln(w, "  rpal test [suite.yml ...]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -ast            print the abstract syntax tree")
	fmt.Fprintln(w, "  -st             print the standardized tree")
	fmt.Fprintln(w, "  -cs             print the control structures")
	fmt.Fprintln(w, "  -max-depth N    limit nested applications (0 for none)")
	fmt.Fprintln(w, "  -v, --debug     verbose or debug logging")
	fmt.Fprintln(w, "  -h, --help      show this help")
	fmt.Fprintln(w, "  -V, --version   print the version")
}
