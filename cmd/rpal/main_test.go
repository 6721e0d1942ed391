package main

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.rpal")
	writeFile(t, path, src)
	return path
}

func TestRunFilePrintsOutput(t *testing.T) {
	path := writeProgram(t, "let x = 5 in Print (x + 1)")
	for _, args := range [][]string{{path}, {"run", path}} {
		code, stdout, stderr := captureCLI(t, args)
		if code != 0 {
			t.Fatalf("%v: exit %d, stderr %q", args, code, stderr)
		}
		if stdout != "6\n" {
			t.Fatalf("%v: unexpected stdout %q", args, stdout)
		}
	}
}

func TestRunReportsErrors(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		fragment string
	}{
		{"runtime", "1 eq 'a'", "runtime error: evaluation error at line 1: cannot compare dissimilar types"},
		{"syntax", "let x = 1\nin )", "main.rpal: parser: line 2"},
		{"lexical", "Print 'a\\q'", "lexical error at line 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := captureCLI(t, []string{writeProgram(t, tc.src)})
			if code != 1 {
				t.Fatalf("expected exit 1, got %d", code)
			}
			if !strings.Contains(stderr, tc.fragment) {
				t.Fatalf("expected stderr containing %q, got %q", tc.fragment, stderr)
			}
		})
	}
}

func TestRunKeepsOutputBeforeFailure(t *testing.T) {
	code, stdout, stderr := captureCLI(t, []string{writeProgram(t, "let x = Print 'partial' in 1 / 0")})
	if code != 1 || !strings.Contains(stderr, "division by zero") {
		t.Fatalf("expected division failure, got exit %d stderr %q", code, stderr)
	}
	if stdout != "partial" {
		t.Fatalf("expected partial output, got %q", stdout)
	}
}

func TestPrintTrees(t *testing.T) {
	path := writeProgram(t, "let x = 5 in x")
	cases := []struct {
		flag string
		want string
	}{
		{"-ast", "let\n.=\n..<ID:x>\n..<INT:5>\n.<ID:x>\n"},
		{"-st", "gamma\n.lambda\n..<ID:x>\n..<ID:x>\n.<INT:5>\n"},
		{"-cs", "delta0: gamma delta1 <INT:5>\ndelta1 [x]: <ID:x>\n"},
	}
	for _, tc := range cases {
		code, stdout, stderr := captureCLI(t, []string{tc.flag, path})
		if code != 0 {
			t.Fatalf("%s: exit %d, stderr %q", tc.flag, code, stderr)
		}
		if stdout != tc.want {
			t.Fatalf("%s: expected\n%s\ngot\n%s", tc.flag, tc.want, stdout)
		}
	}
}

func TestCheckDoesNotEvaluate(t *testing.T) {
	code, stdout, stderr := captureCLI(t, []string{"check", writeProgram(t, "Print (1 / (1 - 1))")})
	if code != 0 || stdout != "" {
		t.Fatalf("check: exit %d stdout %q stderr %q", code, stdout, stderr)
	}
	code, _, stderr = captureCLI(t, []string{"check", writeProgram(t, "let x = 1 in Print y")})
	if code != 1 || !strings.Contains(stderr, `main.rpal: line 1: checker: undeclared identifier "y"`) {
		t.Fatalf("check diagnostics: exit %d stderr %q", code, stderr)
	}
	code, _, stderr = captureCLI(t, []string{"check", writeProgram(t, "let in")})
	if code != 1 || !strings.Contains(stderr, "parser") {
		t.Fatalf("check of bad program: exit %d stderr %q", code, stderr)
	}
}

func TestMaxDepthFlag(t *testing.T) {
	path := writeProgram(t, "let rec f n = n eq 0 -> 0 | f (n - 1) in Print (f 100)")
	code, _, stderr := captureCLI(t, []string{"-max-depth", "5", path})
	if code != 1 || !strings.Contains(stderr, "recursion depth exceeded 5") {
		t.Fatalf("expected depth failure, got exit %d stderr %q", code, stderr)
	}
	code, stdout, _ := captureCLI(t, []string{"run", "-max-depth", "0", path})
	if code != 0 || stdout != "0\n" {
		t.Fatalf("unbounded run: exit %d stdout %q", code, stdout)
	}
}

func TestUsageAndVersion(t *testing.T) {
	if code, _, stderr := captureCLI(t, nil); code != 2 || !strings.Contains(stderr, "Usage:") {
		t.Fatalf("no args: exit %d stderr %q", code, stderr)
	}
	if code, stdout, _ := captureCLI(t, []string{"--help"}); code != 0 || !strings.Contains(stdout, "rpal test") {
		t.Fatalf("--help: exit %d stdout %q", code, stdout)
	}
	if code, stdout, _ := captureCLI(t, []string{"-V"}); code != 0 || stdout != cliToolVersion+"\n" {
		t.Fatalf("-V: exit %d stdout %q", code, stdout)
	}
	if code, _, stderr := captureCLI(t, []string{"-bogus", "x.rpal"}); code != 2 || !strings.Contains(stderr, "bogus") {
		t.Fatalf("unknown flag: exit %d stderr %q", code, stderr)
	}
	if code, _, stderr := captureCLI(t, []string{"run", "a.rpal", "b.rpal"}); code != 2 || !strings.Contains(stderr, "unexpected arguments") {
		t.Fatalf("extra args: exit %d stderr %q", code, stderr)
	}
	if code, _, stderr := captureCLI(t, []string{filepath.Join(t.TempDir(), "missing.rpal")}); code != 1 || stderr == "" {
		t.Fatalf("missing file: exit %d stderr %q", code, stderr)
	}
}

func TestRunRepositoryFixtures(t *testing.T) {
	code, stdout, stderr := captureCLI(t, []string{"test", filepath.Join("..", "..", "fixtures", "suite.yml")})
	if code != 0 {
		t.Fatalf("fixtures failed (exit %d):\n%s%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "rpal-programs: 11 passed, 0 failed, 0 skipped") {
		t.Fatalf("unexpected summary:\n%s", stdout)
	}
}

func TestRunFailingSuite(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "suite.yml")
	writeFile(t, manifest, `
name: failing
cases:
  - name: wrong
    program: "Print 1"
    stdout: "2"
`)
	code, stdout, _ := captureCLI(t, []string{"test", manifest})
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout, "FAIL wrong") || !strings.Contains(stdout, "stdout mismatch") {
		t.Fatalf("unexpected report:\n%s", stdout)
	}

	writeFile(t, manifest, "name: broken\n")
	if code, _, stderr := captureCLI(t, []string{"test", manifest}); code != 2 || !strings.Contains(stderr, "at least one") {
		t.Fatalf("invalid manifest: exit %d stderr %q", code, stderr)
	}
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "RPAL CLI",
			Email: "rpal@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestRunGitBackedSuite(t *testing.T) {
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "tests", "square.rpal"), "let Sq x = x * x in Print (Sq 9)")
	commit := initGitRepo(t, repoDir)

	t.Setenv("RPAL_HOME", t.TempDir())
	manifest := filepath.Join(t.TempDir(), "suite.yml")
	writeFile(t, manifest, `
name: remote
source:
  git: `+repoDir+`
  rev: `+commit+`
  path: tests
cases:
  - name: square
    file: square.rpal
    stdout: "81"
`)
	code, stdout, stderr := captureCLI(t, []string{"test", manifest})
	if code != 0 {
		t.Fatalf("git suite failed (exit %d):\n%s%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "@ "+commit) || !strings.Contains(stdout, "ok   square") {
		t.Fatalf("unexpected report:\n%s", stdout)
	}
}

func TestResolveCacheDirEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RPAL_HOME", home)
	got, err := resolveCacheDir()
	if err != nil {
		t.Fatalf("resolveCacheDir: %v", err)
	}
	if want := filepath.Join(home, "suites"); got != want {
		t.Fatalf("resolveCacheDir = %q, want %q", got, want)
	}
}

func TestReplStream(t *testing.T) {
	var out, errOut bytes.Buffer
	s := &replSession{opts: &options{maxDepth: 1000}, out: &out, errOut: &errOut}
	input := "let x = 2\nin x * 3\n\nPrint 'hi'\n:help\n:quit\nPrint 'unreached'\n"
	if code := s.runStream(strings.NewReader(input)); code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut.String())
	}
	want := "6\nhi\nEnter an RPAL expression; it runs once it parses. :quit exits.\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestReplStreamErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	s := &replSession{opts: &options{}, out: &out, errOut: &errOut}
	if code := s.runStream(strings.NewReader("1 eq 'a'\nPrint 2\nlet y = 1\n")); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "2\n") {
		t.Fatalf("expected later programs to run, got %q", out.String())
	}
	stderr := errOut.String()
	if !strings.Contains(stderr, "runtime error") || !strings.Contains(stderr, "parser") {
		t.Fatalf("expected runtime and trailing syntax errors, got %q", stderr)
	}
}

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code := run(args)

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdout = stdout
	os.Stderr = stderr

	outBytes, err := io.ReadAll(rOut)
	if err != nil {
		t.Fatalf("stdout read: %v", err)
	}
	errBytes, err := io.ReadAll(rErr)
	if err != nil {
		t.Fatalf("stderr read: %v", err)
	}

	if err := rOut.Close(); err != nil {
		t.Fatalf("stdout pipe close: %v", err)
	}
	if err := rErr.Close(); err != nil {
		t.Fatalf("stderr pipe close: %v", err)
	}

	return code, string(outBytes), string(errBytes)
}
