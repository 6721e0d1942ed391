package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suite represents the parsed contents of a fixture suite manifest.
type Suite struct {
	Path string
	// Dir is where case files are resolved. It starts as the manifest's
	// directory and moves into the checkout once a git source is fetched.
	Dir    string
	Name   string
	Source *SourceSpec
	Cases  []*Case
}

// SourceSpec points a suite at program files kept in a git repository.
type SourceSpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	// Path is a subdirectory of the checkout holding the case files.
	Path string
}

// Case is one program with its expected outcome.
type Case struct {
	Name    string
	File    string
	Program string
	// Stdout is compared with everything the program printed.
	Stdout string
	// Error, when set, must appear in the failure message.
	Error string
	Skip  bool
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadSuite parses a suite manifest from disk, returning a validated suite.
func LoadSuite(path string) (*Suite, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw suiteFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	suite := raw.toSuite(absPath)
	if err := suite.validate(); err != nil {
		return nil, err
	}
	return suite, nil
}

func (s *Suite) validate() error {
	var errs ValidationError
	if s.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if len(s.Cases) == 0 {
		errs.Issues = append(errs.Issues, "cases must list at least one program")
	}
	if src := s.Source; src != nil {
		if src.Git == "" {
			errs.Issues = append(errs.Issues, "source.git must be provided")
		}
		set := 0
		for _, v := range []string{src.Rev, src.Tag, src.Branch} {
			if v != "" {
				set++
			}
		}
		if set > 1 {
			errs.Issues = append(errs.Issues, "source may specify only one of rev, tag, or branch")
		}
	}

	seen := make(map[string]struct{}, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d] missing name", i))
		} else if _, dup := seen[c.Name]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("case %q defined more than once", c.Name))
		} else {
			seen[c.Name] = struct{}{}
		}
		if (c.File == "") == (c.Program == "") {
			errs.Issues = append(errs.Issues, fmt.Sprintf("case %q must set exactly one of file or program", c.Name))
		}
		if c.Stdout != "" && c.Error != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("case %q cannot expect both stdout and error", c.Name))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Find looks up a case by name.
func (s *Suite) Find(name string) (*Case, bool) {
	for _, c := range s.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Source returns a display name and the program text for c, reading case
// files relative to dir.
func (c *Case) Source(dir string) (string, string, error) {
	if c.Program != "" {
		return c.Name, c.Program, nil
	}
	path := c.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	src, err := ReadSource(path)
	if err != nil {
		return "", "", fmt.Errorf("case %q: %w", c.Name, err)
	}
	return filepath.Base(path), src, nil
}

type suiteFile struct {
	Name   string      `yaml:"name"`
	Source *sourceYAML `yaml:"source"`
	Cases  []caseYAML  `yaml:"cases"`
}

type sourceYAML struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

type caseYAML struct {
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	Program string `yaml:"program"`
	Stdout  string `yaml:"stdout"`
	Error   string `yaml:"error"`
	Skip    bool   `yaml:"skip"`
}

func (sf suiteFile) toSuite(path string) *Suite {
	suite := &Suite{
		Path:  path,
		Dir:   filepath.Dir(path),
		Name:  strings.TrimSpace(sf.Name),
		Cases: make([]*Case, 0, len(sf.Cases)),
	}
	if sf.Source != nil {
		suite.Source = &SourceSpec{
			Git:    strings.TrimSpace(sf.Source.Git),
			Rev:    strings.TrimSpace(sf.Source.Rev),
			Tag:    strings.TrimSpace(sf.Source.Tag),
			Branch: strings.TrimSpace(sf.Source.Branch),
			Path:   strings.TrimSpace(sf.Source.Path),
		}
	}
	for _, c := range sf.Cases {
		suite.Cases = append(suite.Cases, &Case{
			Name:    strings.TrimSpace(c.Name),
			File:    strings.TrimSpace(c.File),
			Program: c.Program,
			Stdout:  c.Stdout,
			Error:   strings.TrimSpace(c.Error),
			Skip:    c.Skip,
		})
	}
	return suite
}
