package interpreter

import (
	"bytes"
	"fmt"
	"strings"

	"fortio.org/log"
	"github.com/samber/lo"

	"github.com/ludeesha-cse/rpal20/pkg/driver"
)

// CaseStatus is the outcome of one suite case.
type CaseStatus int

const (
	CasePassed CaseStatus = iota
	CaseFailed
	CaseSkipped
)

func (s CaseStatus) String() string {
	switch s {
	case CasePassed:
		return "ok"
	case CaseFailed:
		return "FAIL"
	case CaseSkipped:
		return "skip"
	default:
		return fmt.Sprintf("CaseStatus(%d)", int(s))
	}
}

// CaseResult records what a case printed and why it failed, if it did.
type CaseResult struct {
	Name   string
	Status CaseStatus
	Reason string
	Stdout string
}

// SuiteResult collects case results in manifest order.
type SuiteResult struct {
	Suite *driver.Suite
	Cases []CaseResult
}

func (r *SuiteResult) count(status CaseStatus) int {
	return lo.CountBy(r.Cases, func(c CaseResult) bool { return c.Status == status })
}

func (r *SuiteResult) Passed() int  { return r.count(CasePassed) }
func (r *SuiteResult) Failed() int  { return r.count(CaseFailed) }
func (r *SuiteResult) Skipped() int { return r.count(CaseSkipped) }

// OK reports whether no case failed.
func (r *SuiteResult) OK() bool { return r.Failed() == 0 }

// Failures returns the failed cases.
func (r *SuiteResult) Failures() []CaseResult {
	return lo.Filter(r.Cases, func(c CaseResult, _ int) bool { return c.Status == CaseFailed })
}

// RunSuite runs every case of suite with a fresh interpreter per case.
// Git-backed suites must already be fetched. opts.Stdout is ignored; each
// case's output is captured for comparison.
func RunSuite(suite *driver.Suite, opts Options) *SuiteResult {
	result := &SuiteResult{Suite: suite, Cases: make([]CaseResult, 0, len(suite.Cases))}
	for _, c := range suite.Cases {
		res := RunCase(suite, c, opts)
		log.LogVf("suite %s: %s %s", suite.Name, res.Status, res.Name)
		result.Cases = append(result.Cases, res)
	}
	return result
}

// RunCase loads and evaluates one case, then checks it against its expectation.
func RunCase(suite *driver.Suite, c *driver.Case, opts Options) CaseResult {
	res := CaseResult{Name: c.Name}
	if c.Skip {
		res.Status = CaseSkipped
		return res
	}
	name, src, err := c.Source(suite.Dir)
	if err != nil {
		res.Status = CaseFailed
		res.Reason = err.Error()
		return res
	}

	var out bytes.Buffer
	err = runProgram(name, src, &out, opts.MaxDepth)
	res.Stdout = out.String()
	if reason := checkOutcome(c, res.Stdout, err); reason != "" {
		res.Status = CaseFailed
		res.Reason = reason
		return res
	}
	res.Status = CasePassed
	return res
}

func runProgram(name, src string, out *bytes.Buffer, maxDepth int) error {
	prog, err := driver.Load(name, src)
	if err != nil {
		return err
	}
	_, err = New(Options{Stdout: out, MaxDepth: maxDepth}).Evaluate(prog.Root)
	return err
}

// checkOutcome returns an empty string when the case met its expectation.
func checkOutcome(c *driver.Case, stdout string, err error) string {
	if c.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected error containing %q, program succeeded", c.Error)
		}
		if !strings.Contains(err.Error(), c.Error) {
			return fmt.Sprintf("expected error containing %q, got %q", c.Error, err.Error())
		}
		return ""
	}
	if err != nil {
		return fmt.Sprintf("unexpected error: %v", err)
	}
	want := strings.TrimRight(c.Stdout, "\n")
	got := strings.TrimRight(stdout, "\n")
	if want != got {
		return fmt.Sprintf("stdout mismatch: expected %q, got %q", want, got)
	}
	return ""
}
