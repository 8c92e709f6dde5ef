// Package pegtest checks single rules against single inputs.
//
// A check runs a rule once, the way a parser would at the top level:
// actions and hooks are inert, actions are enabled and the cursor is
// rewound on failure. The input uses the LF-or-CRLF end-of-line convention
// and starts at the source location of the check, so positions in
// diagnostics point back at the test. The outcome is one of three results:
// a match, an ordinary non-match, or a fatal failure. The remaining input
// length is compared too, except after a fatal failure.
//
//	pegtest.VerifyRule(t, peg.One('x'), "xy", pegtest.Success, 1)
//
// Checks can also be listed in YAML suites, see LoadSuite.
package pegtest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/tef/peg"
)

// Result is the outcome of running a rule.
type Result int

const (
	Success Result = iota
	LocalFailure
	GlobalFailure
)

var resultNames = []string{"success", "local_failure", "global_failure"}

func (r Result) String() string {
	if r >= 0 && int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("result(%d)", int(r))
}

func ParseResult(s string) (Result, error) {
	for i, name := range resultNames {
		if name == s {
			return Result(i), nil
		}
	}
	return 0, fmt.Errorf("unknown result %q: must be one of %v", s, resultNames)
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseResult(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*r = v
	return nil
}

// Location names the place a check was written.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Caller returns the location skip frames above the function calling
// Caller, with the file relative to the working directory.
func Caller(skip int) Location {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{File: "???"}
	}
	if base, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(base, file); err == nil {
			file = rel
		}
	}
	return Location{File: file, Line: line}
}

// Run matches rule against data and reports the result, the number of
// unconsumed bytes, and the fatal error if there was one. The data is read
// as if it started on loc's line of loc's file.
func Run(loc Location, rule peg.Rule, data string) (Result, int, error) {
	in := peg.NewInputAt(loc.File, loc.Line, data, peg.EolLFCRLF)
	ok, err := peg.Dispatch(rule, peg.Env{}, in)
	switch {
	case err != nil:
		return GlobalFailure, in.Size(), err
	case ok:
		return Success, in.Size(), nil
	default:
		return LocalFailure, in.Size(), nil
	}
}

// Mismatch describes a failed check.
type Mismatch struct {
	Loc            Location `json:"location"`
	Input          string   `json:"input"`
	Result         Result   `json:"result"`
	ExpectedResult Result   `json:"expected_result"`
	Remain         int      `json:"remain"`
	ExpectedRemain int      `json:"expected_remain"`
	Err            error    `json:"-"`
}

func (m *Mismatch) Error() string {
	s := fmt.Sprintf("%v: input data [ %q ] result received/expected [ %v / %v ] remain received/expected [ %d / %d ]",
		m.Loc, m.Input, m.Result, m.ExpectedResult, m.Remain, m.ExpectedRemain)
	if m.Err != nil {
		s += ": " + m.Err.Error()
	}
	return s
}

// Check runs rule against data and returns nil when the result and, for
// anything but a fatal failure, the remaining length are as expected.
func Check(loc Location, rule peg.Rule, data string, expected Result, remain int) *Mismatch {
	got, size, err := Run(loc, rule, data)
	if got == expected && (got == GlobalFailure || size == remain) {
		return nil
	}
	return &Mismatch{
		Loc:            loc,
		Input:          data,
		Result:         got,
		ExpectedResult: expected,
		Remain:         size,
		ExpectedRemain: remain,
		Err:            err,
	}
}

type tHelper interface {
	Helper()
}

// Verify is Check reported through t. It returns whether the check passed.
func Verify(t assert.TestingT, loc Location, rule peg.Rule, data string, expected Result, remain int) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if m := Check(loc, rule, data, expected, remain); m != nil {
		return assert.Fail(t, "rule verification failed", m.Error())
	}
	return true
}

// VerifyRule is Verify at the caller's location.
func VerifyRule(t assert.TestingT, rule peg.Rule, data string, expected Result, remain int) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return Verify(t, Caller(1), rule, data, expected, remain)
}
