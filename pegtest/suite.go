package pegtest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/tef/peg"
)

// Registry resolves rule names. *peg.Grammar satisfies it.
type Registry interface {
	Rule(name string) (peg.Rule, bool)
}

// Rules is a Registry over a fixed set of rules.
type Rules map[string]peg.Rule

func (r Rules) Rule(name string) (peg.Rule, bool) {
	rule, ok := r[name]
	return rule, ok
}

// Case is one check in a suite.
type Case struct {
	Rule   string `yaml:"rule" json:"rule"`
	Input  string `yaml:"input" json:"input"`
	Result Result `yaml:"result" json:"result"`
	Remain int    `yaml:"remain" json:"remain"`
}

// Suite is a list of checks against one grammar, loaded from YAML:
//
//	name: digits
//	grammar: json
//	cases:
//	  - rule: number
//	    input: "12x"
//	    result: success
//	    remain: 1
type Suite struct {
	Name    string `yaml:"name"`
	Grammar string `yaml:"grammar"`
	Cases   []Case `yaml:"cases"`

	path  string
	lines []int
}

func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSuite(path, data)
}

// ParseSuite decodes a suite. Unknown fields are an error. path is used to
// name the location of each case.
func ParseSuite(path string, data []byte) (*Suite, error) {
	s := &Suite{path: path}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.lines = caseLines(&root)

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// caseLines returns the line each entry of the cases list starts on.
func caseLines(root *yaml.Node) []int {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "cases" {
			continue
		}
		var lines []int
		for _, c := range doc.Content[i+1].Content {
			lines = append(lines, c.Line)
		}
		return lines
	}
	return nil
}

func (s *Suite) validate() error {
	var errs []error
	if len(s.Cases) == 0 {
		errs = append(errs, errors.New("suite has no cases"))
	}
	for i, c := range s.Cases {
		if c.Rule == "" {
			errs = append(errs, fmt.Errorf("%v: case has no rule", s.Location(i)))
		}
		if c.Remain < 0 {
			errs = append(errs, fmt.Errorf("%v: remain must not be negative", s.Location(i)))
		}
	}
	return errors.Join(errs...)
}

// Location is where case i was written.
func (s *Suite) Location(i int) Location {
	loc := Location{File: s.path}
	if i < len(s.lines) {
		loc.Line = s.lines[i]
	}
	return loc
}

// Outcome is the result of one case of a suite.
type Outcome struct {
	Case     Case      `json:"case"`
	Location Location  `json:"location"`
	Mismatch *Mismatch `json:"mismatch,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func (o Outcome) Passed() bool {
	return o.Mismatch == nil && o.Error == ""
}

// Report collects the outcomes of a suite run.
type Report struct {
	Suite    string    `json:"suite"`
	Outcomes []Outcome `json:"outcomes"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
}

func (r *Report) OK() bool { return r.Failed == 0 }

// Err joins the failures of the run.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		switch {
		case o.Mismatch != nil:
			errs = append(errs, o.Mismatch)
		case o.Error != "":
			errs = append(errs, fmt.Errorf("%v: %s", o.Location, o.Error))
		}
	}
	return errors.Join(errs...)
}

// Run checks every case against rules from reg. A case naming a rule reg
// does not have fails.
func (s *Suite) Run(reg Registry) *Report {
	report := &Report{Suite: s.Name, Outcomes: make([]Outcome, 0, len(s.Cases))}
	for i, c := range s.Cases {
		o := Outcome{Case: c, Location: s.Location(i)}
		if rule, ok := reg.Rule(c.Rule); ok {
			o.Mismatch = Check(o.Location, rule, c.Input, c.Result, c.Remain)
		} else {
			o.Error = fmt.Sprintf("unknown rule %q", c.Rule)
		}
		if o.Passed() {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, o)
	}
	return report
}

// RunSuite runs each case of s as a subtest of t.
func RunSuite(t *testing.T, s *Suite, reg Registry) {
	t.Helper()
	for i, c := range s.Cases {
		loc := s.Location(i)
		t.Run(fmt.Sprintf("%s/%d", c.Rule, i), func(t *testing.T) {
			rule, ok := reg.Rule(c.Rule)
			if !ok {
				t.Fatalf("%v: unknown rule %q", loc, c.Rule)
			}
			Verify(t, loc, rule, c.Input, c.Result, c.Remain)
		})
	}
}
