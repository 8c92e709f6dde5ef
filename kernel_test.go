package peg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tef/peg"
	"github.com/tef/peg/pegtest"
	"github.com/tef/peg/trace"
)

// counter records every rule an action was applied to.
type counter struct {
	rules []string
}

func (c *counter) Apply(r peg.Rule, _ peg.Match, _ any) error {
	c.rules = append(c.rules, peg.Describe(r))
	return nil
}

func TestScenarios(t *testing.T) {
	x := peg.One('x')
	pegtest.VerifyRule(t, x, "x", pegtest.Success, 0)
	pegtest.VerifyRule(t, x, "y", pegtest.LocalFailure, 1)
	pegtest.VerifyRule(t, peg.Seq(peg.One('a'), peg.One('b')), "ac", pegtest.LocalFailure, 2)
	pegtest.VerifyRule(t, peg.Disable(peg.One('a')), "a", pegtest.Success, 0)

	c := &counter{}
	ok, err := peg.Parse(peg.Disable(peg.One('a')), peg.NewInput("", "a", peg.EolLFCRLF), peg.WithAction(c))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, c.rules)
}

func TestActionsFire(t *testing.T) {
	c := &counter{}
	in := peg.NewInput("", "ab", peg.EolLFCRLF)
	ok, err := peg.Parse(peg.Seq(peg.One('a'), peg.One('b')), in, peg.WithAction(c))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"'a'", "'b'", "('a' 'b')"}, c.rules)

	c = &counter{}
	in = peg.NewInput("", "ab", peg.EolLFCRLF)
	_, err = peg.Parse(peg.Seq(peg.One('a'), peg.One('b')), in, peg.WithAction(c), peg.WithApplyMode(peg.ApplyDisabled))
	require.NoError(t, err)
	assert.Empty(t, c.rules)
}

func TestRewind(t *testing.T) {
	ab := peg.Seq(peg.One('a'), peg.One('b'))

	in := peg.NewInput("", "ac", peg.EolLFCRLF)
	ok, err := peg.Parse(ab, in)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, in.Position().Byte)

	in = peg.NewInput("", "ac", peg.EolLFCRLF)
	ok, err = peg.Parse(ab, in, peg.WithRewindMode(peg.RewindOptional))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, in.Position().Byte)

	// alternatives are always rewound before the next is tried
	in = peg.NewInput("", "ac", peg.EolLFCRLF)
	ok, err = peg.Parse(peg.Sor(ab, peg.Str("ac")), in, peg.WithRewindMode(peg.RewindOptional))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, in.Size())
}

func TestDisableMatchesLikeSeq(t *testing.T) {
	rules := []peg.Rule{peg.One('a'), peg.Opt(peg.One('b')), peg.Must(peg.One('c'))}
	inputs := []string{"", "a", "ac", "abc", "abcd", "ab", "x", "abx"}
	loc := pegtest.Location{File: "disable", Line: 1}

	for _, input := range inputs {
		want, wantRemain, wantErr := pegtest.Run(loc, peg.Seq(rules...), input)
		got, gotRemain, gotErr := pegtest.Run(loc, peg.Disable(rules...), input)
		assert.Equal(t, want, got, "input %q", input)
		if want != pegtest.GlobalFailure {
			assert.Equal(t, wantRemain, gotRemain, "input %q", input)
		}
		assert.Equal(t, wantErr == nil, gotErr == nil, "input %q", input)
	}

	pegtest.VerifyRule(t, peg.Disable(), "abc", pegtest.Success, 3)
	pegtest.VerifyRule(t, peg.Disable(), "", pegtest.Success, 0)
}

func TestDisableHooks(t *testing.T) {
	rec := &trace.Recorder{}
	c := &counter{}
	in := peg.NewInput("", "a", peg.EolLFCRLF)
	ok, err := peg.Parse(peg.Disable(peg.One('a')), in, peg.WithControl(rec), peg.WithAction(c))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 0, rec.Count(trace.Start, "disable('a')"))
	assert.Equal(t, 1, rec.Count(trace.Start, "'a'"))
	assert.Equal(t, 1, rec.Count(trace.Success, "'a'"))
	assert.Len(t, rec.Events, 2)
	assert.Empty(t, c.rules)
}

func TestDisableKeepsFatalErrors(t *testing.T) {
	rule := peg.Disable(peg.One('a'), peg.Must(peg.One('b')))
	pegtest.VerifyRule(t, rule, "ac", pegtest.GlobalFailure, 0)

	in := peg.NewInput("", "ac", peg.EolLFCRLF)
	_, err := peg.Parse(rule, in, peg.WithRewindMode(peg.RewindOptional))
	require.Error(t, err)
	assert.Equal(t, 1, in.Position().Byte)
}

func TestEnable(t *testing.T) {
	c := &counter{}
	rule := peg.Disable(peg.One('a'), peg.Enable(peg.One('b')))
	in := peg.NewInput("", "ab", peg.EolLFCRLF)
	ok, err := peg.Parse(rule, in, peg.WithAction(c))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"'b'"}, c.rules)
}

func TestFatalErrors(t *testing.T) {
	rec := &trace.Recorder{}
	in := peg.NewInput("", "b", peg.EolLFCRLF)
	rule := peg.Sor(peg.Must(peg.One('a')), peg.One('b'))

	ok, err := peg.Parse(rule, in, peg.WithControl(rec))
	assert.False(t, ok)
	require.Error(t, err)
	assert.Equal(t, "1:1: expected 'a'", err.Error())

	// the second alternative is never tried
	assert.Equal(t, 0, rec.Count(trace.Start, "'b'"))
	assert.Equal(t, 1, rec.Count(trace.Raise, "must('a')"))
	assert.Equal(t, 1, rec.Count(trace.Raise, "(must('a') / 'b')"))
	assert.Equal(t, 0, rec.Count(trace.Failure, "(must('a') / 'b')"))
	assert.Equal(t, 0, in.Position().Byte)

	pegtest.VerifyRule(t, peg.Star(peg.One('a'), peg.Raise("stop")), "aa", pegtest.GlobalFailure, 0)
	pegtest.VerifyRule(t, peg.Opt(peg.Raise("stop")), "", pegtest.GlobalFailure, 0)
	pegtest.VerifyRule(t, peg.At(peg.Raise("stop")), "", pegtest.GlobalFailure, 0)
}

func TestActionErrors(t *testing.T) {
	boom := errors.New("boom")
	action := peg.ActionFunc(func(r peg.Rule, m peg.Match, _ any) error {
		if m.String() == "b" {
			return boom
		}
		return nil
	})
	in := peg.NewInput("src", "ab", peg.EolLFCRLF)
	ok, err := peg.Parse(peg.Seq(peg.One('a'), peg.One('b')), in, peg.WithAction(action))
	assert.False(t, ok)
	require.ErrorIs(t, err, boom)

	pe, isParse := peg.AsParseError(err)
	require.True(t, isParse)
	assert.Equal(t, 2, pe.Pos.Column)
	assert.Equal(t, "src:1:2: boom", pe.Error())
}

func TestLineTracking(t *testing.T) {
	in := peg.NewInput("", "a\r\nb", peg.EolLFCRLF)
	ok, err := peg.Parse(peg.Seq(peg.One('a'), peg.Newline()), in)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, in.Position().Line)
	assert.Equal(t, 1, in.Position().Column)

	c, _ := in.Peek()
	assert.Equal(t, 'b', c)

	// the raise lands just after the '!'
	rule := peg.Seq(peg.Star(peg.NotOne('!')), peg.One('!'), peg.Raise("stop"))
	tests := []struct {
		eol    peg.Eol
		input  string
		line   int
		column int
		text   string
		caret  string
	}{
		{peg.EolLFCRLF, "a\nb\r\n!c", 3, 2, "!c", "!c\n-^"},
		{peg.EolLFCRLF, "a\r!b", 1, 4, "a\r!b", "a\r!b\n---^"},
		{peg.EolLF, "a\r\n!c", 2, 2, "!c", "!c\n-^"},
		{peg.EolCR, "a\r!b\r\nc", 2, 2, "!b", "!b\n-^"},
		{peg.EolCRLF, "a\nb\r\n!c", 2, 2, "!c", "!c\n-^"},
		{peg.EolCRLF, "a\n!b", 1, 4, "a\n!b", "a\n!b\n---^"},
		{peg.EolAny, "a\r\n!b", 2, 2, "!b", "!b\n-^"},
		{peg.EolAny, "a\r!b\nc", 2, 2, "!b", "!b\n-^"},
		{peg.EolAny, "a\rb\r\nc\n!", 4, 2, "!", "!\n-^"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%q", tt.eol, tt.input), func(t *testing.T) {
			in := peg.NewInput("", tt.input, tt.eol)
			_, err := peg.Parse(rule, in)
			pe, ok := peg.AsParseError(err)
			require.True(t, ok)
			assert.Equal(t, tt.line, pe.Pos.Line)
			assert.Equal(t, tt.column, pe.Pos.Column)
			assert.Equal(t, tt.text, pe.Line)
			assert.Equal(t, tt.caret, pe.Caret())
		})
	}

	in = peg.NewInput("", "a\r\nb", peg.EolAny)
	ok, err = peg.Parse(peg.Seq(peg.One('a'), peg.Newline()), in)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2:1", in.Position().String())
	assert.Equal(t, "b", in.Line(in.Position()))

	in = peg.NewInput("", "a\nb", peg.EolCRLF)
	in.Bump(3)
	assert.Equal(t, "1:4", in.Position().String())
	in = peg.NewInput("", "a\nb", peg.EolCRLF)
	in.Bump(2)
	assert.Equal(t, "1:3", in.Position().String())

	in = peg.NewInputAt("f", 7, "a\nb", peg.EolLF)
	in.Bump(3)
	assert.Equal(t, "f:8:2", in.Position().String())
}

func TestEolRule(t *testing.T) {
	nl := peg.Newline()
	tests := []struct {
		eol    peg.Eol
		input  string
		result pegtest.Result
		remain int
	}{
		{peg.EolLFCRLF, "\n", pegtest.Success, 0},
		{peg.EolLFCRLF, "\r\n", pegtest.Success, 0},
		{peg.EolLFCRLF, "\r", pegtest.LocalFailure, 1},
		{peg.EolLF, "\r\n", pegtest.LocalFailure, 2},
		{peg.EolCR, "\r\n", pegtest.Success, 1},
		{peg.EolCRLF, "\n", pegtest.LocalFailure, 1},
		{peg.EolAny, "\r", pegtest.Success, 0},
		{peg.EolAny, "\r\n", pegtest.Success, 0},
	}
	for _, tt := range tests {
		in := peg.NewInput("", tt.input, tt.eol)
		ok, err := peg.Parse(nl, in)
		require.NoError(t, err)
		assert.Equal(t, tt.result == pegtest.Success, ok, "%v %q", tt.eol, tt.input)
		assert.Equal(t, tt.remain, in.Size(), "%v %q", tt.eol, tt.input)
	}
}

func TestParseEol(t *testing.T) {
	for _, e := range []peg.Eol{peg.EolLFCRLF, peg.EolLF, peg.EolCR, peg.EolCRLF, peg.EolAny} {
		got, err := peg.ParseEol(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	_, err := peg.ParseEol("dos")
	assert.Error(t, err)
}
