package trace

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tef/peg"
)

func choice() peg.Rule {
	return peg.Sor(
		peg.Seq(peg.One('a'), peg.One('b')),
		peg.Seq(peg.One('a'), peg.Must(peg.One('c'))),
	)
}

func TestRecorderGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	rec := &Recorder{}
	ok, err := peg.Parse(choice(), peg.NewInput("", "ac", peg.EolLFCRLF), peg.WithControl(rec))
	require.NoError(t, err)
	assert.True(t, ok)
	g.Assert(t, "sor_success", []byte(rec.Text()))

	rec.Reset()
	_, err = peg.Parse(choice(), peg.NewInput("", "ax", peg.EolLFCRLF), peg.WithControl(rec))
	require.Error(t, err)
	g.Assert(t, "sor_raise", []byte(rec.Text()))
	assert.Equal(t, 3, rec.Count(Raise, "must('c')")+rec.Count(Raise, "('a' must('c'))")+rec.Count(Raise, "(('a' 'b') / ('a' must('c')))"))
}

func TestRecorderSkipsCompositionRules(t *testing.T) {
	rec := &Recorder{}
	rule := peg.Opt(peg.Disable(peg.One('a'), peg.One('b')))
	ok, err := peg.Parse(rule, peg.NewInput("", "ab", peg.EolLFCRLF), peg.WithControl(rec))
	require.NoError(t, err)
	assert.True(t, ok)

	var rules []string
	for _, e := range rec.Events {
		if e.Kind == Start {
			rules = append(rules, e.Rule)
		}
	}
	assert.Equal(t, []string{"disable('a' 'b')?", "'a'", "'b'"}, rules)
	assert.Equal(t, 0, rec.Events[len(rec.Events)-1].Depth)
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLogger(zap.New(core))

	_, err := peg.Parse(choice(), peg.NewInput("input", "ax", peg.EolLFCRLF), peg.WithControl(log))
	require.Error(t, err)

	assert.Equal(t, 8, logs.FilterMessage("start").Len())
	assert.Equal(t, 3, logs.FilterMessage("raise").Len())

	raises := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, raises, 3)
	first := raises[0]
	assert.Equal(t, "peg", first.LoggerName)
	assert.Equal(t, "must('c')", first.ContextMap()["rule"])
	assert.Equal(t, "input:1:2", first.ContextMap()["pos"])
	assert.Equal(t, "input:1:2: expected 'c'", first.ContextMap()["error"])
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	core, logs := observer.New(zapcore.DebugLevel)
	m := Multi{a, b, NewLogger(zap.New(core))}

	_, err := peg.Parse(choice(), peg.NewInput("", "ac", peg.EolLFCRLF), peg.WithControl(m))
	require.NoError(t, err)
	assert.Equal(t, a.Events, b.Events)
	assert.Len(t, a.Events, 16)
	assert.Equal(t, 16, logs.Len())

	assert.NotPanics(t, func() {
		NewLogger(nil).Start(peg.One('a'), peg.NewInput("", "", peg.EolLF), nil)
	})
}
