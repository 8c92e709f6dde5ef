package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tef/peg"
	"github.com/tef/peg/analysis"
	"github.com/tef/peg/pegtest"
)

func TestGrammar(t *testing.T) {
	require.NoError(t, Grammar.Check())
	assert.NoError(t, analysis.Analyze(Grammar.Root()).Err())

	s, err := pegtest.LoadSuite("testdata/json.yaml")
	require.NoError(t, err)
	pegtest.RunSuite(t, s, Grammar)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("doc", `{"A":1}`))
	assert.NoError(t, Validate("doc", "[1,2,3]"))
	assert.NoError(t, Validate("doc", `"scalar"`))

	tests := []struct {
		text string
		want string
	}{
		{"", `doc:1:1: expected value (inside "document")`},
		{"[1,]", `doc:1:4: expected value (inside "array")`},
		{`{"a" 1}`, `doc:1:6: expected ':' (inside "member")`},
		{"[1] x", `doc:1:5: expected EOF (inside "document")`},
		{"[\n  1,\n  ]", `doc:3:3: expected value (inside "array")`},
	}
	for _, tt := range tests {
		err := Validate("doc", tt.text)
		require.Error(t, err, "%q", tt.text)
		assert.Equal(t, tt.want, err.Error())
		_, ok := peg.AsParseError(err)
		assert.True(t, ok)
	}
}

func TestDecode(t *testing.T) {
	out, err := Decode("", "[1,2,3]")
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, out)

	out, err = Decode("", `{"A": 1, "b": {"c": [true, false, null, "x\tyé"]}, "e": []}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"A": 1.0,
		"b": map[string]any{"c": []any{true, false, nil, "x\tyé"}},
		"e": []any{},
	}, out)

	out, err = Decode("", " -0.5e1 ")
	require.NoError(t, err)
	assert.Equal(t, -5.0, out)

	_, err = Decode("", "[1e400]")
	require.Error(t, err)
	pe, ok := peg.AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, 2, pe.Pos.Column)
	assert.Equal(t, "number", pe.Rule)
}
