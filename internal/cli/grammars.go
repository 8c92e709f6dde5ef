package cli

import (
	"fmt"
	"sort"

	"github.com/tef/peg"
	"github.com/tef/peg/infix"
	"github.com/tef/peg/json"
)

// grammars are the grammars the commands can name.
var grammars = map[string]*peg.Grammar{
	"json":  json.Grammar,
	"infix": infix.Grammar,
}

func grammarNames() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupGrammar(name string) (*peg.Grammar, error) {
	g, ok := grammars[name]
	if !ok {
		return nil, fmt.Errorf("unknown grammar %q: must be one of %v", name, grammarNames())
	}
	return g, nil
}
