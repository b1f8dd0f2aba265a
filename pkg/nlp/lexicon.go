package nlp

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed lexicon.txt
var lexiconData string

type lexicon struct {
	words     map[string]struct{}
	irregular map[string]string
}

func (l *lexicon) known(w string) bool {
	_, ok := l.words[w]
	return ok
}

// loadLexicon parses lexicon.txt. A line is either a known word or
// an irregular form followed by its lemma ("went go").
func loadLexicon() (*lexicon, error) {
	res := &lexicon{
		words:     make(map[string]struct{}),
		irregular: make(map[string]string),
	}
	for i, line := range strings.Split(lexiconData, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch len(fields) {
		case 1:
			res.words[fields[0]] = struct{}{}
		case 2:
			res.irregular[fields[0]] = fields[1]
			res.words[fields[0]] = struct{}{}
			res.words[fields[1]] = struct{}{}
		default:
			return nil, fmt.Errorf("lexicon line %d: cannot parse %q", i+1, line)
		}
	}
	return res, nil
}
