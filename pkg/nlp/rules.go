package nlp

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const vectorDims = 64

// ruleAnalyzer is the built-in Analyzer. It segments text with Unicode
// UAX #29 rules and derives the rest of the analysis from a small English
// lexicon and spelling heuristics.
type ruleAnalyzer struct {
	lex   *lexicon
	lower cases.Caser
}

// NewRuleAnalyzer builds the built-in analyzer. Building parses the
// embedded lexicon, so the result should be shared, see NewShared.
func NewRuleAnalyzer() (Analyzer, error) {
	lex, err := loadLexicon()
	if err != nil {
		return nil, err
	}
	return &ruleAnalyzer{lex: lex, lower: cases.Lower(language.Und)}, nil
}

// Analyze implements Analyzer.
func (r *ruleAnalyzer) Analyze(
	ctx context.Context,
	text string,
) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Tokens:       []string{},
		Lemmas:       [][2]string{},
		Morphs:       []Morph{},
		Dependencies: [][3]string{},
		Entities:     [][2]string{},
		WordVectors:  []WordVector{},
	}

	sents := sentences.FromString(text)
	for sents.Next() {
		toks := tokenize(sents.Value())
		if len(toks) == 0 {
			continue
		}
		r.sentence(res, toks)
	}
	return res, nil
}

func (r *ruleAnalyzer) sentence(res *Result, toks []string) {
	rootIdx := 0
	for i, t := range toks {
		if kindOf(t) == kindWord {
			rootIdx = i
			break
		}
	}
	root := toks[rootIdx]

	var ent []string
	flush := func() {
		if len(ent) > 0 {
			res.Entities = append(res.Entities,
				[2]string{strings.Join(ent, " "), "MISC"})
			ent = nil
		}
	}

	for i, t := range toks {
		kind := kindOf(t)
		lower := r.lower.String(t)
		lemma, plural := r.lemma(lower, kind)

		res.Tokens = append(res.Tokens, t)
		res.Lemmas = append(res.Lemmas, [2]string{t, lemma})
		res.Morphs = append(res.Morphs, Morph{Token: t, Features: features(t, kind, plural)})

		switch {
		case i == rootIdx:
			res.Dependencies = append(res.Dependencies, [3]string{t, "ROOT", t})
		case kind == kindPunct:
			res.Dependencies = append(res.Dependencies, [3]string{t, "punct", root})
		default:
			res.Dependencies = append(res.Dependencies, [3]string{t, "dep", root})
		}

		res.WordVectors = append(res.WordVectors, r.vector(t, lower, kind))

		switch {
		case kind == kindNumber:
			flush()
			res.Entities = append(res.Entities, [2]string{t, "CARDINAL"})
		case kind == kindWord && isCapitalized(t):
			// a capitalized known word opening a sentence is not a name
			if i == 0 && r.lex.known(lower) {
				continue
			}
			ent = append(ent, t)
		default:
			flush()
		}
	}
	flush()
}

// lemma returns the dictionary form of a lower-cased token and whether
// a plural suffix was removed.
func (r *ruleAnalyzer) lemma(lower string, kind tokenKind) (string, bool) {
	if kind != kindWord {
		return lower, false
	}
	if l, ok := r.lex.irregular[lower]; ok {
		return l, false
	}
	n := utf8.RuneCountInString(lower)
	switch {
	case n > 4 && strings.HasSuffix(lower, "ies"):
		return strings.TrimSuffix(lower, "ies") + "y", true
	case strings.HasSuffix(lower, "sses"):
		return strings.TrimSuffix(lower, "es"), true
	case n > 3 && strings.HasSuffix(lower, "s") &&
		!strings.HasSuffix(lower, "ss") && !strings.HasSuffix(lower, "us") &&
		!strings.HasSuffix(lower, "is") && !r.lex.known(lower):
		return strings.TrimSuffix(lower, "s"), true
	case n > 5 && strings.HasSuffix(lower, "ing"):
		return strings.TrimSuffix(lower, "ing"), false
	case n > 4 && strings.HasSuffix(lower, "ed") && !r.lex.known(lower):
		return strings.TrimSuffix(lower, "ed"), false
	}
	return lower, false
}

// vector computes an L2 norm of hashed character trigrams of a word.
func (r *ruleAnalyzer) vector(tok, lower string, kind tokenKind) WordVector {
	wv := WordVector{Token: tok, IsOOV: true}
	if kind != kindWord {
		return wv
	}
	var v [vectorDims]float64
	padded := []rune("<" + lower + ">")
	for i := 0; i+3 <= len(padded); i++ {
		h := fnv.New32a()
		_, _ = h.Write([]byte(string(padded[i : i+3])))
		v[h.Sum32()%vectorDims]++
	}
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	wv.HasVector = true
	wv.VectorNorm = &norm
	wv.IsOOV = !r.lex.known(lower)
	return wv
}

type tokenKind int

const (
	kindWord tokenKind = iota
	kindNumber
	kindPunct
)

// tokenize splits a sentence into words dropping whitespace segments.
func tokenize(s string) []string {
	var res []string
	seg := words.FromString(s)
	for seg.Next() {
		t := seg.Value()
		if strings.TrimSpace(t) == "" {
			continue
		}
		res = append(res, t)
	}
	return res
}

func kindOf(t string) tokenKind {
	var letters, digits int
	for _, r := range t {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	switch {
	case letters > 0:
		return kindWord
	case digits > 0:
		return kindNumber
	default:
		return kindPunct
	}
}

func isCapitalized(t string) bool {
	r, _ := utf8.DecodeRuneInString(t)
	return unicode.IsUpper(r)
}

func features(t string, kind tokenKind, plural bool) map[string]string {
	switch kind {
	case kindNumber:
		return map[string]string{"NumType": "Card"}
	case kindPunct:
		return map[string]string{"PunctType": "Punct"}
	}
	res := map[string]string{"Shape": shape(t), "Number": "Sing"}
	if plural {
		res["Number"] = "Plur"
	}
	return res
}

// shape maps letters to X/x and digits to d, collapsing runs longer
// than four characters.
func shape(t string) string {
	var b strings.Builder
	var last rune
	run := 0
	for _, r := range t {
		c := r
		switch {
		case unicode.IsUpper(r):
			c = 'X'
		case unicode.IsLetter(r):
			c = 'x'
		case unicode.IsDigit(r):
			c = 'd'
		}
		if c == last {
			run++
		} else {
			run = 1
			last = c
		}
		if run <= 4 {
			b.WriteRune(c)
		}
	}
	return b.String()
}
