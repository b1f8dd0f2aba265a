// Package nlp provides linguistic analysis of document text.
// This is a pure package - analysis is computation, not I/O.
//
// The rest of the system treats an Analyzer as an opaque collaborator that
// turns a string into a Result. The built-in implementation is rule based
// and deterministic; it can be replaced by any Analyzer.
package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Analyzer maps text to its linguistic analysis.
type Analyzer interface {
	// Analyze returns analysis of the text. It is safe for concurrent use.
	Analyze(ctx context.Context, text string) (*Result, error)
}

// Result is the analysis of one text. Every field is stored as a separate
// JSONB column of the analyses table.
type Result struct {
	Tokens       []string     `json:"tokens"`
	Lemmas       [][2]string  `json:"lemmas"`
	Morphs       []Morph      `json:"morphs"`
	Dependencies [][3]string  `json:"dependencies"`
	Entities     [][2]string  `json:"entities"`
	WordVectors  []WordVector `json:"word_vectors"`
}

// Morph holds morphological features of a token. It is serialized as a
// two-element JSON array [token, {features}].
type Morph struct {
	Token    string
	Features map[string]string
}

// MarshalJSON implements json.Marshaler.
func (m Morph) MarshalJSON() ([]byte, error) {
	feat := m.Features
	if feat == nil {
		feat = map[string]string{}
	}
	return json.Marshal([]any{m.Token, feat})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Morph) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("morph must have 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &m.Token); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &m.Features)
}

// WordVector keeps per-token vector diagnostics.
type WordVector struct {
	Token      string   `json:"token"`
	HasVector  bool     `json:"has_vector"`
	VectorNorm *float64 `json:"vector_norm"`
	IsOOV      bool     `json:"is_oov"`
}

// Shared is a process-wide Analyzer that is built on first use. Building
// happens once even when the first calls arrive concurrently; later calls
// reuse the cached analyzer or the cached build error.
type Shared struct {
	get func() (Analyzer, error)
}

// NewShared creates a Shared analyzer that calls load on first use.
func NewShared(load func() (Analyzer, error)) *Shared {
	return &Shared{get: sync.OnceValues(load)}
}

// Get returns the analyzer, building it if needed.
func (s *Shared) Get() (Analyzer, error) {
	return s.get()
}

// Analyze implements Analyzer.
func (s *Shared) Analyze(ctx context.Context, text string) (*Result, error) {
	a, err := s.get()
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, text)
}
