package models

import "fmt"

// Mode selects which optional query clauses are layered onto the base
// retrieval query.
type Mode string

// Search modes.
const (
	ModeKeyword  Mode = "keyword"
	ModeSemantic Mode = "semantic"
	ModeHybrid   Mode = "hybrid"
)

// Valid reports whether m is a known search mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeKeyword, ModeSemantic, ModeHybrid:
		return true
	}
	return false
}

// SearchRequest is a property search request.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
	Mode  Mode   `json:"mode,omitempty"`
}

// Search limit bounds.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// Validate ensures the request has valid fields and sets defaults. The query
// must be non-empty; the limit is clamped to [1, MaxSearchLimit]; an unset
// mode defaults to hybrid and an unknown mode is an error.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if r.Limit <= 0 {
		r.Limit = DefaultSearchLimit
	}
	if r.Limit > MaxSearchLimit {
		r.Limit = MaxSearchLimit
	}
	if r.Mode == "" {
		r.Mode = ModeHybrid
	}
	if !r.Mode.Valid() {
		return fmt.Errorf("unknown search mode %q", r.Mode)
	}
	return nil
}
