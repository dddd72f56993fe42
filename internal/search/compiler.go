// Package search provides the ranking query compiler, the search engine, and
// the recommendation and aggregation engines.
package search

import "github.com/smartdwell/dwellsearch/internal/models"

// Field boosts for the base disjunction.
var baseMatchFields = []string{
	"name^3",
	"description^2",
	"property_type^2",
	"city^2",
	"locality",
	"amenities",
}

// Compiler compiles {query, mode} into a ranking query for the document
// store. It is pure: the same inputs and capability flag always produce the
// same compiled body. The AI capability is fixed at construction (process
// startup), never probed per request.
type Compiler struct {
	aiAvailable bool
}

// NewCompiler returns a compiler. aiAvailable reports whether the AI
// subsystem initialized at startup; when false, semantic and hybrid modes
// silently degrade to the keyword base query.
func NewCompiler(aiAvailable bool) *Compiler {
	return &Compiler{aiAvailable: aiAvailable}
}

// Compile builds the ranking query for the given raw query string and mode.
// It returns the query body and the mode actually used, which callers must
// attach to results so degradation stays observable.
//
// The semantic and hybrid augmentations widen the fuzzy text match over
// structured audience/feature fields; they do not consult the stored
// embedding vector.
func (c *Compiler) Compile(query string, mode models.Mode) (map[string]any, models.Mode) {
	should := []any{
		map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    baseMatchFields,
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
		map[string]any{
			"match": map[string]any{
				"combined_text": map[string]any{
					"query": query,
					"boost": 1.5,
				},
			},
		},
	}

	served := mode
	switch {
	case mode == models.ModeSemantic && c.aiAvailable:
		should = append(should,
			matchClause("target_audience", query, 2.5),
			matchClause("special_features", query, 1.5),
			matchClause("platform_focus", query, 1.2),
		)
	case mode == models.ModeHybrid && c.aiAvailable:
		should = append(should,
			matchClause("target_audience", query, 2.0),
			matchClause("special_features", query, 1.5),
		)
	default:
		served = models.ModeKeyword
	}

	body := map[string]any{
		"bool": map[string]any{
			"should":               should,
			"minimum_should_match": 1,
		},
	}
	return body, served
}

func matchClause(field, query string, boost float64) map[string]any {
	return map[string]any{
		"match": map[string]any{
			field: map[string]any{
				"query": query,
				"boost": boost,
			},
		},
	}
}
