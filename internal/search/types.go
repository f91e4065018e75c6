// Package search classifies queries and executes the matching strategy
// against the index store, producing ranked results.
package search

import "github.com/webstash/webstash/internal/store"

// Intent is the query execution strategy.
type Intent string

const (
	// IntentEnumerate lists items of one or all source types by recency
	// instead of lexically matching.
	IntentEnumerate Intent = "enumerate"

	// IntentKeyword is the default tokenized term search with heuristic
	// scoring.
	IntentKeyword Intent = "keyword"
)

// Language tags which vocabulary a classification rule belongs to.
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// SearchResult pairs an item with its ranking signals. Score is derived
// from content, relevance from match position; both feed ranking and are
// never persisted.
type SearchResult struct {
	Item      store.IndexedItem `json:"item"`
	Score     float64           `json:"score"`
	Relevance float64           `json:"relevance"`
}
