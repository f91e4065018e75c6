package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/webstash/webstash/internal/store"
)

// Scoring weights for keyword results. An exact title hit dominates the
// position-derived relevance, which only breaks ties between near-equal
// scores.
const (
	scoreExactTitle     = 10.0
	scoreTitleContains  = 5.0
	scoreContentMatches = 2.0
	scoreRecent         = 1.0
	scoreBookmarkBonus  = 0.5

	recentWindow = 30 * 24 * time.Hour

	// enumerationBaseScore pins list results above any keyword score so
	// timestamp order survives the shared rank key.
	enumerationBaseScore = 100.0
)

// DefaultLimit applies when the caller passes a non-positive limit.
const DefaultLimit = 10

// Engine executes classified queries against an IndexStore.
type Engine struct {
	store      *store.IndexStore
	classifier *Classifier
}

// NewEngine creates a query engine over s.
func NewEngine(s *store.IndexStore) *Engine {
	return &Engine{
		store:      s,
		classifier: NewClassifier(),
	}
}

// Search classifies query and runs the matching strategy. It never fails:
// an empty or whitespace query, an empty index, or an internal search
// error all yield an empty or partial result set.
func (e *Engine) Search(ctx context.Context, query string, limit int) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if e.classifier.Classify(query) == IntentEnumerate {
		return e.searchEnumerate(ctx, query, limit)
	}
	return e.searchKeyword(ctx, query, limit)
}

// searchEnumerate lists items of the named source types (all three when
// none is named), newest first.
func (e *Engine) searchEnumerate(ctx context.Context, query string, limit int) []SearchResult {
	types := DetectTypes(query)
	wanted := map[store.ItemType]bool{}
	for _, t := range types {
		wanted[t] = true
	}

	var items []store.IndexedItem
	for _, it := range e.store.All(ctx) {
		if len(wanted) > 0 && !wanted[it.Type] {
			continue
		}
		items = append(items, it)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
	if len(items) > limit {
		items = items[:limit]
	}

	results := make([]SearchResult, 0, len(items))
	for i, it := range items {
		results = append(results, SearchResult{
			Item:      it,
			Score:     enumerationBaseScore,
			Relevance: positionRelevance(i, limit),
		})
	}
	return results
}

// searchKeyword extracts terms from the cleaned query, unions their
// prefix-match ids in first-seen order, scores each matched item, and
// ranks by score plus relevance.
func (e *Engine) searchKeyword(ctx context.Context, query string, limit int) []SearchResult {
	cleaned := stripStopWords(strings.ToLower(query))
	terms := extractTerms(cleaned)
	if len(terms) == 0 {
		return []SearchResult{}
	}

	rawCap := 2 * limit
	seen := map[string]bool{}
	var matched []string

	for _, term := range terms {
		if len(matched) >= rawCap {
			break
		}
		ids, err := e.store.SearchTerm(ctx, term, rawCap)
		if err != nil {
			slog.Warn("term_search_failed",
				slog.String("term", term),
				slog.String("error", err.Error()))
			continue
		}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			matched = append(matched, id)
			if len(matched) >= rawCap {
				break
			}
		}
	}

	trimmedQuery := strings.TrimSpace(cleaned)
	results := make([]SearchResult, 0, len(matched))
	for pos, id := range matched {
		item, ok := e.store.Get(ctx, id)
		if !ok {
			continue
		}
		results = append(results, SearchResult{
			Item:      item,
			Score:     scoreItem(item, trimmedQuery),
			Relevance: positionRelevance(pos, limit),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score+results[i].Relevance > results[j].Score+results[j].Relevance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreItem rates item against the cleaned query, case-insensitive.
func scoreItem(item store.IndexedItem, query string) float64 {
	title := strings.ToLower(item.Title)
	content := strings.ToLower(item.Content)

	score := 0.0
	if title == query {
		score += scoreExactTitle
	}
	if strings.Contains(title, query) {
		score += scoreTitleContains
	}
	if strings.Contains(content, query) {
		score += scoreContentMatches
	}
	if age := time.Since(time.UnixMilli(item.Timestamp)); age >= 0 && age < recentWindow {
		score += scoreRecent
	}
	if item.Type == store.ItemTypeBookmark {
		score += scoreBookmarkBonus
	}
	return score
}

// positionRelevance rewards earlier first-seen positions. Positions beyond
// limit go negative, which only matters as a tiebreaker.
func positionRelevance(pos, limit int) float64 {
	return float64(limit-pos) / float64(limit)
}
