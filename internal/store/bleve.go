package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
)

const (
	// MixedTokenizerName is the name of the mixed-script tokenizer.
	MixedTokenizerName = "mixed_tokenizer"

	// MixedAnalyzerName is the name of the mixed-script analyzer.
	MixedAnalyzerName = "mixed_analyzer"
)

func init() {
	_ = registry.RegisterTokenizer(MixedTokenizerName, mixedTokenizerConstructor)
}

// BleveTextIndex wraps an in-memory Bleve index behind the TextIndex
// interface. Instances are cheap enough to rebuild wholesale, which is how
// the store refreshes them.
type BleveTextIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
}

// bleveDocument is the document structure for Bleve indexing.
type bleveDocument struct {
	Content string `json:"content"`
}

// NewBleveTextIndex creates a fresh in-memory text index.
func NewBleveTextIndex() (*BleveTextIndex, error) {
	indexMapping, err := createIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("failed to create index mapping: %w", err)
	}

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BleveTextIndex{index: idx}, nil
}

// createIndexMapping builds the index mapping with the mixed-script analyzer.
func createIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(MixedAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": MixedTokenizerName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}

	indexMapping.DefaultAnalyzer = MixedAnalyzerName
	return indexMapping, nil
}

// Add inserts or replaces the document content for id.
func (b *BleveTextIndex) Add(_ context.Context, id, content string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	if err := b.index.Index(id, bleveDocument{Content: content}); err != nil {
		return fmt.Errorf("failed to index document %s: %w", id, err)
	}
	return nil
}

// Remove deletes id from the index. Removing a missing id is a no-op.
func (b *BleveTextIndex) Remove(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	if err := b.index.Delete(id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

// SearchPrefix returns up to limit ids with an indexed token having term as
// a prefix. Matching is case-insensitive; indexed tokens are lowercase.
func (b *BleveTextIndex) SearchPrefix(ctx context.Context, term string, limit int) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || limit <= 0 {
		return []string{}, nil
	}

	prefixQuery := bleve.NewPrefixQuery(term)
	prefixQuery.SetField("content")

	searchRequest := bleve.NewSearchRequest(prefixQuery)
	searchRequest.Size = limit

	result, err := b.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("prefix search failed: %w", err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Count returns the number of indexed documents.
func (b *BleveTextIndex) Count() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, fmt.Errorf("index is closed")
	}

	n, err := b.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(n), nil
}

// Close closes the index. Safe to call multiple times.
func (b *BleveTextIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.index.Close()
}

// Verify interface implementation.
var _ TextIndex = (*BleveTextIndex)(nil)

// mixedTokenizerConstructor creates the mixed-script tokenizer for Bleve.
func mixedTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &bleveMixedTokenizer{}, nil
}

// bleveMixedTokenizer implements analysis.Tokenizer over Tokenize.
type bleveMixedTokenizer struct{}

// Tokenize implements analysis.Tokenizer. Offsets are best-effort since
// nothing downstream highlights matches.
func (t *bleveMixedTokenizer) Tokenize(input []byte) analysis.TokenStream {
	tokens := Tokenize(string(input))

	result := make(analysis.TokenStream, 0, len(tokens))
	offset := 0
	for i, token := range tokens {
		end := offset + len(token)
		result = append(result, &analysis.Token{
			Term:     []byte(token),
			Start:    offset,
			End:      end,
			Position: i + 1,
			Type:     analysis.AlphaNumeric,
		})
		offset = end
	}
	return result
}
