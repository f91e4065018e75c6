package search

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/webstash/webstash/internal/store"
)

// intentRule is one entry of the data-driven classification table. Rules
// are evaluated in order against the lowercased query; first match wins.
// Adding a language or intent means adding rows, not logic.
type intentRule struct {
	pattern  *regexp.Regexp
	language Language
	intent   Intent
}

var intentRules = []intentRule{
	{regexp.MustCompile(`\b(list|show|display|enumerate)\b.*\b(all|every|my|recent)\b`), LangEnglish, IntentEnumerate},
	{regexp.MustCompile(`\ball\b.*\b(bookmarks?|history|reading)\b`), LangEnglish, IntentEnumerate},
	{regexp.MustCompile(`\bwhat\b.*\b(bookmarks?|history|reading list)\b.*\b(have|are)\b`), LangEnglish, IntentEnumerate},
	{regexp.MustCompile(`列出|列举|枚举`), LangChinese, IntentEnumerate},
	{regexp.MustCompile(`(显示|查看)(所有|全部|我的)`), LangChinese, IntentEnumerate},
	{regexp.MustCompile(`(所有|全部)的?(书签|历史|阅读)`), LangChinese, IntentEnumerate},
}

// typeKeyword maps a source-type word in either language to its item type.
type typeKeyword struct {
	keyword  string
	language Language
	itemType store.ItemType
}

var typeKeywords = []typeKeyword{
	{"bookmark", LangEnglish, store.ItemTypeBookmark},
	{"书签", LangChinese, store.ItemTypeBookmark},
	{"收藏", LangChinese, store.ItemTypeBookmark},
	{"history", LangEnglish, store.ItemTypeHistory},
	{"visited", LangEnglish, store.ItemTypeHistory},
	{"历史", LangChinese, store.ItemTypeHistory},
	{"reading", LangEnglish, store.ItemTypeReadingList},
	{"阅读", LangChinese, store.ItemTypeReadingList},
	{"稍后读", LangChinese, store.ItemTypeReadingList},
}

// Stop words carry no search signal and are stripped before term
// extraction. English entries match whole whitespace tokens; Chinese
// entries match substrings.
var (
	stopWordsEnglish = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "of": {}, "for": {}, "to": {},
		"in": {}, "on": {}, "my": {}, "me": {}, "is": {}, "are": {},
		"find": {}, "search": {}, "show": {}, "about": {}, "please": {},
	}
	stopWordsChinese = []string{
		"我的", "帮我", "请", "的", "了", "一下", "搜索", "查找", "查询", "寻找",
	}
)

// classifierCacheSize bounds the intent cache. Queries repeat heavily in
// interactive use, so even a small cache absorbs most classifications.
const classifierCacheSize = 256

// Classifier assigns an intent to each query, memoized in an LRU cache.
type Classifier struct {
	cache *lru.Cache[string, Intent]
}

// NewClassifier creates a classifier with a warm-free cache.
func NewClassifier() *Classifier {
	cache, err := lru.New[string, Intent](classifierCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Classifier{cache: cache}
}

// Classify returns the intent for query. First matching rule wins;
// no match means keyword intent.
func (c *Classifier) Classify(query string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if cached, ok := c.cache.Get(normalized); ok {
		return cached
	}

	intent := IntentKeyword
	for _, rule := range intentRules {
		if rule.pattern.MatchString(normalized) {
			intent = rule.intent
			break
		}
	}

	c.cache.Add(normalized, intent)
	return intent
}

// DetectTypes returns the source types named in the query, in either
// language. An empty result means no type was named.
func DetectTypes(query string) []store.ItemType {
	normalized := strings.ToLower(query)

	seen := map[store.ItemType]bool{}
	var types []store.ItemType
	for _, kw := range typeKeywords {
		if seen[kw.itemType] {
			continue
		}
		if strings.Contains(normalized, kw.keyword) {
			seen[kw.itemType] = true
			types = append(types, kw.itemType)
		}
	}
	return types
}

// stripStopWords removes the bilingual stop-word list from the lowercased
// query.
func stripStopWords(query string) string {
	for _, sw := range stopWordsChinese {
		query = strings.ReplaceAll(query, sw, " ")
	}

	fields := strings.Fields(query)
	kept := fields[:0]
	for _, f := range fields {
		if _, stop := stopWordsEnglish[f]; stop {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// extractTerms turns a cleaned query into independent search terms. CJK
// queries split into script runs; plain-Latin queries split on whitespace,
// keeping tokens longer than 2 characters.
func extractTerms(cleaned string) []string {
	if store.ContainsCJK(cleaned) {
		return store.SplitRuns(cleaned)
	}

	var terms []string
	for _, f := range strings.Fields(cleaned) {
		if len(f) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}
