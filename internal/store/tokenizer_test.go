package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRuns(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "plain latin",
			input:  "react tutorial",
			expect: []string{"react", "tutorial"},
		},
		{
			name:   "url parts",
			input:  "https://example.com/react",
			expect: []string{"https", "example", "com", "react"},
		},
		{
			name:   "mixed scripts",
			input:  "React教程 - 入门",
			expect: []string{"React", "教程", "入门"},
		},
		{
			name:   "adjacent script switch",
			input:  "Go语言",
			expect: []string{"Go", "语言"},
		},
		{
			name:   "katakana run",
			input:  "ブラウザ history",
			expect: []string{"ブラウザ", "history"},
		},
		{
			name:   "empty",
			input:  "",
			expect: nil,
		},
		{
			name:   "punctuation only",
			input:  "!!! --- ???",
			expect: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, SplitRuns(tt.input))
		})
	}
}

func TestTokenize_LatinLowercasedAndFiltered(t *testing.T) {
	tokens := Tokenize("A React Tutorial")
	// Single-character latin runs are dropped.
	assert.Equal(t, []string{"react", "tutorial"}, tokens)
}

func TestTokenize_CJKSuffixExpansion(t *testing.T) {
	tokens := Tokenize("机器学习")
	assert.Equal(t, []string{"机器学习", "器学习", "学习", "习"}, tokens)
}

func TestTokenize_MixedContent(t *testing.T) {
	tokens := Tokenize("React教程")
	assert.Equal(t, []string{"react", "教程", "程"}, tokens)
}

func TestContainsCJK(t *testing.T) {
	assert.True(t, ContainsCJK("机器"))
	assert.True(t, ContainsCJK("reactと"))
	assert.False(t, ContainsCJK("react tutorial"))
	assert.False(t, ContainsCJK(""))
}

func TestIsCJK(t *testing.T) {
	assert.True(t, IsCJK('机'))
	assert.True(t, IsCJK('カ'))
	assert.True(t, IsCJK('の'))
	assert.True(t, IsCJK('한'))
	assert.False(t, IsCJK('a'))
	assert.False(t, IsCJK('1'))
}
