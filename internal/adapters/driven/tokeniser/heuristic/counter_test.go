package heuristic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Count(t *testing.T) {
	counter := NewCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{
			name:     "empty text",
			text:     "",
			expected: 0,
		},
		{
			name:     "single rune rounds up",
			text:     "a",
			expected: 1,
		},
		{
			name:     "exact cell",
			text:     "abcd",
			expected: 1,
		},
		{
			name:     "one rune over",
			text:     "abcde",
			expected: 2,
		},
		{
			name:     "forty runes",
			text:     strings.Repeat("x", 40),
			expected: 10,
		},
		{
			name:     "multibyte runes count as runes",
			text:     "日本語テキスト処理",
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, counter.Count(tt.text))
		})
	}
}

func TestCounter_Segments(t *testing.T) {
	counter := NewCounter()

	t.Run("empty text yields nil", func(t *testing.T) {
		assert.Nil(t, counter.Segments(""))
	})

	t.Run("segments partition the text", func(t *testing.T) {
		text := "The quick brown fox jumps over the lazy dog."
		segs := counter.Segments(text)

		assert.Equal(t, counter.Count(text), len(segs))
		assert.Equal(t, text, strings.Join(segs, ""))
	})

	t.Run("all cells full except the last", func(t *testing.T) {
		segs := counter.Segments(strings.Repeat("a", 10))

		assert.Len(t, segs, 3)
		assert.Equal(t, "aaaa", segs[0])
		assert.Equal(t, "aaaa", segs[1])
		assert.Equal(t, "aa", segs[2])
	})

	t.Run("multibyte runes never split", func(t *testing.T) {
		text := "日本語テキスト処理を分割する"
		segs := counter.Segments(text)

		assert.Equal(t, text, strings.Join(segs, ""))
		for _, seg := range segs {
			assert.LessOrEqual(t, len([]rune(seg)), CharsPerToken)
		}
	})
}
