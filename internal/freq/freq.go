// Package freq provides the word-rarity lookup used by the timing model's
// frequency delay: common words get no extra display time, rare or unknown
// words get more.
package freq

import (
	_ "embed"
	"strings"
)

// words.txt lists common English words, most frequent first, one per line.
//
//go:embed words.txt
var wordList string

// Table maps normalized words to rarity bucket multipliers based on their
// rank in an embedded frequency list. A Table is immutable after
// construction and safe for concurrent use.
type Table struct {
	rank map[string]int
	size int
}

// NewTable builds a Table from the embedded word list.
func NewTable() *Table {
	return newTable(wordList)
}

func newTable(list string) *Table {
	rank := make(map[string]int)
	for _, line := range strings.Split(list, "\n") {
		w := strings.TrimSpace(line)
		if w == "" {
			continue
		}
		if _, seen := rank[w]; !seen {
			rank[w] = len(rank)
		}
	}
	return &Table{rank: rank, size: len(rank)}
}

// BucketMultiplier returns the rarity multiplier for a normalized word:
// 0 for the most common quartile of the table, rising by 0.25 per quartile,
// and 1.0 for words absent from the table entirely. It never fails; the
// empty string counts as absent.
func (t *Table) BucketMultiplier(normalized string) float64 {
	if t.size == 0 {
		return 1.0
	}
	r, ok := t.rank[normalized]
	if !ok {
		return 1.0
	}
	quartile := r * 4 / t.size
	if quartile > 3 {
		quartile = 3
	}
	return float64(quartile) * 0.25
}

// Len returns the number of ranked words in the table.
func (t *Table) Len() int {
	return t.size
}
