package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics bỏ dấu, giữ nguyên chữ cái gốc
func removeDiacritics(s string) string {
	t := norm.NFD.String(s)
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeSearch chuẩn hóa chuỗi tìm kiếm
func normalizeSearch(input string) string {
	return strings.ToLower(strings.TrimSpace(removeDiacritics(input)))
}

// asciiFold transliterates to ASCII, e.g. for usernames derived from display names.
func asciiFold(input string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(input)))
}

// calculateSimilarity returns 1 for equal strings and 0 for completely different ones.
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

const minSuggestionSimilarity = 0.3

// suggest picks up to n candidates close to query, best first.
func suggest(query string, candidates []string, n int) []string {
	query = normalizeSearch(query)
	if query == "" || len(candidates) == 0 || n <= 0 {
		return nil
	}

	byKey := make(map[string]string, len(candidates))
	keys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		k := normalizeSearch(c)
		if _, dup := byKey[k]; dup || k == "" {
			continue
		}
		byKey[k] = c
		keys = append(keys, k)
	}

	cm := closestmatch.New(keys, []int{2, 3})
	matches := cm.ClosestN(query, n)

	type scored struct {
		value string
		score float64
	}
	var ranked []scored
	for _, m := range matches {
		original, ok := byKey[m]
		if !ok {
			continue
		}
		score := calculateSimilarity(query, m)
		if score < minSuggestionSimilarity {
			continue
		}
		ranked = append(ranked, scored{value: original, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.value)
	}
	return out
}
