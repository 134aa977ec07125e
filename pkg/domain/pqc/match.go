package pqc

import (
	"sort"
	"strings"
	"unicode"

	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

// Match is one dictionary hit inside a text.
type Match struct {
	Algorithm Algorithm
	Start     int
	End       int
}

// Classify looks up an algorithm by name, alias included. Names outside the dictionary
// yield an Algorithm with Safety unknown; unknown is never folded into safe or vulnerable.
func Classify(name string) Algorithm {
	trimmed := strings.TrimSpace(name)
	if a, ok := lookup(trimmed); ok {
		return a
	}
	return Algorithm{
		Name:      trimmed,
		Primitive: types.PrimitiveUnknown,
		Safety:    types.QuantumUnknown,
	}
}

// Resolve finds the algorithm a free-form name refers to, such as "RSA-2048" or
// "ECDSA P-256". An exact name or alias wins. Otherwise the dictionary hits inside the name
// are used, and a quantum-vulnerable hit is preferred so that "SHA256withRSA" resolves to
// RSA.
func Resolve(name string) (Algorithm, bool) {
	trimmed := strings.TrimSpace(name)
	if a, ok := lookup(trimmed); ok {
		return a, true
	}

	matches := FindAll(trimmed)
	if len(matches) == 0 {
		return Algorithm{}, false
	}
	for _, m := range matches {
		if m.Algorithm.Safety == types.QuantumVulnerable {
			return m.Algorithm, true
		}
	}
	return matches[0].Algorithm, true
}

func lookup(name string) (Algorithm, bool) {
	for _, a := range table {
		loc := a.pattern.FindStringIndex(name)
		if loc != nil && loc[0] == 0 && loc[1] == len(name) {
			return *a, true
		}
	}
	return Algorithm{}, false
}

// FindAll returns every non-overlapping dictionary hit in text, ordered by position.
// Entries are consulted in table order and earlier entries claim their spans first.
func FindAll(text string) []Match {
	var matches []Match
	for _, a := range table {
		for _, loc := range a.pattern.FindAllStringIndex(text, -1) {
			if !atBoundary(text, loc[0], loc[1]) || overlaps(matches, loc[0], loc[1]) {
				continue
			}
			matches = append(matches, Match{Algorithm: *a, Start: loc[0], End: loc[1]})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// FindFirst returns the earliest hit in text, if any.
func FindFirst(text string) (Match, bool) {
	matches := FindAll(text)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

func overlaps(matches []Match, start, end int) bool {
	for _, m := range matches {
		if start < m.End && m.Start < end {
			return true
		}
	}
	return false
}

// atBoundary reports whether text[start:end] stands as its own token. Digits, punctuation,
// and lower-to-upper case transitions separate tokens, so "rsa.Generate", "SHA256withRSA"
// and "generateRSAKey" match while "codes" does not match "des".
func atBoundary(text string, start, end int) bool {
	if start > 0 && !isSeparated(text[start-1], text[start]) {
		return false
	}
	if end < len(text) && !isSeparated(text[end-1], text[end]) && !acronymEnds(text, end) {
		return false
	}
	return true
}

// acronymEnds handles an upper-case acronym followed by a capitalized word, as in "RSAKey".
func acronymEnds(text string, end int) bool {
	return end+1 < len(text) &&
		unicode.IsUpper(rune(text[end-1])) &&
		unicode.IsUpper(rune(text[end])) &&
		unicode.IsLower(rune(text[end+1]))
}

func isSeparated(prev, cur byte) bool {
	if !isLetter(prev) || !isLetter(cur) {
		return true
	}
	return unicode.IsLower(rune(prev)) && unicode.IsUpper(rune(cur))
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
