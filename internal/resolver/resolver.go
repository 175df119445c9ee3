// Package resolver maps free-text scene names from the classifier onto
// canonical scene ids.
package resolver

import (
	"regexp"
	"strings"
)

// Matches runs of characters that never belong to a scene token. Unicode
// letter/digit classes keep non-Latin scene names intact.
var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Tokenize lowercases the name, treats underscores as spaces, and splits on
// any run of non-word characters, dropping empty tokens.
func Tokenize(name string) []string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "_", " ")

	parts := nonWordRe.Split(s, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Normalize rebuilds a canonical scene id from an arbitrary name: lowercase
// tokens joined with underscores. Returns "" for names with no word
// characters at all.
func Normalize(name string) string {
	return strings.Join(Tokenize(name), "_")
}

// Resolve finds the canonical scene id that best matches the candidate name,
// trying in order:
//
//  1. exact match of the candidate's normalized form against each scene id's
//     own normalized form;
//  2. token membership: the first scene id whose entire normalized id is
//     literally one of the candidate's tokens. Only single-word ids can
//     match this way; a multi-word id like "dragon_battle" is never found
//     inside a longer phrase. Downstream consumers rely on this exact
//     behavior, so it must not be widened to fuzzy or substring matching.
//
// sceneIDs must be in a deterministic order; the caller owns that ordering.
// Returns ("", false) when nothing matches or the candidate normalizes to
// the empty string.
func Resolve(candidate string, sceneIDs []string) (string, bool) {
	normalized := Normalize(candidate)
	if normalized == "" {
		return "", false
	}

	for _, id := range sceneIDs {
		if Normalize(id) == normalized {
			return id, true
		}
	}

	tokens := make(map[string]struct{}, 4)
	for _, tok := range Tokenize(candidate) {
		tokens[tok] = struct{}{}
	}
	for _, id := range sceneIDs {
		nid := Normalize(id)
		if nid == "" {
			continue
		}
		if _, ok := tokens[nid]; ok {
			return id, true
		}
	}

	return "", false
}
