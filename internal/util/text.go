// ABOUTME: Shared text helpers for chunking
// ABOUTME: Token estimation uses the rough 4-characters-per-token heuristic
package util

import "unicode/utf8"

// EstimateTokens approximates the token count of text as characters/4,
// rounded down.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}
