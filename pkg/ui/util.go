package ui

import "unicode"

// QuickCharInString returns the lower-cased rune at rune index idx of s, or
// zero when idx is outside s. Menus use it to find the key that opens an item.
func QuickCharInString(s string, idx int) rune {
	runes := []rune(s)
	if idx < 0 || idx >= len(runes) {
		return 0
	}
	return unicode.ToLower(runes[idx])
}

// Clamp keeps v within [lo, hi]. lo must not be greater than hi.
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
