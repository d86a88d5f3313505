package entity

// Truncate shortens s to at most maxRunes runes and appends an ellipsis
// when anything was cut.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i] + "…"
		}
		count++
	}
	return s
}
