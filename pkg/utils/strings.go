package utils

// TruncateChars returns s cut to at most n characters. The cut falls on
// a rune boundary, never mid-sequence, so multibyte content stays valid
// UTF-8.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
