package sentiment

import "strings"

const (
	// MaxInputLength is the number of characters handed to the model.
	MaxInputLength = 512
	// MaxPreviewLength is the number of characters echoed back in batch results.
	MaxPreviewLength = 100
	previewSuffix    = "..."
)

// IsBlank reports whether text is empty or whitespace only.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Truncate returns the first n characters of text. Characters are runes, not bytes.
func Truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// Preview shortens text for echoing in a response, appending "..." when it was cut.
func Preview(text string) string {
	cut := Truncate(text, MaxPreviewLength)
	if cut == text {
		return text
	}
	return cut + previewSuffix
}
