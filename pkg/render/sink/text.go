package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 9.0
	fontSizeMax     = 18.0
)

// FontSize returns the largest font size at which text fits the given box.
func FontSize(text string, availWidth, availHeight float64) float64 {
	n := max(1, len([]rune(text)))
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// Truncate shortens text so it fits width at fontSize, ending with "..".
func Truncate(text string, width, fontSize float64) string {
	runes := []rune(text)
	maxChars := max(3, int(width*fontWidthRatio/(fontSize*fontCharWidth)))
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars-2]) + ".."
}

// EscapeXML escapes s for use in SVG text and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// WrapURL wraps the output of fn in a link when url is set.
func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `  <a href="%s" target="_blank">`+"\n", EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("  </a>\n")
	}
}
