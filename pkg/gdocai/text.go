package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	var b strings.Builder
	for _, seg := range layout.TextAnchor.TextSegments {
		start := min(max(int(seg.StartIndex), 0), len(runes))
		end := min(max(int(seg.EndIndex), start), len(runes))
		b.WriteString(string(runes[start:end]))
	}
	return b.String()
}
