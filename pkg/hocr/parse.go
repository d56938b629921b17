package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// lineClasses are the hOCR classes Tesseract uses for text lines.
var lineClasses = []string{"ocr_line", "ocr_caption", "ocr_header", "ocr_textfloat"}

// ParseHOCR converts raw hOCR data into pages.
func ParseHOCR(data []byte) ([]Page, error) {
	decoded, err := decode(data)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR HTML: %w", err)
	}

	var pages []Page
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if hasClass(n, "ocr_page") {
			pages = append(pages, parsePage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(pages) == 0 {
		return nil, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return pages, nil
}

// decode converts Latin-1 hOCR to UTF-8; anything else is passed through.
func decode(data []byte) ([]byte, error) {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	i := bytes.Index(bytes.ToLower(head), []byte("charset="))
	if i < 0 {
		return data, nil
	}
	rest := string(head[i+len("charset="):])
	enc := strings.ToLower(strings.TrimLeft(rest, `"'`))
	if end := strings.IndexAny(enc, `"';> `); end >= 0 {
		enc = enc[:end]
	}
	switch enc {
	case "iso-8859-1", "latin1", "latin-1", "windows-1252":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", enc, err)
		}
		return out, nil
	}
	return data, nil
}

func parsePage(n *html.Node) Page {
	page := Page{ID: attr(n, "id")}
	props := ParseTitle(attr(n, "title"))
	if bbox, ok := bboxFrom(props); ok {
		page.BBox = bbox
	}
	if v := props["image"]; len(v) > 0 {
		page.ImageName = strings.Trim(strings.Join(v, " "), `"`)
	}
	if v := props["ppageno"]; len(v) > 0 {
		page.Number, _ = strconv.Atoi(v[0])
	}

	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch {
		case isLine(c):
			page.Lines = append(page.Lines, parseLine(c))
			return
		case hasClass(c, "ocrx_word"):
			w := parseWord(c)
			page.Lines = append(page.Lines, Line{ID: w.ID, Class: "ocrx_word", BBox: w.BBox, Words: []Word{w}})
			return
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return page
}

func parseLine(n *html.Node) Line {
	line := Line{ID: attr(n, "id")}
	for _, cls := range lineClasses {
		if hasClass(n, cls) {
			line.Class = cls
			break
		}
	}
	props := ParseTitle(attr(n, "title"))
	if bbox, ok := bboxFrom(props); ok {
		line.BBox = bbox
	}
	if v := props["baseline"]; len(v) > 0 {
		line.Baseline = strings.Join(v, " ")
	}

	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if hasClass(c, "ocrx_word") {
			line.Words = append(line.Words, parseWord(c))
			return
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return line
}

func parseWord(n *html.Node) Word {
	word := Word{ID: attr(n, "id"), Text: textContent(n)}
	props := ParseTitle(attr(n, "title"))
	if bbox, ok := bboxFrom(props); ok {
		word.BBox = bbox
	}
	if v := props["x_wconf"]; len(v) > 0 {
		word.Confidence, _ = strconv.ParseFloat(v[0], 64)
	}
	return word
}

// ParseTitle breaks down an hOCR title attribute into its properties.
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts the bbox property, nil when absent or malformed.
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	if b, ok := bboxFrom(ParseTitle(title)); ok {
		return &b
	}
	return nil
}

func bboxFrom(props map[string][]string) (BoundingBox, bool) {
	v, ok := props["bbox"]
	if !ok || len(v) < 4 {
		return BoundingBox{}, false
	}
	var c [4]float64
	for i := range c {
		f, err := strconv.ParseFloat(v[i], 64)
		if err != nil {
			return BoundingBox{}, false
		}
		c[i] = f
	}
	return NewBoundingBox(c[0], c[1], c[2], c[3]), true
}

func isLine(n *html.Node) bool {
	for _, cls := range lineClasses {
		if hasClass(n, cls) {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
