package pdfredline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func unescapePDFString(s string) string {
	s = strings.ReplaceAll(s, "\\(", "(")
	s = strings.ReplaceAll(s, "\\)", ")")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}

// decodeTextString decodes a PDF text string: UTF-16BE when it starts
// with a byte order mark, PDFDocEncoding (close enough to Latin-1 for layer
// names) otherwise.
func decodeTextString(b []byte) (string, error) {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("invalid UTF-16BE text: %w", err)
		}
		return string(out), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// toLatin1 converts s for the core fonts. Characters outside Latin-1 are
// replaced by '?'; ok is false when that happened.
func toLatin1(s string) (string, bool) {
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err == nil {
		return out, true
	}
	var b strings.Builder
	for _, r := range s {
		if enc, err := charmap.ISO8859_1.NewEncoder().String(string(r)); err == nil {
			b.WriteString(enc)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String(), false
}

// dumpPDFStructure logs the first N bytes of the PDF plus any /OCG layer
// reference.
func dumpPDFStructure(pdfData []byte, byteCount int, log logrus.FieldLogger) {
	byteCount = min(byteCount, len(pdfData))
	log.Debugf("PDF structure (first %d bytes):\n%s", byteCount, pdfData[:byteCount])

	ocgIndex := bytes.Index(pdfData, []byte("/OCG"))
	if ocgIndex >= 0 {
		start := max(ocgIndex-20, 0)
		end := min(ocgIndex+100, len(pdfData))
		log.Debugf("OCG context:\n%s", pdfData[start:end])
	}
}
