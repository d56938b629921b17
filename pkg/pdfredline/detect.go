package pdfredline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var ocgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/Type\s*/OCG\s*/Name\s*\(([^)]+)\)`),
	regexp.MustCompile(`/OCG\s*<<[^>]*?/Name\s*\(([^)]+)\)`),
	regexp.MustCompile(`<</Type/OCG/Name\(([^)]+)\)`),
	regexp.MustCompile(`/Name\s*\(([^)]+)\)[\s\S]{1,50}/Type\s*/OCG`),
}

// rawLayers scans the uncompressed parts of the file for optional content
// group names.
func rawLayers(pdfData []byte) []string {
	content := string(pdfData)
	var layers []string
	for _, re := range ocgPatterns {
		for _, match := range re.FindAllStringSubmatch(content, -1) {
			if len(match) >= 2 {
				name := unescapePDFString(match[1])
				if decoded, err := decodeTextString([]byte(name)); err == nil {
					name = decoded
				}
				layers = append(layers, name)
			}
		}
	}
	return layers
}

// catalogLayers lists the optional content groups the document catalog
// declares.
func catalogLayers(ctx *model.Context) ([]string, error) {
	root, err := ctx.Catalog()
	if err != nil {
		return nil, err
	}
	obj, ok := root["OCProperties"]
	if !ok {
		return nil, nil
	}
	props, err := ctx.DereferenceDict(obj)
	if err != nil || props == nil {
		return nil, err
	}
	ocgs, err := ctx.DereferenceArray(props["OCGs"])
	if err != nil {
		return nil, err
	}

	var layers []string
	for _, o := range ocgs {
		d, err := ctx.DereferenceDict(o)
		if err != nil || d == nil {
			continue
		}
		name, err := ctx.Dereference(d["Name"])
		if err != nil {
			continue
		}
		var s string
		switch n := name.(type) {
		case types.StringLiteral:
			s, err = types.StringLiteralToString(n)
		case types.HexLiteral:
			s, err = types.HexLiteralToString(n)
		default:
			continue
		}
		if err == nil {
			layers = append(layers, s)
		}
	}
	return layers, nil
}

// LayerCheckResult contains the results of checking for a redline layer
type LayerCheckResult struct {
	Layers           []string // All detected layers
	HasRedlineLayer  bool     // True if the redline layer exists
	RedlineLayerName string   // Name of the detected redline layer (if any)
	Warnings         []string // Layers that look like redlines under another name
}

// CheckExistingLayers looks for layerName among the optional content
// groups of the document. Catalog entries and raw file content are both
// searched.
func CheckExistingLayers(ctx *model.Context, pdfData []byte, layerName string) LayerCheckResult {
	result := LayerCheckResult{}

	layers := rawLayers(pdfData)
	if ctx != nil {
		declared, err := catalogLayers(ctx)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("cannot read optional content: %v", err))
		}
		layers = append(declared, layers...)
	}

	seen := make(map[string]bool)
	for _, l := range layers {
		if seen[l] {
			continue
		}
		seen[l] = true
		result.Layers = append(result.Layers, l)

		if strings.TrimSpace(l) == layerName {
			if !result.HasRedlineLayer {
				result.HasRedlineLayer = true
				result.RedlineLayerName = l
			}
			continue
		}
		lower := strings.ToLower(l)
		if strings.Contains(lower, "redline") || strings.Contains(lower, "rlmu") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("existing layer detected that might contain redlines: %s", l))
		}
	}
	return result
}
