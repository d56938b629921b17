package pdfredline

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/gardar/redliner/pkg/geometry"
)

// PageInfo is the geometry of one page.
type PageInfo struct {
	Size     geometry.Size // un-rotated media box, points
	Rotation geometry.Rotation
}

// pdfcpuConfig is used for every read and write. Classic cross reference
// tables keep the output importable by gofpdi.
func pdfcpuConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

func readContext(data []byte) (*model.Context, error) {
	return api.ReadValidateAndOptimize(bytes.NewReader(data), pdfcpuConfig())
}

func inspectPages(ctx *model.Context) ([]PageInfo, error) {
	pages := make([]PageInfo, 0, ctx.PageCount)
	for n := 1; n <= ctx.PageCount; n++ {
		_, _, attrs, err := ctx.PageDict(n, false)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", n, err)
		}
		if attrs == nil || attrs.MediaBox == nil {
			return nil, fmt.Errorf("page %d has no media box", n)
		}
		rot, err := geometry.ParseRotation(attrs.Rotate)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		pages = append(pages, PageInfo{
			Size:     geometry.Size{W: attrs.MediaBox.Width(), H: attrs.MediaBox.Height()},
			Rotation: rot.Normalize(),
		})
	}
	return pages, nil
}

// withRotations rewrites data so that page n has the rotation rots[n].
// Pages not in rots keep theirs.
func withRotations(data []byte, rots map[int]geometry.Rotation) ([]byte, error) {
	ctx, err := readContext(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	for n, r := range rots {
		d, _, _, err := ctx.PageDict(n, false)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", n, err)
		}
		if d == nil {
			return nil, fmt.Errorf("page %d does not exist", n)
		}
		d["Rotate"] = types.Integer(int(r.Normalize()))
	}
	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return buf.Bytes(), nil
}
