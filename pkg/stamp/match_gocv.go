//go:build gocv

package stamp

import (
	"image"

	"gocv.io/x/gocv"
)

func matchTemplate(gray *image.Gray, size image.Point, v uint8) image.Point {
	src, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return sqdiff(gray, size, v)
	}
	defer src.Close()

	tmpl := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(v), 0, 0, 0), size.Y, size.X, gocv.MatTypeCV8U)
	defer tmpl.Close()
	res := gocv.NewMat()
	defer res.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, tmpl, &res, gocv.TmSqdiff, mask)
	_, _, minLoc, _ := gocv.MinMaxLoc(res)
	return minLoc
}
