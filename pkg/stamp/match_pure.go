//go:build !gocv

package stamp

import "image"

func matchTemplate(gray *image.Gray, size image.Point, v uint8) image.Point {
	return sqdiff(gray, size, v)
}
