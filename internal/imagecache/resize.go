package imagecache

import (
	"image"

	"golang.org/x/image/draw"
)

const (
	// ThumbnailMaxSide bounds the long side of list thumbnails.
	ThumbnailMaxSide = 96
	// PreviewMaxSide bounds the long side of preview images.
	PreviewMaxSide = 480
)

// downscale resizes src so its long side is at most maxSide, preserving
// aspect ratio. Images already within bounds are returned unchanged: the
// cache only ever shrinks, never upscales.
func downscale(src image.Image, maxSide int) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	long := width
	if height > long {
		long = height
	}
	if long <= maxSide || long == 0 {
		return src
	}

	scale := float64(maxSide) / float64(long)
	dstW := int(float64(width) * scale)
	dstH := int(float64(height) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

// decodedCost estimates the in-memory byte size of a decoded image:
// four bytes per pixel.
func decodedCost(img image.Image) int64 {
	bounds := img.Bounds()
	return int64(bounds.Dx()) * int64(bounds.Dy()) * 4
}
