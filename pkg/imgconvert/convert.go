// Package imgconvert converts decoded images to the canonical stored form:
// 3-channel color, transparency flattened over white, JPEG encoded at a
// fixed quality. An optional bounding box produces a downscaled copy that
// preserves aspect ratio and never upscales.
package imgconvert

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"imgfetch/pkg/errors"
)

// jpegQuality is fixed for all artifacts so identical pixels always
// encode to identical bytes.
const jpegQuality = 75

// Decode interprets raw bytes as an image. JPEG, PNG, GIF, BMP and TIFF
// sources are accepted.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeDecode, "", "cannot decode image", err)
	}
	return img, nil
}

// Normalize converts img to the canonical form and encodes it. When both
// width and height are positive the result is resized to fit within that
// bounding box. It returns the canonical in-memory image alongside the
// encoded bytes so callers producing several thumbnails decode only once.
func Normalize(img image.Image, width, height int) (*image.NRGBA, []byte, error) {
	canonical := flatten(img)

	if width > 0 && height > 0 {
		canonical = imaging.Fit(canonical, width, height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canonical, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, nil, errors.Wrap(errors.ErrorTypeDecode, "", "failed to encode JPEG", err)
	}

	return canonical, buf.Bytes(), nil
}

// flatten removes any transparency by compositing over an opaque white
// background of the same dimensions. Palette-indexed sources go through
// an alpha-capable representation on the way, so partially transparent
// palette entries flatten the same way direct-alpha pixels do. Already
// opaque images are converted to the working format as-is.
func flatten(img image.Image) *image.NRGBA {
	if isOpaque(img) {
		return imaging.Clone(img)
	}

	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

type opaquer interface {
	Opaque() bool
}

// isOpaque reports whether img is known to carry no transparency.
func isOpaque(img image.Image) bool {
	if o, ok := img.(opaquer); ok {
		return o.Opaque()
	}
	return false
}
