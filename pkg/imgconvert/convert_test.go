package imgconvert

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgfetch/pkg/errors"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// transparentImage is fully transparent except for an opaque red square
// in the top-left quadrant
func transparentImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h/2; y++ {
		for x := 0; x < w/2; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	return img
}

func TestDecodeValidPNG(t *testing.T) {
	data := encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 8, 8)))

	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestNormalizeFlattensAlpha(t *testing.T) {
	src := transparentImage(20, 20)

	canonical, encoded, err := Normalize(src, 0, 0)
	require.NoError(t, err)

	// The canonical image must be fully opaque
	assert.True(t, canonical.Opaque())

	// Round-trip the encoded bytes and check the formerly transparent
	// region came out white, not black. JPEG is lossy, so allow a
	// small tolerance.
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.True(t, isOpaque(decoded), "stored JPEG must carry no alpha channel")

	r, g, b, _ := decoded.At(15, 15).RGBA()
	assert.Greater(t, r>>8, uint32(240), "transparent pixels must flatten to white")
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))

	// The opaque red square survives
	r, g, _, _ = decoded.At(2, 2).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Less(t, g>>8, uint32(80))
}

func TestNormalizePaletted(t *testing.T) {
	palette := color.Palette{
		color.NRGBA{},               // transparent
		color.NRGBA{R: 255, A: 255}, // red
	}
	src := image.NewPaletted(image.Rect(0, 0, 10, 10), palette)
	// All pixels stay at index 0, i.e. transparent

	_, encoded, err := Normalize(src, 0, 0)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	r, g, b, _ := decoded.At(5, 5).RGBA()
	assert.Greater(t, r>>8, uint32(240), "transparent palette entries must flatten to white")
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestNormalizeResizeFitsBoundingBox(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 200, 100))

	canonical, _, err := Normalize(src, 64, 64)
	require.NoError(t, err)

	// Aspect ratio 2:1 preserved within a 64x64 box
	assert.Equal(t, 64, canonical.Bounds().Dx())
	assert.Equal(t, 32, canonical.Bounds().Dy())
}

func TestNormalizeNeverUpscales(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))

	canonical, _, err := Normalize(src, 64, 64)
	require.NoError(t, err)

	assert.Equal(t, 10, canonical.Bounds().Dx())
	assert.Equal(t, 10, canonical.Bounds().Dy())
}

func TestNormalizeWithoutResizeKeepsDimensions(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 33, 17))

	canonical, encoded, err := Normalize(src, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 33, canonical.Bounds().Dx())
	assert.Equal(t, 17, canonical.Bounds().Dy())

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, 33, decoded.Bounds().Dx())
	assert.Equal(t, 17, decoded.Bounds().Dy())
}

func TestNormalizeDeterministicEncoding(t *testing.T) {
	src := transparentImage(16, 16)

	_, first, err := Normalize(src, 0, 0)
	require.NoError(t, err)
	_, second, err := Normalize(src, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same pixels must encode to the same bytes")
}
