package imageprep

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, G: 80, B: 20, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepare_DownscalesAndEncodesWebP(t *testing.T) {
	out, err := Prepare("photos/kitchen sink.png", pngBytes(t, 3200, 1200))
	require.NoError(t, err)

	assert.Equal(t, "kitchen sink.webp", out.Filename)
	assert.Equal(t, "image/webp", out.ContentType)
	assert.Equal(t, 1600, out.Width)
	assert.Equal(t, 600, out.Height)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 1600, cfg.Width)
}

func TestPrepare_KeepsSmallImages(t *testing.T) {
	out, err := Prepare("tap.png", pngBytes(t, 400, 300))
	require.NoError(t, err)
	assert.Equal(t, 400, out.Width)
	assert.Equal(t, 300, out.Height)
}

func TestPrepare_Rejects(t *testing.T) {
	_, err := Prepare("notes.txt", []byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Prepare("huge.png", make([]byte, MaxInputBytes+1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFit_Portrait(t *testing.T) {
	img := Fit(image.NewRGBA(image.Rect(0, 0, 1000, 4000)), 1600)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 1600, img.Bounds().Dy())
}
