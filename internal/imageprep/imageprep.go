package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	// MaxEdge is the longest side kept after downscaling.
	MaxEdge = 1600

	// MaxInputBytes rejects uploads before decoding.
	MaxInputBytes = 10 << 20

	Quality = 80
)

var (
	ErrTooLarge    = errors.New("image exceeds size limit")
	ErrUnsupported = errors.New("unsupported image format")
)

// Image is a normalised review photo ready for upload.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Prepare decodes a jpeg, png or webp upload, shrinks it to fit MaxEdge
// and re-encodes it as webp.
func Prepare(name string, data []byte) (*Image, error) {
	if len(data) > MaxInputBytes {
		return nil, ErrTooLarge
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	switch format {
	case "jpeg", "png", "webp":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
	}

	img := Fit(src, MaxEdge)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	b := img.Bounds()
	return &Image{
		Filename:    webpName(name),
		ContentType: "image/webp",
		Data:        buf.Bytes(),
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}

// Fit scales src down so its longer edge is at most maxEdge. Smaller
// images are returned as they are.
func Fit(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxEdge
		nh = max(1, h*maxEdge/w)
	} else {
		nh = maxEdge
		nw = max(1, w*maxEdge/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func webpName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = "review"
	}
	return base + ".webp"
}
