package media

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/booking-availability/internal/httperr"
)

const (
	// MaxSide bounds the longest edge of a stored photo.
	MaxSide = 512
	// MaxUploadBytes bounds the accepted upload size.
	MaxUploadBytes = 5 << 20

	webpQuality = 80
)

var (
	ErrUnsupportedImage = httperr.ErrBusiness("unsupported_image")
	ErrImageTooLarge    = httperr.ErrBusiness("image_too_large")
)

// Process decodes a JPEG, PNG or WebP upload, scales it down so no side
// exceeds MaxSide and re-encodes it as WebP.
func Process(data []byte) ([]byte, error) {
	if len(data) > MaxUploadBytes {
		return nil, ErrImageTooLarge
	}

	src, err := decode(data)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	dst := fit(src, MaxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (image.Image, error) {
	if isWebP(data) {
		return webp.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

func fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
