// Package imaging processes uploaded logo images before they are stored.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension caps the width and height of a stored logo.
const MaxDimension = 512

// JPEGQuality is the compression quality for re-encoded output.
const JPEGQuality = 80

// MaxInputSize caps how much image data is read from a request.
const MaxInputSize = 10 << 20 // 10MB

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Logo holds a processed image ready to store.
type Logo struct {
	Data []byte
	MIME string
}

// ProcessLogo validates image data by sniffing its bytes, scales it down to
// fit MaxDimension and re-encodes it as JPEG. Client-supplied content types
// are never trusted.
func ProcessLogo(r io.Reader) (*Logo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxInputSize)
	}

	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format %s (JPEG, PNG or GIF accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return &Logo{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// fit scales img down so both dimensions fit within maxDim, preserving the
// aspect ratio. Images already within bounds pass through untouched.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
	image.RegisterFormat("gif", "GIF8", gif.Decode, gif.DecodeConfig)
}
