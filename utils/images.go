package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const jpegQuality = 80

// ProcessedImage holds a featured image re-encoded for serving.
type ProcessedImage struct {
	Data   []byte
	Width  int
	Height int
}

// ProcessImage decodes an uploaded image (GIF/PNG/JPEG), downscales it to
// maxWidth when wider, and re-encodes it as JPEG. A decode failure means the
// upload was not an image.
func ProcessImage(src io.Reader, maxWidth int) (ProcessedImage, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if maxWidth > 0 && w > maxWidth {
		newH := h * maxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return ProcessedImage{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return ProcessedImage{Data: buf.Bytes(), Width: w, Height: h}, nil
}
