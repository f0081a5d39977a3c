package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// Preview scale bounds accepted by Encode.
const (
	MinScale = 0.05
	MaxScale = 4.0
)

// EncodedImage is a rendered image ready to be returned to an MCP client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Encode converts buf to a base64 PNG, optionally resized by scale.
// A scale of 0 or 1 keeps the original size.
func Encode(buf *pixel.Buffer, scale float64) (*EncodedImage, error) {
	return encodeImage(buf.ToRGBA(), scale)
}

// EncodeRegion crops buf to crop before encoding, for previews of a single
// rendered region. The crop is clipped to the buffer.
func EncodeRegion(buf *pixel.Buffer, crop image.Rectangle, scale float64) (*EncodedImage, error) {
	crop = crop.Canon().Intersect(buf.Bounds())
	if crop.Empty() {
		return nil, fmt.Errorf("preview region %v outside image bounds %v", crop, buf.Bounds())
	}
	return encodeImage(imaging.Crop(buf.ToRGBA(), crop), scale)
}

func encodeImage(img image.Image, scale float64) (*EncodedImage, error) {
	if scale != 0 && (scale < MinScale || scale > MaxScale) {
		return nil, fmt.Errorf("scale %g out of range [%g,%g]", scale, MinScale, MaxScale)
	}

	if scale != 0 && scale != 1.0 {
		newWidth := max(int(float64(img.Bounds().Dx())*scale), 1)
		newHeight := max(int(float64(img.Bounds().Dy())*scale), 1)
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(out.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Save writes buf as a PNG file and evicts path from cache so that later loads
// read the new pixels. cache may be nil.
func Save(cache *ImageCache, path string, buf *pixel.Buffer) error {
	if ext := filepath.Ext(path); ext != ".png" {
		return fmt.Errorf("output path %q: only .png is supported", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("output directory: %w", err)
		}
	}
	if err := imgio.Save(path, buf.ToRGBA(), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	if cache != nil {
		cache.Evict(path)
	}
	return nil
}
