package artwork

import (
	"bytes"
	"fmt"
	"image"

	// Registered formats: the standard library covers PNG, JPEG and GIF,
	// x/image adds WebP, BMP and TIFF.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// bytesPerPixel is the decoded footprint assumed when checking a header,
// matching entity.DecodedSize for unknown pixel layouts.
const bytesPerPixel = 4

// decodeImage decodes data with any registered format. The header is read
// first and an image whose pixel buffer would exceed maxDecoded bytes is
// refused without allocating it; maxDecoded <= 0 disables the check.
// A panicking decoder is reported as ErrUndecodableBody.
func decodeImage(data []byte, maxDecoded int64) (img image.Image, format string, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: decoder panic: %v", ErrUndecodableBody, r)
		}
	}()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUndecodableBody, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, format, fmt.Errorf("%w: %s image has no pixels", ErrUndecodableBody, format)
	}
	if exceedsDecodedLimit(cfg.Width, cfg.Height, maxDecoded) {
		return nil, format, fmt.Errorf("%w: %w: %s image is %dx%d, limit is %d bytes",
			ErrUndecodableBody, ErrTooLarge, format, cfg.Width, cfg.Height, maxDecoded)
	}

	img, format, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUndecodableBody, err)
	}
	if img.Bounds().Empty() {
		return nil, format, fmt.Errorf("%w: %s image has no pixels", ErrUndecodableBody, format)
	}
	return img, format, nil
}

// exceedsDecodedLimit reports whether w*h*bytesPerPixel > limit without
// overflowing on hostile dimensions.
func exceedsDecodedLimit(w, h int, limit int64) bool {
	if limit <= 0 {
		return false
	}
	return int64(w) > limit/bytesPerPixel/int64(h)
}
