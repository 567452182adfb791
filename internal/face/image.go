package face

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Bounds enforced on submitted captures before any detection runs.
// Oversized payloads are rejected outright rather than decoded, so a
// runaway upload cannot tie up the detector.
const (
	MaxImageBytes = 8 << 20 // 8 MiB of decoded base64
	MaxDimension  = 4096    // pixels per side
)

// DecodeCapture turns a browser camera capture (a base64 data URL or
// bare base64 string) into normalized JPEG bytes, enforcing the size
// and dimension bounds.  Undecodable payloads fail with ErrInvalidImage
// and never panic the gate.
func DecodeCapture(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	// Data URLs look like "data:image/jpeg;base64,<data>".
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64", ErrInvalidImage)
	}
	if len(raw) > MaxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidImage, MaxImageBytes)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable image data", ErrInvalidImage)
	}
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		return nil, fmt.Errorf("%w: image exceeds %dpx per side", ErrInvalidImage, MaxDimension)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("%w: re-encode failed", ErrInvalidImage)
	}
	return out.Bytes(), nil
}
