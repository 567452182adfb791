// Package face implements the liveness gate: the single-face presence
// check that guards attendance registration and marking.  Despite the
// product's name this is not face recognition: no identity comparison
// happens and no biometric template is ever stored.  The gate only
// answers "was exactly one face in frame".
package face

import (
	"context"
	"errors"
)

// Detection parameters of the frontal-face detector.  These are fixed
// configuration constants of the service, not user-tunable knobs, and
// are forwarded verbatim to whichever Detector implementation runs.
const (
	ScaleFactor  = 1.1
	MinNeighbors = 5
	MinSize      = 30
)

// Recoverable gate failures.  The caller retries with a new capture.
var (
	ErrNoFace        = errors.New("no face detected in the image")
	ErrMultipleFaces = errors.New("multiple faces detected")
	ErrNotRegistered = errors.New("no face data registered for this student")
	ErrInvalidImage  = errors.New("invalid image")
)

// Detector counts frontal faces in a decoded capture.  Implementations
// must apply the fixed parameters above and bound their runtime with
// the provided context.
type Detector interface {
	Detect(ctx context.Context, jpeg []byte) (int, error)
}
