package face

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/school-attendance/internal/model"
)

// Registry is the slice of the liveness store the gate needs.  The
// gate records that a single face was present; it never stores the
// face itself.
type Registry interface {
	Register(ctx context.Context, roll string) (model.LivenessRegistration, error)
	IsRegistered(roll string) bool
}

// Gate evaluates captures and enforces the exactly-one-face rule for
// registration and attendance marking.
type Gate struct {
	detector Detector
	registry Registry
	timeout  time.Duration
}

// NewGate builds the gate.  The timeout bounds one detection pass.
func NewGate(detector Detector, registry Registry, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gate{detector: detector, registry: registry, timeout: timeout}
}

// Evaluate decodes the capture and returns the detected face count.
func (g *Gate) Evaluate(ctx context.Context, payload string) (int, error) {
	jpeg, err := DecodeCapture(payload)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.detector.Detect(ctx, jpeg)
}

// Register accepts a registration capture for the roll number when it
// contains exactly one face.
func (g *Gate) Register(ctx context.Context, roll, payload string) (model.LivenessRegistration, error) {
	count, err := g.Evaluate(ctx, payload)
	if err != nil {
		return model.LivenessRegistration{}, err
	}
	if err := checkCount(count); err != nil {
		return model.LivenessRegistration{}, err
	}
	return g.registry.Register(ctx, roll)
}

// VerifyForMark gates an attendance mark.  The roll number must be
// registered and the capture must contain exactly one face; there is
// deliberately no comparison against the registered face, so any
// single face passes.
func (g *Gate) VerifyForMark(ctx context.Context, roll, payload string) error {
	if !g.registry.IsRegistered(roll) {
		return fmt.Errorf("%w: register your face first", ErrNotRegistered)
	}
	count, err := g.Evaluate(ctx, payload)
	if err != nil {
		return err
	}
	return checkCount(count)
}

func checkCount(count int) error {
	switch {
	case count == 0:
		return fmt.Errorf("%w: position your face clearly in the camera", ErrNoFace)
	case count > 1:
		return fmt.Errorf("%w: ensure only one face is visible", ErrMultipleFaces)
	}
	return nil
}
