package face

import "context"

// StubDetector always reports the configured face count.  It stands in
// for the sidecar in development (FACE_SKIP=true) and in tests.
type StubDetector struct {
	Faces int
	Err   error
}

func (s StubDetector) Detect(ctx context.Context, jpeg []byte) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Faces, nil
}
