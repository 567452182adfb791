package model

import "time"

// LivenessRegistration records that a single face was present in a
// student's registration capture.  It is a gate flag keyed by roll
// number, not biometric data: no feature vector or template is kept,
// so it cannot be used to recognise anyone.
//
// Fields:
//  RegisteredAt – instant of the successful registration capture.
//  FaceDetected – always true for a stored registration; kept for
//                 compatibility with the persisted collection shape.
type LivenessRegistration struct {
	RegisteredAt time.Time `json:"registered_at"`
	FaceDetected bool      `json:"face_detected"`
}
