package face

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/iliyamo/school-attendance/internal/model"
)

// fakeRegistry is an in-memory Registry for gate tests.
type fakeRegistry struct {
	rolls map[string]bool
}

func (f *fakeRegistry) Register(ctx context.Context, roll string) (model.LivenessRegistration, error) {
	if f.rolls == nil {
		f.rolls = make(map[string]bool)
	}
	f.rolls[roll] = true
	return model.LivenessRegistration{FaceDetected: true}, nil
}

func (f *fakeRegistry) IsRegistered(roll string) bool { return f.rolls[roll] }

// capturePayload renders a small solid image as the base64 data URL a
// browser camera capture produces.
func capturePayload(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 180, G: 150, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestGateRegister(t *testing.T) {
	payload := capturePayload(t)

	tests := []struct {
		name    string
		faces   int
		wantErr error
	}{
		{name: "no face", faces: 0, wantErr: ErrNoFace},
		{name: "two faces", faces: 2, wantErr: ErrMultipleFaces},
		{name: "exactly one face", faces: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistry{}
			g := NewGate(StubDetector{Faces: tt.faces}, reg, 0)

			_, err := g.Register(context.Background(), "2024001", payload)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if wantStored := tt.wantErr == nil; reg.IsRegistered("2024001") != wantStored {
				t.Errorf("registration stored = %v, want %v", !wantStored, wantStored)
			}
		})
	}
}

func TestGateVerifyForMark(t *testing.T) {
	payload := capturePayload(t)
	ctx := context.Background()

	t.Run("unregistered roll is rejected before detection", func(t *testing.T) {
		// a detector error here would surface if detection ran first
		g := NewGate(StubDetector{Err: errors.New("sidecar down")}, &fakeRegistry{}, 0)
		if err := g.VerifyForMark(ctx, "2024001", payload); !errors.Is(err, ErrNotRegistered) {
			t.Errorf("VerifyForMark() error = %v, want ErrNotRegistered", err)
		}
	})

	t.Run("registered roll with one face passes", func(t *testing.T) {
		reg := &fakeRegistry{}
		if _, err := reg.Register(ctx, "2024001"); err != nil {
			t.Fatal(err)
		}
		g := NewGate(StubDetector{Faces: 1}, reg, 0)
		if err := g.VerifyForMark(ctx, "2024001", payload); err != nil {
			t.Errorf("VerifyForMark() error = %v, want nil", err)
		}
	})

	t.Run("registered roll with no face fails", func(t *testing.T) {
		reg := &fakeRegistry{}
		if _, err := reg.Register(ctx, "2024001"); err != nil {
			t.Fatal(err)
		}
		g := NewGate(StubDetector{Faces: 0}, reg, 0)
		if err := g.VerifyForMark(ctx, "2024001", payload); !errors.Is(err, ErrNoFace) {
			t.Errorf("VerifyForMark() error = %v, want ErrNoFace", err)
		}
	})
}

func TestDecodeCapture(t *testing.T) {
	valid := capturePayload(t)

	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{name: "empty payload", payload: "", wantErr: ErrInvalidImage},
		{name: "not base64", payload: "!!!not-base64!!!", wantErr: ErrInvalidImage},
		{name: "base64 but not an image", payload: base64.StdEncoding.EncodeToString([]byte("hello")), wantErr: ErrInvalidImage},
		{name: "data url", payload: valid},
		{name: "bare base64", payload: valid[len("data:image/png;base64,"):]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jpeg, err := DecodeCapture(tt.payload)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeCapture() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(jpeg) == 0 {
				t.Error("DecodeCapture() returned empty bytes")
			}
		})
	}
}
