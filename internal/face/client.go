package face

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the face-detection sidecar (the OpenCV cascade runs
// there).  The request carries the capture and the fixed detector
// parameters; the response reports how many faces were found.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a detector client with a bounded per-request
// timeout so a stuck sidecar cannot hold a marking request forever.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Detect posts the capture to the sidecar's /detect endpoint and
// returns the detected face count.
func (c *Client) Detect(ctx context.Context, jpeg []byte) (int, error) {
	body, err := json.Marshal(map[string]any{
		"image":         base64.StdEncoding.EncodeToString(jpeg),
		"scale_factor":  ScaleFactor,
		"min_neighbors": MinNeighbors,
		"min_size":      MinSize,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/detect", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("face service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("face service error %s: %s", resp.Status, string(msg))
	}

	var out struct {
		FacesDetected int `json:"faces_detected"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode face service response: %w", err)
	}
	return out.FacesDetected, nil
}
