package graph

import (
	"context"
	"fmt"
	"net/http"
)

// RecordingDownloadURL resolves a possibly time-limited download URL for a
// meeting recording.
func (c *Client) RecordingDownloadURL(ctx context.Context, recordingID string) (string, error) {
	var resp struct {
		Value []struct {
			DownloadURL string `json:"@microsoft.graph.downloadUrl"`
		} `json:"value"`
	}
	path := "/communications/callRecords/" + recordingID + "/recordings"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", fmt.Errorf("cannot retrieve recording %v: %w", recordingID, err)
	}
	if len(resp.Value) == 0 || resp.Value[0].DownloadURL == "" {
		return "", fmt.Errorf("recording %v: %w", recordingID, ErrDownloadURLNotFound)
	}
	return resp.Value[0].DownloadURL, nil
}
