// Package netx wraps plain HTTP transfers against presigned object-storage
// URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxDownloadSize bounds a single archived attachment.
const maxDownloadSize = 32 << 20

var httpClient = &http.Client{}

// DownloadFromPresignedURL fetches the object behind a presigned GET URL.
// Any non-200 response is returned as an error that includes the status and
// the start of the body.
func DownloadFromPresignedURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxDownloadSize {
		return nil, fmt.Errorf("download failed: object larger than %d bytes", maxDownloadSize)
	}
	return body, nil
}
