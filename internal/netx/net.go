// Package netx fetches backup files from presigned object-storage URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/filex"
)

// maxDownloadSize caps a downloaded backup.
const maxDownloadSize = 256 << 20

var httpClient = &http.Client{}

// DownloadFile GETs url and stores the body atomically at dest.
func DownloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return err
	}
	if len(data) > maxDownloadSize {
		return fmt.Errorf("download failed: body exceeds %d bytes", maxDownloadSize)
	}

	return filex.WriteFileAtomic(dest, data, 0o600)
}
