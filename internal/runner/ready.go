package runner

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

var readyInterval = time.Second

// WaitReady polls url until the server answers any HTTP status or timeout
// elapses.
func WaitReady(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: readyInterval * 5}
	ticker := time.NewTicker(readyInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("server %s not ready after %s: %w", url, timeout, lastErr)
		case <-ticker.C:
		}
	}
}
