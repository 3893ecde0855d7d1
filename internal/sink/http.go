package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/oranjParker/mlapi/internal/core"
)

const maxLoggedBody = 4096

// HTTPSink posts scrape notifications to the collaborator's /scrape endpoint.
// The response is logged, never interpreted.
type HTTPSink struct {
	URL    string
	Client *http.Client
}

func NewHTTPSink(url string, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSink) Write(ctx context.Context, n *core.ScrapeNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notification marshal failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s unreachable: %v", core.ErrNotifyFailed, s.URL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", core.ErrNotifyFailed, err)
	}

	log.Printf("[Notify] Sent scraped dataset to %s. Status: %d %s",
		s.URL, resp.StatusCode, strings.TrimSpace(string(respBody)))
	return nil
}

func (s *HTTPSink) Close() error {
	s.Client.CloseIdleConnections()
	return nil
}
