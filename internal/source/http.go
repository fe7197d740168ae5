package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"pujadisplay/internal/model"
)

// httpSource polls a remote pujadisplay instance's /api/pujas endpoint.
// Used when a display box runs separately from the box holding the store.
type httpSource struct {
	url    string
	client *retryablehttp.Client
}

// FromURL returns a Source that fetches snapshots over HTTP with a couple
// of quick retries per cycle. A cycle that still fails after the retries
// just surfaces the error; the controller's fixed polling interval is the
// recovery mechanism, so there is no backoff beyond that.
func FromURL(url string) Source {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil

	return &httpSource{url: url, client: client}
}

// snapshotDoc matches the /api/pujas response shape.
type snapshotDoc struct {
	Pujas []model.Puja `json:"pujas"`
}

func (s *httpSource) Snapshot(ctx context.Context) ([]model.Puja, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("source: snapshot fetch returned %s", resp.Status)
	}

	var doc snapshotDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errors.New("source: malformed snapshot body")
	}

	// The snapshot endpoint serves every record, deactivated ones
	// included; only active ones reach the display.
	active := make([]model.Puja, 0, len(doc.Pujas))
	for _, p := range doc.Pujas {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}
