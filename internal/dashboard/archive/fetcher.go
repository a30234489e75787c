package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// The gviz endpoint wraps its JSON in a fixed JS callback:
//
//	/*O_o*/
//	google.visualization.Query.setResponse({...});
//
// The prefix is exactly 47 bytes and the trailing ");" must be stripped
// before the document parses.
const (
	wrapperPrefixLen = 47
	wrapperSuffix    = ");"
)

// maxFeedBytes caps how much of the feed we read; the sheet holds a few
// thousand small rows at most.
const maxFeedBytes = 8 << 20

// FeedURL builds the gviz query URL for one sheet of a published
// spreadsheet.
func FeedURL(spreadsheetID, sheetName string) string {
	return fmt.Sprintf(
		"https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:json&sheet=%s",
		url.PathEscape(spreadsheetID), url.QueryEscape(sheetName),
	)
}

// Fetcher retrieves the raw row sequence from the feed. It does not retry;
// the poll loop provides eventual retry at its fixed interval.
type Fetcher struct {
	client  *http.Client
	feedURL string
}

func NewFetcher(feedURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		feedURL: feedURL,
	}
}

// Fetch returns the feed's rows, header included. Every failure mode
// (network, non-2xx status, malformed wrapper or JSON, missing table)
// collapses into one error with a human-readable cause.
func (f *Fetcher) Fetch(ctx context.Context) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("archive request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("archive fetch: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("archive read: %w", err)
	}

	payload, err := unwrap(body)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("archive parse: %w", err)
	}
	if doc.Table.Rows == nil {
		return nil, fmt.Errorf("archive parse: response has no table rows")
	}
	return doc.Table.Rows, nil
}

// unwrap strips the fixed-length callback prefix and the ");" terminator.
func unwrap(body []byte) ([]byte, error) {
	if len(body) < wrapperPrefixLen+len(wrapperSuffix) {
		return nil, fmt.Errorf("archive parse: response too short (%d bytes)", len(body))
	}
	if !bytes.HasSuffix(body, []byte(wrapperSuffix)) {
		return nil, fmt.Errorf("archive parse: wrapper terminator missing")
	}
	payload := body[wrapperPrefixLen : len(body)-len(wrapperSuffix)]
	if len(payload) == 0 || payload[0] != '{' {
		return nil, fmt.Errorf("archive parse: wrapper prefix mismatch")
	}
	return payload, nil
}
