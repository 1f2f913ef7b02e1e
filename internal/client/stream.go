package client

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// StreamEvents opens the server's SSE feed (GET /v1/events/stream) and
// delivers notifications on the returned channel. The channel is closed when
// the stream ends: on cancel, on context cancellation, or when the server
// drops the connection. Callers that want resumption pass the ID of the last
// notification they processed as lastEventID.
func (c *HTTPClient) StreamEvents(ctx context.Context, topics []string, lastEventID string) (<-chan Notification, func(), error) {
	path := "/v1/events/stream"
	if len(topics) > 0 {
		q := url.Values{}
		q.Set("topics", strings.Join(topics, ","))
		path += "?" + q.Encode()
	}

	ctx, cancelCtx := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		cancelCtx()
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancelCtx()
		return nil, nil, fmt.Errorf("opening stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancelCtx()
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: "failed to open event stream"}
	}

	ch := make(chan Notification, 64)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancelCtx()
			resp.Body.Close()
		})
	}

	go func() {
		defer close(ch)
		defer cancel()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var n Notification
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				// Blank line terminates one event.
				if n.Topic != "" || len(n.Data) > 0 {
					select {
					case ch <- n:
					case <-ctx.Done():
						return
					}
				}
				n = Notification{}
			case strings.HasPrefix(line, ":"):
				// Comment (keepalive), ignore.
			case strings.HasPrefix(line, "id:"):
				n.ID = sseValue(line, "id:")
			case strings.HasPrefix(line, "event:"):
				n.Topic = sseValue(line, "event:")
			case strings.HasPrefix(line, "data:"):
				n.Data = []byte(sseValue(line, "data:"))
			}
		}
	}()

	return ch, cancel, nil
}

// sseValue extracts a field value, dropping the single optional space after
// the colon that the SSE format allows.
func sseValue(line, prefix string) string {
	v := strings.TrimPrefix(line, prefix)
	return strings.TrimPrefix(v, " ")
}
