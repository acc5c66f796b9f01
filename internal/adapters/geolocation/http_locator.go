package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"place-picker-service/internal/domain"
	"strings"
	"time"
)

// HTTPLocator asks an IP geolocation endpoint for the caller's position.
//
// The endpoint must answer GET with a JSON object carrying "lat" and "lon";
// an optional "status" other than "success" is treated as a failure.
type HTTPLocator struct {
	session    *http.Client
	url        string
	maxAttempt int
	backoff    time.Duration
}

type locateResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func NewHTTPLocator(url string) (*HTTPLocator, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("http locator: url is empty")
	}

	return &HTTPLocator{
		session:    &http.Client{Timeout: 5 * time.Second},
		url:        url,
		maxAttempt: 4,
		backoff:    200 * time.Millisecond,
	}, nil
}

func (l *HTTPLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	resp, err := l.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("locate via %s: %w", l.url, err)
	}
	defer resp.Body.Close()

	var body locateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinates{}, fmt.Errorf("locate: decode response: %w", err)
	}

	if body.Status != "" && body.Status != "success" {
		return domain.Coordinates{}, fmt.Errorf("locate: status %q: %s", body.Status, body.Message)
	}
	if body.Lat == nil || body.Lon == nil {
		return domain.Coordinates{}, errors.New("locate: response missing lat/lon")
	}

	return domain.Coordinates{Lat: *body.Lat, Lon: *body.Lon}, nil
}

func (l *HTTPLocator) do(req *http.Request) (*http.Response, error) {
	resp, err := l.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx)
// with exponential backoff, giving up as soon as ctx is done.
func (l *HTTPLocator) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := l.backoff

	var lastErr error

	for attempt := 1; attempt <= l.maxAttempt; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := l.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == l.maxAttempt {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
