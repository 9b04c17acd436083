package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

var ErrMeasurementNotFound = errors.New("measurement not found")
var ErrNotModifiedUncached = errors.New("not modified but no cached response")
var ErrInvalidResponse = errors.New("invalid response from api")

// APIError is returned for transport failures and non-success HTTP responses.
// StatusCode is zero for transport failures.
type APIError struct {
	StatusCode int
	Body       []byte
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return "api request failed: " + e.Message
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type errorEnvelope struct {
	Error struct {
		Message string         `json:"message"`
		Type    string         `json:"type"`
		Params  map[string]any `json:"params,omitempty"`
	} `json:"error"`
}

func newTransportError(err error) *APIError {
	return &APIError{Message: err.Error(), Err: err}
}

// newStatusError maps an unsuccessful response onto a user-facing message.
func newStatusError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       body,
	}

	var envelope errorEnvelope
	_ = json.Unmarshal(body, &envelope)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		apiErr.Message = "invalid parameters"
		if len(envelope.Error.Params) > 0 {
			keys := make([]string, 0, len(envelope.Error.Params))
			for k := range envelope.Error.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			lines := make([]string, 0, len(keys))
			for _, k := range keys {
				lines = append(lines, fmt.Sprintf(" - %v", envelope.Error.Params[k]))
			}
			apiErr.Message += "\n" + strings.Join(lines, "\n")
		}

	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr.Message = "unauthorized"
		if envelope.Error.Message != "" {
			apiErr.Message += ": " + envelope.Error.Message
		}

	case http.StatusNotFound:
		apiErr.Message = "api endpoint not found, check api.url"
		if resp.Request != nil && resp.Request.URL != nil {
			apiErr.Message += ": " + resp.Request.URL.String()
		}

	case http.StatusUnprocessableEntity:
		apiErr.Message = "no suitable probes found - please choose a different location"

	case http.StatusTooManyRequests:
		reset, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
		apiErr.Message = fmt.Sprintf("rate limit exceeded - you can wait %s for the rate limit to reset", formatSeconds(reset))

	case http.StatusInternalServerError:
		apiErr.Message = "internal server error - please try again later"

	default:
		apiErr.Message = fmt.Sprintf("unexpected response status %d", resp.StatusCode)
		if envelope.Error.Type != "" {
			apiErr.Message += ": " + envelope.Error.Type
		}
	}

	return apiErr
}

// newFetchStatusError is newStatusError for a measurement lookup, where a 404 means
// the measurement id is unknown.
func newFetchStatusError(resp *http.Response, body []byte) *APIError {
	apiErr := newStatusError(resp, body)
	if resp.StatusCode == http.StatusNotFound {
		apiErr.Message = ErrMeasurementNotFound.Error()
		apiErr.Err = ErrMeasurementNotFound
	}
	return apiErr
}

func formatSeconds(seconds int64) string {
	switch {
	case seconds < 60:
		return pluralize(seconds, "second")
	case seconds < 3600:
		return pluralize(seconds/60, "minute")
	default:
		return pluralize(seconds/3600, "hour")
	}
}

func pluralize(count int64, unit string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, unit)
	}
	return fmt.Sprintf("%d %ss", count, unit)
}
