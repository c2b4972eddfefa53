package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

var (
	// Refresh request failed or returned no usable token; local tokens are cleared
	ErrRefreshFailed = errors.New("token refresh failed")

	// Refresh response was OK but carried no access token
	ErrNoAccessToken = errors.New("no access token received")
)

// Response is a fully read HTTP response.
// Non-2xx statuses are not errors on this level, callers decide how to treat them.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsJSON reports whether the content type is application/json or a +json type
func (r *Response) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Value returns the body decoded from JSON when the server says it's JSON, raw text otherwise
func (r *Response) Value() (any, error) {
	if !r.IsJSON() {
		return string(r.Body), nil
	}

	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, fmt.Errorf("decode json body: %w", err)
	}
	return v, nil
}

func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// APIError is a non-2xx response interpreted by a typed API call
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Err converts a failed response to *APIError; it returns nil for 2xx responses
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}

	apiErr := &APIError{StatusCode: r.StatusCode}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if r.IsJSON() && json.Unmarshal(r.Body, &body) == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(r.Body))
	return apiErr
}

// StatusCode extracts the HTTP status from an *APIError, zero otherwise
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
