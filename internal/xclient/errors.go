package xclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the X API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("x api status %d", e.StatusCode)
	}
	return fmt.Sprintf("x api status %d: %s", e.StatusCode, e.Message)
}

// newAPIError reads the problem body X returns on failures:
// {"title":..., "detail":..., "errors":[{"message":...}]}.
func newAPIError(resp *http.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(b, &problem) == nil {
		switch {
		case problem.Detail != "":
			e.Message = problem.Detail
		case len(problem.Errors) > 0:
			e.Message = problem.Errors[0].Message
		default:
			e.Message = problem.Title
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(b))
	}
	return e
}
