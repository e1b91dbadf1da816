package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"twittermcp/internal/model"
)

// UnknownOperationError is returned for tool names outside the catalog.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string { return "Unknown tool: " + e.Name }

// ValidationError reports an argument bag that does not fit the tool's shape.
type ValidationError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("invalid arguments for %s: %s %s", e.Tool, e.Field, e.Reason)
}

// args is the decoded, still loosely typed argument bag.
type args struct {
	tool string
	m    map[string]json.RawMessage
}

func decodeArgs(tool string, raw json.RawMessage) (args, error) {
	a := args{tool: tool, m: map[string]json.RawMessage{}}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return a, nil
	}
	if err := json.Unmarshal(raw, &a.m); err != nil {
		return a, &ValidationError{Tool: tool, Reason: "arguments must be a JSON object"}
	}
	return a, nil
}

func (a args) requiredString(field string) (string, error) {
	v, ok, err := a.optionalString(field)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return "", &ValidationError{Tool: a.tool, Field: field, Reason: "is required"}
	}
	return v, nil
}

func (a args) optionalString(field string) (string, bool, error) {
	raw, ok := a.m[field]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, &ValidationError{Tool: a.tool, Field: field, Reason: "must be a string"}
	}
	return s, true, nil
}

// optionalCount accepts a positive whole JSON number; absent means 0 (use default).
func (a args) optionalCount(field string) (int, error) {
	raw, ok := a.m[field]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, &ValidationError{Tool: a.tool, Field: field, Reason: "must be a number"}
	}
	if f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return 0, &ValidationError{Tool: a.tool, Field: field, Reason: "must be a positive integer"}
	}
	return int(f), nil
}

func parsePostTweet(a args) (model.PostTweetRequest, error) {
	var req model.PostTweetRequest
	text, err := a.requiredString("text")
	if err != nil {
		return req, err
	}
	reply, _, err := a.optionalString("reply_to_tweet_id")
	if err != nil {
		return req, err
	}
	return model.PostTweetRequest{Text: text, ReplyToTweetID: reply}, nil
}

func parseSearch(a args) (model.SearchRequest, error) {
	var req model.SearchRequest
	q, err := a.requiredString("query")
	if err != nil {
		return req, err
	}
	n, err := a.optionalCount("max_results")
	if err != nil {
		return req, err
	}
	return model.SearchRequest{Query: q, MaxResults: n}, nil
}

func parseTimeline(a args) (model.TimelineRequest, error) {
	var req model.TimelineRequest
	u, err := a.requiredString("username")
	if err != nil {
		return req, err
	}
	n, err := a.optionalCount("max_results")
	if err != nil {
		return req, err
	}
	return model.TimelineRequest{Username: u, MaxResults: n}, nil
}
