package tools

import (
	"context"
	"encoding/json"

	"twittermcp/internal/model"
)

// Backend is the adapter surface the dispatcher routes to. *twitter.Service implements it.
type Backend interface {
	PostTweet(ctx context.Context, req model.PostTweetRequest) (model.Tweet, error)
	SearchTweets(ctx context.Context, req model.SearchRequest) ([]model.Tweet, error)
	GetTimeline(ctx context.Context, req model.TimelineRequest) ([]model.Tweet, error)
	GetRateLimitInfo(ctx context.Context) (model.RateLimitInfo, error)
}

// Dispatcher routes a named call with raw JSON arguments to exactly one Backend method.
type Dispatcher struct {
	backend  Backend
	handlers map[string]handler
}

type handler func(ctx context.Context, a args) (any, error)

func NewDispatcher(backend Backend) *Dispatcher {
	d := &Dispatcher{backend: backend}
	d.handlers = map[string]handler{
		PostTweet: func(ctx context.Context, a args) (any, error) {
			req, err := parsePostTweet(a)
			if err != nil {
				return nil, err
			}
			return d.backend.PostTweet(ctx, req)
		},
		SearchTweets: func(ctx context.Context, a args) (any, error) {
			req, err := parseSearch(a)
			if err != nil {
				return nil, err
			}
			return d.backend.SearchTweets(ctx, req)
		},
		GetTimeline: func(ctx context.Context, a args) (any, error) {
			req, err := parseTimeline(a)
			if err != nil {
				return nil, err
			}
			return d.backend.GetTimeline(ctx, req)
		},
		GetRateLimitInfo: func(ctx context.Context, _ args) (any, error) {
			return d.backend.GetRateLimitInfo(ctx)
		},
	}
	return d
}

// Known reports whether name is in the catalog.
func (d *Dispatcher) Known(name string) bool {
	_, ok := d.handlers[name]
	return ok
}

// Call runs the tool and returns its result as indented JSON text.
func (d *Dispatcher) Call(ctx context.Context, name string, rawArgs json.RawMessage) (string, error) {
	h, ok := d.handlers[name]
	if !ok {
		return "", &UnknownOperationError{Name: name}
	}
	a, err := decodeArgs(name, rawArgs)
	if err != nil {
		return "", err
	}
	res, err := h(ctx, a)
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
