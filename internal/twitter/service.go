// Package twitter adapts tool requests onto the X API client and normalizes
// results and failures.
package twitter

import (
	"context"
	"errors"
	"time"

	"twittermcp/internal/logging"
	"twittermcp/internal/metrics"
	"twittermcp/internal/model"
	"twittermcp/internal/util"
	"twittermcp/internal/xclient"
)

const (
	snapshotLimit  = 300
	snapshotWindow = 900000 * time.Millisecond
)

// Service is the upstream adapter. It is safe for concurrent use: the only
// state after construction is the client and the rate limit snapshot, and
// neither is written again.
type Service struct {
	client    xclient.XClient
	rateLimit model.RateLimitInfo
}

// NewService wraps client. The rate limit snapshot is taken here, relative to now,
// and never refreshed from API responses.
func NewService(client xclient.XClient, now time.Time) *Service {
	return &Service{
		client: client,
		rateLimit: model.RateLimitInfo{
			Remaining: snapshotLimit,
			Reset:     now.Add(snapshotWindow).UnixMilli(),
			Limit:     snapshotLimit,
		},
	}
}

// PostTweet publishes a tweet, as a reply when ReplyToTweetID is set.
func (s *Service) PostTweet(ctx context.Context, req model.PostTweetRequest) (model.Tweet, error) {
	logging.Info("posting tweet", map[string]any{"text": util.Preview(req.Text), "reply": req.ReplyToTweetID != ""})
	var out model.Tweet
	err := s.call("create_tweet", func() error {
		tw, err := s.client.CreateTweet(ctx, req.Text, req.ReplyToTweetID)
		if err != nil {
			return err
		}
		// Only id, text and created_at are reported for new posts.
		out = model.Tweet{ID: tw.ID, Text: tw.Text, CreatedAt: tw.CreatedAt}
		return nil
	})
	return out, err
}

// SearchTweets runs a recent search. The result is never nil.
func (s *Service) SearchTweets(ctx context.Context, req model.SearchRequest) ([]model.Tweet, error) {
	logging.Info("searching tweets", map[string]any{"query": util.Preview(req.Query)})
	var out []model.Tweet
	err := s.call("search_recent", func() error {
		tws, err := s.client.SearchRecentTweets(ctx, req.Query, model.Cap(req.MaxResults))
		out = tws
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// GetTimeline resolves username and returns that user's recent tweets.
// An unknown username fails with KindNotFound before the timeline is requested.
func (s *Service) GetTimeline(ctx context.Context, req model.TimelineRequest) ([]model.Tweet, error) {
	logging.Info("getting user timeline", map[string]any{"username": req.Username})
	var user model.User
	err := s.call("user_by_username", func() error {
		u, err := s.client.GetUserByUsername(ctx, req.Username)
		if errors.Is(err, xclient.ErrNotFound) || (err == nil && u.ID == "") {
			return notFound(req.Username)
		}
		user = u
		return err
	})
	if err != nil {
		return nil, err
	}
	var out []model.Tweet
	err = s.call("user_tweets", func() error {
		tws, err := s.client.GetUserTweets(ctx, user.ID, model.Cap(req.MaxResults))
		out = tws
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// GetRateLimitInfo returns the snapshot taken at construction.
func (s *Service) GetRateLimitInfo(context.Context) (model.RateLimitInfo, error) {
	return s.rateLimit, nil
}

// call runs one upstream request, records it, and maps its failure.
func (s *Service) call(endpoint string, f func() error) error {
	start := time.Now()
	err := f()
	if err == nil {
		metrics.ObserveUpstream(endpoint, "ok", start)
		logging.Info("twitter api call successful", map[string]any{"endpoint": endpoint})
		return nil
	}
	mapped := MapError(err)
	level := logging.Error
	if mapped.Kind == KindNotFound {
		level = logging.Warn
	}
	fields := map[string]any{"endpoint": endpoint, "error": err.Error(), "kind": mapped.Kind.String()}
	var apiErr *xclient.APIError
	if errors.As(err, &apiErr) {
		fields["code"] = apiErr.StatusCode
	}
	metrics.ObserveUpstream(endpoint, mapped.Kind.String(), start)
	level("twitter api error", fields)
	return mapped
}

func nonNil(tws []model.Tweet) []model.Tweet {
	if tws == nil {
		return []model.Tweet{}
	}
	return tws
}
