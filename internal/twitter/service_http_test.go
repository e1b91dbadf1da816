package twitter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twittermcp/internal/model"
	"twittermcp/internal/xclient"
)

func newHTTPService(t *testing.T, h http.HandlerFunc) *Service {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c := xclient.NewHTTPClient(ts.URL, xclient.Credentials{
		ConsumerKey: "ck", ConsumerSecret: "cs", AccessToken: "at", AccessSecret: "as", BearerToken: "b",
	}, 0)
	return NewService(c, epoch)
}

func TestPostTweetAgainstStubUpstream(t *testing.T) {
	svc := newHTTPService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1","text":"hello","created_at":"2023-01-01T00:00:00Z"}}`))
	})
	got, err := svc.PostTweet(context.Background(), model.PostTweetRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, model.Tweet{ID: "1", Text: "hello", CreatedAt: "2023-01-01T00:00:00Z"}, got)
}

func TestStatusMappingOverHTTP(t *testing.T) {
	for status, kind := range map[int]Kind{
		http.StatusTooManyRequests:     KindRateLimited,
		http.StatusUnauthorized:        KindAuthFailed,
		http.StatusForbidden:           KindForbidden,
		http.StatusInternalServerError: KindUpstream,
	} {
		svc := newHTTPService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"title":"failure","detail":"upstream said no"}`))
		})
		_, err := svc.SearchTweets(context.Background(), model.SearchRequest{Query: "q"})
		assert.True(t, IsKind(err, kind), "status %d: %v", status, err)
		if kind == KindUpstream {
			assert.Equal(t, "Twitter API error: x api status 500: upstream said no", err.Error())
		}
	}
}

func TestTimelineNotFoundOverHTTP(t *testing.T) {
	var timelineHits int
	svc := newHTTPService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/by/username/ghost" {
			_, _ = w.Write([]byte(`{"errors":[{"detail":"Could not find user with username: [ghost]."}]}`))
			return
		}
		timelineHits++
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	_, err := svc.GetTimeline(context.Background(), model.TimelineRequest{Username: "ghost"})
	assert.True(t, IsKind(err, KindNotFound))
	assert.Zero(t, timelineHits)
}
