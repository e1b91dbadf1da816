package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twittermcp/internal/model"
)

type fakeBackend struct {
	calls    []string
	post     model.PostTweetRequest
	search   model.SearchRequest
	timeline model.TimelineRequest
	err      error
}

func (f *fakeBackend) PostTweet(_ context.Context, req model.PostTweetRequest) (model.Tweet, error) {
	f.calls = append(f.calls, PostTweet)
	f.post = req
	return model.Tweet{ID: "1", Text: req.Text, CreatedAt: "2023-01-01T00:00:00Z"}, f.err
}

func (f *fakeBackend) SearchTweets(_ context.Context, req model.SearchRequest) ([]model.Tweet, error) {
	f.calls = append(f.calls, SearchTweets)
	f.search = req
	if f.err != nil {
		return nil, f.err
	}
	return []model.Tweet{}, nil
}

func (f *fakeBackend) GetTimeline(_ context.Context, req model.TimelineRequest) ([]model.Tweet, error) {
	f.calls = append(f.calls, GetTimeline)
	f.timeline = req
	return []model.Tweet{{ID: "7", Text: "t", PublicMetrics: &model.PublicMetrics{LikeCount: 2}}}, f.err
}

func (f *fakeBackend) GetRateLimitInfo(context.Context) (model.RateLimitInfo, error) {
	f.calls = append(f.calls, GetRateLimitInfo)
	return model.RateLimitInfo{Remaining: 300, Reset: 1672532100000, Limit: 300}, nil
}

func TestCatalogShape(t *testing.T) {
	want := map[string][]string{
		PostTweet:        {"text"},
		SearchTweets:     {"query"},
		GetTimeline:      {"username"},
		GetRateLimitInfo: nil,
	}
	cat := Catalog()
	require.Len(t, cat, 4)
	for _, d := range cat {
		var schema struct {
			Type       string                     `json:"type"`
			Properties map[string]json.RawMessage `json:"properties"`
			Required   []string                   `json:"required"`
		}
		require.NoError(t, json.Unmarshal(d.InputSchema, &schema), d.Name)
		assert.Equal(t, "object", schema.Type)
		assert.Equal(t, want[d.Name], schema.Required, d.Name)
		assert.NotEmpty(t, d.Description)
	}
}

func TestUnknownToolNeverReachesBackend(t *testing.T) {
	fb := &fakeBackend{}
	_, err := NewDispatcher(fb).Call(context.Background(), "bogus_tool", json.RawMessage(`{"text":"x"}`))
	var ue *UnknownOperationError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "Unknown tool: bogus_tool", err.Error())
	assert.Empty(t, fb.calls)
}

func TestPostTweetRouting(t *testing.T) {
	fb := &fakeBackend{}
	d := NewDispatcher(fb)
	out, err := d.Call(context.Background(), PostTweet, json.RawMessage(`{"text":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, model.PostTweetRequest{Text: "hello"}, fb.post)
	assert.JSONEq(t, `{"id":"1","text":"hello","created_at":"2023-01-01T00:00:00Z"}`, out)

	_, err = d.Call(context.Background(), PostTweet, json.RawMessage(`{"text":"hi","reply_to_tweet_id":"55"}`))
	require.NoError(t, err)
	assert.Equal(t, "55", fb.post.ReplyToTweetID)
}

func TestResultIsIndentedJSON(t *testing.T) {
	out, err := NewDispatcher(&fakeBackend{}).Call(context.Background(), GetRateLimitInfo, nil)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"remaining\": 300,\n  \"reset\": 1672532100000,\n  \"limit\": 300\n}", out)
}

func TestSearchDefaultsAndEmptyArray(t *testing.T) {
	fb := &fakeBackend{}
	d := NewDispatcher(fb)
	out, err := d.Call(context.Background(), SearchTweets, json.RawMessage(`{"query":"go"}`))
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	assert.Equal(t, 0, fb.search.MaxResults)
	assert.Equal(t, 10, model.Cap(fb.search.MaxResults))

	_, err = d.Call(context.Background(), SearchTweets, json.RawMessage(`{"query":"go","max_results":25}`))
	require.NoError(t, err)
	assert.Equal(t, 25, fb.search.MaxResults)
}

func TestTimelineRouting(t *testing.T) {
	fb := &fakeBackend{}
	out, err := NewDispatcher(fb).Call(context.Background(), GetTimeline, json.RawMessage(`{"username":"jack","max_results":5}`))
	require.NoError(t, err)
	assert.Equal(t, model.TimelineRequest{Username: "jack", MaxResults: 5}, fb.timeline)
	assert.JSONEq(t, `[{"id":"7","text":"t","public_metrics":{"retweet_count":0,"reply_count":0,"like_count":2,"quote_count":0}}]`, out)
}

func TestValidationFailures(t *testing.T) {
	cases := []struct {
		tool, args, msg string
	}{
		{PostTweet, `{}`, "invalid arguments for post_tweet: text is required"},
		{PostTweet, `{"text":""}`, "invalid arguments for post_tweet: text is required"},
		{PostTweet, `{"text":null}`, "invalid arguments for post_tweet: text is required"},
		{PostTweet, `{"text":5}`, "invalid arguments for post_tweet: text must be a string"},
		{PostTweet, `{"text":"a","reply_to_tweet_id":9}`, "invalid arguments for post_tweet: reply_to_tweet_id must be a string"},
		{SearchTweets, `{"max_results":5}`, "invalid arguments for search_tweets: query is required"},
		{SearchTweets, `{"query":"q","max_results":"5"}`, "invalid arguments for search_tweets: max_results must be a number"},
		{SearchTweets, `{"query":"q","max_results":2.5}`, "invalid arguments for search_tweets: max_results must be a positive integer"},
		{GetTimeline, `{"username":"u","max_results":0}`, "invalid arguments for get_timeline: max_results must be a positive integer"},
		{GetTimeline, `[1,2]`, "invalid arguments for get_timeline: arguments must be a JSON object"},
	}
	for _, c := range cases {
		fb := &fakeBackend{}
		_, err := NewDispatcher(fb).Call(context.Background(), c.tool, json.RawMessage(c.args))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "%s %s: %v", c.tool, c.args, err)
		assert.Equal(t, c.msg, err.Error())
		assert.Empty(t, fb.calls)
	}
}

func TestBackendErrorPropagates(t *testing.T) {
	boom := errors.New("Rate limit exceeded. Please try again later.")
	fb := &fakeBackend{err: boom}
	out, err := NewDispatcher(fb).Call(context.Background(), SearchTweets, json.RawMessage(`{"query":"q"}`))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out)
}

func TestWhitespaceTextIsForwarded(t *testing.T) {
	fb := &fakeBackend{}
	_, err := NewDispatcher(fb).Call(context.Background(), PostTweet, json.RawMessage(`{"text":"   "}`))
	require.NoError(t, err)
	assert.Equal(t, "   ", fb.post.Text)
}

func TestKnown(t *testing.T) {
	d := NewDispatcher(&fakeBackend{})
	for _, desc := range Catalog() {
		assert.True(t, d.Known(desc.Name), desc.Name)
	}
	assert.False(t, d.Known("bogus_tool"))
	assert.False(t, d.Known(""))
}
