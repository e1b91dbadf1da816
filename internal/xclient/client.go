package xclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"twittermcp/internal/model"
)

// ErrNotFound is returned when the X API answers successfully but carries no data.
var ErrNotFound = errors.New("x api: not found")

// XClient defines the X API v2 calls the server makes.
type XClient interface {
	CreateTweet(ctx context.Context, text, replyToTweetID string) (model.Tweet, error)
	SearchRecentTweets(ctx context.Context, query string, maxResults int) ([]model.Tweet, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserTweets(ctx context.Context, userID string, maxResults int) ([]model.Tweet, error)
}

// Credentials hold the static secrets for both auth schemes.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
	BearerToken    string
}

// HTTPClient talks to X API v2. Writes are signed with OAuth 1.0a user context,
// reads use the app bearer token. It never retries.
type HTTPClient struct {
	baseURL     string
	bearerToken string
	signer      *oauth1Signer
	httpClient  *http.Client
}

// NewHTTPClient builds a client. A zero timeout leaves requests unbounded.
func NewHTTPClient(baseURL string, creds Credentials, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.twitter.com/2"
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: creds.BearerToken,
		signer:      newOAuth1Signer(creds.ConsumerKey, creds.ConsumerSecret, creds.AccessToken, creds.AccessSecret),
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) auth(req *http.Request) {
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	req.Header.Set("Accept", "application/json")
}

type rawTweet struct {
	ID            string               `json:"id"`
	Text          string               `json:"text"`
	AuthorID      string               `json:"author_id"`
	CreatedAt     string               `json:"created_at"`
	PublicMetrics *model.PublicMetrics `json:"public_metrics"`
}

func (d rawTweet) toModel() model.Tweet {
	return model.Tweet{
		ID:            d.ID,
		Text:          d.Text,
		AuthorID:      d.AuthorID,
		CreatedAt:     d.CreatedAt,
		PublicMetrics: d.PublicMetrics,
	}
}

// CreateTweet posts text, optionally as a reply to replyToTweetID.
func (c *HTTPClient) CreateTweet(ctx context.Context, text, replyToTweetID string) (model.Tweet, error) {
	var out model.Tweet
	body := map[string]any{"text": text}
	if replyToTweetID != "" {
		body["reply"] = map[string]string{"in_reply_to_tweet_id": replyToTweetID}
	}
	b, err := json.Marshal(body)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(b))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	// JSON bodies are not part of the OAuth 1.0a signature base.
	c.signer.sign(req, nil)
	var raw struct {
		Data *rawTweet `json:"data"`
	}
	if err := c.do(req, &raw); err != nil {
		return out, err
	}
	if raw.Data == nil {
		return out, errors.New("x api: create tweet returned no data")
	}
	return model.Tweet{ID: raw.Data.ID, Text: raw.Data.Text, CreatedAt: raw.Data.CreatedAt}, nil
}

// SearchRecentTweets searches recent tweets. maxResults is sent as given.
func (c *HTTPClient) SearchRecentTweets(ctx context.Context, query string, maxResults int) ([]model.Tweet, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("max_results", strconv.Itoa(maxResults))
	q.Set("tweet.fields", "created_at,public_metrics,author_id")
	return c.getTweets(ctx, c.baseURL+"/tweets/search/recent?"+q.Encode())
}

// GetUserByUsername resolves a handle. ErrNotFound means the handle does not exist.
func (c *HTTPClient) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var out model.User
	if username == "" {
		return out, errors.New("empty username")
	}
	u := fmt.Sprintf("%s/users/by/username/%s", c.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return out, err
	}
	c.auth(req)
	var raw struct {
		Data *model.User `json:"data"`
	}
	if err := c.do(req, &raw); err != nil {
		return out, err
	}
	if raw.Data == nil || raw.Data.ID == "" {
		return out, ErrNotFound
	}
	return *raw.Data, nil
}

// GetUserTweets returns recent tweets authored by userID.
func (c *HTTPClient) GetUserTweets(ctx context.Context, userID string, maxResults int) ([]model.Tweet, error) {
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(maxResults))
	q.Set("tweet.fields", "created_at,public_metrics")
	return c.getTweets(ctx, fmt.Sprintf("%s/users/%s/tweets?%s", c.baseURL, url.PathEscape(userID), q.Encode()))
}

func (c *HTTPClient) getTweets(ctx context.Context, u string) ([]model.Tweet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.auth(req)
	var raw struct {
		Data []rawTweet `json:"data"`
	}
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Tweet, 0, len(raw.Data))
	for _, d := range raw.Data {
		out = append(out, d.toModel())
	}
	return out, nil
}

// do sends req once and decodes a successful body into dst.
func (c *HTTPClient) do(req *http.Request, dst any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return newAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode x api response: %w", err)
	}
	return nil
}
