package model

// Tweet is the normalized post shape returned by every tool.
// Optional fields are omitted from JSON when the upstream did not supply them.
type Tweet struct {
	ID            string         `json:"id"`
	Text          string         `json:"text"`
	AuthorID      string         `json:"author_id,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
	PublicMetrics *PublicMetrics `json:"public_metrics,omitempty"`
}

// PublicMetrics are the engagement counters X reports for a tweet.
type PublicMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

// User represents the subset of X user fields needed to resolve a username.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// PostTweetRequest is the input of post_tweet.
type PostTweetRequest struct {
	Text           string `json:"text"`
	ReplyToTweetID string `json:"reply_to_tweet_id,omitempty"`
}

// SearchRequest is the input of search_tweets. MaxResults 0 means the default.
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// TimelineRequest is the input of get_timeline. MaxResults 0 means the default.
type TimelineRequest struct {
	Username   string `json:"username"`
	MaxResults int    `json:"max_results,omitempty"`
}

// RateLimitInfo is a point-in-time rate limit reading. Reset is epoch milliseconds.
type RateLimitInfo struct {
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
	Limit     int   `json:"limit"`
}

// DefaultMaxResults applies when a request leaves its result cap unset.
const DefaultMaxResults = 10

// Cap returns n, or DefaultMaxResults when n is unset.
func Cap(n int) int {
	if n <= 0 {
		return DefaultMaxResults
	}
	return n
}
