// Package tools is the dispatch boundary between protocol calls and the adapter.
package tools

import "encoding/json"

const (
	PostTweet        = "post_tweet"
	SearchTweets     = "search_tweets"
	GetTimeline      = "get_timeline"
	GetRateLimitInfo = "get_rate_limit_info"
)

// Descriptor describes one tool for discovery.
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

var catalog = []Descriptor{
	{
		Name:        PostTweet,
		Description: "Post a new tweet with optional reply to a tweet ID",
		InputSchema: json.RawMessage(`{
  "type": "object",
  "properties": {
    "text": {"type": "string", "description": "The text content of the tweet"},
    "reply_to_tweet_id": {"type": "string", "description": "Optional tweet ID to reply to"}
  },
  "required": ["text"]
}`),
	},
	{
		Name:        SearchTweets,
		Description: "Search for tweets using a query string",
		InputSchema: json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {"type": "string", "description": "Search query for tweets"},
    "max_results": {"type": "number", "description": "Maximum number of results to return (default: 10)"}
  },
  "required": ["query"]
}`),
	},
	{
		Name:        GetTimeline,
		Description: "Get tweets from a user's timeline",
		InputSchema: json.RawMessage(`{
  "type": "object",
  "properties": {
    "username": {"type": "string", "description": "Username to get timeline for"},
    "max_results": {"type": "number", "description": "Maximum number of results to return (default: 10)"}
  },
  "required": ["username"]
}`),
	},
	{
		Name:        GetRateLimitInfo,
		Description: "Get current rate limit information",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	},
}

// Catalog returns the static tool list in a fixed order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}
