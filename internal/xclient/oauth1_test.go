package xclient

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"
	"time"
)

func fixedSigner() *oauth1Signer {
	s := newOAuth1Signer("ck", "cs", "at", "as")
	s.nowFn = func() time.Time { return time.Unix(1700000000, 0) }
	s.nonceFn = func() string { return "nonce" }
	return s
}

func TestOAuth1SigningAddsHeader(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "https://api.twitter.com/2/tweets", nil)
	fixedSigner().sign(req, nil)
	h := req.Header.Get("Authorization")
	if !strings.HasPrefix(h, "OAuth ") {
		t.Fatalf("missing OAuth prefix: %q", h)
	}
	for _, want := range []string{
		`oauth_consumer_key="ck"`,
		`oauth_token="at"`,
		`oauth_nonce="nonce"`,
		`oauth_timestamp="1700000000"`,
		`oauth_signature_method="HMAC-SHA1"`,
		`oauth_signature="`,
	} {
		if !strings.Contains(h, want) {
			t.Fatalf("header %q missing %s", h, want)
		}
	}
}

func TestOAuth1SignatureBaseString(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://API.twitter.com/2/tweets/search/recent?query=go%20lang&max_results=10", nil)
	s := fixedSigner()
	oauth := map[string]string{
		"oauth_consumer_key":     "ck",
		"oauth_nonce":            "nonce",
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        "1700000000",
		"oauth_token":            "at",
		"oauth_version":          "1.0",
	}
	got := s.signature(req.Method, req.URL, oauth, nil)

	params := "max_results=10&oauth_consumer_key=ck&oauth_nonce=nonce&oauth_signature_method=HMAC-SHA1" +
		"&oauth_timestamp=1700000000&oauth_token=at&oauth_version=1.0&query=go%20lang"
	base := "GET&https%3A%2F%2Fapi.twitter.com%2F2%2Ftweets%2Fsearch%2Frecent&" + rfc3986(params)
	mac := hmac.New(sha1.New, []byte("cs&as"))
	mac.Write([]byte(base))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if got != want {
		t.Fatalf("signature mismatch: got %s want %s", got, want)
	}
}

func TestRFC3986(t *testing.T) {
	if got := rfc3986("a b*c~!"); got != "a%20b%2Ac~%21" {
		t.Fatalf("unexpected encoding %q", got)
	}
}
