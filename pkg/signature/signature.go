// Package signature derives the jsapi signature that authenticates an
// embedding page to the Lark open platform.
//
// The canonical string is
//
//	jsapi_ticket=<ticket>&noncestr=<nonce>&timestamp=<ms>&url=<url>
//
// and the signature is its lowercase hex SHA-1 digest.
package signature

import (
	"crypto"
	_ "crypto/sha1" // registers crypto.SHA1
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/larkdocs/pkg/errors"
)

// Params are the inputs of the canonical string.
type Params struct {
	Ticket    string
	Nonce     string
	Timestamp int64 // epoch milliseconds
	URL       string
}

// Result is a signature along with the nonce and timestamp it was computed
// from, so that a verifier can rebuild the canonical string.
type Result struct {
	Signature string `json:"signature" yaml:"signature"`
	Nonce     string `json:"nonce" yaml:"nonce"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
}

// String returns the canonical string for p.
func (p Params) String() string {
	return BuildString(p.Ticket, p.Nonce, p.Timestamp, p.URL)
}

// BuildString joins the four fields in their fixed order. Values are used
// as given; callers supply an already normalized url.
func BuildString(ticket, nonce string, timestamp int64, url string) string {
	var b strings.Builder
	b.Grow(len(ticket) + len(nonce) + len(url) + 64)
	b.WriteString("jsapi_ticket=")
	b.WriteString(ticket)
	b.WriteString("&noncestr=")
	b.WriteString(nonce)
	b.WriteString("&timestamp=")
	b.WriteString(strconv.FormatInt(timestamp, 10))
	b.WriteString("&url=")
	b.WriteString(url)
	return b.String()
}

// NormalizeURL drops the fragment of an absolute URL and canonicalizes its
// origin: scheme and host are lowercased, a default port is removed, an
// empty path becomes "/", userinfo is dropped and an empty query is
// removed. The query is percent-encoded like a browser would. Input that
// does not parse as an absolute URL is only truncated at the first '#'.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			return raw[:i]
		}
		return raw
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := u.Port(); port != "" && port != defaultPorts[scheme] {
		host += ":" + port
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(host)
	b.WriteString(path)
	if u.RawQuery != "" {
		b.WriteByte('?')
		escapeQuery(&b, u.RawQuery, defaultPorts[scheme] != "")
	}
	return b.String()
}

// escapeQuery writes query percent-encoded with the WHATWG query set.
// Special schemes also encode the single quote. Existing escapes are kept.
func escapeQuery(b *strings.Builder, query string, special bool) {
	const hex = "0123456789ABCDEF"
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c <= ' ' || c > '~' || c == '"' || c == '#' || c == '<' || c == '>',
			special && c == '\'':
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		default:
			b.WriteByte(c)
		}
	}
}

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
}

// Hash returns the lowercase hex SHA-1 digest of text.
func Hash(text string) (string, error) {
	return hashWith(crypto.SHA1, text)
}

func hashWith(h crypto.Hash, text string) (string, error) {
	if !h.Available() {
		return "", &errors.CryptoUnavailableError{Algorithm: h.String()}
	}
	d := h.New()
	d.Write([]byte(text))
	return hex.EncodeToString(d.Sum(nil)), nil
}

// Equal compares two signatures in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
