package signature

import (
	"crypto"
	"crypto/rand"
	"io"
	"time"

	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
)

// Signer produces signatures. The zero value is not usable; call NewSigner.
type Signer struct {
	random      io.Reader
	now         func() time.Time
	hash        crypto.Hash
	nonceLength int
}

// Option configures a Signer.
type Option func(*Signer)

// WithRandom sets the nonce entropy source.
func WithRandom(r io.Reader) Option {
	return func(s *Signer) {
		s.random = r
	}
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// WithHash overrides the digest. The platform only accepts SHA-1; other
// values exist for testing.
func WithHash(h crypto.Hash) Option {
	return func(s *Signer) {
		s.hash = h
	}
}

// WithNonceLength sets the nonce length.
func WithNonceLength(n int) Option {
	return func(s *Signer) {
		s.nonceLength = n
	}
}

// NewSigner returns a Signer using crypto/rand, the wall clock and SHA-1.
func NewSigner(opts ...Option) *Signer {
	s := &Signer{
		random:      rand.Reader,
		now:         time.Now,
		hash:        crypto.SHA1,
		nonceLength: constants.DefaultNonceLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign creates a fresh signature for ticket and url. The returned nonce and
// timestamp are exactly the ones that were hashed.
func (s *Signer) Sign(ticket, url string) (Result, error) {
	if !s.hash.Available() {
		return Result{}, &errors.CryptoUnavailableError{Algorithm: s.hash.String()}
	}
	nonce, err := generateNonce(s.random, s.nonceLength)
	if err != nil {
		return Result{}, err
	}
	params := Params{
		Ticket:    ticket,
		Nonce:     nonce,
		Timestamp: s.now().UnixMilli(),
		URL:       NormalizeURL(url),
	}
	sig, err := hashWith(s.hash, params.String())
	if err != nil {
		return Result{}, err
	}
	return Result{Signature: sig, Nonce: params.Nonce, Timestamp: params.Timestamp}, nil
}

// Verify reports whether result is a valid signature of ticket and url.
func (s *Signer) Verify(ticket, url string, result Result) (bool, error) {
	expected, err := hashWith(s.hash, BuildString(ticket, result.Nonce, result.Timestamp, NormalizeURL(url)))
	if err != nil {
		return false, err
	}
	return Equal(expected, result.Signature), nil
}

var defaultSigner = NewSigner()

// CreateSignature signs with the default Signer.
func CreateSignature(ticket, url string) (Result, error) {
	return defaultSigner.Sign(ticket, url)
}

// Verify checks result with the default Signer.
func Verify(ticket, url string, result Result) (bool, error) {
	return defaultSigner.Verify(ticket, url, result)
}
