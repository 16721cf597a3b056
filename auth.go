package larkdocs

import (
	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/signature"
	"github.com/agentstation/larkdocs/pkg/widget"
)

// AuthConfig is the signed bundle passed to the widget through WithAuth.
type AuthConfig = widget.AuthConfig

// AuthOption configures NewAuthConfig.
type AuthOption func(*authOptions)

type authOptions struct {
	openID    string
	jsAPIList []string
	signer    *signature.Signer
}

// WithOpenID sets the open_id of the signed-in user.
func WithOpenID(openID string) AuthOption {
	return func(o *authOptions) {
		o.openID = openID
	}
}

// WithJSAPIList overrides the default jsApiList.
func WithJSAPIList(apis ...string) AuthOption {
	return func(o *authOptions) {
		o.jsAPIList = apis
	}
}

// WithSigner signs with s instead of the default signer.
func WithSigner(s *signature.Signer) AuthOption {
	return func(o *authOptions) {
		o.signer = s
	}
}

// NewAuthConfig signs pageURL with a jsapi ticket and returns the bundle
// the widget expects. The bundle carries the normalized URL that was
// signed.
func NewAuthConfig(appID, ticket, pageURL string, opts ...AuthOption) (*AuthConfig, error) {
	if appID == "" {
		return nil, errors.NewValidationError("appId", appID, "is required")
	}
	if ticket == "" {
		return nil, errors.NewValidationError("ticket", ticket, "is required")
	}
	if pageURL == "" {
		return nil, errors.NewValidationError("url", pageURL, "is required")
	}

	o := authOptions{jsAPIList: []string{constants.DefaultJSAPI}}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		res signature.Result
		err error
	)
	if o.signer != nil {
		res, err = o.signer.Sign(ticket, pageURL)
	} else {
		res, err = signature.CreateSignature(ticket, pageURL)
	}
	if err != nil {
		return nil, err
	}

	return &AuthConfig{
		OpenID:    o.openID,
		Signature: res.Signature,
		AppID:     appID,
		Timestamp: res.Timestamp,
		NonceStr:  res.Nonce,
		URL:       signature.NormalizeURL(pageURL),
		JSAPIList: o.jsAPIList,
	}, nil
}
