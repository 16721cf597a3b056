package handlers

import (
	"net/http"

	"github.com/agentstation/larkdocs"
	"github.com/agentstation/larkdocs/internal/server/events"
	"github.com/agentstation/larkdocs/internal/server/response"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/signature"
)

// AuthRequest is the body of POST /api/v1/auth.
type AuthRequest struct {
	URL       string   `json:"url"`
	OpenID    string   `json:"open_id,omitempty"`
	JSAPIList []string `json:"js_api_list,omitempty"`
}

// SignatureRequest is the body of POST /api/v1/signature.
type SignatureRequest struct {
	Ticket string `json:"ticket"`
	URL    string `json:"url"`
}

// SignatureResponse is a signature plus the normalized URL it covers.
type SignatureResponse struct {
	signature.Result
	URL string `json:"url"`
}

// VerifyRequest is the body of POST /api/v1/verify.
type VerifyRequest struct {
	Ticket    string `json:"ticket"`
	URL       string `json:"url"`
	Signature string `json:"signature"`
	Nonce     string `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
}

// HandleAuth handles POST /api/v1/auth. It signs the page URL with the
// current jsapi_ticket and answers with the AuthConfig the page hands to
// the document component.
func (h *Handlers) HandleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, r.Method)
		return
	}
	if h.Tickets == nil {
		response.ServiceUnavailable(w, "No app credentials configured")
		return
	}

	var req AuthRequest
	if !decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		h.fail(w, r, errors.NewValidationError("url", req.URL, "is required"))
		return
	}

	t, err := h.Tickets.JSAPITicket(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ObserveTicket(t)

	opts := []larkdocs.AuthOption{larkdocs.WithSigner(h.Signer)}
	if req.OpenID != "" {
		opts = append(opts, larkdocs.WithOpenID(req.OpenID))
	}
	switch {
	case len(req.JSAPIList) > 0:
		opts = append(opts, larkdocs.WithJSAPIList(req.JSAPIList...))
	case len(h.JSAPIList) > 0:
		opts = append(opts, larkdocs.WithJSAPIList(h.JSAPIList...))
	}

	auth, err := larkdocs.NewAuthConfig(h.AppID, t.Value, req.URL, opts...)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.Publisher.Publish(events.AuthIssued, events.Issued{
		AppID:     auth.AppID,
		URL:       auth.URL,
		Timestamp: auth.Timestamp,
	})
	response.OK(w, auth)
}

// HandleSignature handles POST /api/v1/signature, signing with a ticket
// supplied by the caller.
func (h *Handlers) HandleSignature(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, r.Method)
		return
	}

	var req SignatureRequest
	if !decode(w, r, &req) {
		return
	}
	if err := requireFields(map[string]string{"ticket": req.Ticket, "url": req.URL}); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.Signer.Sign(req.Ticket, req.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, SignatureResponse{Result: res, URL: signature.NormalizeURL(req.URL)})
}

// HandleVerify handles POST /api/v1/verify.
func (h *Handlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, r.Method)
		return
	}

	var req VerifyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := requireFields(map[string]string{
		"ticket":    req.Ticket,
		"url":       req.URL,
		"signature": req.Signature,
		"nonce":     req.Nonce,
	}); err != nil {
		h.fail(w, r, err)
		return
	}

	valid, err := h.Signer.Verify(req.Ticket, req.URL, signature.Result{
		Signature: req.Signature,
		Nonce:     req.Nonce,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, map[string]bool{"valid": valid})
}

// requireFields returns a ValidationError for the first empty field, in
// name order.
func requireFields(fields map[string]string) error {
	for _, name := range []string{"ticket", "url", "signature", "nonce"} {
		if v, ok := fields[name]; ok && v == "" {
			return errors.NewValidationError(name, v, "is required")
		}
	}
	return nil
}
