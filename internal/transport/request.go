package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agentstation/larkdocs/pkg/errors"
)

// Provider names the remote side in APIErrors.
const Provider = "lark"

// Envelope is the common part of every open platform response body.
type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Result reports the business code carried by a response body.
type Result interface {
	Result() (code int, msg string)
}

// Result implements the Result interface.
func (e Envelope) Result() (int, string) {
	return e.Code, e.Msg
}

// DecodeResponse decodes a JSON response into the target structure. A
// non-200 status or a non-zero business code becomes an APIError.
func DecodeResponse(resp *http.Response, endpoint string, target Result) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			// Log warning but don't override the main error
			fmt.Printf("Warning: failed to close response body: %v\n", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &errors.APIError{
			Provider:   Provider,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    string(body),
		}
		var env Envelope
		if json.Unmarshal(body, &env) == nil && env.Msg != "" {
			apiErr.Code = env.Code
			apiErr.Message = env.Msg
		}
		return apiErr
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	if code, msg := target.Result(); code != 0 {
		return &errors.APIError{
			Provider:   Provider,
			StatusCode: resp.StatusCode,
			Code:       code,
			Endpoint:   endpoint,
			Message:    msg,
		}
	}
	return nil
}
