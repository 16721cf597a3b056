package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/larkdocs/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestEnvironmentError(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		err := pkgerrors.NewEnvironmentError("document", "not running in a browser")
		assert.Equal(t, "environment lacks document: not running in a browser", err.Error())
		assert.True(t, pkgerrors.IsEnvironment(err))
	})

	t.Run("without message", func(t *testing.T) {
		err := &pkgerrors.EnvironmentError{Capability: "crypto"}
		assert.Equal(t, "environment lacks crypto", err.Error())
	})
}

func TestLoadError(t *testing.T) {
	t.Run("wrapped cause", func(t *testing.T) {
		cause := errors.New("net::ERR_BLOCKED")
		err := pkgerrors.NewLoadError("https://cdn/sdk.js", "script error", cause)
		assert.Contains(t, err.Error(), "https://cdn/sdk.js")
		assert.Contains(t, err.Error(), "net::ERR_BLOCKED")
		assert.True(t, pkgerrors.IsLoad(err))
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("no cause", func(t *testing.T) {
		err := pkgerrors.NewLoadError("https://cdn/sdk.js", "entry point missing", nil)
		assert.Equal(t, "failed to load https://cdn/sdk.js: entry point missing", err.Error())
	})
}

func TestNotStartedError(t *testing.T) {
	err := pkgerrors.NewNotStartedError("invoke")
	assert.Equal(t, "invoke: component not started, call Start first", err.Error())
	assert.True(t, pkgerrors.IsNotStarted(err))
	assert.False(t, pkgerrors.IsLoad(err))

	wrapped := fmt.Errorf("scroll: %w", err)
	var target *pkgerrors.NotStartedError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "invoke", target.Operation)
}

func TestSDKUnavailableError(t *testing.T) {
	err := &pkgerrors.SDKUnavailableError{Entry: "DocComponentSdk"}
	assert.Contains(t, err.Error(), "DocComponentSdk")
	assert.True(t, pkgerrors.IsSDKUnavailable(err))
}

func TestCryptoUnavailableError(t *testing.T) {
	err := &pkgerrors.CryptoUnavailableError{Algorithm: "SHA-1"}
	assert.Contains(t, err.Error(), "SHA-1")
	assert.True(t, pkgerrors.IsCryptoUnavailable(err))
	assert.True(t, pkgerrors.IsEnvironment(err))
}

func TestEventKindError(t *testing.T) {
	err := &pkgerrors.EventKindError{Event: "DOCUMENT_HEIGHT", Operation: "invoke", Kind: "notification"}
	assert.Equal(t, "cannot invoke DOCUMENT_HEIGHT: catalogued as notification", err.Error())
	assert.True(t, pkgerrors.IsWrongEventKind(err))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "src",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field src: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid configuration",
		}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("business code", func(t *testing.T) {
		err := &pkgerrors.APIError{Provider: "lark", Code: 99991663, Message: "invalid token"}
		assert.Equal(t, "API error from lark (code 99991663): invalid token", err.Error())
	})

	t.Run("status code", func(t *testing.T) {
		err := pkgerrors.NewAPIError("lark", 503, "unavailable")
		assert.Contains(t, err.Error(), "503")
		assert.True(t, pkgerrors.IsProviderUnavailable(err))
	})

	t.Run("rate limited", func(t *testing.T) {
		err := pkgerrors.NewAPIError("lark", 429, "slow down")
		assert.True(t, pkgerrors.IsRateLimited(err))
	})
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("ticket", "app_id cannot be empty", nil)
	assert.Contains(t, err.Error(), "ticket")
	assert.Contains(t, err.Error(), "app_id")
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestAuthenticationError(t *testing.T) {
	err := pkgerrors.NewAuthenticationError("lark", "app_secret", "secret not configured", nil)
	assert.Contains(t, err.Error(), "app_secret")
	assert.True(t, pkgerrors.IsAPIKeyError(err))
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("boom")

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapValidation("x", nil))
		assert.NoError(t, pkgerrors.WrapIO("read", "f", nil))
		assert.NoError(t, pkgerrors.WrapResource("fetch", "ticket", "", nil))
		assert.NoError(t, pkgerrors.WrapParse("yaml", "f", nil))
		assert.NoError(t, pkgerrors.WrapAPI("lark", 500, nil))
	})

	t.Run("WrapResource", func(t *testing.T) {
		err := pkgerrors.WrapResource("fetch", "ticket", "cli_a1", base)
		assert.Equal(t, "failed to fetch ticket cli_a1: boom", err.Error())
		assert.ErrorIs(t, err, base)
	})

	t.Run("WrapParse", func(t *testing.T) {
		err := pkgerrors.WrapParse("yaml", "feature.yaml", base)
		assert.Equal(t, "parse error in yaml file feature.yaml: boom", err.Error())
	})

	t.Run("WrapIO", func(t *testing.T) {
		err := pkgerrors.WrapIO("read", "feature.yaml", base)
		assert.ErrorIs(t, err, base)
	})

	t.Run("WrapAPI", func(t *testing.T) {
		err := pkgerrors.WrapAPI("lark", 502, base)
		assert.True(t, pkgerrors.IsProviderUnavailable(err))
		assert.ErrorIs(t, err, base)
	})
}

func TestSentinelErrors(t *testing.T) {
	testCases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"environment", pkgerrors.NewEnvironmentError("document", ""), pkgerrors.IsEnvironment},
		{"load", pkgerrors.NewLoadError("u", "m", nil), pkgerrors.IsLoad},
		{"sdk unavailable", &pkgerrors.SDKUnavailableError{}, pkgerrors.IsSDKUnavailable},
		{"not started", pkgerrors.NewNotStartedError(""), pkgerrors.IsNotStarted},
		{"not found", pkgerrors.NewNotFoundError("ticket", "x"), pkgerrors.IsNotFound},
		{"joined", errors.Join(errors.New("other"), pkgerrors.NewNotStartedError("refresh")), pkgerrors.IsNotStarted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.check(tc.err))
		})
	}
}
