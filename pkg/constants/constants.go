// Package constants provides shared constants used throughout the larkdocs codebase.
// This includes the SDK location, Lark open platform endpoints, timeouts and
// file permissions that should be consistent across the module.
package constants

import "time"

// SDK constants describe the externally hosted document component script
const (
	// SDKURL is the fixed, versioned location of the document component SDK
	SDKURL = "https://sf1-scmcdn-cn.feishucdn.com/obj/feishu-static/docComponentSdk/lib/1.0.13.js"

	// SDKGlobal is the global entry point the SDK script installs on window
	SDKGlobal = "DocComponentSdk"

	// DefaultJSAPI is the jsApiList entry that enables the document component
	DefaultJSAPI = "DocsComponent"
)

// Signature constants
const (
	// DefaultNonceLength is the length of generated noncestr values
	DefaultNonceLength = 16

	// NonceAlphabet is the character set nonces are drawn from
	NonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Lark open platform constants
const (
	// LarkBaseURL is the default open platform host (Feishu, mainland China)
	LarkBaseURL = "https://open.feishu.cn"

	// LarkSuiteBaseURL is the open platform host for Lark international
	LarkSuiteBaseURL = "https://open.larksuite.com"

	// TenantTokenPath issues a tenant_access_token for an internal app
	TenantTokenPath = "/open-apis/auth/v3/tenant_access_token/internal"

	// JSAPITicketPath issues the jsapi_ticket used for component signatures
	JSAPITicketPath = "/open-apis/jssdk/ticket/get"
)

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the open platform
	DefaultHTTPTimeout = 30 * time.Second

	// ExpiryMargin is subtracted from token and ticket lifetimes before caching
	ExpiryMargin = 5 * time.Minute

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
