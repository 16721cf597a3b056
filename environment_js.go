//go:build js && wasm

package larkdocs

import (
	"github.com/agentstation/larkdocs/pkg/host"
	"github.com/agentstation/larkdocs/pkg/host/browser"
)

func defaultEnvironment() host.Environment {
	return browser.New()
}
