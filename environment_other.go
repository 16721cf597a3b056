//go:build !(js && wasm)

package larkdocs

import "github.com/agentstation/larkdocs/pkg/host"

func defaultEnvironment() host.Environment {
	return host.Unsupported{}
}
