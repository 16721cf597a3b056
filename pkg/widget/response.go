package widget

import "fmt"

// Provider result codes. The component passes them through unchanged.
const (
	CodeSuccess      = 0
	CodeNoPermission = 4
	CodeNoteDeleted  = 1002
	CodeNotFound     = 1004
	CodeNetwork      = -8
	CodeRequestFail  = 1
	CodeNotSupported = -100
	CodeLoadError    = -500
)

var codeNames = map[int]string{
	CodeSuccess:      "success",
	CodeNoPermission: "no permission",
	CodeNoteDeleted:  "note deleted",
	CodeNotFound:     "not found",
	CodeNetwork:      "network error",
	CodeRequestFail:  "request failed",
	CodeNotSupported: "not supported",
	CodeLoadError:    "load error",
}

// CodeText returns a short description for a known provider code.
func CodeText(code int) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("code %d", code)
}

// Response is the envelope every capability answers with.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// OK reports whether the provider answered with the success code.
func (r Response) OK() bool {
	return r.Code == CodeSuccess
}

func (r Response) String() string {
	if r.Msg == "" {
		return fmt.Sprintf("%d (%s)", r.Code, CodeText(r.Code))
	}
	return fmt.Sprintf("%d (%s): %s", r.Code, CodeText(r.Code), r.Msg)
}
