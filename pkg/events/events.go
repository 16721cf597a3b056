// Package events defines the closed catalogue of document component events.
//
// The widget exposes two disjoint families of named events: capabilities,
// which are request/response exchanges made with Invoke, and notifications,
// which are durable subscriptions made with Register. Every catalogued name
// carries the shape of its arguments and of its response or payload, checked
// at runtime when values cross the boundary. Names outside the catalogue are
// treated as Unknown and pass through unconstrained.
package events

// Event is the wire name of a capability or notification.
type Event string

// Capabilities (invoke).
const (
	HasUnfinishedTask         Event = "HAS_UNFINISHED_TASK"
	ScrollTo                  Event = "SCROLL_TO"
	ToggleReplaceBox          Event = "TOGGLE_REPLACE_BOX"
	ToggleModal               Event = "TOGGLE_MODAL"
	TogglePrintBox            Event = "TOGGLE_PRINT_BOX"
	ToggleShareMenu           Event = "TOGGLE_SHARE_MENU"
	ToggleCommentHistory      Event = "TOGGLE_COMMENT_HISTORY"
	ToggleHistory             Event = "TOGGLE_HISTORY"
	ReportAbuse               Event = "REPORT_ABUSE"
	ExportByType              Event = "EXPORT_BY_TYPE"
	ToggleTranslate           Event = "TOGGLE_TRANSLATE"
	AnchorJump                Event = "ANCHOR_JUMP"
	GetSuiteTitle             Event = "GET_SUITE_TITLE"
	GetCurrentAuth            Event = "GET_CURRENT_AUTH"
	GetDirectoryData          Event = "GET_DIRECTORY_DATA"
	GetAnchorTop              Event = "GET_ANCHOR_TOP"
	HighlightAnchor           Event = "HIGHLIGHT_ANCHOR"
	GetSupportedExportFormats Event = "GET_SUPPORTED_EXPORT_FORMATS"
	GetTranslateLang          Event = "GET_TRANSLATE_LANG"
	AddNewComment             Event = "ADD_NEW_COMMENT"
	JumpToComment             Event = "JUMP_TO_COMMENT"
)

// Notifications (register).
const (
	DocEditorScroll       Event = "DOC_EDITOR_SCROLL"
	SearchBoxOpen         Event = "SEARCH_BOX_OPEN"
	SearchControllerReady Event = "SEARCH_CONTROLLER_READY"
	ImageView             Event = "IMAGE_VIEW"
	SelectionChange       Event = "SELECTION_CHANGE"
	DocumentHeight        Event = "DOCUMENT_HEIGHT"
	AuthChange            Event = "AUTH_CHANGE"
	SuiteTitleChange      Event = "SUITE_TITLE_CHANGE"
	DirectoryChange       Event = "DIRECTORY_CHANGE"
	CurrAnchor            Event = "CURR_ANCHOR"
	FullScreenMode        Event = "FULL_SCREEN_MODE"
	TranslateChange       Event = "TRANSLATE_CHANGE"
	HyperlinkClick        Event = "HYPERLINK_CLICK"
	OnCreateTempComment   Event = "ON_CREATE_TEMP_COMMENT"
	OnActiveComment       Event = "ON_ACTIVE_COMMENT"
)

// String returns the wire name.
func (e Event) String() string {
	return string(e)
}

// Kind tags which half of the dispatch layer an event belongs to.
type Kind int

const (
	// Unknown events are not catalogued; anything goes.
	Unknown Kind = iota
	// Capability events are invoked and answer with a response envelope.
	Capability
	// Notification events are registered and deliver payloads to handlers.
	Notification
)

// String returns a human readable kind name.
func (k Kind) String() string {
	switch k {
	case Capability:
		return "capability"
	case Notification:
		return "notification"
	default:
		return "unknown"
	}
}

// Kind reports how e is catalogued.
func (e Event) Kind() Kind {
	return Lookup(e).Kind
}
