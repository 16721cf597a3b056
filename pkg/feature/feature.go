// Package feature models the document component's feature configuration.
//
// Every field is optional. A nil pointer or nil struct means "inherit the
// provider default"; the component never interprets the tree and forwards
// it to the widget as is.
package feature

// Config is the root of the feature configuration tree.
type Config struct {
	Extensions *Extensions `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Extensions groups the configurable areas of the component.
type Extensions struct {
	SuiteNavBar *SuiteNavBar `json:"suiteNavBar,omitempty" yaml:"suiteNavBar,omitempty"`
	Content     *Content     `json:"content,omitempty" yaml:"content,omitempty"`
	Comment     *Comment     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Image       *Image       `json:"image,omitempty" yaml:"image,omitempty"`
	Directory   *Directory   `json:"directory,omitempty" yaml:"directory,omitempty"`
	Like        *Disable     `json:"like,omitempty" yaml:"like,omitempty"`
	Footer      *Enable      `json:"footer,omitempty" yaml:"footer,omitempty"`
	Modal       *Modal       `json:"modal,omitempty" yaml:"modal,omitempty"`
	Fullscreen  *Enable      `json:"fullscreen,omitempty" yaml:"fullscreen,omitempty"`
}

// Enable is the common {enable} toggle.
type Enable struct {
	Enable *bool `json:"enable,omitempty" yaml:"enable,omitempty"`
}

// Disable is the common {disable} toggle.
type Disable struct {
	Disable *bool `json:"disable,omitempty" yaml:"disable,omitempty"`
}

// SuiteNavBar configures the header.
type SuiteNavBar struct {
	Disable *bool   `json:"disable,omitempty" yaml:"disable,omitempty"`
	Header  *Header `json:"docComponentHeader,omitempty" yaml:"docComponentHeader,omitempty"`
}

// Header configures the header contents.
type Header struct {
	Color        *string   `json:"color,omitempty" yaml:"color,omitempty"`
	Height       *int      `json:"height,omitempty" yaml:"height,omitempty"`
	BottomLine   *Disable  `json:"bottomLine,omitempty" yaml:"bottomLine,omitempty"`
	MoreMenu     *MoreMenu `json:"moreMenu,omitempty" yaml:"moreMenu,omitempty"`
	ShareButton  *ShareBtn `json:"shareBtn,omitempty" yaml:"shareBtn,omitempty"`
	CollabAvatar *Enable   `json:"collabAvatar,omitempty" yaml:"collabAvatar,omitempty"`
}

// MoreMenu configures the "more" dropdown.
type MoreMenu struct {
	Enable *bool          `json:"enable,omitempty" yaml:"enable,omitempty"`
	Items  *MoreMenuItems `json:"items,omitempty" yaml:"items,omitempty"`
}

// MoreMenuItems toggles individual entries of the "more" dropdown.
type MoreMenuItems struct {
	FindAndReplace      *Enable `json:"findAndReplace,omitempty" yaml:"findAndReplace,omitempty"`
	ApplyEditPermission *Enable `json:"applyEditPermission,omitempty" yaml:"applyEditPermission,omitempty"`
	Clone               *Enable `json:"clone,omitempty" yaml:"clone,omitempty"`
	Export              *Enable `json:"export,omitempty" yaml:"export,omitempty"`
	Detail              *Enable `json:"detailV2,omitempty" yaml:"detailV2,omitempty"`
	History             *Enable `json:"history,omitempty" yaml:"history,omitempty"`
	CommentVersion      *Enable `json:"commentVersion,omitempty" yaml:"commentVersion,omitempty"`
	TranslateToLang     *Enable `json:"translateToLang,omitempty" yaml:"translateToLang,omitempty"`
	Print               *Enable `json:"print,omitempty" yaml:"print,omitempty"`
	Delete              *Enable `json:"delete,omitempty" yaml:"delete,omitempty"`
	DocMiniApp          *Enable `json:"docMiniApp,omitempty" yaml:"docMiniApp,omitempty"`
}

// ShareBtn configures the share button.
type ShareBtn struct {
	Enable        *bool          `json:"enable,omitempty" yaml:"enable,omitempty"`
	Border        *bool          `json:"border,omitempty" yaml:"border,omitempty"`
	Text          *string        `json:"text,omitempty" yaml:"text,omitempty"`
	VisibleConfig *ShareVisible  `json:"visibleConfig,omitempty" yaml:"visibleConfig,omitempty"`
}

// ShareVisible toggles sections of the share panel.
type ShareVisible struct {
	Invite      *bool `json:"invite,omitempty" yaml:"invite,omitempty"`
	ShareLink   *bool `json:"shareLink,omitempty" yaml:"shareLink,omitempty"`
	ShareMethod *bool `json:"shareMethod,omitempty" yaml:"shareMethod,omitempty"`
}

// ContentMode is the page width mode.
type ContentMode string

const (
	ContentModeDefault ContentMode = "default"
	ContentModeWide    ContentMode = "wide"
)

// Opener selects whether links or images open inside the component or are
// handed to the host page.
type Opener string

const (
	OpenInner Opener = "inner"
	OpenOuter Opener = "outer"
)

// Content configures the document body.
type Content struct {
	Mode             *ContentMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Readonly         *bool        `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	TitleVisible     *bool        `json:"titleVisible,omitempty" yaml:"titleVisible,omitempty"`
	Padding          []int        `json:"padding,omitempty" yaml:"padding,omitempty"`
	MaxWidth         *int         `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty"`
	HyperlinkHandler *Opener      `json:"hyperlinkHandler,omitempty" yaml:"hyperlinkHandler,omitempty"`
	Background       *string      `json:"background,omitempty" yaml:"background,omitempty"`
	Scrollbar        *Enable      `json:"scrollbar,omitempty" yaml:"scrollbar,omitempty"`
	Unscrollable     *bool        `json:"unscrollable,omitempty" yaml:"unscrollable,omitempty"`
	Border           *Enable      `json:"border,omitempty" yaml:"border,omitempty"`
	Toolbox          *Toolbox     `json:"toolbox,omitempty" yaml:"toolbox,omitempty"`
}

// Toolbox configures the selection toolbar.
type Toolbox struct {
	Enable      *bool         `json:"enable,omitempty" yaml:"enable,omitempty"`
	CustomItems []ToolBoxItem `json:"customToolBoxItem,omitempty" yaml:"customToolBoxItem,omitempty"`
	HideItems   []string      `json:"hideItems,omitempty" yaml:"hideItems,omitempty"`
}

// ToolBoxItem is a custom selection toolbar button.
type ToolBoxItem struct {
	Icon string `json:"icon" yaml:"icon"` // e.g. "PaSelfReviewOutlined"
	Text string `json:"text" yaml:"text"`
	Type string `json:"type" yaml:"type"` // action it maps to, e.g. "Comment"
}

// Comment configures commenting.
type Comment struct {
	Partial           *PartialComment `json:"partial,omitempty" yaml:"partial,omitempty"`
	Global            *Disable        `json:"global,omitempty" yaml:"global,omitempty"`
	AppUserCanComment *bool           `json:"appUserCanComment,omitempty" yaml:"appUserCanComment,omitempty"`
}

// PartialComment configures inline comments.
type PartialComment struct {
	Disable *bool `json:"disable,omitempty" yaml:"disable,omitempty"`
	Visible *bool `json:"visible,omitempty" yaml:"visible,omitempty"`
	Open    *bool `json:"open,omitempty" yaml:"open,omitempty"`
}

// Image configures image viewing.
type Image struct {
	Viewer   *Opener `json:"viewer,omitempty" yaml:"viewer,omitempty"`
	NeedBlob *bool   `json:"needBlob,omitempty" yaml:"needBlob,omitempty"`
	MaxWidth *int    `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty"`
}

// Directory configures the outline.
type Directory struct {
	Disable *bool `json:"disable,omitempty" yaml:"disable,omitempty"`
	Pin     *bool `json:"pin,omitempty" yaml:"pin,omitempty"`
}

// Modal configures modal windows.
type Modal struct {
	OuterMask *OuterMask `json:"outerMask,omitempty" yaml:"outerMask,omitempty"`
}

// OuterMask configures the mask drawn behind modals.
type OuterMask struct {
	Enable *bool `json:"enable,omitempty" yaml:"enable,omitempty"`
	ZIndex *int  `json:"zIndex,omitempty" yaml:"zIndex,omitempty"`
}

// Bool returns a pointer to v, for building configs in code.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
