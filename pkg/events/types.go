package events

// CommentRef identifies a comment thread.
type CommentRef struct {
	CommentID string `json:"commentId"`
}

// NewComment is the argument of ADD_NEW_COMMENT.
type NewComment struct {
	TempCommentID string `json:"tempCommentId"`
	Content       string `json:"content,omitempty"`
	Notify        *bool  `json:"notify,omitempty"`
}

// CreatedComment is the response data of ADD_NEW_COMMENT.
type CreatedComment struct {
	CommentID string `json:"commentId"`
	ReplyID   string `json:"replyId"`
}

// UnfinishedTask is the response data of HAS_UNFINISHED_TASK.
type UnfinishedTask struct {
	HasUnfinishedTask     bool `json:"hasUnFinishedTask"`
	HasUnfinishedFileTask bool `json:"hasUnFinishedFileTask"`
}

// Permissions is the current user's access to the document. It answers
// GET_CURRENT_AUTH and is the payload of AUTH_CHANGE.
type Permissions struct {
	Owner       bool `json:"owner"`
	Readable    bool `json:"readable"`
	Editable    bool `json:"editable"`
	Commentable bool `json:"commentable"`
	Shareable   bool `json:"shareable"`
	Copyable    bool `json:"copyable"`
	Printable   bool `json:"printable"`
	Exportable  bool `json:"exportable"`
}

// DirectoryEntry is one heading of the document outline. Anchor is empty in
// data fetched before the outline has been rendered.
type DirectoryEntry struct {
	Anchor      string `json:"anchor,omitempty"`
	Text        string `json:"text"`
	IndentLevel int    `json:"indentLevel"`
}

// TempComment is the payload of ON_CREATE_TEMP_COMMENT.
type TempComment struct {
	Quote        string `json:"quote"`
	TmpCommentID string `json:"tmpCommentId"`
}

// SearchBoxStats is the payload of SEARCH_BOX_OPEN.
type SearchBoxStats struct {
	Duration  float64 `json:"duration"`
	OpenTimes float64 `json:"openTimes"`
}

// SearchReady is the payload of SEARCH_CONTROLLER_READY.
type SearchReady struct {
	SearchReadyTime       float64 `json:"searchReadyTime"`
	TriggerBeforeDidMount bool    `json:"trigger_before_didmount"`
}

// Image is the payload of IMAGE_VIEW. Blob is the provider's opaque binary
// handle and is only populated when the feature config asks for it.
type Image struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Blob any    `json:"blob,omitempty"`
}

// Selection is one element of the SELECTION_CHANGE payload.
type Selection struct {
	ID    string     `json:"id"`
	Range [2]float64 `json:"range"`
}

// Modal names accepted by TOGGLE_MODAL. Other strings are allowed.
const (
	ModalClone  = "CLONE"
	ModalDetail = "DETAIL"
	ModalDelete = "DELETE"
)
