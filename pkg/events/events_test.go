package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/events"
)

func TestCatalogIsDisjoint(t *testing.T) {
	capabilities := events.Capabilities()
	notifications := events.Notifications()

	assert.Len(t, capabilities, 21)
	assert.Len(t, notifications, 15)

	for _, c := range capabilities {
		assert.Equal(t, events.Capability, c.Kind(), c)
		assert.NotContains(t, notifications, c)
	}
	for _, n := range notifications {
		assert.Equal(t, events.Notification, n.Kind(), n)
	}
}

func TestLookupUnknown(t *testing.T) {
	spec := events.Lookup("SOME_FUTURE_CAPABILITY")
	assert.Equal(t, events.Unknown, spec.Kind)
	assert.False(t, spec.Catalogued())
	assert.NoError(t, spec.ValidateArgs([]any{1, "two", struct{}{}}))

	data, err := spec.DecodeData(map[string]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1}, data)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "capability", events.Capability.String())
	assert.Equal(t, "notification", events.Notification.String())
	assert.Equal(t, "unknown", events.Unknown.String())
}

func TestValidateArgs(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
		args  []any
		ok    bool
	}{
		{"no args", events.GetSuiteTitle, nil, true},
		{"unexpected arg", events.GetSuiteTitle, []any{"x"}, false},
		{"number int", events.ScrollTo, []any{120}, true},
		{"number float with style", events.ScrollTo, []any{12.5, map[string]any{"top": 10, "behavior": "smooth"}}, true},
		{"style string map", events.ToggleShareMenu, []any{true, map[string]string{"left": "4px"}}, true},
		{"style bad value", events.ScrollTo, []any{1, map[string]any{"top": []int{1}}}, false},
		{"number missing", events.ScrollTo, []any{}, false},
		{"number wrong type", events.ScrollTo, []any{"120"}, false},
		{"optional nil", events.ToggleReplaceBox, []any{nil, map[string]any{"top": 1}}, true},
		{"optional omitted", events.TogglePrintBox, nil, true},
		{"required nil", events.ExportByType, []any{nil}, false},
		{"open modal name", events.ToggleModal, []any{"CUSTOM", false}, true},
		{"translate needs true", events.ToggleTranslate, []any{false, "en"}, false},
		{"translate ok", events.ToggleTranslate, []any{true, "en"}, true},
		{"object struct", events.AddNewComment, []any{events.NewComment{TempCommentID: "tmp"}}, true},
		{"object pointer", events.JumpToComment, []any{&events.CommentRef{CommentID: "c1"}}, true},
		{"object map", events.JumpToComment, []any{map[string]any{"commentId": "c1"}}, true},
		{"object wrong struct", events.JumpToComment, []any{events.TempComment{}}, false},
		{"notification accepts anything", events.DocumentHeight, []any{"whatever"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := events.Lookup(tt.event).ValidateArgs(tt.args)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestDecodeData(t *testing.T) {
	t.Run("struct from map", func(t *testing.T) {
		raw := map[string]any{"owner": true, "readable": true, "editable": false, "extra": "ignored"}
		data, err := events.Lookup(events.GetCurrentAuth).DecodeData(raw)
		require.NoError(t, err)
		assert.Equal(t, events.Permissions{Owner: true, Readable: true}, data)
	})

	t.Run("slice of structs with float levels", func(t *testing.T) {
		raw := []any{
			map[string]any{"text": "Intro", "indentLevel": float64(1)},
			map[string]any{"anchor": "h2", "text": "Usage", "indentLevel": float64(2)},
		}
		data, err := events.Lookup(events.GetDirectoryData).DecodeData(raw)
		require.NoError(t, err)
		assert.Equal(t, []events.DirectoryEntry{
			{Text: "Intro", IndentLevel: 1},
			{Anchor: "h2", Text: "Usage", IndentLevel: 2},
		}, data)
	})

	t.Run("scalar", func(t *testing.T) {
		data, err := events.Lookup(events.GetSuiteTitle).DecodeData("Quarterly report")
		require.NoError(t, err)
		assert.Equal(t, "Quarterly report", data)
	})

	t.Run("void capability keeps raw", func(t *testing.T) {
		data, err := events.Lookup(events.ScrollTo).DecodeData(map[string]any{"a": 1})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 1}, data)
	})

	t.Run("mismatch returns raw and error", func(t *testing.T) {
		raw := map[string]any{"not": "a string"}
		data, err := events.Lookup(events.GetSuiteTitle).DecodeData(raw)
		assert.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
		assert.Equal(t, raw, data)
	})
}

func TestNewPayload(t *testing.T) {
	t.Run("selection ranges", func(t *testing.T) {
		p := events.NewPayload(events.SelectionChange, []any{
			map[string]any{"id": "blk1", "range": []any{float64(0), float64(5)}},
		})
		require.NoError(t, p.Err)
		assert.Equal(t, []events.Selection{{ID: "blk1", Range: [2]float64{0, 5}}}, p.Value)
	})

	t.Run("search ready uses snake case key", func(t *testing.T) {
		p := events.NewPayload(events.SearchControllerReady, map[string]any{
			"searchReadyTime":         float64(12),
			"trigger_before_didmount": true,
		})
		require.NoError(t, p.Err)
		assert.Equal(t, events.SearchReady{SearchReadyTime: 12, TriggerBeforeDidMount: true}, p.Value)
	})

	t.Run("already typed", func(t *testing.T) {
		p := events.NewPayload(events.FullScreenMode, true)
		assert.Equal(t, true, p.Value)
	})

	t.Run("unknown event stays raw", func(t *testing.T) {
		p := events.NewPayload("CUSTOM_NOTIFY", map[string]any{"k": "v"})
		require.NoError(t, p.Err)
		assert.Equal(t, p.Raw, p.Value)
	})
}

func TestAs(t *testing.T) {
	perms, err := events.As[events.Permissions](map[string]any{"printable": true})
	require.NoError(t, err)
	assert.True(t, perms.Printable)

	title, err := events.As[string]("doc")
	require.NoError(t, err)
	assert.Equal(t, "doc", title)

	zero, err := events.As[events.CreatedComment](nil)
	require.NoError(t, err)
	assert.Equal(t, events.CreatedComment{}, zero)

	_, err = events.As[int]("not a number")
	assert.True(t, errors.IsValidationError(err))
}

func TestPayloadAs(t *testing.T) {
	p := events.NewPayload(events.OnActiveComment, map[string]any{"commentId": "c9"})
	ref, err := events.PayloadAs[events.CommentRef](p)
	require.NoError(t, err)
	assert.Equal(t, "c9", ref.CommentID)

	custom := events.NewPayload("CUSTOM", map[string]any{"commentId": "c10"})
	ref, err = events.PayloadAs[events.CommentRef](custom)
	require.NoError(t, err)
	assert.Equal(t, "c10", ref.CommentID)
}
