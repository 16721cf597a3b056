package events

import (
	"reflect"
	"sort"
)

// Spec is the catalogue entry for one event name. Exactly one of the
// variant-specific fields is meaningful, selected by Kind.
type Spec struct {
	Event Event
	Kind  Kind

	// Capability variant.
	Args []Arg
	Data reflect.Type // nil when the capability answers without data

	// Notification variant.
	Payload reflect.Type
}

// Catalogued reports whether the entry came from the catalogue.
func (s Spec) Catalogued() bool {
	return s.Kind != Unknown
}

var catalog = map[Event]Spec{}

func capability(e Event, data reflect.Type, args ...Arg) {
	catalog[e] = Spec{Event: e, Kind: Capability, Args: args, Data: data}
}

func notification(e Event, payload reflect.Type) {
	catalog[e] = Spec{Event: e, Kind: Notification, Payload: payload}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func init() {
	capability(JumpToComment, nil, Arg{Name: "comment", Type: ArgObject, Object: typeOf[CommentRef]()})
	capability(AddNewComment, typeOf[CreatedComment](), Arg{Name: "comment", Type: ArgObject, Object: typeOf[NewComment]()})
	capability(HasUnfinishedTask, typeOf[UnfinishedTask]())
	capability(ScrollTo, nil,
		Arg{Name: "value", Type: ArgNumber},
		Arg{Name: "style", Type: ArgStyle, Optional: true})
	capability(ToggleReplaceBox, nil,
		Arg{Name: "visible", Type: ArgBool, Optional: true},
		Arg{Name: "style", Type: ArgStyle, Optional: true})
	capability(ToggleModal, nil,
		Arg{Name: "modal", Type: ArgString},
		Arg{Name: "visible", Type: ArgBool, Optional: true})
	capability(TogglePrintBox, nil, Arg{Name: "visible", Type: ArgBool, Optional: true})
	capability(ToggleShareMenu, nil,
		Arg{Name: "visible", Type: ArgBool, Optional: true},
		Arg{Name: "style", Type: ArgStyle, Optional: true})
	capability(ToggleCommentHistory, nil, Arg{Name: "visible", Type: ArgBool, Optional: true})
	capability(ToggleHistory, nil, Arg{Name: "visible", Type: ArgBool, Optional: true})
	capability(ReportAbuse, nil)
	capability(ExportByType, nil, Arg{Name: "format", Type: ArgString})
	capability(ToggleTranslate, nil,
		Arg{Name: "enabled", Type: ArgTrue},
		Arg{Name: "language", Type: ArgString})
	capability(AnchorJump, nil,
		Arg{Name: "anchor", Type: ArgString},
		Arg{Name: "animate", Type: ArgBool, Optional: true})
	capability(GetSuiteTitle, typeOf[string]())
	capability(GetCurrentAuth, typeOf[Permissions]())
	capability(GetDirectoryData, typeOf[[]DirectoryEntry]())
	capability(GetAnchorTop, typeOf[float64](), Arg{Name: "anchor", Type: ArgString})
	capability(HighlightAnchor, nil, Arg{Name: "anchor", Type: ArgString})
	capability(GetSupportedExportFormats, typeOf[[]string]())
	capability(GetTranslateLang, typeOf[[]string]())

	notification(OnActiveComment, typeOf[CommentRef]())
	notification(OnCreateTempComment, typeOf[TempComment]())
	notification(DocEditorScroll, typeOf[float64]())
	notification(SearchBoxOpen, typeOf[SearchBoxStats]())
	notification(SearchControllerReady, typeOf[SearchReady]())
	notification(ImageView, typeOf[Image]())
	notification(SelectionChange, typeOf[[]Selection]())
	notification(DocumentHeight, typeOf[float64]())
	notification(AuthChange, typeOf[Permissions]())
	notification(SuiteTitleChange, typeOf[string]())
	notification(DirectoryChange, typeOf[[]DirectoryEntry]())
	notification(CurrAnchor, typeOf[string]())
	notification(FullScreenMode, typeOf[bool]())
	notification(TranslateChange, typeOf[string]())
	notification(HyperlinkClick, typeOf[string]())
}

// Lookup returns the catalogue entry for e, or an Unknown entry carrying
// only the name when e is not catalogued.
func Lookup(e Event) Spec {
	if spec, ok := catalog[e]; ok {
		return spec
	}
	return Spec{Event: e, Kind: Unknown}
}

// Capabilities lists every catalogued capability, sorted by name.
func Capabilities() []Event {
	return list(Capability)
}

// Notifications lists every catalogued notification, sorted by name.
func Notifications() []Event {
	return list(Notification)
}

func list(kind Kind) []Event {
	var out []Event
	for e, spec := range catalog {
		if spec.Kind == kind {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
