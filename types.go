package bookpress

import (
	"context"
	"net/url"
	"sort"

	"github.com/a-h/templ"

	"github.com/eringen/bookpress/content"
	"github.com/eringen/bookpress/hooks"
	"github.com/eringen/bookpress/views"
)

// Hooks are the extension points the host dispatches to plugins.
type Hooks struct {
	// Init fires once during App.Init, after plugins registered their handlers.
	Init hooks.Action[*App]
	// AddMetaBoxes fires while an admin edit screen is built.
	AddMetaBoxes hooks.Action[*MetaBoxEvent]
	// SavePost fires after the host stored a post from the admin.
	SavePost hooks.Action[SaveEvent]
	// TheContent filters the rendered body of a post.
	TheContent hooks.Filter[string, ContentEvent]
	// EnqueueScripts fires on every public page render.
	EnqueueScripts hooks.Action[*StyleQueue]
	// AdminEnqueueScripts fires on every admin page render.
	AdminEnqueueScripts hooks.Action[*StyleQueue]
}

// SaveEvent describes one admin save of a post.
type SaveEvent struct {
	Post     content.Post
	Form     url.Values // the submitted form, as posted
	Update   bool       // the post existed before this save
	Autosave bool       // set for background autosave passes
}

// ContentEvent describes the rendering of one post body.
type ContentEvent struct {
	Post     content.Post
	Singular bool // the page shows this post alone
}

// Meta box placement and ordering.
const (
	ContextNormal   = "normal"
	ContextSide     = "side"
	ContextAdvanced = "advanced"

	PriorityHigh    = "high"
	PriorityCore    = "core"
	PriorityDefault = "default"
	PriorityLow     = "low"
)

// MetaBox is a panel on the admin edit screen.
type MetaBox struct {
	ID       string
	Title    string
	Screen   string // post type the box belongs to, "" for all
	Context  string
	Priority string
	Render   func(ctx context.Context, p content.Post) templ.Component
}

// MetaBoxEvent collects meta boxes for one edit screen.
type MetaBoxEvent struct {
	PostType string
	Post     content.Post
	boxes    []MetaBox
}

// Add attaches a box to the screen. Boxes for other post types are ignored;
// a box with an ID already present replaces it.
func (e *MetaBoxEvent) Add(b MetaBox) {
	if b.Screen != "" && b.Screen != e.PostType {
		return
	}
	if b.Context == "" {
		b.Context = ContextAdvanced
	}
	if b.Priority == "" {
		b.Priority = PriorityDefault
	}
	for i := range e.boxes {
		if e.boxes[i].ID == b.ID {
			e.boxes[i] = b
			return
		}
	}
	e.boxes = append(e.boxes, b)
}

var (
	contextOrder  = map[string]int{ContextNormal: 0, ContextAdvanced: 1, ContextSide: 2}
	priorityOrder = map[string]int{PriorityHigh: 0, PriorityCore: 1, PriorityDefault: 2, PriorityLow: 3}
)

// Boxes returns the collected boxes ordered by context, then priority.
func (e *MetaBoxEvent) Boxes() []MetaBox {
	out := append([]MetaBox(nil), e.boxes...)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := contextOrder[out[i].Context], contextOrder[out[j].Context]
		if ci != cj {
			return ci < cj
		}
		return priorityOrder[out[i].Priority] < priorityOrder[out[j].Priority]
	})
	return out
}

// StyleQueue collects the stylesheets of one page render.
type StyleQueue struct {
	styles []views.Stylesheet
}

// Enqueue adds a stylesheet. A handle is only printed once; later calls with
// the same handle are ignored.
func (q *StyleQueue) Enqueue(handle, src string) {
	for _, s := range q.styles {
		if s.Handle == handle {
			return
		}
	}
	q.styles = append(q.styles, views.Stylesheet{Handle: handle, Href: src})
}

// Styles returns the queued stylesheets in enqueue order.
func (q *StyleQueue) Styles() []views.Stylesheet {
	return append([]views.Stylesheet(nil), q.styles...)
}
