package bookpress

import (
	"testing"

	"github.com/eringen/bookpress/content"
)

func TestMetaBoxEventFiltersScreenAndOrders(t *testing.T) {
	ev := &MetaBoxEvent{PostType: "book", Post: content.Post{ID: 1}}
	ev.Add(MetaBox{ID: "side-box", Screen: "book", Context: ContextSide, Priority: PriorityHigh})
	ev.Add(MetaBox{ID: "low", Screen: "book", Context: ContextNormal, Priority: PriorityLow})
	ev.Add(MetaBox{ID: "other-type", Screen: "post", Context: ContextNormal, Priority: PriorityHigh})
	ev.Add(MetaBox{ID: "details", Title: "Old", Screen: "book", Context: ContextNormal, Priority: PriorityHigh})
	ev.Add(MetaBox{ID: "details", Title: "New", Screen: "book", Context: ContextNormal, Priority: PriorityHigh})
	ev.Add(MetaBox{ID: "everywhere"})

	boxes := ev.Boxes()
	want := []string{"details", "low", "everywhere", "side-box"}
	if len(boxes) != len(want) {
		t.Fatalf("got %d boxes, want %d", len(boxes), len(want))
	}
	for i, id := range want {
		if boxes[i].ID != id {
			t.Errorf("boxes[%d] = %q, want %q", i, boxes[i].ID, id)
		}
	}
	if boxes[0].Title != "New" {
		t.Errorf("replaced box title = %q, want New", boxes[0].Title)
	}
	if boxes[2].Context != ContextAdvanced || boxes[2].Priority != PriorityDefault {
		t.Errorf("defaults = %q/%q", boxes[2].Context, boxes[2].Priority)
	}
}

func TestStyleQueueDedupesByHandle(t *testing.T) {
	var q StyleQueue
	q.Enqueue("book-post-type-style", "/a.css")
	q.Enqueue("site", "/site.css")
	q.Enqueue("book-post-type-style", "/b.css")

	styles := q.Styles()
	if len(styles) != 2 {
		t.Fatalf("got %d styles, want 2", len(styles))
	}
	if styles[0].Href != "/a.css" || styles[1].Handle != "site" {
		t.Errorf("styles = %+v", styles)
	}
}
