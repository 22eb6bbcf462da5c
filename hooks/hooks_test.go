package hooks

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestActionRunsInPriorityOrder(t *testing.T) {
	var a Action[string]
	var got []string
	record := func(name string) ActionFunc[string] {
		return func(ctx context.Context, e string) error {
			got = append(got, name+":"+e)
			return nil
		}
	}
	a.AddPriority(20, record("late"))
	a.Add(record("first"))
	a.AddPriority(1, record("early"))
	a.Add(record("second"))

	if err := a.Do(context.Background(), "init"); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	want := "early:init,first:init,second:init,late:init"
	if strings.Join(got, ",") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
	if a.Len() != 4 {
		t.Errorf("Len = %d, want 4", a.Len())
	}
}

func TestActionStopsAtFirstError(t *testing.T) {
	var a Action[int]
	boom := errors.New("boom")
	ran := 0
	a.Add(func(ctx context.Context, e int) error { ran++; return boom })
	a.Add(func(ctx context.Context, e int) error { ran++; return nil })

	if err := a.Do(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("Do error = %v, want boom", err)
	}
	if ran != 1 {
		t.Errorf("ran = %d handlers, want 1", ran)
	}
}

func TestActionWithoutHandlers(t *testing.T) {
	var a Action[struct{}]
	if err := a.Do(context.Background(), struct{}{}); err != nil {
		t.Fatalf("Do on empty action: %v", err)
	}
}

func TestFilterThreadsValue(t *testing.T) {
	var f Filter[string, bool]
	f.Add(func(ctx context.Context, v string, singular bool) string {
		if !singular {
			return v
		}
		return v + "<footer/>"
	})
	f.AddPriority(5, func(ctx context.Context, v string, _ bool) string {
		return "<p>" + v + "</p>"
	})

	if got := f.Apply(context.Background(), "body", true); got != "<p>body</p><footer/>" {
		t.Errorf("Apply singular = %q", got)
	}
	if got := f.Apply(context.Background(), "body", false); got != "<p>body</p>" {
		t.Errorf("Apply archive = %q", got)
	}
}

func TestHandlerMayAddHandlers(t *testing.T) {
	var a Action[int]
	calls := 0
	a.Add(func(ctx context.Context, e int) error {
		calls++
		a.Add(func(ctx context.Context, e int) error { calls++; return nil })
		return nil
	})
	if err := a.Do(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (added handler runs on next dispatch)", calls)
	}
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
}
