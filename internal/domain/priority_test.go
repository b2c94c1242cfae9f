package domain

import (
	"testing"
)

func TestPrioritizeStableDescending(t *testing.T) {
	t.Parallel()

	in := []WatchItem{
		{Title: "first", Priority: 1},
		{Title: "second", Priority: 2},
		{Title: "third", Priority: 1},
	}

	out := Prioritize(in)

	want := []string{"second", "first", "third"}
	if len(out) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(out))
	}
	for i, title := range want {
		if out[i].Title != title {
			t.Fatalf("position %d: expected %s, got %s", i, title, out[i].Title)
		}
	}

	if in[0].Title != "first" || in[1].Title != "second" {
		t.Fatalf("input slice was reordered: %+v", in)
	}
}

func TestPrioritizeNonIncreasing(t *testing.T) {
	t.Parallel()

	in := []WatchItem{
		{Title: "a", Priority: 3},
		{Title: "b", Priority: 1},
		{Title: "c", Priority: 5},
		{Title: "d", Priority: 3},
		{Title: "e", Priority: 5},
		{Title: "f", Priority: 0},
	}

	out := Prioritize(in)
	for i := 1; i < len(out); i++ {
		if out[i].Priority > out[i-1].Priority {
			t.Fatalf("not sorted at %d: %d after %d", i, out[i].Priority, out[i-1].Priority)
		}
	}

	order := ""
	for _, item := range out {
		order += item.Title
	}
	if order != "ceadbf" {
		t.Fatalf("unexpected order %s", order)
	}
}

func TestPrioritizeEmpty(t *testing.T) {
	t.Parallel()

	if got := Prioritize(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d items", len(got))
	}
}

func TestReportItems(t *testing.T) {
	t.Parallel()

	r := Report{
		Tech:   []WatchItem{{Title: "t"}},
		Market: []WatchItem{{Title: "m"}, {Title: "m2"}},
	}

	if len(r.Items(SectionTech)) != 1 || len(r.Items(SectionMarket)) != 2 || len(r.Items(SectionPublic)) != 0 {
		t.Fatalf("unexpected section sizes")
	}
	if r.Items(Section("unknown")) != nil {
		t.Fatalf("expected nil for unknown section")
	}
}

func TestWatchItemExtraKeys(t *testing.T) {
	t.Parallel()

	item := WatchItem{Extra: map[string]string{ExtraStatus: "market", ExtraFunding: "5M€"}}
	keys := item.ExtraKeys()
	if len(keys) != 2 || keys[0] != ExtraFunding || keys[1] != ExtraStatus {
		t.Fatalf("unexpected keys %v", keys)
	}
	if item.Attr("missing") != "" {
		t.Fatalf("expected empty attr")
	}
	if (WatchItem{}).Attr(ExtraStatus) != "" {
		t.Fatalf("expected empty attr on nil map")
	}
}
