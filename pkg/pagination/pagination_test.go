package pagination

import "testing"

func TestNormalizePageSize(t *testing.T) {
	t.Parallel()

	if got := NormalizePageSize(0); got != DefaultPageSize {
		t.Fatalf("expected default for zero, got %d", got)
	}
	if got := NormalizePageSize(-4); got != DefaultPageSize {
		t.Fatalf("expected default for negative, got %d", got)
	}
	if got := NormalizePageSize(1000); got != MaxPageSize {
		t.Fatalf("expected cap, got %d", got)
	}
	if got := NormalizePageSize(20); got != 20 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestResolveComputesPageCount(t *testing.T) {
	t.Parallel()

	w := Resolve(Params{Page: 2, PageSize: 12}, 25)
	if w.TotalPages != 3 {
		t.Fatalf("expected ceil(25/12)=3 pages, got %d", w.TotalPages)
	}
	if w.Page != 2 {
		t.Fatalf("expected requested page kept, got %d", w.Page)
	}

	start, end := w.Bounds()
	if start != 12 || end != 24 {
		t.Fatalf("unexpected bounds [%d,%d)", start, end)
	}
}

func TestResolveResetsStalePage(t *testing.T) {
	t.Parallel()

	// A filter change shrank the set below the current page.
	w := Resolve(Params{Page: 5, PageSize: 12}, 13)
	if w.Page != 1 {
		t.Fatalf("expected stale page to reset to 1, got %d", w.Page)
	}

	start, end := w.Bounds()
	if start != 0 || end != 12 {
		t.Fatalf("unexpected bounds [%d,%d)", start, end)
	}
}

func TestResolveEmptyCollection(t *testing.T) {
	t.Parallel()

	w := Resolve(Params{Page: 3, PageSize: 12}, 0)
	if w.TotalPages != 0 || w.Page != 1 {
		t.Fatalf("unexpected window %+v", w)
	}
	if start, end := w.Bounds(); start != 0 || end != 0 {
		t.Fatalf("expected empty bounds, got [%d,%d)", start, end)
	}
}

func TestResolveLastPartialPage(t *testing.T) {
	t.Parallel()

	w := Resolve(Params{Page: 3, PageSize: 12}, 25)
	start, end := w.Bounds()
	if start != 24 || end != 25 {
		t.Fatalf("unexpected bounds [%d,%d)", start, end)
	}
}
