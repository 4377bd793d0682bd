package order

import (
	"errors"
	"testing"
	"time"

	"github.com/matheuskafuri/hnsort/internal/listing"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func item(title, ageText string) listing.Item {
	return listing.Item{ID: title, Title: title, AgeText: ageText}
}

func titles(items []listing.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func sameTitles(t *testing.T, got []listing.Item, want ...string) {
	t.Helper()
	g := titles(got)
	if len(g) != len(want) {
		t.Fatalf("titles = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("titles = %v, want %v", g, want)
		}
	}
}

func TestGlobalSortAcrossBatches(t *testing.T) {
	batch1 := []listing.Item{item("batch1-older", "3 hours ago"), item("batch1-newer", "1 hour ago")}
	batch2 := []listing.Item{item("batch2-older", "2 days ago"), item("batch2-newer", "30 minutes ago")}
	concatenated := append(append([]listing.Item{}, batch1...), batch2...)

	if IsSortedAscending(concatenated, now) {
		t.Fatal("concatenation reported sorted")
	}
	sorted := SortAscending(concatenated, now)
	if !IsSortedAscending(sorted, now) {
		t.Fatal("sorted result reported unsorted")
	}
	sameTitles(t, sorted, "batch2-older", "batch1-older", "batch1-newer", "batch2-newer")

	if concatenated[0].Age != nil {
		t.Error("SortAscending mutated its input")
	}
}

func TestSortAscendingStable(t *testing.T) {
	items := []listing.Item{
		item("a", "5 minutes ago"),
		item("b", "garbage"),
		item("c", "5 minutes ago"),
		item("d", ""),
	}
	sameTitles(t, SortAscending(items, now), "a", "c", "b", "d")
}

func TestSortAscendingKeepsExistingAge(t *testing.T) {
	items := listing.Enrich([]listing.Item{item("early", "1 minute ago")}, now.Add(-time.Hour))
	items = append(items, item("late", "30 minutes ago"))

	// "early" was enriched an hour ago so it is 61 minutes old against now.
	sameTitles(t, SortAscending(items, now), "early", "late")
}

func TestApplyOrder(t *testing.T) {
	items := []listing.Item{
		item("oldest", "3 days ago"),
		item("older", "5 hours ago"),
		item("new", "20 minutes ago"),
		item("newest", "1 minute ago"),
	}
	asc := SortAscending(items, now)

	tests := []struct {
		dir  Direction
		want []string
	}{
		{Asc, []string{"oldest", "older"}},
		{Desc, []string{"newest", "new"}},
	}
	for _, tt := range tests {
		got := Cap(ApplyOrder(asc, tt.dir), 2)
		sameTitles(t, got, tt.want...)
	}

	if titles(asc)[0] != "oldest" {
		t.Error("ApplyOrder(desc) reversed its input in place")
	}
}

func TestCap(t *testing.T) {
	items := []listing.Item{item("a", ""), item("b", ""), item("c", "")}

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"a", "b", "c"}},
		{-1, []string{"a", "b", "c"}},
		{2, []string{"a", "b"}},
		{3, []string{"a", "b", "c"}},
		{10, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := Cap(items, tt.n)
		if tt.n > 0 && len(got) > tt.n {
			t.Errorf("Cap(%d) returned %d items", tt.n, len(got))
		}
		sameTitles(t, got, tt.want...)
	}
}

func TestFilterByMinAge(t *testing.T) {
	items := []listing.Item{
		item("fresh", "2 minutes ago"),
		item("unknown", "yesterday"),
		item("exact", "10 minutes ago"),
		item("old", "1 hour ago"),
	}

	tests := []struct {
		min  int
		want []string
	}{
		{0, []string{"fresh", "unknown", "exact", "old"}},
		{-5, []string{"fresh", "unknown", "exact", "old"}},
		{10, []string{"exact", "old"}},
		{61, nil},
	}
	for _, tt := range tests {
		sameTitles(t, FilterByMinAge(items, tt.min, now), tt.want...)
	}
}

func TestApply(t *testing.T) {
	items := []listing.Item{
		item("m5", "5 minutes ago"),
		item("h2", "2 hours ago"),
		item("m1", "1 minute ago"),
		item("d1", "1 day ago"),
		item("m30", "30 minutes ago"),
	}

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"desc newest first", Options{Direction: Desc, Limit: 3}, []string{"m1", "m5", "m30"}},
		{"asc oldest first", Options{Direction: Asc, Limit: 2}, []string{"d1", "h2"}},
		{"filter before cap", Options{MinAge: 10, Direction: Desc, Limit: 2}, []string{"m30", "h2"}},
		{"no limit", Options{Direction: Asc}, []string{"d1", "h2", "m30", "m5", "m1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sameTitles(t, Apply(items, tt.opts, now), tt.want...)
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		err  bool
	}{
		{"asc", Asc, false},
		{"DESC", Desc, false},
		{" desc ", Desc, false},
		{"up", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseDirection(%q) err = %v, want error %v", tt.in, err, tt.err)
		}
		if err != nil && !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("ParseDirection(%q) err = %v, want ErrInvalidDirection", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
