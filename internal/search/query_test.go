package search

import (
	"testing"
	"time"
)

func TestParse_Empty(t *testing.T) {
	q := Parse("")
	if !q.IsEmpty() {
		t.Errorf("expected empty query, got %+v", q)
	}
	if !Parse("   ").IsEmpty() {
		t.Error("whitespace-only query should be empty")
	}
}

func TestParse_PlainText(t *testing.T) {
	q := Parse("quarterly report")
	if q.Text != "quarterly report" {
		t.Errorf("Text = %q", q.Text)
	}
	if q.Content || q.Regex || q.Scope != ScopeFolder {
		t.Errorf("unexpected flags: %+v", q)
	}
}

func TestParse_QuotedValue(t *testing.T) {
	q := Parse(`name:"my file"`)
	if q.Text != "my file" {
		t.Errorf("Text = %q, want %q", q.Text, "my file")
	}
}

func TestParse_ContentsDirective(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"contents:hello", "hello"},
		{"content:world", "world"},
		{"text:foo", "foo"},
		{"body:bar", "bar"},
	}

	for _, tc := range testCases {
		q := Parse(tc.input)
		if !q.Content {
			t.Errorf("input %q: Content not set", tc.input)
		}
		if q.Text != tc.expected {
			t.Errorf("input %q: expected text %q, got %q", tc.input, tc.expected, q.Text)
		}
	}
}

func TestParse_Regex(t *testing.T) {
	q := Parse("regex:^func")
	if !q.Regex || !q.Content || q.Text != "^func" {
		t.Errorf("got %+v", q)
	}
}

func TestParse_ExtDirective(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"ext:go", "go"},
		{"ext:.go", "go"},
		{"extension:TXT", "txt"},
		{"type:md", "md"},
	}

	for _, tc := range testCases {
		q := Parse("main " + tc.input)
		if q.Filters.Ext != tc.expected {
			t.Errorf("input %q: expected ext %q, got %q", tc.input, tc.expected, q.Filters.Ext)
		}
		if q.Text != "main" {
			t.Errorf("input %q: expected text 'main', got %q", tc.input, q.Text)
		}
	}
}

func TestParse_SizeDirective(t *testing.T) {
	testCases := []struct {
		input string
		op    Operator
		bytes int64
	}{
		{"size:>1MB", OpGreater, 1024 * 1024},
		{"size:<100KB", OpLess, 100 * 1024},
		{"size:>=1GB", OpGreaterEq, 1024 * 1024 * 1024},
		{"size:<=500", OpLessEq, 500},
		{"size:=1.5KB", OpEquals, 1536},
		{"size:2TB", OpEquals, 2 << 40},
		{"size:10b", OpEquals, 10},
	}

	for _, tc := range testCases {
		q := Parse(tc.input)
		if q.Filters.Size == nil {
			t.Fatalf("input %q: no size filter", tc.input)
		}
		if q.Filters.Size.Op != tc.op {
			t.Errorf("input %q: expected op %d, got %d", tc.input, tc.op, q.Filters.Size.Op)
		}
		got, err := q.Filters.Size.Bytes()
		if err != nil {
			t.Fatalf("input %q: %v", tc.input, err)
		}
		if got != tc.bytes {
			t.Errorf("input %q: expected %d bytes, got %d", tc.input, tc.bytes, got)
		}
	}
}

func TestParse_InvalidSizeIgnored(t *testing.T) {
	for _, in := range []string{"size:>lots", "size:5XB", "size:"} {
		if q := Parse(in); q.Filters.Size != nil {
			t.Errorf("input %q: expected no size filter, got %+v", in, q.Filters.Size)
		}
	}
}

func TestParse_ModifiedDirective(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	end := day.AddDate(0, 0, 1).Add(-time.Nanosecond)

	testCases := []struct {
		input    string
		from, to time.Time
	}{
		{"modified:>=2024-01-15", day, time.Time{}},
		{"modified:>2024-01-15", day.AddDate(0, 0, 1), time.Time{}},
		{"modified:<2024-01-15", time.Time{}, day.Add(-time.Nanosecond)},
		{"modified:<=2024-01-15", time.Time{}, end},
		{"date:2024-01-15", day, end},
		{"mtime:=2024/01/15", day, end},
	}

	for _, tc := range testCases {
		q := Parse(tc.input)
		if !q.Filters.ModifiedFrom.Equal(tc.from) {
			t.Errorf("input %q: from = %v, want %v", tc.input, q.Filters.ModifiedFrom, tc.from)
		}
		if !q.Filters.ModifiedTo.Equal(tc.to) {
			t.Errorf("input %q: to = %v, want %v", tc.input, q.Filters.ModifiedTo, tc.to)
		}
	}
}

func TestParse_RelativeDates(t *testing.T) {
	now := time.Now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	q := Parse("modified:>=today")
	if !q.Filters.ModifiedFrom.Equal(today) {
		t.Errorf("today: from = %v, want %v", q.Filters.ModifiedFrom, today)
	}
	q = Parse("modified:>=week")
	if !q.Filters.ModifiedFrom.Equal(today.AddDate(0, 0, -7)) {
		t.Errorf("week: from = %v", q.Filters.ModifiedFrom)
	}
}

func TestParse_ScopeAndHidden(t *testing.T) {
	testCases := []struct {
		input string
		scope Scope
	}{
		{"foo", ScopeFolder},
		{"foo recursive:", ScopeFolderRecursive},
		{"foo r:", ScopeFolderRecursive},
		{"foo scope:system", ScopeSystem},
		{"foo in:recursive", ScopeFolderRecursive},
		{"foo scope:bogus", ScopeFolder},
	}
	for _, tc := range testCases {
		if got := Parse(tc.input).Scope; got != tc.scope {
			t.Errorf("input %q: scope = %v, want %v", tc.input, got, tc.scope)
		}
	}

	if !Parse("foo hidden:").IncludeHidden {
		t.Error("hidden: should include hidden files")
	}
}

func TestParse_UnknownDirectiveIsText(t *testing.T) {
	q := Parse("http://example")
	if q.Text != "http://example" {
		t.Errorf("Text = %q", q.Text)
	}
}

func TestSizeFilterMatch(t *testing.T) {
	testCases := []struct {
		op     Operator
		size   int64
		target int64
		want   bool
	}{
		{OpGreater, 2000, 1000, true},
		{OpGreater, 1000, 1000, false},
		{OpLess, 999, 1000, true},
		{OpGreaterEq, 1000, 1000, true},
		{OpLessEq, 1001, 1000, false},
		{OpEquals, 3000, 3072, true},
		{OpEquals, 3072 + 1024, 3072, true},
		{OpEquals, 3072 + 1025, 3072, false},
	}
	for _, tc := range testCases {
		f := SizeFilter{Op: tc.op}
		if got := f.match(tc.size, tc.target); got != tc.want {
			t.Errorf("op %d: match(%d, %d) = %v, want %v", tc.op, tc.size, tc.target, got, tc.want)
		}
	}
}
