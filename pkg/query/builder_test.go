package query_test

import (
	"testing"

	"github.com/quillworks/quill/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "prompt_specs", "s").
		Project("id", "ID").
		Project("name", "Name").
		Project("updated_at", "UpdatedAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMapFrom(t *testing.T) {
	p := testProjection()
	got := p.From()
	want := "public.prompt_specs s"
	if got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "s" {
		t.Errorf("Alias() = %q, want %q", got, "s")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "s.id, s.name, s.updated_at"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"mapped field", "Name", "s.name"},
		{"mapped compound", "UpdatedAt", "s.updated_at"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.field); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "Name",
			want:  []query.SortField{{Field: "Name"}},
		},
		{
			name:  "single descending",
			input: "-UpdatedAt",
			want:  []query.SortField{{Field: "UpdatedAt", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "Name,-UpdatedAt",
			want: []query.SortField{
				{Field: "Name"},
				{Field: "UpdatedAt", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " Name , -UpdatedAt ",
			want: []query.SortField{
				{Field: "Name"},
				{Field: "UpdatedAt", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "Name,,ID",
			want: []query.SortField{
				{Field: "Name"},
				{Field: "ID"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseSortFields(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.prompt_specs s"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "UpdatedAt", Descending: true})
	sql, args := b.BuildPage(2, 10)

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s ORDER BY s.updated_at DESC LIMIT 10 OFFSET 10"
	if sql != wantSQL {
		t.Errorf("BuildPage() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildPage() args = %v, want empty", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.BuildSingle("ID", "abc-123")

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s WHERE s.id = $1"
	if sql != wantSQL {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("Name", "weekly-report")
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s WHERE s.name = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "weekly-report" {
		t.Errorf("args = %v, want [weekly-report]", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("Name", nil)
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereEqualsNilPointerSkipped(t *testing.T) {
	var name *string
	b := query.NewBuilder(testProjection())
	b.WhereEquals("Name", name)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContains(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereContains("Name", ptr("report"))
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s WHERE s.name ILIKE $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%report%" {
		t.Errorf("args = %v, want [%%report%%]", args)
	}
}

func TestBuilderWhereContainsSkipped(t *testing.T) {
	t.Run("nil value", func(t *testing.T) {
		b := query.NewBuilder(testProjection())
		b.WhereContains("Name", nil)
		_, args := b.Build()

		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("empty value", func(t *testing.T) {
		b := query.NewBuilder(testProjection())
		b.WhereContains("Name", ptr(""))
		_, args := b.Build()

		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})
}

func TestBuilderWhereSearch(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereSearch(ptr("brief"), "Name", "ID")
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s WHERE (s.name ILIKE $1 OR s.id ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "%brief%" || args[1] != "%brief%" {
		t.Errorf("args = %v, want [%%brief%% %%brief%%]", args)
	}
}

func TestBuilderWhereSearchNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereSearch(nil, "Name")
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("Name", "weekly-report")
	b.WhereContains("ID", ptr("abc"))
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s WHERE s.name = $1 AND s.id ILIKE $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 {
		t.Fatalf("args length = %d, want 2", len(args))
	}
	if args[0] != "weekly-report" {
		t.Errorf("args[0] = %v, want weekly-report", args[0])
	}
	if args[1] != "%abc%" {
		t.Errorf("args[1] = %v, want %%abc%%", args[1])
	}
}

func TestBuilderOrderByFields(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "ID"})
	b.OrderByFields([]query.SortField{
		{Field: "UpdatedAt", Descending: true},
		{Field: "Name"},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s ORDER BY s.updated_at DESC, s.name ASC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderDefaultSort(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "UpdatedAt", Descending: true})
	sql, _ := b.Build()

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s ORDER BY s.updated_at DESC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderBuildPageWithConditions(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "ID"})
	b.WhereContains("Name", ptr("report"))
	sql, args := b.BuildPage(3, 25)

	wantSQL := "SELECT s.id, s.name, s.updated_at FROM public.prompt_specs s WHERE s.name ILIKE $1 ORDER BY s.id ASC LIMIT 25 OFFSET 50"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%report%" {
		t.Errorf("args = %v, want [%%report%%]", args)
	}
}
