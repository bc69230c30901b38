package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testColumnMap() *ColumnMap {
	return &ColumnMap{
		StatusColumn: "Production Status",
		ReadyValue:   "Ready for Production",
		Columns: map[string]string{
			"Scholarship Name": "title",
			"Provider":         "provider",
			"State":            "state",
			"Category":         "categories",
			"Annual Amount":    "amount_annual",
			"Income Limit":     "income_limit",
			"Minimum Marks":    "marks_min",
			"Featured":         "is_featured",
			"Deadline":         "deadline",
			"FAQs":             "faqs",
		},
	}
}

func TestLoadColumnMapValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			"missing status column",
			"ready_value: Ready\ncolumns:\n  \"Name\": title\n",
			ErrNoStatusColumn,
		},
		{
			"missing ready value",
			"status_column: Status\ncolumns:\n  \"Name\": title\n",
			ErrNoReadyValue,
		},
		{
			"no columns",
			"status_column: Status\nready_value: Ready\n",
			ErrNoColumns,
		},
		{
			"no title mapping",
			"status_column: Status\nready_value: Ready\ncolumns:\n  \"State\": state\n",
			ErrNoTitleColumn,
		},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "columns.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadColumnMap(path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMapRowCoercions(t *testing.T) {
	m := NewMapper(testColumnMap())
	m.BindHeader([]string{
		"Scholarship Name", "Provider", "State", "Category",
		"Annual Amount", "Income Limit", "Minimum Marks",
		"Featured", "Deadline", "FAQs", "Production Status", "Internal Notes",
	})

	rec, err := m.MapRow([]string{
		"National Merit Scholarship 2024", "MoE", "All India", "SC, ST , OBC",
		"12,000", "2.5 lakh", "60%",
		"TRUE", "2024-10-31", "Who can apply? :: Any Indian student | Is it renewable? :: Yes",
		"Ready for Production", "editor note, ignored",
	})
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}

	// id and slug derive from the title, year suffix stripped
	if rec.ID != "national-merit-scholarship" || rec.Slug != "national-merit-scholarship" {
		t.Errorf("id/slug = %q/%q", rec.ID, rec.Slug)
	}
	if rec.Categories != `["SC","ST","OBC"]` {
		t.Errorf("Categories = %q", rec.Categories)
	}
	if !rec.AmountAnnual.Valid || rec.AmountAnnual.Int64 != 12000 {
		t.Errorf("AmountAnnual = %+v, want 12000", rec.AmountAnnual)
	}
	// "2.5 lakh" is not a number: NULL, not zero
	if rec.IncomeLimit.Valid {
		t.Errorf("IncomeLimit = %+v, want NULL", rec.IncomeLimit)
	}
	if !rec.MarksMin.Valid || rec.MarksMin.Float64 != 60 {
		t.Errorf("MarksMin = %+v, want 60", rec.MarksMin)
	}
	if !rec.IsFeatured {
		t.Error("Featured TRUE not coerced")
	}
	if !rec.Deadline.Valid || rec.Deadline.String != "2024-10-31" {
		t.Errorf("Deadline = %+v", rec.Deadline)
	}
	if rec.FAQs != `[{"q":"Who can apply?","a":"Any Indian student"},{"q":"Is it renewable?","a":"Yes"}]` {
		t.Errorf("FAQs = %q", rec.FAQs)
	}
	if rec.Status != "Active" {
		t.Errorf("Status default = %q", rec.Status)
	}
}

func TestMapRowEmptyAndShortRows(t *testing.T) {
	m := NewMapper(testColumnMap())
	m.BindHeader([]string{"Scholarship Name", "State", "Annual Amount", "Production Status"})

	// short row: missing trailing cells behave like empty cells
	rec, err := m.MapRow([]string{"Tiny Scheme"})
	if err != nil {
		t.Fatalf("MapRow short: %v", err)
	}
	if rec.State != "" || rec.AmountAnnual.Valid {
		t.Errorf("short row got state=%q amount=%+v", rec.State, rec.AmountAnnual)
	}
	// list fields still store decodable empty arrays
	if rec.Categories != "[]" || rec.FAQs != "[]" {
		t.Errorf("empty lists = %q / %q", rec.Categories, rec.FAQs)
	}

	if _, err := m.MapRow([]string{"", "Kerala", "1000", "Ready for Production"}); !errors.Is(err, ErrRowNoTitle) {
		t.Errorf("want ErrRowNoTitle, got %v", err)
	}
}

func TestParseBoolVariants(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"TRUE", true}, {"true", true}, {"1", true}, {"yes", true}, {"YES", true},
		{"FALSE", false}, {"0", false}, {"no", false}, {"", false}, {"maybe", false},
	}
	for _, tt := range tests {
		if got := parseBool(tt.raw); got != tt.want {
			t.Errorf("parseBool(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		valid bool
	}{
		{"2024-10-31", "2024-10-31", true},
		{"31/10/2024", "2024-10-31", true},
		{"rolling", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got := parseDate(tt.raw)
		if got.Valid != tt.valid || got.String != tt.want {
			t.Errorf("parseDate(%q) = %+v, want %q valid=%v", tt.raw, got, tt.want, tt.valid)
		}
	}
}

// Renamed headers silently drop their field; ingestion must not error.
func TestRenamedHeaderIgnored(t *testing.T) {
	m := NewMapper(testColumnMap())
	m.BindHeader([]string{"Scholarship Name", "Provider Name (renamed)", "Production Status"})

	rec, err := m.MapRow([]string{"Some Scheme", "Tata Trusts", "Ready for Production"})
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}
	if rec.Provider != "" {
		t.Errorf("renamed header should not bind, got provider %q", rec.Provider)
	}
}
