package scholarship

import (
	"context"
	"database/sql"
	"testing"

	"scholarhub/pkg/database"
	"scholarhub/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection, or each pooled conn gets its own empty :memory: db
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.MigrateFrom(db, "../../docs/schema.sql"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepo(db)
}

type seed struct {
	id           string
	title        string
	providerType string
	state        string
	level        string
	categories   string // stored JSON text, possibly malformed on purpose
	amount       int
	income       *int
	marks        *float64
	status       string
	featured     bool
	priority     int
}

func insertSeed(t *testing.T, r *Repo, s seed) {
	t.Helper()

	if s.status == "" {
		s.status = "Active"
	}
	if s.categories == "" {
		s.categories = "[]"
	}

	var income sql.NullInt64
	if s.income != nil {
		income = sql.NullInt64{Int64: int64(*s.income), Valid: true}
	}
	var marks sql.NullFloat64
	if s.marks != nil {
		marks = sql.NullFloat64{Float64: *s.marks, Valid: true}
	}
	featured := 0
	if s.featured {
		featured = 1
	}

	_, err := r.DB.Exec(`
		INSERT INTO scholarships (
			id, slug, title, provider_type, state, education_level,
			categories, courses, documents, keywords, faqs,
			amount_annual, income_limit, marks_min, status, is_featured, priority_score
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, '[]', '[]', '[]', '[]', ?, ?, ?, ?, ?, ?)
	`, s.id, s.id, s.title, s.providerType, s.state, s.level,
		s.categories, s.amount, income, marks, s.status, featured, s.priority)
	if err != nil {
		t.Fatalf("insert seed %s: %v", s.id, err)
	}
}

func intp(n int) *int { return &n }

func floatp(f float64) *float64 { return &f }

func TestGetBySlugMiss(t *testing.T) {
	r := newTestRepo(t)

	s, err := r.GetBySlug(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil for a miss, got %+v", s)
	}
}

// A corrupt list column must not fail the read; it decodes to empty.
func TestMalformedCategoriesDegradeToEmpty(t *testing.T) {
	r := newTestRepo(t)
	insertSeed(t, r, seed{id: "broken", title: "Broken Lists Scheme", categories: `["SC",`})

	s, err := r.GetBySlug(context.Background(), "broken")
	if err != nil {
		t.Fatalf("read failed on corrupt list field: %v", err)
	}
	if s == nil {
		t.Fatal("record not found")
	}
	if s.Categories == nil || len(s.Categories) != 0 {
		t.Errorf("Categories = %v, want empty list", s.Categories)
	}
}

func TestByIncomeRange(t *testing.T) {
	r := newTestRepo(t)
	insertSeed(t, r, seed{id: "low", title: "Low Ceiling", income: intp(50000)})
	insertSeed(t, r, seed{id: "edge", title: "At The Edge", income: intp(100000)})
	insertSeed(t, r, seed{id: "high", title: "High Ceiling", income: intp(150000)})
	insertSeed(t, r, seed{id: "open", title: "No Restriction"}) // income NULL

	got, err := r.ByIncomeRange(context.Background(), 0, 100000)
	if err != nil {
		t.Fatalf("ByIncomeRange: %v", err)
	}

	ids := idsOf(got)
	if len(ids) != 2 || !ids["low"] || !ids["edge"] {
		t.Errorf("got %v, want low and edge only", ids)
	}
	// NULL means "no income restriction", which is not a number in range
	if ids["open"] {
		t.Error("record with NULL income_limit must be excluded")
	}
}

func TestByLevelBucketUnion(t *testing.T) {
	r := newTestRepo(t)
	insertSeed(t, r, seed{id: "g1", title: "Alpha", level: "Graduation"})
	insertSeed(t, r, seed{id: "g2", title: "Beta", level: "Undergraduate"})
	insertSeed(t, r, seed{id: "g3", title: "Gamma", level: "UG"})
	insertSeed(t, r, seed{id: "hs", title: "Delta", level: "Class 11-12"})

	got, err := r.ByLevel(context.Background(), "graduation-ug")
	if err != nil {
		t.Fatalf("ByLevel: %v", err)
	}

	ids := idsOf(got)
	if len(got) != 3 || !ids["g1"] || !ids["g2"] || !ids["g3"] {
		t.Errorf("got %d records %v, want g1,g2,g3 exactly once each", len(got), ids)
	}

	// unknown key exact-matches the raw level string
	raw, err := r.ByLevel(context.Background(), "Class 11-12")
	if err != nil {
		t.Fatalf("ByLevel raw: %v", err)
	}
	if len(raw) != 1 || raw[0].ID != "hs" {
		t.Errorf("raw level match got %v", idsOf(raw))
	}
}

// ByCategory is a substring match against the JSON encoding. "SC" also
// matching "SC-ST Joint" is the documented false-positive of that
// choice, kept because source categories are free text.
func TestByCategorySubstring(t *testing.T) {
	r := newTestRepo(t)
	insertSeed(t, r, seed{id: "joint", title: "Joint Scheme", categories: `["OBC","SC-ST Joint"]`})
	insertSeed(t, r, seed{id: "sc", title: "SC Scheme", categories: `["SC"]`})
	insertSeed(t, r, seed{id: "gen", title: "General Scheme", categories: `["General"]`})

	got, err := r.ByCategory(context.Background(), "SC")
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}

	ids := idsOf(got)
	if !ids["sc"] {
		t.Error("exact member not matched")
	}
	if !ids["joint"] {
		t.Error("expected substring false-positive on SC-ST Joint")
	}
	if ids["gen"] {
		t.Error("General must not match SC")
	}
}

func TestActiveFilterPolicy(t *testing.T) {
	r := newTestRepo(t)
	insertSeed(t, r, seed{id: "live", title: "Live Scheme", state: "Karnataka"})
	insertSeed(t, r, seed{id: "dead", title: "Expired Scheme", state: "Karnataka", status: "Inactive"})

	ctx := context.Background()

	byState, err := r.ByState(ctx, "Karnataka")
	if err != nil {
		t.Fatalf("ByState: %v", err)
	}
	if ids := idsOf(byState); len(ids) != 1 || !ids["live"] {
		t.Errorf("listing must exclude inactive, got %v", ids)
	}

	search, err := r.Search(ctx, "Scheme")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if ids := idsOf(search); ids["dead"] {
		t.Error("search must exclude inactive")
	}

	// direct lookup stays exempt: detail pages can render a notice
	s, err := r.GetBySlug(ctx, "dead")
	if err != nil || s == nil {
		t.Fatalf("GetBySlug on inactive: %v, %v", s, err)
	}
}

func TestEligible(t *testing.T) {
	r := newTestRepo(t)
	insertSeed(t, r, seed{id: "m1", title: "Match One", state: "All India", level: "UG",
		categories: `["General"]`, income: intp(600000), marks: floatp(60), amount: 30000})
	insertSeed(t, r, seed{id: "m2", title: "Match Two", state: "All India", level: "UG",
		categories: `["All"]`, amount: 50000})
	insertSeed(t, r, seed{id: "x-state", title: "Other State", state: "Karnataka", level: "UG",
		categories: `["General"]`, amount: 10000})
	insertSeed(t, r, seed{id: "x-income", title: "Low Ceiling", state: "All India", level: "UG",
		categories: `["General"]`, income: intp(400000), amount: 10000})
	insertSeed(t, r, seed{id: "x-marks", title: "High Bar", state: "All India", level: "UG",
		categories: `["General"]`, marks: floatp(80), amount: 10000})
	insertSeed(t, r, seed{id: "x-cat", title: "SC Only", state: "All India", level: "UG",
		categories: `["SC"]`, amount: 10000})
	insertSeed(t, r, seed{id: "x-status", title: "Gone", state: "All India", level: "UG",
		categories: `["General"]`, amount: 10000, status: "Inactive"})
	insertSeed(t, r, seed{id: "x-level", title: "PG Scheme", state: "All India", level: "Graduation",
		categories: `["General"]`, amount: 10000})

	got, err := r.Eligible(context.Background(), EligibilityQuery{
		State:    "All India",
		Category: "General",
		Level:    "UG",
		Income:   intp(500000),
		Marks:    floatp(70),
	})
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d matches %v, want m2 then m1", len(got), idsOf(got))
	}
	// highest annual amount surfaces first
	if got[0].ID != "m2" || got[1].ID != "m1" {
		t.Errorf("order = [%s %s], want [m2 m1]", got[0].ID, got[1].ID)
	}
}

func TestDistinctCategoriesFlattened(t *testing.T) {
	r := newTestRepo(t)
	insertSeed(t, r, seed{id: "a", title: "A", categories: `["OBC","SC-ST Joint"]`})
	insertSeed(t, r, seed{id: "b", title: "B", categories: `["SC"]`})
	insertSeed(t, r, seed{id: "c", title: "C", categories: `["SC"]`})
	insertSeed(t, r, seed{id: "bad", title: "Bad", categories: `not json`})

	got, err := r.DistinctCategories(context.Background())
	if err != nil {
		t.Fatalf("DistinctCategories: %v", err)
	}

	want := []string{"OBC", "SC", "SC-ST Joint"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFeaturedOrdering(t *testing.T) {
	r := newTestRepo(t)
	insertSeed(t, r, seed{id: "f1", title: "Zeta", featured: true, priority: 10})
	insertSeed(t, r, seed{id: "f2", title: "Alpha", featured: true, priority: 10})
	insertSeed(t, r, seed{id: "f3", title: "Top", featured: true, priority: 99})
	insertSeed(t, r, seed{id: "plain", title: "Plain"})

	got, err := r.Featured(context.Background(), 10)
	if err != nil {
		t.Fatalf("Featured: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d featured", len(got))
	}
	// priority_score desc, then title asc as the tiebreaker
	if got[0].ID != "f3" || got[1].ID != "f2" || got[2].ID != "f1" {
		t.Errorf("order = [%s %s %s], want [f3 f2 f1]", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestStats(t *testing.T) {
	r := newTestRepo(t)
	insertSeed(t, r, seed{id: "g", title: "Gov", providerType: "Government", state: "Karnataka"})
	insertSeed(t, r, seed{id: "p", title: "Priv", providerType: "Private", state: "Kerala"})
	insertSeed(t, r, seed{id: "c", title: "Corp", providerType: "Corporate", state: "Kerala"})

	st, err := r.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 3 || st.States != 2 || st.Government != 1 || st.Private != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func idsOf(items []models.Scholarship) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, s := range items {
		out[s.ID] = true
	}
	return out
}
