package scholarship

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"scholarhub/internal/taxonomy"
	"scholarhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const selectCols = `
	id, slug, title, provider, provider_type,
	introduction, benefits, selection_criteria, renewal_policy,
	state, education_level, categories, gender, courses,
	amount_annual, amount_min, amount_note, income_limit, marks_min,
	documents, keywords, faqs, application_mode, application_url,
	source_url, deadline, deadline_note, how_to_apply,
	status, verified_year, last_verified, helpline,
	is_featured, is_popular, show_on_homepage, priority_score
`

// activeOnly is the single status policy for public listing and filter
// queries. Direct lookups by id/slug skip it so detail pages can still
// render an inactive scheme with a notice.
const activeOnly = `status = 'Active'`

type scanner interface {
	Scan(dest ...any) error
}

func scanScholarship(row scanner) (*models.Scholarship, error) {
	var (
		s models.Scholarship

		provider, providerType               sql.NullString
		intro, benefits, selection, renewal  sql.NullString
		state, level, categories, gender     sql.NullString
		courses                              sql.NullString
		amountAnnual, amountMin              sql.NullInt64
		amountNote                           sql.NullString
		incomeLimit                          sql.NullInt64
		marksMin                             sql.NullFloat64
		documents, keywords, faqs            sql.NullString
		appMode, appURL, sourceURL           sql.NullString
		deadline, deadlineNote, howToApply   sql.NullString
		status                               sql.NullString
		verifiedYear                         sql.NullInt64
		lastVerified, helpline               sql.NullString
		isFeatured, isPopular, showHomepage  sql.NullInt64
		priorityScore                        sql.NullInt64
	)

	if err := row.Scan(
		&s.ID, &s.Slug, &s.Title, &provider, &providerType,
		&intro, &benefits, &selection, &renewal,
		&state, &level, &categories, &gender, &courses,
		&amountAnnual, &amountMin, &amountNote, &incomeLimit, &marksMin,
		&documents, &keywords, &faqs, &appMode, &appURL,
		&sourceURL, &deadline, &deadlineNote, &howToApply,
		&status, &verifiedYear, &lastVerified, &helpline,
		&isFeatured, &isPopular, &showHomepage, &priorityScore,
	); err != nil {
		return nil, err
	}

	s.Provider = provider.String
	s.ProviderType = providerType.String
	s.Introduction = intro.String
	s.Benefits = benefits.String
	s.SelectionCriteria = selection.String
	s.RenewalPolicy = renewal.String
	s.State = state.String
	s.EducationLevel = level.String
	s.Gender = gender.String
	s.AmountNote = amountNote.String
	s.ApplicationMode = appMode.String
	s.ApplicationURL = appURL.String
	s.SourceURL = sourceURL.String
	s.Deadline = deadline.String
	s.DeadlineNote = deadlineNote.String
	s.HowToApply = howToApply.String
	s.Status = status.String
	s.LastVerified = lastVerified.String
	s.Helpline = helpline.String

	if amountAnnual.Valid {
		s.AmountAnnual = int(amountAnnual.Int64)
	}
	if amountMin.Valid {
		s.AmountMin = int(amountMin.Int64)
	}
	if incomeLimit.Valid {
		v := int(incomeLimit.Int64)
		s.IncomeLimit = &v
	}
	if marksMin.Valid {
		v := marksMin.Float64
		s.MarksMin = &v
	}
	if verifiedYear.Valid {
		s.VerifiedYear = int(verifiedYear.Int64)
	}
	if priorityScore.Valid {
		s.PriorityScore = int(priorityScore.Int64)
	}
	s.IsFeatured = isFeatured.Int64 != 0
	s.IsPopular = isPopular.Int64 != 0
	s.ShowOnHomepage = showHomepage.Int64 != 0

	// corrupt list fields degrade to empty, never fail the read
	s.Categories = models.DecodeStringList(categories.String)
	s.Courses = models.DecodeStringList(courses.String)
	s.Documents = models.DecodeStringList(documents.String)
	s.Keywords = models.DecodeStringList(keywords.String)
	s.FAQs = models.DecodeFAQList(faqs.String)

	return &s, nil
}

func (r *Repo) queryMany(ctx context.Context, sqlStr string, args ...any) ([]models.Scholarship, error) {
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []models.Scholarship
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	if out == nil {
		out = []models.Scholarship{}
	}
	return out, nil
}

func (r *Repo) queryOne(ctx context.Context, sqlStr string, args ...any) (*models.Scholarship, error) {
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	s, err := scanScholarship(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return s, nil
}

// All returns every stored record regardless of status. Intended for
// exports and sitemap generation, not public listings.
func (r *Repo) All(ctx context.Context) ([]models.Scholarship, error) {
	return r.queryMany(ctx, `SELECT `+selectCols+` FROM scholarships ORDER BY title ASC`)
}

// Active is the default public listing: every active record, featured
// and high-priority schemes first.
func (r *Repo) Active(ctx context.Context) ([]models.Scholarship, error) {
	return r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+activeOnly+`
		ORDER BY priority_score DESC, title ASC
	`)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Scholarship, error) {
	return r.queryOne(ctx, `SELECT `+selectCols+` FROM scholarships WHERE id = ?`, id)
}

// GetBySlug returns nil, nil on a miss; a missing slug is a "not found"
// page, not an error.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*models.Scholarship, error) {
	return r.queryOne(ctx, `SELECT `+selectCols+` FROM scholarships WHERE slug = ?`, slug)
}

// ByState matches the state column exactly. No synonym resolution:
// callers pass display values straight from DistinctStates.
func (r *Repo) ByState(ctx context.Context, state string) ([]models.Scholarship, error) {
	return r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+activeOnly+` AND state = ?
		ORDER BY priority_score DESC, title ASC
	`, state)
}

// ByCategory substring-matches against the JSON-encoded category list.
// A value that is a substring of another category's encoding will
// false-positive (e.g. "SC" also matches "SC-ST Joint") — accepted,
// given the free-text source data.
func (r *Repo) ByCategory(ctx context.Context, category string) ([]models.Scholarship, error) {
	return r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+activeOnly+` AND categories LIKE ?
		ORDER BY priority_score DESC, title ASC
	`, "%"+category+"%")
}

// ByLevel accepts either a canonical bucket key ("graduation-ug") or a
// raw level string. A bucket key expands to an OR across its known raw
// synonyms plus substring fallbacks; anything else exact-matches.
func (r *Repo) ByLevel(ctx context.Context, levelOrKey string) ([]models.Scholarship, error) {
	b := taxonomy.BucketForKey(levelOrKey)
	if b == nil {
		return r.queryMany(ctx, `
			SELECT `+selectCols+`
			FROM scholarships
			WHERE `+activeOnly+` AND education_level = ?
			ORDER BY priority_score DESC, title ASC
		`, levelOrKey)
	}

	var preds []string
	var args []any
	for _, syn := range b.Synonyms {
		preds = append(preds, "LOWER(education_level) = ?")
		args = append(args, strings.ToLower(syn))
	}
	for _, term := range b.FallbackTerms {
		preds = append(preds, "LOWER(education_level) LIKE ?")
		args = append(args, "%"+strings.ToLower(term)+"%")
	}

	return r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+activeOnly+` AND (`+strings.Join(preds, " OR ")+`)
		ORDER BY priority_score DESC, title ASC
	`, args...)
}

// ByIncomeRange filters on the income ceiling, inclusive on both ends.
// Records with no ceiling (NULL) are excluded: "no restriction" is not
// a number in the range.
func (r *Repo) ByIncomeRange(ctx context.Context, min, max int) ([]models.Scholarship, error) {
	return r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+activeOnly+` AND income_limit IS NOT NULL AND income_limit BETWEEN ? AND ?
		ORDER BY priority_score DESC, title ASC
	`, min, max)
}

func (r *Repo) ByType(ctx context.Context, providerType string) ([]models.Scholarship, error) {
	return r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+activeOnly+` AND provider_type = ?
		ORDER BY priority_score DESC, title ASC
	`, providerType)
}

// Search substring-matches across title, provider and state.
func (r *Repo) Search(ctx context.Context, q string) ([]models.Scholarship, error) {
	kw := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	return r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+activeOnly+` AND (
			LOWER(title) LIKE ? OR LOWER(provider) LIKE ? OR LOWER(state) LIKE ?
		)
		ORDER BY title ASC
	`, kw, kw, kw)
}

func (r *Repo) Featured(ctx context.Context, limit int) ([]models.Scholarship, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+activeOnly+` AND is_featured = 1
		ORDER BY priority_score DESC, title ASC
		LIMIT ?
	`, limit)
}

func (r *Repo) Popular(ctx context.Context, limit int) ([]models.Scholarship, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+activeOnly+` AND is_popular = 1
		ORDER BY priority_score DESC, title ASC
		LIMIT ?
	`, limit)
}

// DistinctStates returns the sorted set of non-empty state values among
// active records, for the by-state hub page.
func (r *Repo) DistinctStates(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "state")
}

func (r *Repo) DistinctLevels(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "education_level")
}

func (r *Repo) DistinctProviderTypes(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "provider_type")
}

func (r *Repo) distinctColumn(ctx context.Context, col string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT `+col+`
		FROM scholarships
		WHERE `+activeOnly+` AND `+col+` IS NOT NULL AND `+col+` != ''
		ORDER BY `+col+` ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", col, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("distinct %s scan: %w", col, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct %s rows: %w", col, err)
	}
	return out, nil
}

// DistinctCategories flattens the JSON category lists of active records
// into a sorted set of individual values.
func (r *Repo) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT categories
		FROM scholarships
		WHERE `+activeOnly+` AND categories IS NOT NULL AND categories != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("distinct categories scan: %w", err)
		}
		for _, c := range models.DecodeStringList(raw) {
			c = strings.TrimSpace(c)
			if c != "" {
				seen[c] = struct{}{}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct categories rows: %w", err)
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// DistinctValues is the field-keyed form used by hub page builders.
func (r *Repo) DistinctValues(ctx context.Context, field string) ([]string, error) {
	switch field {
	case "state":
		return r.DistinctStates(ctx)
	case "category":
		return r.DistinctCategories(ctx)
	case "level":
		return r.DistinctLevels(ctx)
	case "provider_type", "type":
		return r.DistinctProviderTypes(ctx)
	default:
		return nil, fmt.Errorf("distinct values: unknown field %q", field)
	}
}

type Stats struct {
	Total      int `json:"total"`
	States     int `json:"states"`
	Government int `json:"government"`
	Private    int `json:"private"`
}

func (r *Repo) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT state),
			COALESCE(SUM(CASE WHEN provider_type = 'Government' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN provider_type IN ('Private', 'Corporate') THEN 1 ELSE 0 END), 0)
		FROM scholarships
	`).Scan(&st.Total, &st.States, &st.Government, &st.Private)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &st, nil
}
