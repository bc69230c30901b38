package scholarship

import (
	"context"
	"strings"

	"scholarhub/pkg/models"
)

// EligibilityQuery is the student profile posted by the eligibility
// form. Every field is optional; empty/nil fields don't filter.
type EligibilityQuery struct {
	State    string   `json:"state"`
	Category string   `json:"category"`
	Level    string   `json:"level"`
	Income   *int     `json:"income"`
	Marks    *float64 `json:"marks"`
}

// Eligible returns the Active schemes matching the profile, highest
// annual amount first. Scalar predicates run in SQL; the category
// membership check runs post-decode, against "All" or the named
// category, because the list lives in a JSON text column.
func (r *Repo) Eligible(ctx context.Context, q EligibilityQuery) ([]models.Scholarship, error) {
	where := []string{activeOnly}
	var args []any

	if s := strings.TrimSpace(q.State); s != "" {
		where = append(where, `(state = ? OR state = 'All India')`)
		args = append(args, s)
	}
	if l := strings.TrimSpace(q.Level); l != "" {
		where = append(where, `education_level = ?`)
		args = append(args, l)
	}
	if q.Income != nil {
		// no ceiling means no income restriction
		where = append(where, `(income_limit IS NULL OR income_limit >= ?)`)
		args = append(args, *q.Income)
	}
	if q.Marks != nil {
		where = append(where, `(marks_min IS NULL OR marks_min <= ?)`)
		args = append(args, *q.Marks)
	}

	matches, err := r.queryMany(ctx, `
		SELECT `+selectCols+`
		FROM scholarships
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY amount_annual DESC
	`, args...)
	if err != nil {
		return nil, err
	}

	cat := strings.TrimSpace(q.Category)
	if cat == "" {
		return matches, nil
	}

	out := make([]models.Scholarship, 0, len(matches))
	for _, s := range matches {
		if categoryMatches(s.Categories, cat) {
			out = append(out, s)
		}
	}
	return out, nil
}

func categoryMatches(list []string, want string) bool {
	if len(list) == 0 {
		// no category restriction recorded: open to everyone
		return true
	}
	for _, c := range list {
		c = strings.TrimSpace(c)
		if strings.EqualFold(c, "All") || strings.EqualFold(c, want) {
			return true
		}
	}
	return false
}
