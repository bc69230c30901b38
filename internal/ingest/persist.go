package ingest

import (
	"context"
	"database/sql"
	"fmt"
)

// prepareUpsert builds the full-row replace statement. Upsert is by id
// with last-write-wins semantics: every column is overwritten, so a
// field cleared in the sheet clears in the store on the next run.
func prepareUpsert(ctx context.Context, tx *sql.Tx) (*sql.Stmt, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scholarships (
			id, slug, title, provider, provider_type,
			introduction, benefits, selection_criteria, renewal_policy,
			state, education_level, categories, gender, courses,
			amount_annual, amount_min, amount_note, income_limit, marks_min,
			documents, keywords, faqs, application_mode, application_url,
			source_url, deadline, deadline_note, how_to_apply,
			status, verified_year, last_verified, helpline,
			is_featured, is_popular, show_on_homepage, priority_score
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			provider = excluded.provider,
			provider_type = excluded.provider_type,
			introduction = excluded.introduction,
			benefits = excluded.benefits,
			selection_criteria = excluded.selection_criteria,
			renewal_policy = excluded.renewal_policy,
			state = excluded.state,
			education_level = excluded.education_level,
			categories = excluded.categories,
			gender = excluded.gender,
			courses = excluded.courses,
			amount_annual = excluded.amount_annual,
			amount_min = excluded.amount_min,
			amount_note = excluded.amount_note,
			income_limit = excluded.income_limit,
			marks_min = excluded.marks_min,
			documents = excluded.documents,
			keywords = excluded.keywords,
			faqs = excluded.faqs,
			application_mode = excluded.application_mode,
			application_url = excluded.application_url,
			source_url = excluded.source_url,
			deadline = excluded.deadline,
			deadline_note = excluded.deadline_note,
			how_to_apply = excluded.how_to_apply,
			status = excluded.status,
			verified_year = excluded.verified_year,
			last_verified = excluded.last_verified,
			helpline = excluded.helpline,
			is_featured = excluded.is_featured,
			is_popular = excluded.is_popular,
			show_on_homepage = excluded.show_on_homepage,
			priority_score = excluded.priority_score
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare upsert: %w", err)
	}
	return stmt, nil
}

func execUpsert(ctx context.Context, stmt *sql.Stmt, rec *Record) error {
	_, err := stmt.ExecContext(
		ctx,
		rec.ID, rec.Slug, rec.Title, rec.Provider, rec.ProviderType,
		rec.Introduction, rec.Benefits, rec.SelectionCriteria, rec.RenewalPolicy,
		rec.State, rec.EducationLevel, rec.Categories, rec.Gender, rec.Courses,
		rec.AmountAnnual, rec.AmountMin, rec.AmountNote, rec.IncomeLimit, rec.MarksMin,
		rec.Documents, rec.Keywords, rec.FAQs, rec.ApplicationMode, rec.ApplicationURL,
		rec.SourceURL, rec.Deadline, rec.DeadlineNote, rec.HowToApply,
		rec.Status, rec.VerifiedYear, rec.LastVerified, rec.Helpline,
		boolToInt(rec.IsFeatured), boolToInt(rec.IsPopular), boolToInt(rec.ShowOnHomepage), rec.PriorityScore,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.ID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
