package ingest

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"scholarhub/internal/taxonomy"
	"scholarhub/pkg/models"
)

// Column map validation errors.
var (
	ErrNoColumns      = errors.New("columns map is empty")
	ErrNoTitleColumn  = errors.New("no column is mapped to the title field")
	ErrNoStatusColumn = errors.New("status_column is required")
	ErrNoReadyValue   = errors.New("ready_value is required")
	ErrRowNoTitle     = errors.New("row has no title")
)

// ColumnMap is loaded from configs/columns.yaml. It names the sheet
// headers we care about; headers the map doesn't mention are ignored,
// so content editors can add helper columns freely. Renaming a mapped
// header silently drops that field — keep the yaml in sync with the
// sheet.
type ColumnMap struct {
	// StatusColumn/ReadyValue gate which rows get imported at all.
	StatusColumn string `yaml:"status_column"`
	ReadyValue   string `yaml:"ready_value"`

	// Columns maps sheet header name -> record field name.
	Columns map[string]string `yaml:"columns"`
}

func LoadColumnMap(path string) (*ColumnMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cm ColumnMap
	if err := yaml.Unmarshal(b, &cm); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cm.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cm, nil
}

func (cm *ColumnMap) Validate() error {
	if len(cm.Columns) == 0 {
		return ErrNoColumns
	}
	if cm.StatusColumn == "" {
		return ErrNoStatusColumn
	}
	if cm.ReadyValue == "" {
		return ErrNoReadyValue
	}
	for _, field := range cm.Columns {
		if field == "title" {
			return nil
		}
	}
	return ErrNoTitleColumn
}

// Record is one sheet row coerced into column-shaped values, ready for
// the upsert statement. Numeric fields use sql.Null* because empty or
// non-numeric cells must become NULL, not zero.
type Record struct {
	ID    string
	Slug  string
	Title string

	Provider          string
	ProviderType      string
	Introduction      string
	Benefits          string
	SelectionCriteria string
	RenewalPolicy     string

	State          string
	EducationLevel string
	Gender         string

	// JSON-array text, as stored
	Categories string
	Courses    string
	Documents  string
	Keywords   string
	FAQs       string

	AmountAnnual sql.NullInt64
	AmountMin    sql.NullInt64
	AmountNote   string
	IncomeLimit  sql.NullInt64
	MarksMin     sql.NullFloat64

	ApplicationMode string
	ApplicationURL  string
	SourceURL       string
	Deadline        sql.NullString
	DeadlineNote    string
	HowToApply      string

	Status       string
	VerifiedYear sql.NullInt64
	LastVerified string
	Helpline     string

	IsFeatured     bool
	IsPopular      bool
	ShowOnHomepage bool
	PriorityScore  sql.NullInt64
}

// Mapper turns raw sheet rows into Records using the column map.
type Mapper struct {
	Map *ColumnMap

	// header name (lowercased) -> column index, built per fetch
	fieldIdx map[string]int
}

func NewMapper(cm *ColumnMap) *Mapper {
	return &Mapper{Map: cm}
}

// BindHeader indexes the fetched header row. Mapped headers that are
// missing from the sheet simply never bind; their fields keep defaults.
func (m *Mapper) BindHeader(header []string) {
	lookup := make(map[string]string, len(m.Map.Columns))
	for col, field := range m.Map.Columns {
		lookup[normalizeHeader(col)] = field
	}

	m.fieldIdx = make(map[string]int)
	for i, name := range header {
		if field, ok := lookup[normalizeHeader(name)]; ok {
			m.fieldIdx[field] = i
		}
	}
	// the status gate column binds under its own key
	for i, name := range header {
		if normalizeHeader(name) == normalizeHeader(m.Map.StatusColumn) {
			m.fieldIdx["__status__"] = i
		}
	}
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (m *Mapper) cell(row []string, field string) string {
	idx, ok := m.fieldIdx[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Ready reports whether the row's production status equals the
// configured sentinel. Everything else is skipped, never deleted.
func (m *Mapper) Ready(row []string) bool {
	return strings.EqualFold(m.cell(row, "__status__"), m.Map.ReadyValue)
}

// MapRow coerces one ready row into a Record. The id and slug derive
// from the title when the sheet doesn't carry them explicitly.
func (m *Mapper) MapRow(row []string) (*Record, error) {
	title := m.cell(row, "title")
	if title == "" {
		return nil, ErrRowNoTitle
	}

	rec := &Record{
		Title:             title,
		Provider:          m.cell(row, "provider"),
		ProviderType:      m.cell(row, "provider_type"),
		Introduction:      m.cell(row, "introduction"),
		Benefits:          m.cell(row, "benefits"),
		SelectionCriteria: m.cell(row, "selection_criteria"),
		RenewalPolicy:     m.cell(row, "renewal_policy"),
		State:             m.cell(row, "state"),
		EducationLevel:    m.cell(row, "education_level"),
		Gender:            m.cell(row, "gender"),
		AmountNote:        m.cell(row, "amount_note"),
		ApplicationMode:   m.cell(row, "application_mode"),
		ApplicationURL:    m.cell(row, "application_url"),
		SourceURL:         m.cell(row, "source_url"),
		DeadlineNote:      m.cell(row, "deadline_note"),
		HowToApply:        m.cell(row, "how_to_apply"),
		LastVerified:      m.cell(row, "last_verified"),
		Helpline:          m.cell(row, "helpline"),
	}

	rec.ID = m.cell(row, "id")
	if rec.ID == "" {
		rec.ID = taxonomy.SlugForTitle(title)
	}
	rec.Slug = m.cell(row, "slug")
	if rec.Slug == "" {
		rec.Slug = taxonomy.SlugForTitle(title)
	}

	rec.Status = m.cell(row, "status")
	if rec.Status == "" {
		rec.Status = "Active"
	}

	rec.Categories = parseList(m.cell(row, "categories"))
	rec.Courses = parseList(m.cell(row, "courses"))
	rec.Documents = parseList(m.cell(row, "documents"))
	rec.Keywords = parseList(m.cell(row, "keywords"))
	rec.FAQs = parseFAQs(m.cell(row, "faqs"))

	rec.AmountAnnual = parseNullInt(m.cell(row, "amount_annual"))
	rec.AmountMin = parseNullInt(m.cell(row, "amount_min"))
	rec.IncomeLimit = parseNullInt(m.cell(row, "income_limit"))
	rec.MarksMin = parseNullFloat(m.cell(row, "marks_min"))
	rec.VerifiedYear = parseNullInt(m.cell(row, "verified_year"))
	rec.PriorityScore = parseNullInt(m.cell(row, "priority_score"))

	rec.IsFeatured = parseBool(m.cell(row, "is_featured"))
	rec.IsPopular = parseBool(m.cell(row, "is_popular"))
	rec.ShowOnHomepage = parseBool(m.cell(row, "show_on_homepage"))

	rec.Deadline = parseDate(m.cell(row, "deadline"))

	return rec, nil
}

// parseList turns a comma-separated cell into the stored JSON array
// text. Empty cells store "[]" so reads always decode to a list.
func parseList(raw string) string {
	if raw == "" {
		return "[]"
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return models.EncodeStringList(out)
}

// parseFAQs decodes the sheet's FAQ convention: entries separated by
// "|", question and answer by "::". Malformed entries are dropped.
func parseFAQs(raw string) string {
	if raw == "" {
		return "[]"
	}
	var faqs []models.FAQ
	for _, entry := range strings.Split(raw, "|") {
		q, a, ok := strings.Cut(entry, "::")
		q, a = strings.TrimSpace(q), strings.TrimSpace(a)
		if ok && q != "" && a != "" {
			faqs = append(faqs, models.FAQ{Question: q, Answer: a})
		}
	}
	if len(faqs) == 0 {
		return "[]"
	}
	b, err := json.Marshal(faqs)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// parseNullInt: empty or non-numeric cells become NULL, never zero.
// Content editors type amounts like "12,000" — strip separators first.
func parseNullInt(raw string) sql.NullInt64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return sql.NullInt64{}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

func parseNullFloat(raw string) sql.NullFloat64 {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2 January 2006"}

// parseDate normalizes deadline cells to YYYY-MM-DD. Anything that
// doesn't parse stores as NULL, which the site renders as
// "rolling / check portal".
func parseDate(raw string) sql.NullString {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullString{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return sql.NullString{String: t.Format("2006-01-02"), Valid: true}
		}
	}
	return sql.NullString{}
}
