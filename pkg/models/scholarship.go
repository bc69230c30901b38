package models

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Scholarship is one scheme entry as served to the frontend. List fields
// are stored in the DB as JSON text columns and decoded on read.
type Scholarship struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Provider string `json:"provider,omitempty"`

	// Government / Private / Corporate / Foundation
	ProviderType string `json:"provider_type,omitempty"`

	Introduction      string `json:"introduction,omitempty"`
	Benefits          string `json:"benefits,omitempty"`
	SelectionCriteria string `json:"selection_criteria,omitempty"`
	RenewalPolicy     string `json:"renewal_policy,omitempty"`

	State          string   `json:"state,omitempty"` // single state or "All India"
	EducationLevel string   `json:"education_level,omitempty"`
	Categories     []string `json:"categories"`
	Gender         string   `json:"gender,omitempty"`
	Courses        []string `json:"courses"`

	AmountAnnual int    `json:"amount_annual,omitempty"` // whole rupees
	AmountMin    int    `json:"amount_min,omitempty"`
	AmountNote   string `json:"amount_note,omitempty"`

	// nil means no income restriction / no minimum marks, not zero.
	IncomeLimit *int     `json:"income_limit,omitempty"`
	MarksMin    *float64 `json:"marks_min,omitempty"`

	Documents       []string `json:"documents"`
	Keywords        []string `json:"keywords"`
	FAQs            []FAQ    `json:"faqs"`
	ApplicationMode string   `json:"application_mode,omitempty"`
	ApplicationURL  string   `json:"application_url,omitempty"`
	SourceURL       string   `json:"source_url,omitempty"`
	Deadline        string   `json:"deadline,omitempty"` // YYYY-MM-DD, "" = rolling
	DeadlineNote    string   `json:"deadline_note,omitempty"`
	HowToApply      string   `json:"how_to_apply,omitempty"`

	Status       string `json:"status,omitempty"`
	VerifiedYear int    `json:"verified_year,omitempty"`
	LastVerified string `json:"last_verified,omitempty"`
	Helpline     string `json:"helpline,omitempty"`

	IsFeatured     bool `json:"is_featured"`
	IsPopular      bool `json:"is_popular"`
	ShowOnHomepage bool `json:"show_on_homepage"`
	PriorityScore  int  `json:"priority_score"`
}

// FAQ is one question/answer pair attached to a scheme.
type FAQ struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// DecodeStringList decodes a JSON-array-in-text column. Absent or
// malformed values come back as an empty list, never nil or an error —
// one corrupt auxiliary field must not break a read.
func DecodeStringList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// DecodeFAQList decodes the faqs column with the same degrade-to-empty
// policy as DecodeStringList.
func DecodeFAQList(raw string) []FAQ {
	if strings.TrimSpace(raw) == "" {
		return []FAQ{}
	}
	var out []FAQ
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []FAQ{}
	}
	return out
}

// EncodeStringList is the write-side counterpart; a nil slice encodes
// as "[]" so the column never holds SQL NULL for list fields we set.
func EncodeStringList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

var stepMarker = regexp.MustCompile(`\s*\d+\.\s+`)

// SplitSteps splits an application guide stored as a single string with
// numbered markers ("1. Register on the portal 2. Upload ...") into the
// individual steps, for render time.
func SplitSteps(guide string) []string {
	parts := stepMarker.Split(guide, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
