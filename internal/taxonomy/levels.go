package taxonomy

import "strings"

// LevelBucket groups the raw, inconsistently entered education-level
// strings observed in the source sheet under one canonical key used in
// URLs and filters. Synonyms are matched exactly; FallbackTerms widen
// the match with substring probes for spellings the list misses.
type LevelBucket struct {
	Key           string
	Display       string
	Synonyms      []string
	FallbackTerms []string
}

// levelBuckets is the reconciliation table for the free-text
// education_level column. Extend it when new spellings show up in the
// sheet; do not try to fuzzy-match.
var levelBuckets = []LevelBucket{
	{
		Key:     "class-1-8",
		Display: "Class 1 to 8",
		Synonyms: []string{
			"Class 1-8", "Class 1 to 8", "Pre-Matric (Class 1-8)",
			"Primary School", "Elementary", "Class 1 to VIII",
		},
		FallbackTerms: []string{"class 1", "pre-matric"},
	},
	{
		Key:     "class-9-10",
		Display: "Class 9 & 10",
		Synonyms: []string{
			"Class 9-10", "Class 9 to 10", "Pre-Matric (Class 9-10)",
			"Secondary School", "Class IX-X", "Matric",
		},
		FallbackTerms: []string{"class 9", "class 10"},
	},
	{
		Key:     "class-11-12",
		Display: "Class 11 & 12",
		Synonyms: []string{
			"Class 11-12", "Class 11 to 12", "Post-Matric (Class 11-12)",
			"Higher Secondary", "Senior Secondary", "Intermediate", "Class XI-XII",
			"10+2",
		},
		FallbackTerms: []string{"class 11", "class 12", "higher secondary"},
	},
	{
		Key:     "graduation-ug",
		Display: "Graduation (UG)",
		Synonyms: []string{
			"Graduation", "Undergraduate", "UG", "Bachelor's Degree",
			"Bachelors", "B.A/B.Sc/B.Com", "Degree Course", "College (UG)",
		},
		FallbackTerms: []string{"graduat", "bachelor", "undergrad"},
	},
	{
		Key:     "post-graduation-pg",
		Display: "Post Graduation (PG)",
		Synonyms: []string{
			"Post Graduation", "Postgraduate", "PG", "Master's Degree",
			"Masters", "M.A/M.Sc/M.Com", "College (PG)",
		},
		FallbackTerms: []string{"post graduat", "master", "postgrad"},
	},
	{
		Key:     "diploma-iti",
		Display: "Diploma / ITI",
		Synonyms: []string{
			"Diploma", "ITI", "Polytechnic", "Diploma/ITI", "Vocational Training",
		},
		FallbackTerms: []string{"diploma", "iti", "polytechnic"},
	},
	{
		Key:     "phd-research",
		Display: "PhD / Research",
		Synonyms: []string{
			"PhD", "Ph.D", "Doctorate", "Research Fellowship", "M.Phil",
		},
		FallbackTerms: []string{"phd", "doctora", "research"},
	},
}

// BucketForKey returns the bucket for a canonical key, or nil when the
// input is not a known key (callers then treat it as a raw level string).
func BucketForKey(key string) *LevelBucket {
	for i := range levelBuckets {
		if levelBuckets[i].Key == key {
			return &levelBuckets[i]
		}
	}
	return nil
}

// Buckets returns the canonical buckets in display order, for hub pages.
func Buckets() []LevelBucket {
	out := make([]LevelBucket, len(levelBuckets))
	copy(out, levelBuckets)
	return out
}

// BucketKeyForRaw maps a raw level string to its canonical key, falling
// back to Slugify when no bucket claims it.
func BucketKeyForRaw(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for i := range levelBuckets {
		b := &levelBuckets[i]
		for _, syn := range b.Synonyms {
			if strings.ToLower(syn) == lower {
				return b.Key
			}
		}
		for _, term := range b.FallbackTerms {
			if term != "" && strings.Contains(lower, term) {
				return b.Key
			}
		}
	}
	return Slugify(raw)
}
