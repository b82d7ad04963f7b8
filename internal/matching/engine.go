// Package matching ranks prospective mentors for a mentee with a weighted
// multi-criteria score. Scoring is pure: no I/O, and identical inputs always
// produce identical results.
package matching

import (
	"sort"
	"strings"

	"mentormatch-service/internal/domain"
)

// Factor weights. They sum to 100, so a perfect mentor scores exactly 100.
const (
	WeightMajor       = 40.0
	WeightIndustry    = 35.0
	WeightSkills      = 20.0
	WeightHelpIn      = 5.0
	WeightCompanySize = 5.0
)

const DefaultLimit = 3

// Breakdown is the per-factor share of a match score.
type Breakdown struct {
	Major       float64 `json:"major"`
	Industry    float64 `json:"industry"`
	Skills      float64 `json:"skills"`
	HelpIn      float64 `json:"help_in"`
	CompanySize float64 `json:"company_size"`
}

// Match is one ranked mentor with its score breakdown. Ephemeral: produced
// fresh on every ranking request, never persisted.
type Match struct {
	Mentor    domain.MentorProfile `json:"mentor"`
	Total     float64              `json:"total_score"`
	Breakdown Breakdown            `json:"breakdown"`
}

// Rank scores every mentor against the mentee's stated preferences and
// returns the top matches, descending by total score, truncated to limit and
// filtered to scores above zero. Ties keep the mentors' input order.
func Rank(mentee *domain.MenteeProfile, mentors []domain.MentorProfile, limit int) []Match {
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := make([]Match, 0, len(mentors))
	for i := range mentors {
		m := Score(mentee, &mentors[i])
		if m.Total > 0 {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Total > matches[j].Total
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Score computes the full breakdown for a single mentee/mentor pair.
func Score(mentee *domain.MenteeProfile, mentor *domain.MentorProfile) Match {
	b := Breakdown{
		Major:       majorScore(mentee.Major, mentor.Major),
		Industry:    industryScore(mentee.Industry, mentor.Industry),
		Skills:      skillsScore(mentee.SkillsToLearn, mentor.Skills),
		HelpIn:      helpInScore(mentee.ServiceLookingFor, mentor.HelpIn),
		CompanySize: companySizeScore(mentee.CompanySizes, mentor.CompanySizes),
	}
	return Match{
		Mentor:    *mentor,
		Total:     b.Major + b.Industry + b.Skills + b.HelpIn + b.CompanySize,
		Breakdown: b,
	}
}

func majorScore(menteeMajor, mentorMajor string) float64 {
	a := strings.ToLower(strings.TrimSpace(menteeMajor))
	b := strings.ToLower(strings.TrimSpace(mentorMajor))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return WeightMajor
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return WeightMajor * 0.9
	}
	catA := categoryOf(majorCategories, majorCategoryOrder, a)
	catB := categoryOf(majorCategories, majorCategoryOrder, b)
	if catA != "" && catA == catB {
		return WeightMajor * 0.8
	}
	if catA != "" && catB != "" && related(catA, catB) {
		return WeightMajor * 0.6
	}
	return 0
}

func industryScore(menteeIndustries, mentorIndustries []string) float64 {
	a := normalizeSet(menteeIndustries)
	b := normalizeSet(mentorIndustries)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if n := intersectCount(a, b); n > 0 {
		denom := len(a)
		if len(b) > denom {
			denom = len(b)
		}
		return WeightIndustry * float64(n) / float64(denom)
	}
	return categoryFallback(a, b, industryCategories, industryCategoryOrder,
		WeightIndustry, 0.7, 0.3)
}

func skillsScore(menteeSkills, mentorSkills []string) float64 {
	a := normalizeSet(menteeSkills)
	b := normalizeSet(mentorSkills)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if n := intersectCount(a, b); n > 0 {
		return WeightSkills * float64(n) / float64(len(a))
	}
	return categoryFallback(a, b, skillCategories, skillCategoryOrder,
		WeightSkills, 0.6, 0.2)
}

func helpInScore(lookingFor, offered []string) float64 {
	a := normalizeSet(lookingFor)
	b := normalizeSet(offered)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	for _, want := range a {
		for _, have := range b {
			if want == have {
				return WeightHelpIn
			}
		}
	}
	best := 0.0
	for _, want := range a {
		for _, have := range b {
			if r := tokenOverlap(want, have); r > best {
				best = r
			}
		}
	}
	if best > 0.3 {
		return WeightHelpIn * best
	}
	return 0
}

func companySizeScore(menteePrefs, mentorSizes []string) float64 {
	a := normalizeSet(menteePrefs)
	b := normalizeSet(mentorSizes)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return WeightCompanySize * float64(intersectCount(a, b)) / float64(len(a))
}

// categoryFallback scores two sets with no direct overlap by their category
// resolution: a shared category earns sharedPct of the weight, any known
// category on either side earns knownPct.
func categoryFallback(a, b []string, table map[string][]string, order []string,
	weight, sharedPct, knownPct float64) float64 {
	catsA := categoriesOf(table, order, a)
	catsB := categoriesOf(table, order, b)
	for _, ca := range catsA {
		for _, cb := range catsB {
			if ca == cb {
				return weight * sharedPct
			}
		}
	}
	if len(catsA) > 0 || len(catsB) > 0 {
		return weight * knownPct
	}
	return 0
}

func categoriesOf(table map[string][]string, order []string, values []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range values {
		if cat := categoryOf(table, order, v); cat != "" && !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}

// tokenOverlap returns the shared-token ratio between two labels, splitting
// on whitespace and commas: |shared| / max(token counts).
func tokenOverlap(a, b string) float64 {
	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for _, x := range ta {
		for _, y := range tb {
			if x == y {
				shared++
				break
			}
		}
	}
	denom := len(ta)
	if len(tb) > denom {
		denom = len(tb)
	}
	return float64(shared) / float64(denom)
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	return fields
}

// normalizeSet lowercases, trims, and dedupes while preserving order.
func normalizeSet(values []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func intersectCount(a, b []string) int {
	n := 0
	for _, x := range a {
		for _, y := range b {
			if x == y {
				n++
				break
			}
		}
	}
	return n
}
