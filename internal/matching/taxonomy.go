package matching

import "strings"

// Broad field-of-study categories. A major resolves to at most one of these;
// two majors in the same category score a partial match, and categories the
// adjacency table declares related score a weaker one.
const (
	catComputing      = "computing"
	catBusiness       = "business"
	catEngineering    = "engineering"
	catScience        = "science"
	catMedicine       = "medicine"
	catArts           = "arts"
	catEducation      = "education"
	catSocialSciences = "social sciences"
)

var majorCategories = map[string][]string{
	catComputing: {
		"computer science", "software engineering", "information technology",
		"information systems", "data science", "cybersecurity", "computer engineering",
	},
	catBusiness: {
		"business", "business administration", "finance", "accounting",
		"marketing", "economics", "management", "entrepreneurship",
	},
	catEngineering: {
		"mechanical engineering", "electrical engineering", "civil engineering",
		"chemical engineering", "aerospace engineering", "industrial engineering",
	},
	catScience: {
		"biology", "chemistry", "physics", "mathematics", "statistics",
		"environmental science", "neuroscience",
	},
	catMedicine: {
		"medicine", "nursing", "pharmacy", "public health", "pre-med", "dentistry",
	},
	catArts: {
		"art", "design", "graphic design", "music", "film", "theater",
		"communications", "journalism", "english", "creative writing",
	},
	catEducation: {
		"education", "teaching", "early childhood education", "special education",
	},
	catSocialSciences: {
		"psychology", "sociology", "political science", "history",
		"anthropology", "international relations", "criminal justice",
	},
}

// relatedCategories is a fixed adjacency table over the broad categories.
var relatedCategories = map[string][]string{
	catComputing:      {catEngineering, catScience},
	catEngineering:    {catComputing, catScience},
	catScience:        {catComputing, catEngineering, catMedicine},
	catMedicine:       {catScience},
	catBusiness:       {catSocialSciences},
	catSocialSciences: {catBusiness, catEducation},
	catEducation:      {catSocialSciences, catArts},
	catArts:           {catEducation},
}

var industryCategories = map[string][]string{
	"technology": {
		"software", "tech", "information technology", "saas", "internet",
		"telecommunications", "cybersecurity", "artificial intelligence",
	},
	"finance": {
		"banking", "finance", "financial services", "fintech", "insurance",
		"investment", "accounting",
	},
	"healthcare": {
		"healthcare", "health", "hospital", "pharmaceuticals", "biotech",
		"medical devices",
	},
	"consumer": {
		"retail", "e-commerce", "consumer goods", "hospitality", "food",
		"entertainment", "media",
	},
	"industrial": {
		"manufacturing", "construction", "energy", "automotive", "aerospace",
		"logistics", "transportation",
	},
	"public": {
		"government", "education", "nonprofit", "non-profit", "public sector",
	},
}

var skillCategories = map[string][]string{
	"programming": {
		"python", "java", "javascript", "go", "c++", "sql", "react", "node",
		"programming", "coding", "software development", "web development",
	},
	"data": {
		"data analysis", "machine learning", "statistics", "excel", "tableau",
		"data science", "analytics", "ai",
	},
	"design": {
		"ui design", "ux design", "figma", "photoshop", "graphic design",
		"product design",
	},
	"business skills": {
		"project management", "product management", "marketing", "sales",
		"negotiation", "strategy", "financial modeling",
	},
	"communication": {
		"public speaking", "writing", "presentation", "leadership", "networking",
		"interviewing",
	},
}

// Iteration order for each table. Map range order is not stable, and scoring
// must be deterministic for identical inputs.
var majorCategoryOrder = []string{
	catComputing, catBusiness, catEngineering, catScience,
	catMedicine, catArts, catEducation, catSocialSciences,
}

var industryCategoryOrder = []string{
	"technology", "finance", "healthcare", "consumer", "industrial", "public",
}

var skillCategoryOrder = []string{
	"programming", "data", "design", "business skills", "communication",
}

// categoryOf resolves a value to a category in the given table: exact keyword
// match first, then substring containment either direction. Empty string if
// nothing matches.
func categoryOf(table map[string][]string, order []string, value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return ""
	}
	for _, cat := range order {
		for _, kw := range table[cat] {
			if v == kw {
				return cat
			}
		}
	}
	for _, cat := range order {
		for _, kw := range table[cat] {
			if strings.Contains(v, kw) || strings.Contains(kw, v) {
				return cat
			}
		}
	}
	return ""
}

// related reports whether two distinct categories are adjacent.
func related(a, b string) bool {
	for _, r := range relatedCategories[a] {
		if r == b {
			return true
		}
	}
	return false
}
