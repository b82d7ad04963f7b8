package matching

import (
	"math"
	"testing"

	"mentormatch-service/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testMentee() *domain.MenteeProfile {
	return &domain.MenteeProfile{
		ID:                "mentee-1",
		Name:              "Ava",
		Major:             "Computer Science",
		Industry:          []string{"Software", "Fintech"},
		SkillsToLearn:     []string{"Python", "SQL"},
		ServiceLookingFor: []string{"Resume Review"},
		CompanySizes:      []string{"Startup", "Enterprise"},
	}
}

func TestScorePerfectMatch(t *testing.T) {
	mentee := testMentee()
	mentor := &domain.MentorProfile{
		ID:           "mentor-1",
		Major:        "Computer Science",
		Industry:     []string{"Software", "Fintech"},
		Skills:       []string{"Python", "SQL"},
		HelpIn:       []string{"Resume Review", "Mock Interviews"},
		CompanySizes: []string{"Startup", "Enterprise"},
	}

	m := Score(mentee, mentor)
	if !almostEqual(m.Total, 100) {
		t.Fatalf("perfect match total = %v, want 100", m.Total)
	}
	if !almostEqual(m.Breakdown.Major, WeightMajor) {
		t.Errorf("major = %v, want %v", m.Breakdown.Major, WeightMajor)
	}
	if !almostEqual(m.Breakdown.Industry, WeightIndustry) {
		t.Errorf("industry = %v, want %v", m.Breakdown.Industry, WeightIndustry)
	}
	if !almostEqual(m.Breakdown.Skills, WeightSkills) {
		t.Errorf("skills = %v, want %v", m.Breakdown.Skills, WeightSkills)
	}
}

func TestScoreDeterministic(t *testing.T) {
	mentee := testMentee()
	mentor := &domain.MentorProfile{
		Major:        "Software Engineering",
		Industry:     []string{"Banking"},
		Skills:       []string{"Java", "Machine Learning"},
		HelpIn:       []string{"Resume and Cover Letter Review"},
		CompanySizes: []string{"Startup"},
	}

	first := Score(mentee, mentor)
	for i := 0; i < 50; i++ {
		again := Score(mentee, mentor)
		if again.Total != first.Total || again.Breakdown != first.Breakdown {
			t.Fatalf("run %d produced %+v, first run produced %+v", i, again.Breakdown, first.Breakdown)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	mentee := testMentee()
	mentors := []domain.MentorProfile{
		{},
		{Major: "History"},
		{Major: "Computer Science", Industry: []string{"Software"}},
		{Major: "Nursing", Industry: []string{"Hospital"}, Skills: []string{"Excel"}},
		{Major: "computer science", Industry: []string{"software", "fintech"},
			Skills: []string{"python", "sql"}, HelpIn: []string{"resume review"},
			CompanySizes: []string{"startup", "enterprise"}},
	}
	for i := range mentors {
		m := Score(mentee, &mentors[i])
		if m.Total < 0 || m.Total > 100 {
			t.Errorf("mentor %d: total %v out of [0,100]", i, m.Total)
		}
	}
}

func TestMajorScore(t *testing.T) {
	tests := []struct {
		name   string
		mentee string
		mentor string
		want   float64
	}{
		{"exact case-insensitive", "Computer Science", "computer science", WeightMajor},
		{"substring containment", "Computer Science", "Science", WeightMajor * 0.9},
		{"same category", "Data Science", "Cybersecurity", WeightMajor * 0.8},
		{"related categories", "Computer Science", "Mechanical Engineering", WeightMajor * 0.6},
		{"unrelated", "Computer Science", "Theater", 0},
		{"empty mentee major", "", "Biology", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := majorScore(tt.mentee, tt.mentor)
			if !almostEqual(got, tt.want) {
				t.Fatalf("majorScore(%q, %q) = %v, want %v", tt.mentee, tt.mentor, got, tt.want)
			}
		})
	}
}

func TestIndustryScore(t *testing.T) {
	tests := []struct {
		name   string
		mentee []string
		mentor []string
		want   float64
	}{
		{"full overlap", []string{"Software"}, []string{"software"}, WeightIndustry},
		{"partial overlap uses larger set",
			[]string{"Software", "Banking"}, []string{"Software"}, WeightIndustry * 0.5},
		{"no overlap shared category", []string{"Software"}, []string{"SaaS"},
			WeightIndustry * 0.7},
		{"no overlap one known category", []string{"Banking"}, []string{"Basket Weaving"},
			WeightIndustry * 0.3},
		{"nothing known", []string{"Basket Weaving"}, []string{"Glass Blowing"}, 0},
		{"empty set", nil, []string{"Software"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := industryScore(tt.mentee, tt.mentor)
			if !almostEqual(got, tt.want) {
				t.Fatalf("industryScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSkillsScore(t *testing.T) {
	tests := []struct {
		name   string
		mentee []string
		mentor []string
		want   float64
	}{
		{"all requested covered", []string{"Python", "SQL"},
			[]string{"sql", "python", "go"}, WeightSkills},
		{"half covered", []string{"Python", "Rust"}, []string{"python"}, WeightSkills * 0.5},
		{"category fallback shared", []string{"Python"}, []string{"Java"}, WeightSkills * 0.6},
		{"category fallback one known", []string{"Python"}, []string{"Juggling"},
			WeightSkills * 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skillsScore(tt.mentee, tt.mentor)
			if !almostEqual(got, tt.want) {
				t.Fatalf("skillsScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHelpInScore(t *testing.T) {
	t.Run("exact service match", func(t *testing.T) {
		got := helpInScore([]string{"Resume Review"}, []string{"resume review", "mentoring"})
		if !almostEqual(got, WeightHelpIn) {
			t.Fatalf("got %v, want %v", got, WeightHelpIn)
		}
	})

	t.Run("token overlap above threshold", func(t *testing.T) {
		// "resume review" vs "resume review, cover letters": 2 shared of max 4 tokens.
		got := helpInScore([]string{"Resume Review"}, []string{"Resume Review, Cover Letters"})
		if !almostEqual(got, WeightHelpIn*0.5) {
			t.Fatalf("got %v, want %v", got, WeightHelpIn*0.5)
		}
	})

	t.Run("token overlap at or below threshold scores zero", func(t *testing.T) {
		// 1 shared token of max 4.
		got := helpInScore([]string{"Review"}, []string{"Resume Review Cover Letters"})
		if got != 0 {
			t.Fatalf("got %v, want 0", got)
		}
	})
}

func TestCompanySizeScore(t *testing.T) {
	got := companySizeScore([]string{"Startup", "Enterprise"}, []string{"startup"})
	if !almostEqual(got, WeightCompanySize*0.5) {
		t.Fatalf("got %v, want %v", got, WeightCompanySize*0.5)
	}
}

func TestRank(t *testing.T) {
	mentee := testMentee()
	mentors := []domain.MentorProfile{
		{ID: "zero", Major: "Theater"},
		{ID: "strong", Major: "Computer Science", Industry: []string{"Software", "Fintech"},
			Skills: []string{"Python", "SQL"}},
		{ID: "weak", Major: "Mechanical Engineering"},
		{ID: "medium", Major: "Computer Science"},
	}

	t.Run("sorted descending, zero scores dropped", func(t *testing.T) {
		got := Rank(mentee, mentors, 10)
		if len(got) != 3 {
			t.Fatalf("got %d matches, want 3", len(got))
		}
		want := []string{"strong", "medium", "weak"}
		for i, id := range want {
			if got[i].Mentor.ID != id {
				t.Errorf("rank %d = %s, want %s", i, got[i].Mentor.ID, id)
			}
		}
		for i := 1; i < len(got); i++ {
			if got[i].Total > got[i-1].Total {
				t.Errorf("not descending at %d: %v > %v", i, got[i].Total, got[i-1].Total)
			}
		}
	})

	t.Run("default limit is three", func(t *testing.T) {
		many := append([]domain.MentorProfile{}, mentors...)
		many = append(many,
			domain.MentorProfile{ID: "extra1", Major: "Computer Science"},
			domain.MentorProfile{ID: "extra2", Major: "Computer Science"},
		)
		got := Rank(mentee, many, 0)
		if len(got) != DefaultLimit {
			t.Fatalf("got %d matches, want %d", len(got), DefaultLimit)
		}
	})

	t.Run("ties keep input order", func(t *testing.T) {
		tied := []domain.MentorProfile{
			{ID: "first", Major: "Computer Science"},
			{ID: "second", Major: "Computer Science"},
		}
		got := Rank(mentee, tied, 2)
		if got[0].Mentor.ID != "first" || got[1].Mentor.ID != "second" {
			t.Fatalf("tie order broken: %s, %s", got[0].Mentor.ID, got[1].Mentor.ID)
		}
	})
}
