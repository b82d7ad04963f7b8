package domain

import "time"

// Availability maps a weekday name ("Monday") to the ordered time-window
// labels a party has opened that day (e.g. "9am-10am", "1:00 PM").
type Availability map[string][]string

type MentorProfile struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	YearsOfExperience int          `json:"years_of_experience"`
	Major             string       `json:"major"`
	Industry          []string     `json:"industry"`
	Skills            []string     `json:"skills"`
	HelpIn            []string     `json:"help_in"`
	CompanySizes      []string     `json:"company_sizes"`
	Availability      Availability `json:"availability"`
	CreatedAt         time.Time    `json:"created_at,omitempty"`
	UpdatedAt         time.Time    `json:"updated_at,omitempty"`
}

type MenteeProfile struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Major             string       `json:"major"`
	Industry          []string     `json:"industry"`
	SkillsToLearn     []string     `json:"skills_to_learn"`
	ServiceLookingFor []string     `json:"service_looking_for"`
	CompanySizes      []string     `json:"company_sizes"`
	Availability      Availability `json:"general_availability"`
	CreatedAt         time.Time    `json:"created_at,omitempty"`
	UpdatedAt         time.Time    `json:"updated_at,omitempty"`
}
