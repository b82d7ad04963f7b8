package domain

import "time"

type Role string

const (
	RoleMentee Role = "mentee"
	RoleMentor Role = "mentor"
)

func (r Role) Valid() bool {
	return r == RoleMentee || r == RoleMentor
}

// Other returns the counterpart role.
func (r Role) Other() Role {
	if r == RoleMentee {
		return RoleMentor
	}
	return RoleMentee
}

const (
	MeetingPending   = "pending"
	MeetingConfirmed = "confirmed"
)

// Meeting is a single negotiation record. A record lives in exactly one of
// two collections: pending (approval flags mutable) or confirmed (both flags
// true, MeetLink set, immutable).
type Meeting struct {
	ID             string    `json:"id"`
	MenteeID       string    `json:"mentee_id"`
	MenteeName     string    `json:"mentee_name"`
	MenteeEmail    string    `json:"mentee_email"`
	MentorID       string    `json:"mentor_id"`
	MentorName     string    `json:"mentor_name"`
	MentorEmail    string    `json:"mentor_email"`
	MeetingDate    time.Time `json:"meeting_date"`
	MeetingTime    string    `json:"meeting_time"`
	MenteeApproved bool      `json:"mentee_approved"`
	MentorApproved bool      `json:"mentor_approved"`
	Status         string    `json:"status"`
	MeetLink       string    `json:"meet_link,omitempty"`
	// Revision guards conditional updates on the pending record.
	Revision    int64      `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// Approved reports the approval flag for the given role.
func (m *Meeting) Approved(r Role) bool {
	if r == RoleMentee {
		return m.MenteeApproved
	}
	return m.MentorApproved
}

// SetApproved sets the approval flag for the given role.
func (m *Meeting) SetApproved(r Role, v bool) {
	if r == RoleMentee {
		m.MenteeApproved = v
	} else {
		m.MentorApproved = v
	}
}

// PartyID returns the id of the given role's party.
func (m *Meeting) PartyID(r Role) string {
	if r == RoleMentee {
		return m.MenteeID
	}
	return m.MentorID
}

// PartyEmail returns the email of the given role's party.
func (m *Meeting) PartyEmail(r Role) string {
	if r == RoleMentee {
		return m.MenteeEmail
	}
	return m.MentorEmail
}
