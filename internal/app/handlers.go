package app

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mentormatch-service/internal/availability"
	"mentormatch-service/internal/domain"
	"mentormatch-service/internal/matching"
	"mentormatch-service/internal/meeting"
)

const dateLayout = "2006-01-02"

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAuthExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// enforceCaller rejects a request whose JWT claims contradict the role or
// party it acts as. Static-token callers carry no claims and pass through.
func enforceCaller(c *gin.Context, role domain.Role, partyID string) bool {
	if claim := c.GetString(ctxRole); claim != "" && claim != string(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "role does not match credentials"})
		return false
	}
	if claim := c.GetString(ctxPartyID); claim != "" && partyID != "" && claim != partyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "party does not match credentials"})
		return false
	}
	return true
}

// GET /api/mentees/:id/matches?limit=N
func (a *App) MatchesHandler(c *gin.Context) {
	ctx := c.Request.Context()

	mentee, err := a.Profiles.Mentee(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	mentors, err := a.Profiles.Mentors(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	matches := matching.Rank(mentee, mentors, limit)
	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"count":   len(matches),
	})
}

// GET /api/parties/:id/slots?role=mentor&date=YYYY-MM-DD
func (a *App) SlotsHandler(c *gin.Context) {
	date, err := time.ParseInLocation(dateLayout, c.Query("date"), time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}
	if !availability.Browse(time.Now()).Contains(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is outside the bookable two-week window"})
		return
	}

	av, err := a.partyAvailability(c, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	slots := availability.SlotsOn(av, date)
	if slots == nil {
		slots = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    date.Format(dateLayout),
		"weekday": date.Weekday().String(),
		"slots":   slots,
	})
}

// PUT /api/parties/:id/availability
func (a *App) SetAvailabilityHandler(c *gin.Context) {
	var payload struct {
		Role         domain.Role         `json:"role" binding:"required"`
		Availability domain.Availability `json:"availability" binding:"required"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !payload.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be mentor or mentee"})
		return
	}
	if !enforceCaller(c, payload.Role, c.Param("id")) {
		return
	}
	for _, labels := range payload.Availability {
		for _, label := range labels {
			if err := meeting.ValidateTimeLabel(label); err != nil {
				abortWithError(c, err)
				return
			}
		}
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	var err error
	if payload.Role == domain.RoleMentor {
		err = a.Profiles.UpdateMentorAvailability(ctx, id, payload.Availability)
	} else {
		err = a.Profiles.UpdateMenteeAvailability(ctx, id, payload.Availability)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type createMeetingReq struct {
	Role     domain.Role `json:"role" binding:"required"`
	MenteeID string      `json:"mentee_id" binding:"required"`
	MentorID string      `json:"mentor_id" binding:"required"`
	Date     string      `json:"date" binding:"required"` // YYYY-MM-DD
	Time     string      `json:"time" binding:"required"`
}

// POST /api/meetings
func (a *App) CreateMeetingHandler(c *gin.Context) {
	var req createMeetingReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proposer := req.MenteeID
	if req.Role == domain.RoleMentor {
		proposer = req.MentorID
	}
	if !enforceCaller(c, req.Role, proposer) {
		return
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	m, err := a.Scheduler.Create(c.Request.Context(), meeting.CreateParams{
		ProposedBy: req.Role,
		MenteeID:   req.MenteeID,
		MentorID:   req.MentorID,
		Date:       date,
		TimeLabel:  req.Time,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GET /api/meetings/:id
func (a *App) GetMeetingHandler(c *gin.Context) {
	m, err := a.Scheduler.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// POST /api/meetings/:id/approve
func (a *App) ApproveMeetingHandler(c *gin.Context) {
	var req struct {
		Role domain.Role `json:"role" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !enforceCaller(c, req.Role, "") {
		return
	}

	m, err := a.Scheduler.Approve(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type proposeReq struct {
	Role domain.Role `json:"role" binding:"required"`
	Date string      `json:"date" binding:"required"`
	Time string      `json:"time" binding:"required"`
}

// POST /api/meetings/:id/propose
func (a *App) ProposeMeetingHandler(c *gin.Context) {
	var req proposeReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !enforceCaller(c, req.Role, "") {
		return
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	m, err := a.Scheduler.Propose(c.Request.Context(), c.Param("id"), req.Role, date, req.Time)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GET /api/parties/:id/meetings
func (a *App) ListMeetingsHandler(c *gin.Context) {
	pending, confirmed, err := a.Scheduler.ListForParty(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if pending == nil {
		pending = []domain.Meeting{}
	}
	if confirmed == nil {
		confirmed = []domain.Meeting{}
	}
	c.JSON(http.StatusOK, gin.H{
		"pending":   pending,
		"confirmed": confirmed,
	})
}

// DELETE /api/parties/:id?role=mentor
func (a *App) DeletePartyHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	role := domain.Role(c.Query("role"))
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be mentor or mentee"})
		return
	}
	if !enforceCaller(c, role, id) {
		return
	}

	var err error
	if role == domain.RoleMentor {
		err = a.Profiles.DeleteMentor(ctx, id)
	} else {
		err = a.Profiles.DeleteMentee(ctx, id)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *App) partyAvailability(c *gin.Context, id string) (domain.Availability, error) {
	ctx := c.Request.Context()
	switch domain.Role(c.Query("role")) {
	case domain.RoleMentor:
		mentor, err := a.Profiles.Mentor(ctx, id)
		if err != nil {
			return nil, err
		}
		return mentor.Availability, nil
	case domain.RoleMentee:
		mentee, err := a.Profiles.Mentee(ctx, id)
		if err != nil {
			return nil, err
		}
		return mentee.Availability, nil
	default:
		return nil, &domain.ValidationError{Field: "role", Message: "must be mentor or mentee"}
	}
}
