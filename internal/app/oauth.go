package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /api/calendar/auth?party_id=X
// Returns the Google consent URL the caller should redirect the party to.
func (a *App) GoogleAuthHandler(c *gin.Context) {
	partyID := c.Query("party_id")
	if partyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party_id required"})
		return
	}
	if _, err := a.partyEmail(c.Request.Context(), partyID); err != nil {
		abortWithError(c, err)
		return
	}

	state := fmt.Sprintf("%s_%d", partyID, time.Now().Unix())
	c.JSON(http.StatusOK, gin.H{
		"auth_url": a.Tokens.AuthURL(state),
		"state":    state,
	})
}

// GET /oauth2callback?code=...&state=partyID_timestamp
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}

	state := c.Query("state")
	partyID, _, ok := strings.Cut(state, "_")
	if !ok || partyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}

	ctx := c.Request.Context()
	email, err := a.partyEmail(ctx, partyID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := a.Tokens.SaveGrant(ctx, partyID, email, code); err != nil {
		a.Logger.Error("oauth exchange failed", "party_id", partyID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "calendar connected",
		"party_id": partyID,
	})
}
