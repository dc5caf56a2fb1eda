package preferences

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "codeberg.org/squidlabs/server/internal/errors"
	"codeberg.org/squidlabs/server/internal/logger"
	"codeberg.org/squidlabs/server/squid/preferences"
	"codeberg.org/squidlabs/server/squid/session"
)

// SetHandler godoc
// @Summary Save preferences
// @Description Validates and saves the preference set into the live session, the durable record for authenticated users, and a long-lived client cookie
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body SetRequest true "Preference set"
// @Success 200 {object} SetResponse
// @Failure 400 {object} apierrors.ErrorResponse
// @Failure 500 {object} apierrors.ErrorResponse
// @Router /api/v1/preferences [post]
func SetHandler(pm *session.PreferencesManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, exists := session.IDFromContext(c)
		if !exists {
			apierrors.InternalError(c, "no session identity", nil)
			return
		}

		var req SetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "invalid request body", err)
			return
		}

		prefs := preferences.Preferences{
			Theme:         req.Theme,
			Notifications: req.Notifications,
			Language:      req.Language,
		}

		err := pm.Set(c.Request.Context(), sessionID, prefs)
		if err != nil {
			if errors.Is(err, session.ErrInvalidPreferences) {
				apierrors.BadRequest(c, err.Error(), nil)
				return
			}

			apierrors.InternalError(c, "failed to save preferences", err)
			return
		}

		// long-lived client copy so anonymous preferences survive the
		// session TTL; losing it only loses the anonymous fallback
		if err := preferences.SetCookie(c.Writer, prefs); err != nil {
			logger.ErrorErr(err, "failed to set preferences cookie")
		}

		c.JSON(http.StatusOK, SetResponse{
			Message:     "Preferences saved",
			Preferences: prefs,
		})
	}
}

// GetHandler godoc
// @Summary Get preferences
// @Description Returns the live session's preference set, falling back to the client cookie copy; an empty object when neither exists
// @Tags preferences
// @Produce json
// @Success 200 {object} GetResponse
// @Router /api/v1/preferences [get]
func GetHandler(pm *session.PreferencesManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, exists := session.IDFromContext(c)
		if !exists {
			c.JSON(http.StatusOK, GetResponse{Preferences: gin.H{}})
			return
		}

		prefs, err := pm.Get(c.Request.Context(), sessionID)
		if err != nil {
			apierrors.InternalError(c, "failed to read preferences", err)
			return
		}

		if prefs != nil {
			c.JSON(http.StatusOK, GetResponse{Preferences: prefs})
			return
		}

		// anonymous fallback: the client-side copy outlives the session
		if cached, ok := preferences.FromCookie(c.Request); ok {
			c.JSON(http.StatusOK, GetResponse{Preferences: cached})
			return
		}

		c.JSON(http.StatusOK, GetResponse{Preferences: gin.H{}})
	}
}
