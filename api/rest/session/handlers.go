package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/squidlabs/server/api/rest/pagination"
	apierrors "codeberg.org/squidlabs/server/internal/errors"
	"codeberg.org/squidlabs/server/internal/logger"
	"codeberg.org/squidlabs/server/squid/session"
)

// StartHandler godoc
// @Summary Start a session
// @Description Begins a browsing session, overwriting any stale fields from a previous one
// @Tags session
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 500 {object} apierrors.ErrorResponse
// @Router /api/v1/session [post]
func StartHandler(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, exists := session.IDFromContext(c)
		if !exists {
			apierrors.InternalError(c, "no session identity", nil)
			return
		}

		if err := mgr.Start(c.Request.Context(), sessionID); err != nil {
			apierrors.InternalError(c, "failed to start session", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "Session started"})
	}
}

// GetHandler godoc
// @Summary Get the active session
// @Description Returns the active session's start time, visited pages and running duration
// @Tags session
// @Produce json
// @Success 200 {object} SummaryResponse
// @Failure 404 {object} apierrors.ErrorResponse
// @Router /api/v1/session [get]
func GetHandler(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, exists := session.IDFromContext(c)
		if !exists {
			apierrors.SessionNotFound(c)
			return
		}

		summary, err := mgr.Summary(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				apierrors.SessionNotFound(c)
				return
			}

			apierrors.InternalError(c, "failed to read session", err)
			return
		}

		c.JSON(http.StatusOK, SummaryResponse{
			StartTime:       summary.StartTime,
			PagesVisited:    summary.PagesVisited,
			DurationSeconds: int64(summary.Duration.Seconds()),
		})
	}
}

// LogPageHandler godoc
// @Summary Log a page visit
// @Description Appends a page identifier to the active session and publishes a page-visit event
// @Tags session
// @Accept json
// @Produce json
// @Param request body LogPageRequest true "Page visit"
// @Success 200 {object} map[string]string
// @Failure 400 {object} apierrors.ErrorResponse
// @Failure 404 {object} apierrors.ErrorResponse
// @Router /api/v1/session/page [post]
func LogPageHandler(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, exists := session.IDFromContext(c)
		if !exists {
			apierrors.SessionNotFound(c)
			return
		}

		var req LogPageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "page is required", err)
			return
		}

		err := mgr.LogPage(c.Request.Context(), sessionID, req.Page)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrEmptyPage):
				apierrors.BadRequest(c, "page is required", nil)
			case errors.Is(err, session.ErrSessionNotFound):
				apierrors.SessionNotFound(c)
			default:
				apierrors.InternalError(c, "failed to log page", err)
			}

			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Page logged",
			"page":    req.Page,
		})
	}
}

// LogActionHandler godoc
// @Summary Log an action
// @Description Appends a timestamped action to the active session's activity log
// @Tags session
// @Accept json
// @Produce json
// @Param request body LogActionRequest true "Action"
// @Success 200 {object} map[string]string
// @Failure 400 {object} apierrors.ErrorResponse
// @Failure 404 {object} apierrors.ErrorResponse
// @Router /api/v1/session/action [post]
func LogActionHandler(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, exists := session.IDFromContext(c)
		if !exists {
			apierrors.SessionNotFound(c)
			return
		}

		var req LogActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "action is required", err)
			return
		}

		err := mgr.LogAction(c.Request.Context(), sessionID, req.Action)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrEmptyAction):
				apierrors.BadRequest(c, "action is required", nil)
			case errors.Is(err, session.ErrSessionNotFound):
				apierrors.SessionNotFound(c)
			default:
				apierrors.InternalError(c, "failed to log action", err)
			}

			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Action logged",
			"action":  req.Action,
		})
	}
}

// LogsHandler godoc
// @Summary Get paginated activity logs
// @Description Returns a page of the active session's activity log; pages beyond the end are empty, never an error
// @Tags session
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Entries per page" default(10)
// @Success 200 {object} LogsResponse
// @Failure 404 {object} apierrors.ErrorResponse
// @Router /api/v1/session/logs [get]
func LogsHandler(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, exists := session.IDFromContext(c)
		if !exists {
			apierrors.SessionNotFound(c)
			return
		}

		params := pagination.FromQuery(c)

		logs, totalPages, err := mgr.PaginatedLogs(c.Request.Context(), sessionID, params.Page, params.Limit)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				apierrors.SessionNotFound(c)
				return
			}

			apierrors.InternalError(c, "failed to read logs", err)
			return
		}

		c.JSON(http.StatusOK, LogsResponse{
			Logs:       logs,
			TotalPages: totalPages,
		})
	}
}

// MirrorRemover drops the durable session mirror when its session ends
type MirrorRemover interface {
	Remove(ctx context.Context, sessionID string) error
}

// EndHandler godoc
// @Summary End the session
// @Description Ends the session; an authenticated session's summary is flushed to the durable record first
// @Tags session
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 404 {object} apierrors.ErrorResponse
// @Failure 500 {object} apierrors.ErrorResponse
// @Router /api/v1/session [delete]
func EndHandler(mgr *session.Manager, cookieOpts session.CookieOptions, mirrors MirrorRemover) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, exists := session.IDFromContext(c)
		if !exists {
			apierrors.SessionNotFound(c)
			return
		}

		err := mgr.End(c.Request.Context(), sessionID)

		// the ephemeral session is destroyed even when the durable
		// flush failed, so the cookie goes regardless
		session.ClearCookie(c.Writer, cookieOpts)

		// best-effort: a leftover mirror expires via its TTL index anyway
		if mirrors != nil {
			if rmErr := mirrors.Remove(c.Request.Context(), sessionID); rmErr != nil {
				logger.ErrorErr(rmErr, "failed to remove session mirror", "session_id", sessionID)
			}
		}

		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				apierrors.SessionNotFound(c)
				return
			}

			apierrors.InternalError(c, "failed to end session", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "Session ended"})
	}
}
