package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/squidlabs/server/internal/auth"
	apierrors "codeberg.org/squidlabs/server/internal/errors"
	"codeberg.org/squidlabs/server/squid/session"
	"codeberg.org/squidlabs/server/squid/users"
)

// RegisterHandler godoc
// @Summary Register a user
// @Description Creates a user record with default preferences
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Credentials"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} apierrors.ErrorResponse
// @Failure 409 {object} apierrors.ErrorResponse
// @Router /api/v1/auth/register [post]
func RegisterHandler(userRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		user, err := userRepo.Create(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, users.ErrUsernameTaken) {
				apierrors.Conflict(c, "username already taken")
				return
			}

			apierrors.InternalError(c, "failed to create user", err)
			return
		}

		c.JSON(http.StatusCreated, RegisterResponse{
			Message: "Registration successful",
			UserID:  user.UserID,
		})
	}
}

// LoginHandler godoc
// @Summary Log in
// @Description Verifies credentials, binds the session to the user and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} apierrors.ErrorResponse
// @Failure 401 {object} apierrors.ErrorResponse
// @Router /api/v1/auth/login [post]
func LoginHandler(userRepo *users.Repository, mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		user, err := userRepo.VerifyCredentials(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, users.ErrInvalidCredentials) {
				apierrors.Unauthorized(c, "invalid credentials")
				return
			}

			apierrors.InternalError(c, "failed to verify credentials", err)
			return
		}

		sessionID, exists := session.IDFromContext(c)
		if !exists {
			apierrors.InternalError(c, "no session identity", nil)
			return
		}

		// bind the live session to the user and seed the preference copy
		if err := mgr.Authenticate(c.Request.Context(), sessionID, user.UserID, user.Preferences); err != nil {
			apierrors.InternalError(c, "failed to bind session", err)
			return
		}

		token, err := auth.GenerateJWT(user.UserID, user.Username)
		if err != nil {
			apierrors.InternalError(c, "failed to generate token", err)
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Message:     "Login successful",
			Preferences: user.Preferences,
			Token:       token,
		})
	}
}

// LogoutHandler godoc
// @Summary Log out
// @Description Destroys the session without flushing anything
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} apierrors.ErrorResponse
// @Router /api/v1/auth/logout [post]
func LogoutHandler(mgr *session.Manager, cookieOpts session.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, exists := session.IDFromContext(c)
		if exists {
			if err := mgr.Destroy(c.Request.Context(), sessionID); err != nil {
				apierrors.InternalError(c, "failed to logout", err)
				return
			}
		}

		session.ClearCookie(c.Writer, cookieOpts)

		c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
	}
}

// MeHandler godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} apierrors.ErrorResponse
// @Failure 404 {object} apierrors.ErrorResponse
// @Router /api/v1/auth/me [get]
// @Security BearerAuth
func MeHandler(userRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			apierrors.NotFound(c, "user")
			return
		}

		c.JSON(http.StatusOK, UserResponse{User: user})
	}
}
