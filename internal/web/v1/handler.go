// Package v1 exposes the task-list API over HTTP. It binds request
// bodies, delegates to the logic layer and maps sentinel errors to
// status codes; no business rules live here.
package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/okorotenko/tasklist/config"
	"github.com/okorotenko/tasklist/internal/auth"
	"github.com/okorotenko/tasklist/internal/core/domain"
	logicv1 "github.com/okorotenko/tasklist/internal/logic/v1"
	"github.com/okorotenko/tasklist/middleware"
)

// Handler groups the HTTP handlers for API v1.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth   *logicv1.AuthService
	tasks  *logicv1.TaskService
	cookie config.CookieConfig
}

// NewHandler creates a new Handler.
func NewHandler(authSvc *logicv1.AuthService, taskSvc *logicv1.TaskService, cookie config.CookieConfig) *Handler {
	return &Handler{auth: authSvc, tasks: taskSvc, cookie: cookie}
}

// RegisterRoutes registers all API v1 routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.GET("/me", h.GetMe)
	rg.POST("/logout", h.Logout)
	rg.GET("/tasks", h.ListTasks)
}

// Register handles POST /api/register.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.register", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Login and password are required"})
		return
	}

	user, err := h.auth.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Registration failed")
		h.writeError(c, err)
		return
	}

	logger.Info().Int("user_id", user.ID).Msg("Registration successful")
	c.JSON(http.StatusCreated, domain.RegisterResponse{User: *user})
}

// Login handles POST /api/login. On success the raw session token is
// delivered as an HTTP-only cookie for browser clients and in the
// JSON body for bearer clients. Both forms are accepted on subsequent
// requests.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Login and password are required"})
		return
	}

	resp, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Login failed")
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, resp.Token, int(auth.TokenTTL.Seconds()))

	logger.Info().Int("user_id", resp.User.ID).Msg("Login successful")
	c.JSON(http.StatusOK, resp)
}

// GetMe handles GET /api/me.
func (h *Handler) GetMe(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.me", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	user, err := h.auth.ResolveCurrentUser(ctx, c.Request)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Token resolution failed")
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/logout. Always succeeds: revocation of an
// absent or unknown token is a no-op. The cookie is cleared either way.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.logout", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	if err := h.auth.Logout(ctx, c.Request); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Logout failed")
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// ListTasks handles GET /api/tasks.
func (h *Handler) ListTasks(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.tasks", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	user, err := h.auth.ResolveCurrentUser(ctx, c.Request)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Token resolution failed")
		h.writeError(c, err)
		return
	}

	tasks, err := h.tasks.ListTasks(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Task listing failed")
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

// writeError maps sentinel errors onto status codes. All login and
// password shape violations use 422; credential and session failures
// share uniform 401 bodies that reveal nothing about the cause.
func (h *Handler) writeError(c *gin.Context, err error) {
	var weak *auth.WeakPasswordError

	switch {
	case errors.Is(err, auth.ErrInvalidLogin):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Login must be 3-32 chars: latin letters, digits, or ._-"})
	case errors.As(err, &weak):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Password is too weak",
			"missing": weak.Missing,
		})
	case errors.Is(err, logicv1.ErrLoginTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Login already exists"})
	case errors.Is(err, logicv1.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login or password"})
	case errors.Is(err, auth.ErrMalformedAuthHeader):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header"})
	case errors.Is(err, auth.ErrMissingToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication token"})
	case errors.Is(err, logicv1.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
