package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/yakoovad/flowcraft/internal/auth"
	"github.com/yakoovad/flowcraft/internal/service"
	"github.com/yakoovad/flowcraft/pkg/logger"
	"go.uber.org/zap"
)

const LiveMessage = "FlowCraft Server is Live and Running!"

type Handler struct {
	team   *service.TeamService
	issuer *auth.Issuer

	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithTeamService(team *service.TeamService) *Handler {
	h.team = team
	return h
}

func (h *Handler) WithIssuer(issuer *auth.Issuer) *Handler {
	h.issuer = issuer
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/", h.Live)
	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	// Per-route auth keeps unknown /api paths at 404.
	memberSecurity := AuthMiddleware(h.issuer, auth.TokenTypeMember, auth.TokenTypeAdmin)
	adminSecurity := AuthMiddleware(h.issuer, auth.TokenTypeAdmin)

	api := e.Group("/api")

	api.GET("/workspaces/:workspaceId", h.GetWorkspace, memberSecurity)
	api.GET("/workspaces/:workspaceId/team", h.GetTeam, memberSecurity)

	api.DELETE("/team/members/:memberId", h.RemoveMember, adminSecurity)
}

func (h *Handler) Live(e echo.Context) error {
	return e.String(http.StatusOK, LiveMessage)
}

type workspaceRequest struct {
	WorkspaceID string `param:"workspaceId" validate:"required"`
}

func (h *Handler) GetWorkspace(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req workspaceRequest
	if err := ProcessRequest(e, &req, bindRequest[workspaceRequest], validateRequest[workspaceRequest]); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, asServiceError(err))
	}

	l.Info("getting workspace", zap.String("workspace_id", req.WorkspaceID))

	ws, err := h.team.GetWorkspace(e.Request().Context(), req.WorkspaceID)
	if err != nil {
		l.Error("failed to get workspace", zap.String("workspace_id", req.WorkspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, ws)
}

type teamRequest struct {
	WorkspaceID string `param:"workspaceId" validate:"required"`
	Search      string `query:"search"`
}

func (h *Handler) GetTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req teamRequest
	if err := ProcessRequest(e, &req, bindRequest[teamRequest], validateRequest[teamRequest]); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, asServiceError(err))
	}

	l.Info("getting team",
		zap.String("workspace_id", req.WorkspaceID),
		zap.String("search", req.Search))

	roster, err := h.team.GetRoster(e.Request().Context(), req.WorkspaceID, req.Search)
	if err != nil {
		l.Error("failed to get team", zap.String("workspace_id", req.WorkspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, roster)
}

type removeMemberRequest struct {
	MemberID string `param:"memberId" validate:"required"`
}

func (h *Handler) RemoveMember(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req removeMemberRequest
	if err := ProcessRequest(e, &req, bindRequest[removeMemberRequest], validateRequest[removeMemberRequest]); err != nil {
		l.Warn("invalid request", zap.Error(err))
		return h.transportError(e, asServiceError(err))
	}

	fields := []zap.Field{zap.String("member_id", req.MemberID)}
	if claims, ok := ClaimsFromContext(e); ok {
		fields = append(fields, zap.String("removed_by", claims.Subject))
	}
	l.Info("removing member", fields...)

	if err := h.team.RemoveMember(e.Request().Context(), req.MemberID); err != nil {
		l.Error("failed to remove member", zap.String("member_id", req.MemberID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

type errorResponse struct {
	Error *service.Error `json:"error"`
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	return e.JSON(statusFor(err.Code), errorResponse{Error: err})
}

func statusFor(code service.ErrorCode) int {
	switch code {
	case service.ErrorCodeNotFound:
		return http.StatusNotFound
	case service.ErrorCodeInvalidRequest:
		return http.StatusBadRequest
	case service.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case service.ErrorCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
