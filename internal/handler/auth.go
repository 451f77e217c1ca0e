package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lawhelp/auth-service/internal/constants"
	"github.com/lawhelp/auth-service/internal/dto"
	apperrors "github.com/lawhelp/auth-service/internal/errors"
	"github.com/lawhelp/auth-service/internal/service"
	ctxutil "github.com/lawhelp/auth-service/pkg/context"
	"github.com/lawhelp/auth-service/pkg/logger"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid registration payload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgInvalidRequest, bindingErrorDetails(err)))
		return
	}

	resp, err := h.authService.Register(ctx, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Registration failed").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(constants.MsgRegisterFailed, apperrors.GetErrorMessage(err)))
		return
	}

	logger.LogAuth(resp.User.ID, "register", true)
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgInvalidRequest, bindingErrorDetails(err)))
		return
	}

	resp, err := h.authService.Login(ctx, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Login failed").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(constants.MsgAuthFailed, apperrors.GetErrorMessage(err)))
		return
	}

	if resp.User != nil {
		logger.LogAuth(resp.User.ID, "login", true)
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyTwoFactor handles POST /api/auth/verify-2fa
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "VerifyTwoFactor")

	var req dto.VerifyTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgInvalidRequest, bindingErrorDetails(err)))
		return
	}

	resp, err := h.authService.VerifyTwoFactor(ctx, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Two-factor verification failed").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(constants.MsgVerifyCodeFailed, apperrors.GetErrorMessage(err)))
		return
	}

	logger.LogAuth(resp.User.ID, "verify_2fa", true)
	c.JSON(http.StatusOK, resp)
}

// VerifyEmail handles POST /api/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "VerifyEmail")

	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgInvalidRequest, bindingErrorDetails(err)))
		return
	}

	if err := h.authService.VerifyEmail(ctx, &req); err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Email verification failed").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(constants.MsgVerifyCodeFailed, apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Email verified successfully"))
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Me")

	accountID := ctxutil.GetUserID(c.Request.Context())
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	resp, err := h.authService.GetAccount(ctx, accountID)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(constants.MsgNotFound, apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")
	ctx = ctxutil.WithUserID(ctx, ctxutil.GetUserID(c.Request.Context()))

	h.authService.Logout(ctx)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Logged out successfully"))
}
