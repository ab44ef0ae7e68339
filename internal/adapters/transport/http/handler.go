package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fastskeleton/backend/internal/adapters/transport/http/dto"
	"github.com/fastskeleton/backend/internal/adapters/transport/http/middleware"
	appsvc "github.com/fastskeleton/backend/internal/app/auth/service"
	customErrors "github.com/fastskeleton/backend/internal/domain/auth/errors"
	"github.com/fastskeleton/backend/internal/domain/auth/model"
)

const (
	detailLoginFailed = "Incorrect username or password"
	detailEmailTaken  = "The user with this email already exists in the system."
	detailInternal    = "Internal server error"
)

type Handler struct {
	svc         appsvc.Service
	projectName string
	log         *zap.Logger
}

func NewHandler(svc appsvc.Service, projectName string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, projectName: projectName, log: log}
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to " + h.projectName})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Login takes the OAuth2 password form and answers with a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var in dto.LoginDTO
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Detail: err.Error()})
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		if customErrors.IsAuthFailure(err) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: detailLoginFailed})
			return
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
	})
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.handleError(c, customErrors.ErrInternal)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) CreateUser(c *gin.Context) {
	var in dto.RegisterDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Detail: err.Error()})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Detail: err.Error()})
	case customErrors.IsConflict(err):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Detail: detailEmailTaken})
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "Not found"})
	case customErrors.IsStoreUnavailable(err):
		h.log.Error("store unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Detail: middleware.DetailUnavailable})
	default:
		h.log.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: detailInternal})
	}
}

func toUserResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}
