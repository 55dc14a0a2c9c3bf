package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/middleware"
	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/response"
	"github.com/stemsi/attendance-portal/internal/service"
	"github.com/stemsi/attendance-portal/internal/validator"
)

// UserHandler handles profile endpoints. Access is decided by middleware.Guard.
type UserHandler struct {
	userService *service.UserService
	log         zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log.With().Str("component", "user_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/users?page=1&per_page=10
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	users, pagination, err := h.userService.List(c.Request.Context(), page, perPage)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	response.SuccessWithPagination(c, http.StatusOK, users, pagination)
}

// Get godoc
// GET /api/v1/users/:user_id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param(middleware.ParamUserID))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Update godoc
// PATCH /api/v1/users/:user_id
func (h *UserHandler) Update(c *gin.Context) {
	var req model.UpdateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), middleware.GetClaims(c), c.Param(middleware.ParamUserID), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Delete godoc
// DELETE /api/v1/users/:user_id
// Removes the account together with its attendance records.
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param(middleware.ParamUserID)
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}
