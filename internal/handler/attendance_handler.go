package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/middleware"
	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/response"
	"github.com/stemsi/attendance-portal/internal/service"
	"github.com/stemsi/attendance-portal/internal/validator"
)

// AttendanceHandler serves attendance marking, listings and statistics.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	statsService      *service.StatsService
	log               zerolog.Logger
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService, statsService *service.StatsService, log zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		statsService:      statsService,
		log:               log.With().Str("component", "attendance_handler").Logger(),
	}
}

// Mark godoc
// POST /api/v1/attendance/mark
// Records attendance for a student and subject on the current day.
// Recording failures answer 500 with a code naming the cause.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.MarkAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	markedBy := req.MarkedBy
	if strings.TrimSpace(markedBy) == "" {
		markedBy = claims.UserID
	}

	rec, err := h.attendanceService.Mark(c.Request.Context(), service.MarkInput{
		StudentID: req.StudentID,
		Subject:   req.Subject,
		MarkedBy:  markedBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		case errors.Is(err, service.ErrDuplicateAttendance):
			response.Fail(c, http.StatusInternalServerError, response.ErrDuplicateAttendance)
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusInternalServerError, response.ErrNotFound)
		default:
			logInternal(c, h.log, err)
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true, "record": rec})
}

// Today godoc
// GET /api/v1/attendance/today
// Lists every record for the current attendance day.
func (h *AttendanceHandler) Today(c *gin.Context) {
	records, err := h.attendanceService.ListToday(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendance": nonNil(records)})
}

// ForUser godoc
// GET /api/v1/attendance/user/:user_id
func (h *AttendanceHandler) ForUser(c *gin.Context) {
	records, err := h.attendanceService.ListForUser(c.Request.Context(), c.Param(middleware.ParamUserID))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendance": nonNil(records)})
}

// Stats godoc
// GET /api/v1/attendance/stats/:user_id
func (h *AttendanceHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.ComputeStats(c.Request.Context(), c.Param(middleware.ParamUserID))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func nonNil(records []model.AttendanceRecord) []model.AttendanceRecord {
	if records == nil {
		return []model.AttendanceRecord{}
	}
	return records
}
