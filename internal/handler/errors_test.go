package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErrorStatusTable(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrUnauthenticated, http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{service.ErrInvalidToken, http.StatusUnauthorized, "TOKEN_INVALID"},
		{service.ErrAccessDenied, http.StatusForbidden, "ACCESS_DENIED"},
		{service.ErrSelfActionForbidden, http.StatusForbidden, "SELF_ACTION_FORBIDDEN"},
		{fmt.Errorf("%w: subject is required", service.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{service.ErrEmailTaken, http.StatusConflict, "CONFLICT"},
		{service.ErrDuplicateAttendance, http.StatusInternalServerError, "DUPLICATE_ATTENDANCE"},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zerolog.New(io.Discard), tc.err)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error.Code != tc.code {
				t.Fatalf("code = %q (%v), want %s", body.Error.Code, err, tc.code)
			}
		})
	}
}
