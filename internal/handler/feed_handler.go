package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/feed"
	"github.com/stemsi/attendance-portal/internal/middleware"
	"github.com/stemsi/attendance-portal/internal/response"
	"github.com/stemsi/attendance-portal/internal/service"
	ws "github.com/stemsi/attendance-portal/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// FeedHandler streams newly recorded attendance to admin dashboards.
type FeedHandler struct {
	feed              feed.Feed
	attendanceService *service.AttendanceService
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(f feed.Feed, attendanceService *service.AttendanceService, log zerolog.Logger, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		feed:              f,
		attendanceService: attendanceService,
		log:               log.With().Str("component", "feed_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/v1/admin/attendance/feed?token=...
// Pushes every attendance mark as it is recorded. Clients may send
// {"action":"ping"} to keep the connection alive.
func (h *FeedHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := service.Authorize(claims, "", service.AccessAdmin); err != nil {
		respondError(c, h.log, err)
		return
	}

	events, release, err := h.feed.Subscribe(c.Request.Context())
	if err != nil {
		logInternal(c, h.log, err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer release()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("admin_id", claims.UserID).Logger()
	wsLog.Info().Msg("Feed subscriber connected")

	// The reader answers through out; only the loop below writes to conn.
	out := make(chan interface{}, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			var reply interface{}
			switch msg.Action {
			case ws.ActionPing:
				reply = ws.PongResponse{Event: ws.EventPong}
			default:
				reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
			}
			select {
			case out <- reply:
			default:
			}
		}
	}()

	if err := ws.WriteTyped(conn, ws.ReadyResponse{
		Event: ws.EventReady,
		Day:   h.attendanceService.DayOf(time.Now()),
	}); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case reply := <-out:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		case evt, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"),
					time.Now().Add(time.Second))
				return
			}
			if err := ws.WriteTyped(conn, ws.AttendanceResponse{
				Event:  ws.EventAttendance,
				Type:   evt.Type,
				Record: evt.Record,
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Feed write failed")
				return
			}
		}
	}
}
