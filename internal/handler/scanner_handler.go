package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"galapass/guesthub/internal/service"
	"galapass/guesthub/pkg/response"
)

// ScannerHandler drives scan sessions: REST endpoints for session lifecycle
// plus a websocket feed carrying decode events up and session updates down.
type ScannerHandler struct {
	sessions *service.ScanSessionManager
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewScannerHandler(sessions *service.ScanSessionManager, logger *zap.Logger) *ScannerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScannerHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS middleware on the
			// routes that issue the session, not per websocket frame.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

type createSessionRequest struct {
	FacingMode string `json:"facing_mode"`
}

type setFacingRequest struct {
	FacingMode string `json:"facing_mode" binding:"required,oneof=environment user"`
}

// Create handles POST /api/v1/admin/scanner/sessions
func (h *ScannerHandler) Create(c *gin.Context) {
	// An empty or absent body is fine; the default facing mode applies.
	var req createSessionRequest
	_ = c.ShouldBindJSON(&req)
	session := h.sessions.Create(service.FacingMode(req.FacingMode))
	response.Created(c, session.Status())
}

// Status handles GET /api/v1/admin/scanner/sessions/:id
func (h *ScannerHandler) Status(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, session.Status())
}

// HandleEvent handles POST /api/v1/admin/scanner/sessions/:id/events for
// clients that cannot hold a websocket open.
func (h *ScannerHandler) HandleEvent(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var ev service.DecodeEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	update, err := session.HandleEvent(c.Request.Context(), ev)
	if err != nil {
		respondError(c, err)
		return
	}
	if update == nil {
		update = session.Status()
	}
	response.Success(c, update)
}

// Acknowledge handles POST /api/v1/admin/scanner/sessions/:id/acknowledge
func (h *ScannerHandler) Acknowledge(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	update, err := session.Acknowledge()
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, update)
}

// Restart handles POST /api/v1/admin/scanner/sessions/:id/restart
func (h *ScannerHandler) Restart(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	update, err := session.Restart()
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, update)
}

// SetFacing handles POST /api/v1/admin/scanner/sessions/:id/facing
func (h *ScannerHandler) SetFacing(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req setFacingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	update, err := session.SetFacingMode(service.FacingMode(req.FacingMode))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, update)
}

// Close handles DELETE /api/v1/admin/scanner/sessions/:id
func (h *ScannerHandler) Close(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, nil)
}

// Feed handles GET /api/v1/admin/scanner/sessions/:id/feed. The client streams
// decode events as JSON text frames; every update the session produces is
// written back on the same connection. Dropped events produce no frame.
func (h *ScannerHandler) Feed(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(session.Status()); err != nil {
		return
	}

	for {
		var ev service.DecodeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("scanner feed closed unexpectedly",
					zap.String("session_id", session.ID),
					zap.Error(err),
				)
			}
			return
		}

		update, err := session.HandleEvent(c.Request.Context(), ev)
		if err != nil {
			if errors.Is(err, service.ErrSessionClosed) {
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(time.Second),
				)
				return
			}
			h.logger.Warn("decode event rejected",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			continue
		}
		if update == nil {
			continue
		}
		if err := conn.WriteJSON(update); err != nil {
			return
		}
	}
}
