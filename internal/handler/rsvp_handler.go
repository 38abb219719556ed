package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"galapass/guesthub/internal/config"
	"galapass/guesthub/internal/model"
	"galapass/guesthub/internal/service"
	"galapass/guesthub/pkg/response"
)

// RSVPHandler serves the public, unauthenticated surface: self-service
// registration, attendance confirmation, and the digital pass.
type RSVPHandler struct {
	guestService      service.GuestService
	invitationService service.InvitationService
	eventCfg          config.EventConfig
	logger            *zap.Logger
}

func NewRSVPHandler(
	guestService service.GuestService,
	invitationService service.InvitationService,
	eventCfg config.EventConfig,
	logger *zap.Logger,
) *RSVPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RSVPHandler{
		guestService:      guestService,
		invitationService: invitationService,
		eventCfg:          eventCfg,
		logger:            logger,
	}
}

// passPayload is the public digital pass: the guest plus the event details the
// pass page renders.
type passPayload struct {
	Guest *model.Guest       `json:"guest"`
	Event config.EventConfig `json:"event"`
}

// Register handles POST /api/v1/rsvp
func (h *RSVPHandler) Register(c *gin.Context) {
	var req service.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	guest, err := h.guestService.RegisterRSVP(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	// The pass email is best effort; registration already succeeded.
	if err := h.invitationService.EnqueuePassEmail(c.Request.Context(), guest.ID); err != nil {
		h.logger.Error("enqueue pass email failed",
			zap.String("guest_id", guest.ID),
			zap.Error(err),
		)
	}
	response.Created(c, guest)
}

// Confirm handles POST /api/v1/rsvp/:id/confirm
func (h *RSVPHandler) Confirm(c *gin.Context) {
	guest, err := h.guestService.ConfirmAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, guest)
}

// GetPass handles GET /api/v1/passes/:id
func (h *RSVPHandler) GetPass(c *gin.Context) {
	guest, err := h.guestService.GetGuest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, passPayload{Guest: guest, Event: h.eventCfg})
}

// GetPassQR handles GET /api/v1/passes/:id/qr and returns a PNG encoding the
// pass id, which is exactly what the check-in scanner expects to decode.
func (h *RSVPHandler) GetPassQR(c *gin.Context) {
	guest, err := h.guestService.GetGuest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	png, err := qrcode.Encode(guest.ID, qrcode.Medium, 256)
	if err != nil {
		h.logger.Error("qr encode failed", zap.String("guest_id", guest.ID), zap.Error(err))
		response.InternalError(c, "could not render pass")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
