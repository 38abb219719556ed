package handler

import (
	"github.com/gin-gonic/gin"

	"galapass/guesthub/internal/model"
	"galapass/guesthub/internal/service"
	"galapass/guesthub/pkg/response"
)

type InvitationHandler struct {
	invitationService service.InvitationService
}

func NewInvitationHandler(invitationService service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

type saveTemplateRequest struct {
	Subject  string `json:"subject" binding:"required"`
	ImageURL string `json:"image_url"`
	Body     string `json:"body" binding:"required"`
}

type sendInvitationsRequest struct {
	GuestIDs []string `json:"guest_ids" binding:"required,min=1"`
}

// GetTemplate handles GET /api/v1/admin/invitations/template
func (h *InvitationHandler) GetTemplate(c *gin.Context) {
	tpl, err := h.invitationService.GetTemplate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpl)
}

// SaveTemplate handles PUT /api/v1/admin/invitations/template
func (h *InvitationHandler) SaveTemplate(c *gin.Context) {
	var req saveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tpl := &model.EmailTemplate{
		Subject:  req.Subject,
		ImageURL: req.ImageURL,
		Body:     req.Body,
	}
	if err := h.invitationService.SaveTemplate(c.Request.Context(), tpl); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpl)
}

// Send handles POST /api/v1/admin/invitations/send
func (h *InvitationHandler) Send(c *gin.Context) {
	var req sendInvitationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	report, err := h.invitationService.SendInvitations(c.Request.Context(), req.GuestIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, report)
}
