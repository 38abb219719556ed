package handler

import (
	"github.com/gin-gonic/gin"

	"galapass/guesthub/internal/service"
	"galapass/guesthub/pkg/response"
)

// GuestHandler serves the admin roster surface: CRUD, bulk import, two-phase
// delete, and attendance statistics.
type GuestHandler struct {
	guestService service.GuestService
}

func NewGuestHandler(guestService service.GuestService) *GuestHandler {
	return &GuestHandler{guestService: guestService}
}

type bulkImportRequest struct {
	Guests []service.ImportRow `json:"guests" binding:"required,min=1"`
}

type updateGuestRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email"`
	CountryCode   string `json:"country_code"`
	Mobile        string `json:"mobile"`
	Organization  string `json:"organization"`
	Designation   string `json:"designation"`
	AwardCategory string `json:"award_category"`
}

type confirmDeleteRequest struct {
	Token string `json:"token" binding:"required"`
}

// List handles GET /api/v1/admin/guests
func (h *GuestHandler) List(c *gin.Context) {
	guests, err := h.guestService.ListGuests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, guests)
}

// Get handles GET /api/v1/admin/guests/:id
func (h *GuestHandler) Get(c *gin.Context) {
	guest, err := h.guestService.GetGuest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, guest)
}

// Create handles POST /api/v1/admin/guests
func (h *GuestHandler) Create(c *gin.Context) {
	var row service.ImportRow
	if err := c.ShouldBindJSON(&row); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	guest, err := h.guestService.CreateManual(c.Request.Context(), row)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, guest)
}

// Import handles POST /api/v1/admin/guests/import
func (h *GuestHandler) Import(c *gin.Context) {
	var req bulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	guests, err := h.guestService.BulkImport(c.Request.Context(), req.Guests)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, guests)
}

// Update handles PUT /api/v1/admin/guests/:id
func (h *GuestHandler) Update(c *gin.Context) {
	var req updateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	guest, err := h.guestService.GetGuest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	guest.Name = req.Name
	guest.Email = req.Email
	guest.CountryCode = req.CountryCode
	guest.Mobile = req.Mobile
	guest.Organization = req.Organization
	guest.Designation = req.Designation
	guest.AwardCategory = req.AwardCategory
	if err := h.guestService.UpdateGuest(c.Request.Context(), guest); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, guest)
}

// RequestDelete handles POST /api/v1/admin/guests/:id/delete-request
func (h *GuestHandler) RequestDelete(c *gin.Context) {
	token, err := h.guestService.RequestDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token})
}

// ConfirmDelete handles POST /api/v1/admin/guests/:id/delete
func (h *GuestHandler) ConfirmDelete(c *gin.Context) {
	var req confirmDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.guestService.ConfirmDelete(c.Request.Context(), c.Param("id"), req.Token); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, nil)
}

// Stats handles GET /api/v1/admin/stats
func (h *GuestHandler) Stats(c *gin.Context) {
	stats, err := h.guestService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, stats)
}

// OrgStats handles GET /api/v1/admin/stats/organizations
func (h *GuestHandler) OrgStats(c *gin.Context) {
	stats, err := h.guestService.OrgStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, stats)
}
