package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"galapass/guesthub/internal/config"
	"galapass/guesthub/internal/handler/middleware"
	"galapass/guesthub/internal/service"
	jwtpkg "galapass/guesthub/pkg/jwt"
)

type RouterDeps struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTManager *jwtpkg.Manager

	AuthHandler       *AuthHandler
	RSVPHandler       *RSVPHandler
	GuestHandler      *GuestHandler
	CategoryHandler   *CategoryHandler
	InvitationHandler *InvitationHandler
	ScannerHandler    *ScannerHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(deps.Config.Server.Mode)

	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// Public: registration, confirmation links from emails, and the pass page.
	api.POST("/rsvp", deps.RSVPHandler.Register)
	api.POST("/rsvp/:id/confirm", deps.RSVPHandler.Confirm)
	api.GET("/passes/:id", deps.RSVPHandler.GetPass)
	api.GET("/passes/:id/qr", deps.RSVPHandler.GetPassQR)

	auth := api.Group("/auth")
	{
		auth.POST("/login", deps.AuthHandler.Login)
		auth.POST("/refresh", deps.AuthHandler.Refresh)
		auth.POST("/logout", deps.AuthHandler.Logout)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(deps.JWTManager))
	admin.Use(middleware.AdminOnly(service.AdminSubject))
	{
		admin.GET("/guests", deps.GuestHandler.List)
		admin.POST("/guests", deps.GuestHandler.Create)
		admin.POST("/guests/import", deps.GuestHandler.Import)
		admin.GET("/guests/:id", deps.GuestHandler.Get)
		admin.PUT("/guests/:id", deps.GuestHandler.Update)
		admin.POST("/guests/:id/delete-request", deps.GuestHandler.RequestDelete)
		admin.POST("/guests/:id/delete", deps.GuestHandler.ConfirmDelete)
		admin.GET("/stats", deps.GuestHandler.Stats)
		admin.GET("/stats/organizations", deps.GuestHandler.OrgStats)

		admin.GET("/categories", deps.CategoryHandler.List)
		admin.POST("/categories", deps.CategoryHandler.Add)
		admin.POST("/categories/:name/delete-request", deps.CategoryHandler.RequestDelete)
		admin.POST("/categories/:name/delete", deps.CategoryHandler.ConfirmDelete)

		admin.GET("/invitations/template", deps.InvitationHandler.GetTemplate)
		admin.PUT("/invitations/template", deps.InvitationHandler.SaveTemplate)
		admin.POST("/invitations/send", deps.InvitationHandler.Send)

		admin.POST("/scanner/sessions", deps.ScannerHandler.Create)
		admin.GET("/scanner/sessions/:id", deps.ScannerHandler.Status)
		admin.POST("/scanner/sessions/:id/events", deps.ScannerHandler.HandleEvent)
		admin.POST("/scanner/sessions/:id/acknowledge", deps.ScannerHandler.Acknowledge)
		admin.POST("/scanner/sessions/:id/restart", deps.ScannerHandler.Restart)
		admin.POST("/scanner/sessions/:id/facing", deps.ScannerHandler.SetFacing)
		admin.DELETE("/scanner/sessions/:id", deps.ScannerHandler.Close)
		admin.GET("/scanner/sessions/:id/feed", deps.ScannerHandler.Feed)
	}

	return r
}
