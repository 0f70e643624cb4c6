package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router needs.
type Handlers struct {
	Auth       *AuthHandler
	Candidates *CandidateHandler
	Centers    *CenterHandler
	Filieres   *FiliereHandler
	Stats      *StatsHandler
}

// RegisterRoutes mounts the API surface under the given prefix. The public
// surface covers the intake form and taxonomy reads; everything else sits
// behind the admin JWT guard.
func RegisterRoutes(router *gin.Engine, prefix string, h Handlers, authGuard gin.HandlerFunc) {
	api := router.Group(prefix)

	admin := api.Group("/admin")
	{
		admin.POST("/login", h.Auth.Login)
		admin.POST("/logout", authGuard, h.Auth.Logout)
		admin.GET("/me", authGuard, h.Auth.Me)
	}

	candidat := api.Group("/candidat")
	{
		candidat.POST("/add", h.Candidates.Create)

		protected := candidat.Group("", authGuard)
		protected.GET("/all", h.Candidates.List)
		protected.GET("/filter", h.Candidates.Filter)
		protected.GET("/filters", h.Candidates.Filter)
		protected.GET("/:id", h.Candidates.Get)
		protected.PUT("/:id", h.Candidates.Update)
		protected.DELETE("/:id", h.Candidates.Delete)
		protected.PUT("/:id/stage", h.Candidates.SetInternship)
		protected.PUT("/:id/job", h.Candidates.SetEmployment)
		protected.PUT("/:id/disponible", h.Candidates.SetAvailable)
		protected.GET("/:id/cv", h.Candidates.DownloadCV)
		protected.GET("/:id/cover", h.Candidates.DownloadCover)
		protected.GET("/:id/bundle", h.Candidates.Bundle)
	}

	center := api.Group("/center")
	{
		center.GET("", h.Centers.List)
		center.GET("/:id", h.Centers.Get)

		protected := center.Group("", authGuard)
		protected.POST("", h.Centers.Create)
		protected.PUT("/:id", h.Centers.Update)
		protected.DELETE("/:id", h.Centers.Delete)
	}

	filiere := api.Group("/filiere")
	{
		filiere.GET("", h.Filieres.List)
		filiere.GET("/by-center/:id", h.Filieres.ListByCenter)
		filiere.GET("/:id", h.Filieres.Get)

		protected := filiere.Group("", authGuard)
		protected.POST("", h.Filieres.Create)
		protected.PUT("/:id", h.Filieres.Update)
		protected.DELETE("/:id", h.Filieres.Delete)
	}

	// Statistics reads are public; only report rendering needs an admin.
	stats := api.Group("/stats")
	{
		stats.GET("/centers", h.Stats.Centers)
		stats.GET("/center/:id", h.Stats.Center)
		stats.GET("/center/:id/chart", h.Stats.CenterChart)
		stats.GET("/download/:token", h.Stats.Download)

		stats.POST("/export", authGuard, h.Stats.Export)
	}
}
