package app

import (
	"net/http"

	"github.com/eyxpoliba/emotion-core/internal/modules/auth"
	"github.com/eyxpoliba/emotion-core/internal/modules/image"
	"github.com/eyxpoliba/emotion-core/internal/modules/survey"
	"github.com/eyxpoliba/emotion-core/internal/pkg/blob"
	"github.com/eyxpoliba/emotion-core/internal/pkg/response"
	"github.com/eyxpoliba/emotion-core/internal/pkg/revocation"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(revocationStore revocation.Store, blobStore *blob.Store) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found")
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, response.Message{Message: "Method not allowed"})
	})

	api := r.Group("/api")
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})

	verifier := auth.NewTokeninfoVerifier(a.cfg.Google.ClientID)
	authHandler := auth.NewHandler(
		auth.NewService(a.db),
		verifier,
		revocationStore,
		blobStore,
		a.cfg.Security.Transport,
		a.logger,
	)
	authHandler.RegisterRoutes(api)

	survey.NewHandler(survey.NewService(a.db), a.logger).RegisterRoutes(api)
	image.NewHandler(blobStore, a.logger).RegisterRoutes(api)
}
