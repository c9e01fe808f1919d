package handlers

import (
	"net/http"

	"github.com/docdesk/docdesk/backend/go-services/internal/dashboard"
	"github.com/gin-gonic/gin"
)

func RegisterDashboardRoutes(rg gin.IRouter, svc *dashboard.Service) {
	rg.GET("/api/dashboard", func(c *gin.Context) {
		sum, err := svc.Summary(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	})
}
