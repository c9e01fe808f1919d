package handlers

import (
	"net/http"

	"github.com/docdesk/docdesk/backend/go-services/internal/qa"
	"github.com/gin-gonic/gin"
)

type askRequest struct {
	Query string `json:"query"`
}

// RegisterQARoutes exposes POST /api/qa {"query": "..."}.
func RegisterQARoutes(rg gin.IRouter, svc *qa.Service) {
	rg.POST("/api/qa", func(c *gin.Context) {
		var req askRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := svc.Ask(c.Request.Context(), req.Query)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	})
}
