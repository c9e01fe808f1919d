package handler

import (
	"net/http"

	"github.com/docdesk/docdesk/backend/go-services/internal/apperr"
	"github.com/docdesk/docdesk/backend/go-services/internal/document/service"
	"github.com/docdesk/docdesk/backend/go-services/pkg/middleware"
	"github.com/gin-gonic/gin"
)

func fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}

func RegisterDocumentRoutes(r gin.IRouter, svc service.Service) {
	r.GET("/api/documents", func(c *gin.Context) {
		list, err := svc.Search(c.Request.Context(), c.Query("q"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/api/documents", func(c *gin.Context) {
		var req service.UploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// uploadedBy defaults to the caller's display name
		if req.UploadedBy == "" {
			if u, ok := middleware.CurrentUser(c); ok {
				req.UploadedBy = u.Name
			}
		}
		d, ing, err := svc.Upload(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"document": d, "ingestion": ing})
	})

	r.GET("/api/documents/:id", func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})

	r.DELETE("/api/documents/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
