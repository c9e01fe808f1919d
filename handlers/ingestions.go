package handlers

import (
	"net/http"

	"github.com/docdesk/docdesk/backend/go-services/internal/ingestion"
	"github.com/gin-gonic/gin"
)

type IngestionHandler struct {
	engine *ingestion.Engine
}

func NewIngestionHandler(e *ingestion.Engine) *IngestionHandler {
	return &IngestionHandler{engine: e}
}

func (h *IngestionHandler) Register(rg gin.IRouter) {
	rg.GET("/api/ingestions", h.List)
	rg.GET("/api/ingestions/:id", h.Get)
	rg.POST("/api/ingestions/:id/retry", h.Retry)
}

// List supports ?q= to filter by document title.
func (h *IngestionHandler) List(c *gin.Context) {
	list, err := h.engine.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *IngestionHandler) Get(c *gin.Context) {
	ing, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// Retry answers 202: the run restarts now and completes later.
func (h *IngestionHandler) Retry(c *gin.Context) {
	ing, err := h.engine.Retry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, ing)
}
