package handlers

import (
	"github.com/docdesk/docdesk/backend/go-services/internal/apperr"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/gin-gonic/gin"
)

// respondError writes {"error": msg} with the status matching err's kind.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
