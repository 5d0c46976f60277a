package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"github.com/hairbystephanie/site/backend/go-services/internal/content/service"
	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
)

// FieldUpdate is the PUT /content body.
type FieldUpdate struct {
	Key   string  `json:"key" binding:"required"`
	Value *string `json:"value" binding:"required"`
}

// ServicesUpdate is the PUT /services body.
type ServicesUpdate struct {
	Services []content.Service `json:"services" binding:"required"`
}

// RegisterContentRoutes mounts the public read and the protected writes.
// auth guards every write; pass the bearer middleware.
func RegisterContentRoutes(r gin.IRouter, svc service.Service, auth gin.HandlerFunc) {
	r.GET("/content", func(c *gin.Context) {
		doc, err := svc.Get(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	w := r.Group("/", auth)

	w.PUT("/content", func(c *gin.Context) {
		var req FieldUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.SetField(c.Request.Context(), req.Key, *req.Value); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Content updated successfully", "key": req.Key, "value": *req.Value})
	})

	w.PUT("/services", func(c *gin.Context) {
		var req ServicesUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.ReplaceServices(c.Request.Context(), req.Services); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Services updated successfully", "services": content.CloneServices(req.Services)})
	})

	w.PUT("/content/document", func(c *gin.Context) {
		var doc content.Document
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := svc.ReplaceDocument(c.Request.Context(), &doc)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownKey):
		c.JSON(http.StatusNotFound, gin.H{"error": "Content key not found"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
	case errors.Is(err, service.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("content %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
