package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, staticDir string, maxUploadMB int64) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.MaxMultipartMemory = maxUploadMB << 20

	api := router.Group("/api")
	{
		api.POST("/diagnose", limitBody(maxUploadMB<<20), h.Diagnose)

		api.GET("/history", h.GetHistory)
		api.DELETE("/history", h.ClearHistory)
		api.GET("/history/:id", h.GetDiagnosisById)
		api.DELETE("/history/:id", h.DeleteDiagnosis)

		api.GET("/records", h.GetAllRecords)
		api.GET("/statistics", h.GetStatistics)

		api.GET("/stages", h.GetStages)
		api.GET("/stages/:code", h.GetStage)
	}

	if h.uploadDir != "" {
		router.Static("/uploads", h.uploadDir)
	}
	if staticDir != "" {
		if _, err := os.Stat(staticDir); err == nil {
			router.Static("/static", staticDir)
			router.GET("/", func(c *gin.Context) {
				c.File(filepath.Join(staticDir, "index.html"))
			})
		}
	}

	router.GET("/health", func(c *gin.Context) {
		strategies := make([]string, 0, len(h.engines))
		for s := range h.engines {
			strategies = append(strategies, string(s))
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "Leaf Disease Diagnosis API",
			"strategies": strategies,
		})
	})

	return router
}

// limitBody rejects request bodies larger than limit bytes. Bodies without a
// declared length are cut off at limit while being read.
func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLargeMessage(limit)})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func tooLargeMessage(limit int64) string {
	return fmt.Sprintf("Image too large. Maximum size is %d MB", limit>>20)
}
