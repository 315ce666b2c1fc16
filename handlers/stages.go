package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"leafstage/knowledge"
	"leafstage/models"
)

func (h *Handler) GetStages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": knowledge.All()})
}

func (h *Handler) GetStage(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	if _, ok := models.ParseStage(code); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown stage code", "fallback": knowledge.Lookup(models.StageInvalid)})
		return
	}
	c.JSON(http.StatusOK, knowledge.LookupCode(code))
}
