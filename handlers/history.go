package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leafstage/database"
	"leafstage/knowledge"
)

func (h *Handler) GetHistory(c *gin.Context) {
	items := h.ledger.List()
	c.JSON(http.StatusOK, gin.H{
		"data":     items,
		"total":    len(items),
		"capacity": h.ledger.Capacity(),
	})
}

func (h *Handler) GetDiagnosisById(c *gin.Context) {
	id := c.Param("id")

	rec, err := h.repo.Get(id)
	if errors.Is(err, database.ErrNotFound) {
		if item, ok := h.ledger.Get(id); ok {
			c.JSON(http.StatusOK, gin.H{"summary": item})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Diagnosis not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch diagnosis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":        rec.Result(knowledge.LookupCode(rec.Stage)),
		"quality":       rec.Quality,
		"image_path":    rec.ImagePath,
		"original_name": rec.OriginalName,
	})
}

func (h *Handler) GetAllRecords(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	recs, total, err := h.repo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch diagnoses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   recs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// DeleteDiagnosis removes the stored record first and the ledger entry
// second, so a failed record delete leaves both untouched.
func (h *Handler) DeleteDiagnosis(c *gin.Context) {
	id := c.Param("id")

	err := h.repo.Delete(id)
	found := err == nil
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		log.Printf("Error deleting diagnosis %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete diagnosis"})
		return
	}

	removed, err := h.ledger.Remove(id)
	if err != nil {
		log.Printf("Error removing %s from history: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete diagnosis"})
		return
	}

	if !found && !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Diagnosis not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Diagnosis deleted successfully"})
}

func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.repo.DeleteAll(); err != nil {
		log.Printf("Error clearing diagnoses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear diagnoses"})
		return
	}
	if err := h.ledger.Clear(); err != nil {
		log.Printf("Error clearing history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}

func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.repo.Statistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
