package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leafstage/classifier"
	"leafstage/diagnosis"
	"leafstage/imaging"
)

// statusClientClosedRequest is nginx's code for a request the client gave up on.
const statusClientClosedRequest = 499

func (h *Handler) Diagnose(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLargeMessage(tooLarge.Limit)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	mimeType := imaging.MIMEForExt(header.Filename)
	if mimeType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file format. Only JPG, JPEG, PNG and WEBP are allowed"})
		return
	}

	strategy := classifier.Strategy(strings.ToLower(c.DefaultPostForm("strategy", string(h.defaultStrategy))))
	engine, ok := h.engines[strategy]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Classifier strategy not available: " + string(strategy)})
		return
	}

	data, err := io.ReadAll(file)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLargeMessage(tooLarge.Limit)})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}

	imagePath, err := h.saveUpload(data, filepath.Ext(header.Filename))
	if err != nil {
		log.Printf("Error saving upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	ctx := c.Request.Context()
	if strategy == classifier.StrategyRemote && h.oracleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.oracleTimeout)
		defer cancel()
	}

	log.Printf("Diagnosing %s (%d bytes) with %s classifier", header.Filename, len(data), strategy)
	d, err := engine.Diagnose(ctx, diagnosis.Request{
		Data:         data,
		MIMEType:     mimeType,
		ImagePath:    imagePath,
		OriginalName: header.Filename,
	})
	if err != nil {
		if imagePath != "" {
			os.Remove(imagePath)
		}
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg, "kind": classifier.KindOf(err), "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, d)
}

func (h *Handler) saveUpload(data []byte, ext string) (string, error) {
	if h.uploadDir == "" {
		return "", nil
	}
	path := filepath.Join(h.uploadDir, uuid.New().String()+strings.ToLower(ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Diagnosis timed out"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "Diagnosis cancelled"
	}
	switch classifier.KindOf(err) {
	case classifier.KindImageDecode:
		return http.StatusBadRequest, "Image could not be decoded"
	case classifier.KindOracleUnavailable:
		return http.StatusBadGateway, "Vision service unavailable"
	case classifier.KindInvalidResponseSchema:
		return http.StatusBadGateway, "Vision service returned an invalid answer"
	}
	return http.StatusInternalServerError, "Diagnosis failed"
}
