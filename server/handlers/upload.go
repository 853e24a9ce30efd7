package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	Logger "github.com/blogsphere/blogsphere/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 10 MB cap on inbound images.
const maxUploadBytes = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadImage stores a multipart image under a random key and returns its
// public URL. The content type is sniffed from the payload, never trusted
// from the request.
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read image"})
		return
	}
	defer src.Close()

	// DetectContentType reads at most 512 bytes.
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read image"})
		return
	}
	contentType := http.DetectContentType(head[:n])
	if !allowedImageTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := uuid.New().String() + ext
	body := io.MultiReader(bytes.NewReader(head[:n]), src)
	url, err := h.Images.Upload(key, contentType, body)
	if err != nil {
		Logger.Log.Errorf("fail to upload image %s: %s", key, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot store image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "key": key})
}
