package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/imgwall/internal/filestore"
	"github.com/xxxsen/imgwall/internal/model"
	"github.com/xxxsen/imgwall/internal/pkg/response"
	"github.com/xxxsen/imgwall/internal/service"
)

type ImageHandler struct {
	images        *service.ImageService
	maxUploadSize int64
}

type UploadResponse struct {
	Image       *model.Image `json:"image"`
	Name        string       `json:"name"`
	ContentType string       `json:"content_type"`
	Size        int64        `json:"size"`
}

func NewImageHandler(images *service.ImageService, maxUploadSize int64) *ImageHandler {
	return &ImageHandler{images: images, maxUploadSize: maxUploadSize}
}

// Upload accepts a single multipart file under the "image" field plus
// an optional "statement" field. A missing statement is tolerated, a
// missing file is not.
func (h *ImageHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing_file", "no file uploaded")
		return
	}
	if h.maxUploadSize > 0 && file.Size > h.maxUploadSize {
		response.Error(c, http.StatusBadRequest, "file_too_large", "file exceeds upload limit of "+formatUploadLimit(h.maxUploadSize))
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_file", "failed to open file")
		return
	}
	reader, contentType, err := sniffContentType(opened)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_file", "failed to read file")
		return
	}
	defer reader.Close()

	img, err := h.images.Upload(c.Request.Context(), service.UploadInput{
		Filename:  file.Filename,
		Statement: c.PostForm("statement"),
		Size:      file.Size,
		Content:   reader,
		BaseURL:   requestBaseURL(c),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, UploadResponse{
		Image:       img,
		Name:        file.Filename,
		ContentType: contentType,
		Size:        file.Size,
	})
}

func (h *ImageHandler) List(c *gin.Context) {
	items, err := h.images.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *ImageHandler) Delete(c *gin.Context) {
	if err := h.images.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// sniffContentType peeks at the head of the file to detect the content
// type, then rewinds so the full content gets stored.
func sniffContentType(file filestore.ReadSeekCloser) (filestore.ReadSeekCloser, string, error) {
	buf := make([]byte, 512)
	read, err := file.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	contentType := http.DetectContentType(buf[:read])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, "", err
	}
	return file, contentType, nil
}

func formatUploadLimit(bytes int64) string {
	const mb = 1024 * 1024
	if bytes <= 0 {
		return "0MB"
	}
	value := bytes / mb
	if value <= 0 {
		value = 1
	}
	return strconv.FormatInt(value, 10) + "MB"
}
