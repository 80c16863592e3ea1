package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"translatetube/models"
	"translatetube/utils"
)

var validate = validator.New()

// VideoURLRequest defines the expected JSON structure for selecting a video
// by URL.
type VideoURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// UploadVideo receives a video file, stores it under the gateway's upload
// directory and makes it the active source. The stored copy lives exactly as
// long as the source selection; switching sources removes it.
func (h *ApplicationHandler) UploadVideo(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		h.Logger.Errorf("Error getting file from upload request: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Error getting file: %v", err))
	}

	mediaType := file.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = inferMediaType(file.Filename)
	}
	if !strings.HasPrefix(mediaType, "video/") {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Unsupported media type %q, expected a video", mediaType))
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.Logger.Errorf("Error creating upload directory %s: %v", h.UploadDir, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not store uploaded video")
	}

	// Unique name in gateway storage, keyed by a fresh UUID.
	storagePath := filepath.Join(h.UploadDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveFile(file, storagePath); err != nil {
		h.Logger.Errorf("Error saving uploaded video to %s: %v", storagePath, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not store uploaded video")
	}

	src := models.VideoSource{
		Kind:      models.SourceFile,
		LocalPath: storagePath,
		MediaType: mediaType,
	}
	if err := h.Controller.SetSource(src); err != nil {
		os.Remove(storagePath)
		h.Logger.Errorf("Error selecting uploaded video source: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not select video source")
	}

	h.Logger.Infof("Successfully stored uploaded video %s (%d bytes)", file.Filename, file.Size)
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{
		"source_kind": models.SourceFile,
		"file_name":   file.Filename,
		"media_type":  mediaType,
	})
}

// SetVideoURL makes a linked video the active source. A URL carrying a
// recognizable hosting-platform video ID becomes an embedded source played
// through the widget; anything else is treated as a direct video URL.
func (h *ApplicationHandler) SetVideoURL(c *fiber.Ctx) error {
	payload := new(VideoURLRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Errorf("Error parsing video URL payload: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", strings.Join(utils.FormatValidationErrors(err), "; ")))
	}

	src := models.VideoSource{Kind: models.SourceRemoteURL, URL: payload.URL}
	if id, ok := models.ExtractEmbeddedID(payload.URL); ok {
		src = models.VideoSource{Kind: models.SourceEmbedded, URL: payload.URL, EmbeddedID: id}
	}

	if err := h.Controller.SetSource(src); err != nil {
		h.Logger.Errorf("Error selecting video URL source: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not select video source")
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{
		"source_kind": src.Kind,
		"embedded_id": src.EmbeddedID,
	})
}

// ClearVideoSource drops the active source along with its transcript and
// stored upload.
func (h *ApplicationHandler) ClearVideoSource(c *fiber.Ctx) error {
	h.Controller.ClearSource()
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"cleared": true})
}

// inferMediaType maps a file extension to a video MIME type when the upload
// carries no Content-Type.
func inferMediaType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	default:
		return "video/mp4"
	}
}
