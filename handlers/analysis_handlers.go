package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"translatetube/internal/aiclient"
	"translatetube/internal/session"
	"translatetube/models"
	"translatetube/utils"
)

// AnalyzeRequest defines the expected JSON structure for starting an
// analysis.
type AnalyzeRequest struct {
	SourceLang string `json:"source_lang" validate:"required"`
	TargetLang string `json:"target_lang" validate:"required"`
}

// AnalyzeVideo runs transcription and translation for the active source and
// returns the resulting transcript. The call is synchronous and exclusive:
// a second request while one is running is refused with a conflict.
func (h *ApplicationHandler) AnalyzeVideo(c *fiber.Ctx) error {
	payload := new(AnalyzeRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Errorf("Error parsing analyze payload: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", strings.Join(utils.FormatValidationErrors(err), "; ")))
	}
	for _, lang := range []string{payload.SourceLang, payload.TargetLang} {
		if !models.IsSupportedLanguage(lang) {
			return utils.RespondWithError(c, fiber.StatusBadRequest,
				fmt.Sprintf("Unsupported language %q, supported: %s", lang, strings.Join(models.SupportedLanguages, ", ")))
		}
	}

	result, err := h.Controller.Analyze(c.Context(), payload.SourceLang, payload.TargetLang)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSource):
			return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, session.ErrAnalysisInFlight), errors.Is(err, session.ErrSourceChanged):
			return utils.RespondWithError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, aiclient.ErrEmbeddedSource):
			return utils.RespondWithError(c, fiber.StatusUnprocessableEntity, err.Error())
		default:
			h.Logger.Errorf("Analysis failed: %v", err)
			return utils.RespondWithError(c, fiber.StatusBadGateway, fmt.Sprintf("Analysis failed: %v", err))
		}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// GetTranscript returns the transcript of the active source, if analysis has
// completed, together with the segment count and the index currently active
// at the playback position.
func (h *ApplicationHandler) GetTranscript(c *fiber.Ctx) error {
	result, ok := h.Controller.Transcript()
	if !ok {
		return utils.RespondWithError(c, fiber.StatusNotFound, "No transcript available for the current video source")
	}
	state := h.Controller.State()
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"transcript":     result,
		"segment_count":  state.SegmentCount,
		"active_segment": state.ActiveSegment,
	})
}

// DismissNotice clears the current user-visible notice.
func (h *ApplicationHandler) DismissNotice(c *fiber.Ctx) error {
	h.Controller.DismissNotice()
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"dismissed": true})
}
