package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"translatetube/internal/playback"
	"translatetube/internal/session"
	"translatetube/utils"
)

// TimeUpdateRequest carries a playback position report from the page.
type TimeUpdateRequest struct {
	Seconds float64 `json:"seconds" validate:"gte=0"`
}

// WidgetStateRequest carries an embedded-player state change from the page.
type WidgetStateRequest struct {
	State string `json:"state" validate:"required,oneof=unstarted playing paused buffering ended cued"`
}

// SeekRequest names the transcript segment to jump to.
type SeekRequest struct {
	Segment int `json:"segment" validate:"gte=0"`
}

// ReportMediaTime ingests a native time-update notification for a local or
// direct-URL source.
func (h *ApplicationHandler) ReportMediaTime(c *fiber.Ctx) error {
	payload := new(TimeUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", strings.Join(utils.FormatValidationErrors(err), "; ")))
	}

	if err := h.Controller.ReportMediaTime(payload.Seconds); err != nil {
		return utils.RespondWithError(c, fiber.StatusConflict, err.Error())
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, h.Controller.State())
}

// WidgetReady marks the external widget API script as loaded on the page.
// Any deferred embedded-player construction proceeds from here.
func (h *ApplicationHandler) WidgetReady(c *fiber.Ctx) error {
	h.Controller.WidgetAPIReady(h.WidgetBridge)
	h.Logger.Info("Widget API announced ready by the page")
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"ready": true})
}

// ReportWidgetState ingests an embedded-player state change. Entering the
// playing state starts position polling; every other state stops it.
func (h *ApplicationHandler) ReportWidgetState(c *fiber.Ctx) error {
	payload := new(WidgetStateRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", strings.Join(utils.FormatValidationErrors(err), "; ")))
	}

	if err := h.Controller.HandleWidgetState(playback.PlayerState(payload.State)); err != nil {
		return utils.RespondWithError(c, fiber.StatusConflict, err.Error())
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"state": payload.State})
}

// ReportWidgetTime ingests the embedded player's current time relayed by the
// page; the poll timer picks it up on its next tick.
func (h *ApplicationHandler) ReportWidgetTime(c *fiber.Ctx) error {
	payload := new(TimeUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", strings.Join(utils.FormatValidationErrors(err), "; ")))
	}

	widget, ok := h.WidgetBridge.Current()
	if !ok {
		return utils.RespondWithError(c, fiber.StatusConflict, session.ErrNoPlayer.Error())
	}
	widget.ReportTime(payload.Seconds)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"seconds": payload.Seconds})
}

// SeekToSegment jumps playback to the start of the given transcript segment
// (click-to-seek).
func (h *ApplicationHandler) SeekToSegment(c *fiber.Ctx) error {
	payload := new(SeekRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	if err := h.Controller.SeekToSegment(payload.Segment); err != nil {
		switch {
		case errors.Is(err, session.ErrNoTranscript), errors.Is(err, session.ErrNoPlayer):
			return utils.RespondWithError(c, fiber.StatusConflict, err.Error())
		default:
			return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
		}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, h.Controller.State())
}

// GetPlaybackState returns the controller snapshot plus any seek parked for
// the page to apply to its real player. A parked seek is delivered exactly
// once.
func (h *ApplicationHandler) GetPlaybackState(c *fiber.Ctx) error {
	state := h.Controller.State()
	if target, ok := h.Controller.ConsumePendingSeek(); ok {
		state.PendingSeek = &target
	} else if widget, ok := h.WidgetBridge.Current(); ok {
		if target, ok := widget.ConsumePendingSeek(); ok {
			state.PendingSeek = &target
		}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, state)
}
