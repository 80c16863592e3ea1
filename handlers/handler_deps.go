package handlers

import (
	"github.com/sirupsen/logrus"

	"translatetube/internal/playback"
	"translatetube/internal/session"
)

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Controller   *session.Controller
	WidgetBridge *playback.BridgeWidgetAPI
	Logger       *logrus.Logger
	UploadDir    string
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(controller *session.Controller, widgetBridge *playback.BridgeWidgetAPI, logger *logrus.Logger, uploadDir string) *ApplicationHandler {
	return &ApplicationHandler{
		Controller:   controller,
		WidgetBridge: widgetBridge,
		Logger:       logger,
		UploadDir:    uploadDir,
	}
}
