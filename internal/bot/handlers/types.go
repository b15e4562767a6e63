package handlers

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/state"
	"github.com/vladimiradmaev/reprocket/internal/interfaces"
	"github.com/vladimiradmaev/reprocket/internal/metrics"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Tracker   interfaces.TrackerServiceInterface
	Settings  interfaces.SettingsServiceInterface
	Weights   interfaces.WeightServiceInterface
	Stats     interfaces.StatsServiceInterface
	AI        interfaces.AIServiceInterface
	Estimates interfaces.CalorieEstimateServiceInterface
	Backup    interfaces.BackupServiceInterface
	Metrics   *metrics.Manager
	// HTTPClient downloads files sent to the bot. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// API is the part of *tgbotapi.BotAPI the handlers use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

var _ API = (*tgbotapi.BotAPI)(nil)

// responder carries what every handler needs and the actions shared by
// commands, buttons and conversation states.
type responder struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
}

func newResponder(api API, deps Dependencies, stateManager state.StateManager) *responder {
	if deps.HTTPClient == nil {
		deps.HTTPClient = http.DefaultClient
	}
	return &responder{api: api, deps: deps, stateManager: stateManager}
}
