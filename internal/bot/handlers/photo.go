package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/keyboards"
	"github.com/vladimiradmaev/reprocket/internal/bot/state"
	"github.com/vladimiradmaev/reprocket/internal/logger"
)

// PhotoHandler handles photo messages
type PhotoHandler struct {
	*responder
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(api API, deps Dependencies, stateManager state.StateManager) *PhotoHandler {
	return &PhotoHandler{responder: newResponder(api, deps, stateManager)}
}

// Handle stores the photo as a progress photo. A date in the caption files
// it under that day.
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	// Get the largest photo
	photo := message.Photo[len(message.Photo)-1]
	date, _ := splitDate(strings.Fields(message.Caption), h.deps.Tracker.Today())

	data, err := h.download(ctx, photo.FileID)
	if err != nil {
		logger.Error("Failed to download photo", "user_id", message.From.ID, "error", err)
		return h.send(chatID, "⚠️ Could not download the photo. Please try again.", nil)
	}

	// Telegram re-encodes photos as JPEG.
	p, err := h.deps.Tracker.AddPhoto(ctx, date, "image/jpeg", data)
	if err != nil {
		return h.replyError(chatID, err)
	}
	logger.Info("Saved progress photo", "photo_id", p.ID, "date", p.Date, "bytes", len(data))

	count := len(h.deps.Tracker.Snapshot().Photos)
	return h.send(chatID, fmt.Sprintf("📸 Progress photo saved for %s. You have %d photo%s.", p.Date, count, plural(count)), keyboards.BackToMenu())
}
