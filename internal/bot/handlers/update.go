package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/state"
	"github.com/vladimiradmaev/reprocket/internal/logger"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             API
	ownerID         int64
	deps            Dependencies
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
	photoHandler    *PhotoHandler
	documentHandler *DocumentHandler
}

// NewUpdateHandler creates a new update handler. The tracker holds one
// person's data, so with a non-zero ownerID every other user is turned away.
func NewUpdateHandler(api API, ownerID int64, deps Dependencies, stateManager state.StateManager) *UpdateHandler {
	return &UpdateHandler{
		api:             api,
		ownerID:         ownerID,
		deps:            deps,
		callbackHandler: NewCallbackHandler(api, deps, stateManager),
		commandHandler:  NewCommandHandler(api, deps, stateManager),
		textHandler:     NewTextHandler(api, deps, stateManager),
		photoHandler:    NewPhotoHandler(api, deps, stateManager),
		documentHandler: NewDocumentHandler(api, deps, stateManager),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	var from *tgbotapi.User
	var chatID int64
	switch {
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	case update.Message != nil:
		from = update.Message.From
		chatID = update.Message.Chat.ID
	default:
		return nil
	}
	if from == nil {
		return nil
	}

	if h.ownerID != 0 && from.ID != h.ownerID {
		h.count("rejected")
		logger.Warn("Ignoring update from another user", "user_id", from.ID)
		if chatID == 0 {
			return nil
		}
		_, err := h.api.Send(tgbotapi.NewMessage(chatID, "🔒 This RepRocket tracker is private."))
		return err
	}

	if update.CallbackQuery != nil {
		h.count("callback")
		return h.callbackHandler.Handle(ctx, update.CallbackQuery)
	}

	message := update.Message
	switch {
	case message.IsCommand():
		h.count("command")
		return h.commandHandler.Handle(ctx, message)
	case message.Document != nil:
		h.count("document")
		return h.documentHandler.Handle(ctx, message)
	case len(message.Photo) > 0:
		h.count("photo")
		return h.photoHandler.Handle(ctx, message)
	case message.Text != "":
		h.count("text")
		return h.textHandler.Handle(ctx, message)
	}
	return nil
}

func (h *UpdateHandler) count(kind string) {
	if h.deps.Metrics != nil {
		h.deps.Metrics.CounterBotUpdates.WithLabelValues(kind).Inc()
	}
}
