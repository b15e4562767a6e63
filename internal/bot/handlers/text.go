package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/keyboards"
	"github.com/vladimiradmaev/reprocket/internal/bot/state"
)

// TextHandler handles text messages
type TextHandler struct {
	*responder
}

// NewTextHandler creates a new text handler
func NewTextHandler(api API, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{responder: newResponder(api, deps, stateManager)}
}

// Handle processes a text message according to the pending conversation step
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID
	text := strings.TrimSpace(message.Text)

	switch h.stateManager.GetUserState(userID) {
	case state.WaitingForCoach:
		h.stateManager.SetUserState(userID, state.None)
		return h.runCoach(ctx, chatID, text)
	case state.WaitingForNote:
		h.stateManager.SetUserState(userID, state.None)
		return h.saveNote(ctx, chatID, text)
	case state.WaitingForWeight:
		h.stateManager.SetUserState(userID, state.None)
		date, rest := splitDate(strings.Fields(text), h.deps.Tracker.Today())
		if len(rest) != 1 {
			return h.send(chatID, "⚠️ Send a single number, for example 80.5", nil)
		}
		return h.logWeight(ctx, chatID, date, rest[0])
	case state.WaitingForCustom:
		return h.handleCustomRange(chatID, userID, text)
	case state.WaitingForImport:
		return h.send(chatID, "📥 Waiting for a JSON backup file. Attach it as a document, or /cancel.", nil)
	default:
		return h.send(chatID, "Use the menu or /help to see what I can do.", keyboards.MainMenu())
	}
}

// handleCustomRange keeps waiting until two valid dates arrive.
func (h *TextHandler) handleCustomRange(chatID, userID int64, text string) error {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return h.send(chatID, "⚠️ Send two dates: YYYY-MM-DD YYYY-MM-DD", nil)
	}
	preset, start, end, err := ParseMissedArgs(fields)
	if err != nil {
		return h.usage(chatID, err)
	}
	h.stateManager.SetUserState(userID, state.None)
	return h.showMissed(chatID, preset, start, end)
}
