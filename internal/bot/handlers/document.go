package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/keyboards"
	"github.com/vladimiradmaev/reprocket/internal/bot/state"
	"github.com/vladimiradmaev/reprocket/internal/logger"
	"github.com/vladimiradmaev/reprocket/internal/services"
)

// DocumentHandler restores backups sent as files after /import
type DocumentHandler struct {
	*responder
}

func NewDocumentHandler(api API, deps Dependencies, stateManager state.StateManager) *DocumentHandler {
	return &DocumentHandler{responder: newResponder(api, deps, stateManager)}
}

func (h *DocumentHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID
	doc := message.Document

	if h.stateManager.GetUserState(userID) != state.WaitingForImport {
		return h.send(chatID, "To restore a backup, send /import first.", nil)
	}
	if err := services.CheckImportFile(doc.FileName, doc.MimeType); err != nil {
		return h.replyError(chatID, err)
	}
	if doc.FileSize > maxDownloadSize {
		return h.send(chatID, "⚠️ This file is too large to import.", nil)
	}

	data, err := h.download(ctx, doc.FileID)
	if err != nil {
		logger.Error("Failed to download backup", "user_id", userID, "error", err)
		return h.send(chatID, "⚠️ Could not download the file. Please try again.", nil)
	}

	// Invalid files keep the import step open so the user can retry.
	if err := h.deps.Backup.Import(ctx, data); err != nil {
		return h.replyError(chatID, err)
	}
	h.stateManager.SetUserState(userID, state.None)
	return h.send(chatID, "✅ Data imported successfully!", keyboards.MainMenu())
}
