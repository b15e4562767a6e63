package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/handlers"
	"github.com/vladimiradmaev/reprocket/internal/bot/state"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/logger"
)

// Bot serves the tracker over Telegram long polling.
type Bot struct {
	api           *tgbotapi.BotAPI
	updateHandler *handlers.UpdateHandler
	stopOnce      sync.Once
}

var _ domain.BotService = (*Bot)(nil)

// NewBot authorizes token and wires the update handlers. ownerID limits
// the bot to one Telegram user; zero allows everyone.
func NewBot(token string, ownerID int64, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Bot authorized", "account", api.Self.UserName)

	if ownerID == 0 {
		logger.Warn("TELEGRAM_OWNER_ID is not set; anyone who finds the bot can use it")
	}
	return &Bot{
		api:           api,
		updateHandler: handlers.NewUpdateHandler(api, ownerID, deps, stateManager),
	}, nil
}

// Start polls for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			b.Stop()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.updateHandler.Handle(ctx, update); err != nil {
				logger.Error("Error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}

// Stop ends long polling. Safe to call more than once.
func (b *Bot) Stop() {
	b.stopOnce.Do(b.api.StopReceivingUpdates)
}
