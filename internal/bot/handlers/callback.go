package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/keyboards"
	"github.com/vladimiradmaev/reprocket/internal/bot/state"
	"github.com/vladimiradmaev/reprocket/internal/logger"
	"github.com/vladimiradmaev/reprocket/internal/stats"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	*responder
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api API, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{responder: newResponder(api, deps, stateManager)}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Answer the callback query first
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}
	if query.Message == nil {
		return nil
	}
	chatID, userID := query.Message.Chat.ID, query.From.ID

	prefix, arg := keyboards.SplitCallback(query.Data)
	switch prefix {
	case keyboards.CallbackMainMenu:
		h.stateManager.SetUserState(userID, state.None)
		return h.showMainMenu(chatID)
	case keyboards.CallbackToday:
		return h.showDay(chatID, h.todayKey())
	case keyboards.CallbackStats:
		today := h.deps.Tracker.Today()
		return h.showStats(chatID, today.Year(), today.Month())
	case keyboards.CallbackGoals:
		return h.showGoals(chatID)
	case keyboards.CallbackMissed:
		return h.showMissed(chatID, stats.RangeThisMonth, nil, nil)
	case keyboards.CallbackCoach:
		if !h.deps.AI.Enabled() {
			return h.aiDisabled(chatID)
		}
		h.stateManager.SetUserState(userID, state.WaitingForCoach)
		return h.send(chatID, "🤖 What would you like to ask your coach?\n/cancel to stop.", nil)
	case keyboards.CallbackEstimate:
		return h.startEstimate(ctx, chatID, userID, h.todayKey())
	case keyboards.CallbackEstimateApply:
		return h.applyEstimate(ctx, chatID, userID)
	case keyboards.CallbackEstimateCancel:
		h.stateManager.ClearTempData(userID)
		return h.send(chatID, "👌 Estimate discarded.", keyboards.BackToMenu())
	case keyboards.CallbackExport:
		return h.sendExport(chatID)
	case keyboards.CallbackSettings:
		return h.showSettings(chatID)
	case keyboards.CallbackHelp:
		return h.showHelp(chatID)

	case keyboards.PrefixGoalDone:
		if _, err := h.deps.Tracker.ToggleGoalCompleted(ctx, arg); err != nil {
			return h.replyError(chatID, err)
		}
		return h.showGoals(chatID)
	case keyboards.PrefixGoalDelete:
		if err := h.deps.Tracker.DeleteGoal(ctx, arg); err != nil {
			return h.replyError(chatID, err)
		}
		return h.showGoals(chatID)
	case keyboards.PrefixMissed:
		return h.handleMissedRange(chatID, userID, stats.RangePreset(arg))
	default:
		return h.send(chatID, "This button is no longer available.", keyboards.BackToMenu())
	}
}

func (h *CallbackHandler) todayKey() string {
	d, _ := splitDate(nil, h.deps.Tracker.Today())
	return d
}

// handleMissedRange shows a preset window, or asks for dates for a custom one.
func (h *CallbackHandler) handleMissedRange(chatID, userID int64, preset stats.RangePreset) error {
	if preset == stats.RangeCustom {
		h.stateManager.SetUserState(userID, state.WaitingForCustom)
		return h.send(chatID, "📅 Send the start and end dates: YYYY-MM-DD YYYY-MM-DD\n/cancel to stop.", nil)
	}
	return h.showMissed(chatID, preset, nil, nil)
}
