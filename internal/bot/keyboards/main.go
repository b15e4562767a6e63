package keyboards

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/stats"
)

// Callback data
const (
	CallbackMainMenu       = "main_menu"
	CallbackToday          = "today"
	CallbackStats          = "stats"
	CallbackGoals          = "goals"
	CallbackMissed         = "missed"
	CallbackCoach          = "coach"
	CallbackEstimate       = "estimate"
	CallbackEstimateApply  = "estimate_apply"
	CallbackEstimateCancel = "estimate_cancel"
	CallbackExport         = "export"
	CallbackSettings       = "settings"
	CallbackHelp           = "help"

	PrefixGoalDone   = "goal_done:"
	PrefixGoalDelete = "goal_delete:"
	PrefixMissed     = "missed:"
)

// SplitCallback separates a prefixed callback into prefix and argument.
// Unprefixed data comes back unchanged with an empty argument.
func SplitCallback(data string) (prefix, arg string) {
	if i := strings.IndexByte(data, ':'); i >= 0 {
		return data[:i+1], data[i+1:]
	}
	return data, ""
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Today", CallbackToday),
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", CallbackStats),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Goals", CallbackGoals),
			tgbotapi.NewInlineKeyboardButtonData("📉 Missed days", CallbackMissed),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 AI Coach", CallbackCoach),
			tgbotapi.NewInlineKeyboardButtonData("🔥 Estimate burn", CallbackEstimate),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 Export", CallbackExport),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", CallbackSettings),
		),
	)
}

// BackToMenu is a single main menu button
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
}

// GoalsMenu has a complete and a delete button for every open goal.
func GoalsMenu(goals []*domain.Goal) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, g := range goals {
		if g.IsCompleted {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ "+truncate(g.Description, 24), PrefixGoalDone+g.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑️", PrefixGoalDelete+g.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// MissedRangeMenu offers every preset window except the custom one,
// which needs dates typed by the user.
func MissedRangeMenu() tgbotapi.InlineKeyboardMarkup {
	labels := map[stats.RangePreset]string{
		stats.RangeThisWeek:  "This week",
		stats.RangeThisMonth: "This month",
		stats.Range3Months:   "3 months",
		stats.Range6Months:   "6 months",
		stats.Range1Year:     "1 year",
		stats.RangeCustom:    "Custom…",
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, p := range stats.RangePresets {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(labels[p], PrefixMissed+string(p)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// EstimateConfirm asks whether to store an AI calorie estimate.
func EstimateConfirm() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes", CallbackEstimateApply),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", CallbackEstimateCancel),
		),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
