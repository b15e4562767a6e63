package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/vladimiradmaev/reprocket/internal/bot/keyboards"
	"github.com/vladimiradmaev/reprocket/internal/domain"
)

func (h *CommandHandler) handleLog(ctx context.Context, chatID int64, args []string) error {
	date, rest := splitDate(args, h.deps.Tracker.Today())
	ex, err := ParseExercise(rest)
	if err != nil {
		return h.usage(chatID, err)
	}
	res, err := h.deps.Tracker.AddExercise(ctx, date, ex)
	return h.dayUpdated(chatID, date, res, err)
}

// handleNutrition sets calories, protein or burned calories for a day.
func (h *CommandHandler) handleNutrition(ctx context.Context, chatID int64, field string, args []string) error {
	date, rest := splitDate(args, h.deps.Tracker.Today())
	if len(rest) != 1 {
		return h.send(chatID, fmt.Sprintf("⚠️ usage: /%s [YYYY-MM-DD] <number>", field), nil)
	}
	n, err := parseNonNegativeInt(rest[0])
	if err != nil {
		return h.usage(chatID, err)
	}

	res, err := h.deps.Tracker.UpdateDay(ctx, date, func(rec *domain.DayRecord) {
		switch field {
		case "calories":
			rec.Calories = n
		case "protein":
			rec.Protein = &n
		case "burned":
			rec.BurnedCalories = &n
		}
	})
	return h.dayUpdated(chatID, date, res, err)
}

func (h *CommandHandler) handleTitle(ctx context.Context, chatID int64, args []string) error {
	date, rest := splitDate(args, h.deps.Tracker.Today())
	res, err := h.deps.Tracker.UpdateDay(ctx, date, func(rec *domain.DayRecord) {
		rec.Title = strings.Join(rest, " ")
	})
	return h.dayUpdated(chatID, date, res, err)
}

func (h *CommandHandler) handleDayNote(ctx context.Context, chatID int64, args []string) error {
	date, rest := splitDate(args, h.deps.Tracker.Today())
	res, err := h.deps.Tracker.UpdateDay(ctx, date, func(rec *domain.DayRecord) {
		rec.Notes = strings.Join(rest, " ")
	})
	return h.dayUpdated(chatID, date, res, err)
}

// handleRest toggles the rest day flag.
func (h *CommandHandler) handleRest(ctx context.Context, chatID int64, args []string) error {
	date, _ := splitDate(args, h.deps.Tracker.Today())
	res, err := h.deps.Tracker.UpdateDay(ctx, date, func(rec *domain.DayRecord) {
		rec.IsRestDay = !rec.IsRestDay
	})
	return h.dayUpdated(chatID, date, res, err)
}

func (h *CommandHandler) handlePersonalRecord(ctx context.Context, chatID int64, args []string) error {
	date, rest := splitDate(args, h.deps.Tracker.Today())
	pr, err := ParsePersonalRecord(rest, h.deps.Settings.Get().WeightUnit)
	if err != nil {
		return h.usage(chatID, err)
	}
	res, err := h.deps.Tracker.AddPersonalRecord(ctx, date, pr)
	return h.dayUpdated(chatID, date, res, err)
}

func (h *CommandHandler) handleClear(ctx context.Context, chatID int64, args []string) error {
	date, _ := splitDate(args, h.deps.Tracker.Today())
	if _, ok := h.deps.Tracker.Day(date); !ok {
		return h.send(chatID, fmt.Sprintf("Nothing logged on %s.", date), nil)
	}
	if err := h.deps.Tracker.DeleteDay(ctx, date); err != nil {
		return h.replyError(chatID, err)
	}
	return h.send(chatID, fmt.Sprintf("🗑️ %s cleared.", date), keyboards.BackToMenu())
}
