package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/keyboards"
	"github.com/vladimiradmaev/reprocket/internal/bot/menus"
	"github.com/vladimiradmaev/reprocket/internal/bot/state"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/logger"
	"github.com/vladimiradmaev/reprocket/internal/services"
	"github.com/vladimiradmaev/reprocket/internal/stats"
)

const (
	coachEditInterval  = 1500 * time.Millisecond
	weightHistoryLimit = 10
	// Bots can download files up to 20 MB.
	maxDownloadSize = 20 << 20
)

const helpText = `🚀 RepRocket commands

Day log (add a YYYY-MM-DD or "yesterday" first to edit another day):
/today - show the day
/log <exercise> <sets>x<reps> [weight] - add an exercise
/calories <n>, /protein <n>, /burned <n> - nutrition
/title <text> - name the workout
/daynote <text> - note on the day
/rest - toggle rest day
/pr <exercise> <value> [kg|lbs|reps|time] - personal record
/clear - delete the day

Progress:
/streak - current workout streak
/stats [YYYY-MM] - monthly dashboard
/missed [this_week|this_month|3_months|6_months|1_year] or /missed <start> <end>
/weight [value] - log or show body weight
/goals, /goal <lift|body|generic> <start> <target> <description> [by YYYY-MM-DD]
/achieve <text>, /achievements
/history <exercise> - personal record history
/notes, /addnote, /delnote <id>
/photo - how to add progress photos

AI:
/coach [question] - ask the AI coach
/estimate [date] - estimate calories burned

Data:
/export - JSON backup and CSV of workouts
/import - restore a JSON backup
/settings, /set <field> <value>`

func (r *responder) send(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, clip(text))
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := r.api.Send(msg)
	return err
}

func userMessage(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.UserMessage()
	}
	return "Something went wrong. Please try again."
}

// replyError shows err to the user. Anything other than an input mistake
// is logged.
func (r *responder) replyError(chatID int64, err error) error {
	appErr, ok := apperrors.As(err)
	switch {
	case !ok:
		logger.Error("Request failed", "chat_id", chatID, "error", err)
	case appErr.Type != apperrors.ErrorTypeValidation && appErr.Type != apperrors.ErrorTypeNotFound:
		logger.Error("Request failed", append(appErr.LogFields(), "chat_id", chatID)...)
	}
	return r.send(chatID, "⚠️ "+userMessage(err), nil)
}

// usage replies with a parse error, which already reads as instructions.
func (r *responder) usage(chatID int64, err error) error {
	return r.send(chatID, "⚠️ "+err.Error(), nil)
}

func (r *responder) showMainMenu(chatID int64) error {
	return menus.SendMainMenu(r.api, chatID, r.deps.Settings.Get().UserName)
}

func (r *responder) showHelp(chatID int64) error {
	return r.send(chatID, helpText, keyboards.BackToMenu())
}

func (r *responder) showSettings(chatID int64) error {
	return menus.SendSettingsMenu(r.api, chatID, r.deps.Settings.Get())
}

func (r *responder) dayText(date string) string {
	rec, ok := r.deps.Tracker.Day(date)
	return FormatDay(date, rec, ok, r.deps.Settings.Get())
}

func (r *responder) showDay(chatID int64, date string) error {
	return r.send(chatID, r.dayText(date), keyboards.BackToMenu())
}

// dayUpdated reports the outcome of a day mutation. A quota error leaves
// the change in memory, so the day is still shown after the warning.
func (r *responder) dayUpdated(chatID int64, date string, res services.SaveResult, err error) error {
	if err != nil {
		if sendErr := r.replyError(chatID, err); sendErr != nil || !errors.Is(err, apperrors.ErrStorageQuotaExceeded) {
			return sendErr
		}
	}
	if res.Deleted {
		return r.send(chatID, fmt.Sprintf("🗑️ %s cleared.", date), keyboards.BackToMenu())
	}

	text := r.dayText(date)
	if res.CalorieGoalReached {
		text += "\n\n🎉 Calorie goal reached! Great job fueling up."
	}
	return r.send(chatID, text, keyboards.BackToMenu())
}

func (r *responder) showStats(chatID int64, year int, month time.Month) error {
	d := r.deps.Stats.Dashboard(year, month)
	var latest *services.WeightEntry
	if e, ok := r.deps.Weights.Latest(); ok {
		latest = &e
	}
	return r.send(chatID, FormatDashboard(d, r.deps.Settings.Get(), latest), keyboards.BackToMenu())
}

func (r *responder) showGoals(chatID int64) error {
	today := r.deps.Tracker.Today()
	views := r.deps.Stats.Dashboard(today.Year(), today.Month()).Goals
	return r.send(chatID, FormatGoals(views), keyboards.GoalsMenu(r.deps.Tracker.Snapshot().Goals))
}

func (r *responder) showMissed(chatID int64, preset stats.RangePreset, start, end *time.Time) error {
	m, err := r.deps.Stats.MissedDays(preset, start, end)
	if err != nil {
		return r.replyError(chatID, err)
	}
	return r.send(chatID, FormatMissed(m), keyboards.MissedRangeMenu())
}

func (r *responder) aiDisabled(chatID int64) error {
	return r.send(chatID, "🤖 AI features are off. Set GEMINI_API_KEY or OPENAI_API_KEY to enable them.", keyboards.BackToMenu())
}

func (r *responder) editText(chatID int64, messageID int, text string) error {
	_, err := r.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, clip(text)))
	return err
}

// runCoach streams advice into a single message, editing it as chunks
// arrive.
func (r *responder) runCoach(ctx context.Context, chatID int64, question string) error {
	if !r.deps.AI.Enabled() {
		return r.aiDisabled(chatID)
	}

	placeholder, err := r.api.Send(tgbotapi.NewMessage(chatID, "🤖 Thinking…"))
	if err != nil {
		return err
	}

	stream, err := r.deps.AI.StreamAdvice(ctx, question)
	if err != nil {
		logger.Warn("Coach request failed", "error", err)
		return r.editText(chatID, placeholder.MessageID, "⚠️ "+userMessage(err))
	}
	defer stream.Close()

	var sb strings.Builder
	var shown string
	lastEdit := time.Now()
	var streamErr error
	for {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		sb.WriteString(chunk)

		if time.Since(lastEdit) >= coachEditInterval && strings.TrimSpace(sb.String()) != "" {
			if err := r.editText(chatID, placeholder.MessageID, sb.String()); err != nil {
				logger.Warn("Failed to update coach message", "error", err)
			} else {
				shown = sb.String()
			}
			lastEdit = time.Now()
		}
	}

	text := sb.String()
	if streamErr != nil {
		logger.Warn("Coach stream interrupted", "error", streamErr)
		text += "\n\n⚠️ " + userMessage(streamErr)
	}
	if strings.TrimSpace(text) == "" {
		text = "🤖 The coach had nothing to say. Try rephrasing your question."
	}
	if text == shown {
		return nil
	}
	return r.editText(chatID, placeholder.MessageID, text)
}

// startEstimate asks the AI for the calories burned on date and keeps the
// result until the user confirms it.
func (r *responder) startEstimate(ctx context.Context, chatID, userID int64, date string) error {
	if !r.deps.AI.Enabled() {
		return r.aiDisabled(chatID)
	}

	burned, err := r.deps.Estimates.Estimate(ctx, date)
	if err != nil {
		return r.replyError(chatID, err)
	}

	r.stateManager.SetTempData(userID, state.KeyEstimateDate, date)
	r.stateManager.SetTempData(userID, state.KeyEstimateBurned, burned)
	return r.send(chatID,
		fmt.Sprintf("🔥 Estimated burn for %s: ~%d kcal\nSave it to the day?", date, burned),
		keyboards.EstimateConfirm())
}

func (r *responder) applyEstimate(ctx context.Context, chatID, userID int64) error {
	dateVal, okDate := r.stateManager.GetTempData(userID, state.KeyEstimateDate)
	burnedVal, okBurned := r.stateManager.GetTempData(userID, state.KeyEstimateBurned)
	r.stateManager.ClearTempData(userID)

	date, _ := dateVal.(string)
	burned, okInt := tempInt(burnedVal)
	if !okDate || !okBurned || !okInt || date == "" {
		return r.send(chatID, "This estimate has expired. Run /estimate again.", keyboards.BackToMenu())
	}

	if err := r.deps.Estimates.Apply(ctx, date, burned); err != nil {
		if sendErr := r.replyError(chatID, err); sendErr != nil || !errors.Is(err, apperrors.ErrStorageQuotaExceeded) {
			return sendErr
		}
	}
	return r.send(chatID, "✅ Saved.\n\n"+r.dayText(date), keyboards.BackToMenu())
}

// tempInt reads a number back from temp data. The Redis manager returns
// JSON numbers as float64.
func tempInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func (r *responder) sendExport(chatID int64) error {
	today := r.deps.Tracker.Today()

	data, err := r.deps.Backup.ExportJSON()
	if err != nil {
		return r.replyError(chatID, err)
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: services.BackupFileName(today), Bytes: data})
	doc.Caption = "💾 Full backup. Send it back after /import to restore."
	if _, err := r.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send backup: %w", err)
	}

	csv := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: services.WorkoutsFileName(today), Bytes: r.deps.Backup.ExportCSV()})
	csv.Caption = "📄 Workouts as CSV"
	if _, err := r.api.Send(csv); err != nil {
		return fmt.Errorf("failed to send workouts csv: %w", err)
	}
	return nil
}

// download fetches a file the user sent to the bot.
func (r *responder) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := r.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := r.deps.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("file is larger than %d bytes", maxDownloadSize)
	}
	return data, nil
}
