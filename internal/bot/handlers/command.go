package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/keyboards"
	"github.com/vladimiradmaev/reprocket/internal/bot/menus"
	"github.com/vladimiradmaev/reprocket/internal/bot/state"
	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	*responder
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api API, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{responder: newResponder(api, deps, stateManager)}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID
	args := strings.Fields(message.CommandArguments())
	logger.Info("Handling command", "command", message.Command(), "user_id", userID)

	// Any command abandons a pending conversation step.
	h.stateManager.SetUserState(userID, state.None)

	switch message.Command() {
	case "start":
		return h.handleStart(ctx, chatID)
	case "menu":
		return h.showMainMenu(chatID)
	case "help":
		return h.showHelp(chatID)
	case "cancel":
		h.stateManager.ClearTempData(userID)
		return h.send(chatID, "Cancelled.", keyboards.BackToMenu())

	case "today", "day":
		date, _ := splitDate(args, h.deps.Tracker.Today())
		return h.showDay(chatID, date)
	case "log":
		return h.handleLog(ctx, chatID, args)
	case "calories", "protein", "burned":
		return h.handleNutrition(ctx, chatID, message.Command(), args)
	case "title":
		return h.handleTitle(ctx, chatID, args)
	case "daynote":
		return h.handleDayNote(ctx, chatID, args)
	case "rest":
		return h.handleRest(ctx, chatID, args)
	case "pr":
		return h.handlePersonalRecord(ctx, chatID, args)
	case "clear":
		return h.handleClear(ctx, chatID, args)

	case "streak":
		n := h.deps.Stats.Streak()
		return h.send(chatID, fmt.Sprintf("🔥 Streak: %d day%s", n, plural(n)), keyboards.BackToMenu())
	case "stats":
		return h.handleStats(chatID, args)
	case "missed":
		return h.handleMissed(chatID, args)
	case "weight":
		return h.handleWeight(ctx, chatID, userID, args)
	case "goals":
		return h.showGoals(chatID)
	case "goal":
		return h.handleGoal(ctx, chatID, args)
	case "achieve":
		return h.handleAchieve(ctx, chatID, args)
	case "achievements":
		return h.send(chatID, FormatAchievements(h.deps.Tracker.Snapshot().Achievements), keyboards.BackToMenu())
	case "history":
		return h.handleHistory(chatID, args)
	case "notes":
		return h.send(chatID, FormatNotes(h.deps.Tracker.Snapshot().Notes), keyboards.BackToMenu())
	case "addnote":
		return h.handleAddNote(ctx, chatID, userID, message.CommandArguments())
	case "delnote":
		return h.handleDeleteNote(ctx, chatID, args)
	case "photo":
		return h.send(chatID, "📸 Send a photo to save it as a progress photo. Put a YYYY-MM-DD date in the caption to file it under another day.", nil)

	case "coach":
		return h.handleCoach(ctx, chatID, userID, message.CommandArguments())
	case "estimate":
		date, _ := splitDate(args, h.deps.Tracker.Today())
		return h.startEstimate(ctx, chatID, userID, date)

	case "export":
		return h.sendExport(chatID)
	case "import":
		h.stateManager.SetUserState(userID, state.WaitingForImport)
		return h.send(chatID, "📥 Send the JSON backup file. Importing replaces all current data.\n/cancel to stop.", nil)
	case "settings":
		return h.showSettings(chatID)
	case "set":
		return h.handleSet(ctx, chatID, args)

	default:
		return h.handleUnknownCommand(chatID)
	}
}

// handleStart greets first-time users before showing the menu.
func (h *CommandHandler) handleStart(ctx context.Context, chatID int64) error {
	if !h.deps.Tracker.Snapshot().OnboardingComplete {
		welcome := "👋 Welcome to RepRocket!\n\n" +
			"Set up your profile any time:\n" +
			"/set name <your name>\n" +
			"/set calories 2200\n" +
			"/set protein 160\n" +
			"/set unit kg|lbs\n" +
			"/set restdays sun"
		if err := h.send(chatID, welcome, nil); err != nil {
			return err
		}
		if err := h.deps.Tracker.CompleteOnboarding(ctx); err != nil {
			logger.Warn("Failed to save onboarding state", "error", err)
		}
	}
	return h.showMainMenu(chatID)
}

func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	return h.send(chatID, "Unknown command. Use /help to see what I can do.", nil)
}

func (h *CommandHandler) handleStats(chatID int64, args []string) error {
	today := h.deps.Tracker.Today()
	year, month := today.Year(), today.Month()
	if len(args) > 0 {
		var err error
		if year, month, err = ParseMonth(args[0]); err != nil {
			return h.usage(chatID, err)
		}
	}
	return h.showStats(chatID, year, month)
}

func (h *CommandHandler) handleMissed(chatID int64, args []string) error {
	preset, start, end, err := ParseMissedArgs(args)
	if err != nil {
		return h.usage(chatID, err)
	}
	return h.showMissed(chatID, preset, start, end)
}

// handleWeight logs a weight, or shows the history and waits for one.
func (h *CommandHandler) handleWeight(ctx context.Context, chatID, userID int64, args []string) error {
	unit := h.deps.Settings.Get().WeightUnit
	if len(args) == 0 {
		h.stateManager.SetUserState(userID, state.WaitingForWeight)
		text := FormatWeights(h.deps.Weights.History(), unit, weightHistoryLimit)
		return h.send(chatID, text+"\n\nSend today's weight to log it, or /cancel.", nil)
	}

	date, rest := splitDate(args, h.deps.Tracker.Today())
	if len(rest) != 1 {
		return h.send(chatID, "⚠️ usage: /weight [YYYY-MM-DD] <value>", nil)
	}
	return h.logWeight(ctx, chatID, date, rest[0])
}

func (r *responder) logWeight(ctx context.Context, chatID int64, date, raw string) error {
	value, err := parseNumber(raw)
	if err != nil || value <= 0 {
		return r.send(chatID, fmt.Sprintf("⚠️ %q is not a valid weight. Example: 80.5", raw), nil)
	}
	day, err := calendar.Parse(date)
	if err != nil {
		return r.replyError(chatID, err)
	}
	if err := r.deps.Weights.Log(ctx, day, value); err != nil {
		return r.replyError(chatID, err)
	}
	unit := r.deps.Settings.Get().WeightUnit
	return r.send(chatID, fmt.Sprintf("⚖️ Logged %s %s for %s", formatNumber(value), unit, date), keyboards.BackToMenu())
}

func (h *CommandHandler) handleGoal(ctx context.Context, chatID int64, args []string) error {
	g, err := ParseGoal(args, h.deps.Settings.Get().WeightUnit)
	if err != nil {
		return h.usage(chatID, err)
	}
	if _, err := h.deps.Tracker.AddGoal(ctx, g); err != nil {
		return h.replyError(chatID, err)
	}
	return h.showGoals(chatID)
}

func (h *CommandHandler) handleAchieve(ctx context.Context, chatID int64, args []string) error {
	date, rest := splitDate(args, h.deps.Tracker.Today())
	a, err := h.deps.Tracker.AddAchievement(ctx, strings.Join(rest, " "), date)
	if err != nil {
		return h.replyError(chatID, err)
	}
	return h.send(chatID, fmt.Sprintf("🏅 Achievement logged for %s: %s", a.Date, a.Text), keyboards.BackToMenu())
}

func (h *CommandHandler) handleHistory(chatID int64, args []string) error {
	if len(args) == 0 {
		return h.send(chatID, "⚠️ usage: /history <exercise>", nil)
	}
	exercise := strings.Join(args, " ")
	points := h.deps.Stats.PersonalRecordHistory(exercise)
	if len(points) == 0 {
		return h.send(chatID, fmt.Sprintf("🏆 No personal records for %s yet.", exercise), nil)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏆 %s\n", exercise)
	for _, p := range points {
		fmt.Fprintf(&sb, "\n%s  %s %s", p.Date, formatNumber(p.Value), p.Unit)
	}
	return h.send(chatID, sb.String(), keyboards.BackToMenu())
}

func (h *CommandHandler) handleAddNote(ctx context.Context, chatID, userID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		h.stateManager.SetUserState(userID, state.WaitingForNote)
		return h.send(chatID, "📝 Send the note. The first line becomes its title.\n/cancel to stop.", nil)
	}
	return h.saveNote(ctx, chatID, text)
}

func (r *responder) saveNote(ctx context.Context, chatID int64, text string) error {
	title, content := splitNote(text)
	n, err := r.deps.Tracker.AddNote(ctx, title, content)
	if err != nil {
		return r.replyError(chatID, err)
	}
	return r.send(chatID, fmt.Sprintf("📝 Saved note %q", n.Title), keyboards.BackToMenu())
}

func (h *CommandHandler) handleDeleteNote(ctx context.Context, chatID int64, args []string) error {
	if len(args) != 1 {
		return h.send(chatID, "⚠️ usage: /delnote <id> (ids are listed by /notes)", nil)
	}
	if err := h.deps.Tracker.DeleteNote(ctx, args[0]); err != nil {
		return h.replyError(chatID, err)
	}
	return h.send(chatID, "🗑️ Note deleted.", keyboards.BackToMenu())
}

func (h *CommandHandler) handleCoach(ctx context.Context, chatID, userID int64, question string) error {
	if strings.TrimSpace(question) == "" {
		if !h.deps.AI.Enabled() {
			return h.aiDisabled(chatID)
		}
		h.stateManager.SetUserState(userID, state.WaitingForCoach)
		return h.send(chatID, "🤖 What would you like to ask your coach?\n/cancel to stop.", nil)
	}
	return h.runCoach(ctx, chatID, question)
}

// handleSet changes one settings field: /set <field> <value>.
func (h *CommandHandler) handleSet(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 2 {
		return h.showSettings(chatID)
	}
	apply, err := settingUpdate(strings.ToLower(args[0]), strings.Join(args[1:], " "))
	if err != nil {
		return h.usage(chatID, err)
	}
	s, err := h.deps.Settings.Update(ctx, apply)
	if err != nil {
		return h.replyError(chatID, err)
	}
	return h.send(chatID, "✅ Saved.\n\n"+menus.FormatSettings(s), keyboards.BackToMenu())
}

// settingUpdate parses value for field into a settings mutation. Range
// checks are left to the settings service.
func settingUpdate(field, value string) (func(*domain.Settings), error) {
	switch field {
	case "name":
		return func(s *domain.Settings) { s.UserName = value }, nil
	case "calories":
		n, err := parseNonNegativeInt(value)
		if err != nil {
			return nil, err
		}
		return func(s *domain.Settings) { s.CalorieGoal = n }, nil
	case "protein":
		n, err := parseNonNegativeInt(value)
		if err != nil {
			return nil, err
		}
		return func(s *domain.Settings) { s.ProteinGoal = n }, nil
	case "unit":
		unit := domain.WeightUnit(strings.ToLower(value))
		return func(s *domain.Settings) { s.WeightUnit = unit }, nil
	case "bodyweight":
		v, err := parseNumber(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", value)
		}
		return func(s *domain.Settings) { s.BodyWeight = v }, nil
	case "age":
		if strings.EqualFold(value, "none") {
			return func(s *domain.Settings) { s.Age = nil }, nil
		}
		n, err := parseNonNegativeInt(value)
		if err != nil {
			return nil, err
		}
		return func(s *domain.Settings) { s.Age = &n }, nil
	case "gender":
		g := domain.Gender(strings.ToLower(value))
		return func(s *domain.Settings) { s.Gender = g }, nil
	case "membership":
		if strings.EqualFold(value, "none") {
			return func(s *domain.Settings) { s.MembershipExpiry = "" }, nil
		}
		return func(s *domain.Settings) { s.MembershipExpiry = value }, nil
	case "restdays":
		days, err := ParseRestDays(value)
		if err != nil {
			return nil, err
		}
		return func(s *domain.Settings) { s.PreferredRestDays = days }, nil
	default:
		return nil, fmt.Errorf("unknown setting %q. Try name, calories, protein, unit, bodyweight, age, gender, membership or restdays", field)
	}
}
