package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/services"
)

// Telegram rejects messages above this many characters.
const maxMessageLength = 4096

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// progressBar renders percent (0..100) as ten blocks.
func progressBar(percent float64) string {
	filled := int(math.Round(percent / 10))
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// FormatDay renders one day record.
func FormatDay(date string, rec domain.DayRecord, ok bool, s domain.Settings) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %s", date)
	if rec.Title != "" {
		fmt.Fprintf(&sb, " · %s", rec.Title)
	}
	sb.WriteString("\n\n")

	if !ok {
		sb.WriteString("Nothing logged yet.\nUse /log, /calories or /rest to start.")
		return sb.String()
	}

	if rec.IsRestDay {
		sb.WriteString("😴 Rest day\n")
	}
	if len(rec.Exercises) > 0 {
		sb.WriteString("🏋️ Exercises:\n")
		for _, ex := range rec.Exercises {
			fmt.Fprintf(&sb, "• %s %d×%d", ex.Name, ex.Sets, ex.Reps)
			if ex.Weight > 0 {
				fmt.Fprintf(&sb, " @ %s %s", formatNumber(ex.Weight), s.WeightUnit)
			}
			sb.WriteByte('\n')
		}
	}

	fmt.Fprintf(&sb, "🍽️ Calories: %d / %d kcal\n", rec.Calories, s.CalorieGoal)
	if rec.Protein != nil {
		fmt.Fprintf(&sb, "🥩 Protein: %d / %d g\n", *rec.Protein, s.ProteinGoal)
	}
	if rec.BurnedCalories != nil {
		fmt.Fprintf(&sb, "🔥 Burned: %d kcal\n", *rec.BurnedCalories)
	}
	if len(rec.PersonalRecords) > 0 {
		sb.WriteString("🏆 Personal records:\n")
		for _, pr := range rec.PersonalRecords {
			fmt.Fprintf(&sb, "• %s %s %s\n", pr.ExerciseName, formatNumber(pr.Value), pr.Unit)
		}
	}
	if rec.Notes != "" {
		fmt.Fprintf(&sb, "📝 %s\n", rec.Notes)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatGoal renders a goal with its progress bar and deadline.
func FormatGoal(v services.GoalView) string {
	g := v.Goal
	mark := "🎯"
	if g.IsCompleted {
		mark = "✅"
	}
	line := fmt.Sprintf("%s %s\n%s %.0f%%  (%s → %s", mark, g.Description, progressBar(v.Percent), v.Percent,
		formatNumber(g.CurrentValue), formatNumber(g.TargetValue))
	if g.Unit != "" {
		line += " " + g.Unit
	}
	line += ")"
	if d := v.Deadline.String(); d != "" {
		line += "\n⏳ " + d
	}
	return line
}

// FormatGoals renders the goal list, open goals first.
func FormatGoals(goals []services.GoalView) string {
	if len(goals) == 0 {
		return "🎯 No goals yet.\nAdd one with /goal lift 80 100 Bench Press by 2025-06-01"
	}

	var open, done []string
	for _, v := range goals {
		if v.Goal.IsCompleted {
			done = append(done, FormatGoal(v))
		} else {
			open = append(open, FormatGoal(v))
		}
	}
	return "🎯 Goals\n\n" + strings.Join(append(open, done...), "\n\n")
}

// FormatDashboard renders the monthly overview.
func FormatDashboard(d services.Dashboard, s domain.Settings, latest *services.WeightEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %s %d\n\n", d.Month, d.Year)
	fmt.Fprintf(&sb, "🔥 Streak: %d day%s\n", d.Streak, plural(d.Streak))
	fmt.Fprintf(&sb, "🏋️ Gym days (all time): %d\n", d.GymDays)
	fmt.Fprintf(&sb, "💪 Exercises this month: %d\n", d.Summary.TotalExercises)
	fmt.Fprintf(&sb, "🍽️ Avg calories: %d kcal (goal %d)\n", d.Summary.AvgCalories, s.CalorieGoal)

	var workoutDays, goalDays, tracked int
	for _, p := range d.Exercise {
		if p.Exercises > 0 {
			workoutDays++
		}
	}
	for _, p := range d.Nutrition {
		if p.Intake > 0 {
			tracked++
			if p.Intake >= p.Goal {
				goalDays++
			}
		}
	}
	fmt.Fprintf(&sb, "📅 Workout days this month: %d\n", workoutDays)
	if tracked > 0 {
		fmt.Fprintf(&sb, "🎯 Calorie goal hit: %d of %d tracked days\n", goalDays, tracked)
	}
	if latest != nil {
		fmt.Fprintf(&sb, "⚖️ Weight: %s %s (%s)\n", formatNumber(latest.Value), s.WeightUnit, latest.Date)
	}

	var open int
	for _, g := range d.Goals {
		if !g.Goal.IsCompleted {
			open++
		}
	}
	if open > 0 {
		fmt.Fprintf(&sb, "🎯 Open goals: %d (/goals)\n", open)
	}
	if len(d.PRExercises) > 0 {
		fmt.Fprintf(&sb, "🏆 PRs tracked: %s\n", strings.Join(d.PRExercises, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatMissed renders a missed days count for a window.
func FormatMissed(m services.MissedDays) string {
	if m.Count == 0 {
		return fmt.Sprintf("📉 %s: no missed days. Keep it up! 💪", m.Range.Label)
	}
	return fmt.Sprintf("📉 %s: %d missed day%s", m.Range.Label, m.Count, plural(m.Count))
}

// FormatWeights renders the most recent weight entries.
func FormatWeights(history []services.WeightEntry, unit domain.WeightUnit, limit int) string {
	if len(history) == 0 {
		return "⚖️ No weight logged yet. Send /weight 80.5"
	}
	if len(history) > limit {
		history = history[:limit]
	}

	var sb strings.Builder
	sb.WriteString("⚖️ Weight history\n\n")
	for i, e := range history {
		fmt.Fprintf(&sb, "%s  %s %s", e.Date, formatNumber(e.Value), unit)
		if i+1 < len(history) {
			diff := e.Value - history[i+1].Value
			if diff != 0 {
				fmt.Fprintf(&sb, "  (%+.1f)", diff)
			}
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatNotes renders note titles with their ids for /delnote.
func FormatNotes(notes []domain.Note) string {
	if len(notes) == 0 {
		return "📝 No notes yet. Use /addnote to write one."
	}
	var sb strings.Builder
	sb.WriteString("📝 Notes\n")
	for _, n := range notes {
		fmt.Fprintf(&sb, "\n• %s", n.Title)
		if n.Content != "" {
			fmt.Fprintf(&sb, "\n  %s", strings.ReplaceAll(n.Content, "\n", "\n  "))
		}
		fmt.Fprintf(&sb, "\n  /delnote %s", n.ID)
	}
	return sb.String()
}

// FormatAchievements renders the achievement log, newest first.
func FormatAchievements(list []domain.Achievement) string {
	if len(list) == 0 {
		return "🏅 No achievements yet. Log one with /achieve <text>"
	}
	var sb strings.Builder
	sb.WriteString("🏅 Achievements\n")
	for _, a := range list {
		fmt.Fprintf(&sb, "\n%s  %s", a.Date, a.Text)
	}
	return sb.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// clip keeps text within a single Telegram message.
func clip(text string) string {
	r := []rune(text)
	if len(r) <= maxMessageLength {
		return text
	}
	return string(r[:maxMessageLength-1]) + "…"
}
