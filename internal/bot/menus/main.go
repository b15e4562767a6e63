package menus

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/reprocket/internal/bot/keyboards"
	"github.com/vladimiradmaev/reprocket/internal/domain"
)

// Sender is the part of the Telegram client menus need.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64, userName string) error {
	text := fmt.Sprintf(`🚀 *RepRocket*, let's go, %s!

Log workouts, meals and weight right here:
• /log Bench Press 3x8 80 - add an exercise
• /calories 2100 - set today's intake
• /rest - mark today as a rest day

Choose an action:`, userName)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendSettingsMenu sends the current settings to a chat
func SendSettingsMenu(api Sender, chatID int64, s domain.Settings) error {
	msg := tgbotapi.NewMessage(chatID, FormatSettings(s))
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := api.Send(msg)
	return err
}

// FormatSettings renders settings along with the /set command for each field.
func FormatSettings(s domain.Settings) string {
	var sb strings.Builder
	sb.WriteString("⚙️ Settings\n\n")
	fmt.Fprintf(&sb, "Name: %s  (/set name <text>)\n", s.UserName)
	fmt.Fprintf(&sb, "Calorie goal: %d kcal  (/set calories <n>)\n", s.CalorieGoal)
	fmt.Fprintf(&sb, "Protein goal: %d g  (/set protein <n>)\n", s.ProteinGoal)
	fmt.Fprintf(&sb, "Weight unit: %s  (/set unit kg|lbs)\n", s.WeightUnit)
	if s.BodyWeight > 0 {
		fmt.Fprintf(&sb, "Body weight: %g %s  (/set bodyweight <n>)\n", s.BodyWeight, s.WeightUnit)
	}
	if s.Age != nil {
		fmt.Fprintf(&sb, "Age: %d  (/set age <n>)\n", *s.Age)
	}
	if s.MembershipExpiry != "" {
		fmt.Fprintf(&sb, "Membership expires: %s  (/set membership YYYY-MM-DD)\n", s.MembershipExpiry)
	}

	days := make([]string, 0, len(s.PreferredRestDays))
	for _, d := range s.PreferredRestDays {
		days = append(days, time.Weekday(d).String()[:3])
	}
	rest := "none"
	if len(days) > 0 {
		rest = strings.Join(days, ", ")
	}
	fmt.Fprintf(&sb, "Rest days: %s  (/set restdays 0,6)\n", rest)
	return sb.String()
}
