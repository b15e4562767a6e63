package menus

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/reprocket/internal/domain"
)

type recordingSender struct {
	sent []tgbotapi.Chattable
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c)
	return tgbotapi.Message{MessageID: len(r.sent)}, nil
}

func TestFormatSettings(t *testing.T) {
	s := domain.DefaultSettings()
	s.PreferredRestDays = []int{0, 6}

	text := FormatSettings(s)
	assert.Contains(t, text, "Name: Champ")
	assert.Contains(t, text, "Calorie goal: 2000 kcal")
	assert.Contains(t, text, "Rest days: Sun, Sat")
	assert.NotContains(t, text, "Body weight")

	s.PreferredRestDays = nil
	assert.Contains(t, FormatSettings(s), "Rest days: none")
}

func TestSendMainMenu(t *testing.T) {
	sender := &recordingSender{}
	require.NoError(t, SendMainMenu(sender, 42, "Sam"))

	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "let's go, Sam!")
	assert.NotNil(t, msg.ReplyMarkup)
}
