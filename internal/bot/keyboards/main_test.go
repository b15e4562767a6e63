package keyboards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/reprocket/internal/domain"
)

func TestSplitCallback(t *testing.T) {
	prefix, arg := SplitCallback("goal_done:abc-123")
	assert.Equal(t, PrefixGoalDone, prefix)
	assert.Equal(t, "abc-123", arg)

	prefix, arg = SplitCallback(CallbackToday)
	assert.Equal(t, CallbackToday, prefix)
	assert.Empty(t, arg)
}

func TestGoalsMenuSkipsCompleted(t *testing.T) {
	kb := GoalsMenu([]*domain.Goal{
		{ID: "g1", Description: "Bench 100kg"},
		{ID: "g2", Description: "Done already", IsCompleted: true},
	})

	require.Len(t, kb.InlineKeyboard, 2)
	row := kb.InlineKeyboard[0]
	require.Len(t, row, 2)
	assert.Equal(t, "goal_done:g1", *row[0].CallbackData)
	assert.Equal(t, "goal_delete:g1", *row[1].CallbackData)
}

func TestMissedRangeMenu(t *testing.T) {
	kb := MissedRangeMenu()
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "missed:this_week", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "missed:custom", *kb.InlineKeyboard[1][2].CallbackData)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
