package state

// User states
const (
	None             = "none"
	WaitingForCoach  = "waiting_for_coach_question"
	WaitingForNote   = "waiting_for_note"
	WaitingForImport = "waiting_for_import"
	WaitingForWeight = "waiting_for_weight"
	WaitingForCustom = "waiting_for_custom_range"
)

// Temp data keys
const (
	KeyEstimateDate   = "estimate_date"
	KeyEstimateBurned = "estimate_burned"
)

// StateManager keeps per-chat conversation state between updates.
type StateManager interface {
	SetUserState(userID int64, state string)
	GetUserState(userID int64) string
	ClearUserState(userID int64)
	SetTempData(userID int64, key string, value interface{})
	GetTempData(userID int64, key string) (interface{}, bool)
	ClearTempData(userID int64)
}

var (
	_ StateManager = (*Manager)(nil)
	_ StateManager = (*RedisManager)(nil)
)
