package domain

import (
	"sort"
	"strings"
)

type WeightUnit string

const (
	UnitKg  WeightUnit = "kg"
	UnitLbs WeightUnit = "lbs"
)

// PRUnit is the unit of a personal record value.
type PRUnit string

const (
	PRUnitKg   PRUnit = "kg"
	PRUnitLbs  PRUnit = "lbs"
	PRUnitReps PRUnit = "reps"
	PRUnitTime PRUnit = "time"
)

type GoalType string

const (
	GoalWeightLift GoalType = "weightLift"
	GoalBodyWeight GoalType = "bodyWeight"
	GoalGeneric    GoalType = "generic"
)

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// Exercise is a single logged movement within a day
type Exercise struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// PersonalRecord is a best-effort value logged for a named exercise
type PersonalRecord struct {
	ID           string  `json:"id"`
	ExerciseName string  `json:"exerciseName"`
	Value        float64 `json:"value"`
	Unit         PRUnit  `json:"unit"`
}

// DayRecord holds everything logged for one calendar date
type DayRecord struct {
	Title           string           `json:"title"`
	Exercises       []Exercise       `json:"exercises"`
	Calories        int              `json:"calories"`
	Protein         *int             `json:"protein,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	IsRestDay       bool             `json:"isRestDay,omitempty"`
	BurnedCalories  *int             `json:"burnedCalories,omitempty"`
	PersonalRecords []PersonalRecord `json:"personalRecords,omitempty"`
}

// IsWorkout reports whether at least one exercise was logged.
func (d DayRecord) IsWorkout() bool {
	return len(d.Exercises) > 0
}

// IsEffectivelyEmpty reports whether the record carries no user data and
// should be removed rather than stored.
func (d DayRecord) IsEffectivelyEmpty() bool {
	return strings.TrimSpace(d.Title) == "" &&
		d.Calories == 0 &&
		d.ProteinValue() == 0 &&
		len(d.Exercises) == 0 &&
		len(d.PersonalRecords) == 0 &&
		strings.TrimSpace(d.Notes) == "" &&
		!d.IsRestDay
}

func (d DayRecord) ProteinValue() int {
	if d.Protein == nil {
		return 0
	}
	return *d.Protein
}

func (d DayRecord) BurnedValue() int {
	if d.BurnedCalories == nil {
		return 0
	}
	return *d.BurnedCalories
}

// Clone returns a deep copy so callers can mutate without touching the store.
func (d DayRecord) Clone() DayRecord {
	out := d
	if d.Exercises != nil {
		out.Exercises = append([]Exercise(nil), d.Exercises...)
	}
	if d.PersonalRecords != nil {
		out.PersonalRecords = append([]PersonalRecord(nil), d.PersonalRecords...)
	}
	if d.Protein != nil {
		v := *d.Protein
		out.Protein = &v
	}
	if d.BurnedCalories != nil {
		v := *d.BurnedCalories
		out.BurnedCalories = &v
	}
	return out
}

// DayRecords maps YYYY-MM-DD keys to day records.
type DayRecords map[string]DayRecord

// SortedDates returns the record keys in ascending order.
func (r DayRecords) SortedDates() []string {
	dates := make([]string, 0, len(r))
	for date := range r {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// WeightHistory maps YYYY-MM-DD keys to a body weight in the settings unit.
type WeightHistory map[string]float64

// Goal is a tracked target value
type Goal struct {
	ID           string   `json:"id"`
	Type         GoalType `json:"type"`
	Description  string   `json:"description"`
	TargetValue  float64  `json:"targetValue"`
	StartValue   float64  `json:"startValue"`
	CurrentValue float64  `json:"currentValue"`
	Unit         string   `json:"unit"`
	TargetDate   string   `json:"targetDate,omitempty"`
	CreatedAt    string   `json:"createdAt"`
	IsCompleted  bool     `json:"isCompleted"`
}

// Achievement is an immutable log entry
type Achievement struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Date string `json:"date"`
}

type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ProgressPhoto stores an image as a data URL, the same way it is exported.
type ProgressPhoto struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	ImageDataURL string `json:"imageDataUrl"`
	MimeType     string `json:"mimeType"`
}

// Settings is the user profile and preferences
type Settings struct {
	CalorieGoal       int        `json:"calorieGoal"`
	ProteinGoal       int        `json:"proteinGoal"`
	UserName          string     `json:"userName"`
	Age               *int       `json:"age,omitempty"`
	Gender            Gender     `json:"gender,omitempty"`
	MembershipExpiry  string     `json:"membershipExpiry,omitempty"`
	WeightUnit        WeightUnit `json:"weightUnit"`
	BodyWeight        float64    `json:"bodyWeight"`
	ActiveLightTheme  string     `json:"activeLightTheme"`
	ActiveDarkTheme   string     `json:"activeDarkTheme"`
	PreferredRestDays []int      `json:"preferredRestDays"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		CalorieGoal:       2000,
		ProteinGoal:       150,
		UserName:          "Champ",
		WeightUnit:        UnitKg,
		BodyWeight:        0,
		ActiveLightTheme:  "theme-light-default",
		ActiveDarkTheme:   "theme-dark-default",
		PreferredRestDays: []int{0},
	}
}

// RestDaySet returns PreferredRestDays as a lookup set.
func (s Settings) RestDaySet() map[int]bool {
	set := make(map[int]bool, len(s.PreferredRestDays))
	for _, d := range s.PreferredRestDays {
		set[d] = true
	}
	return set
}
