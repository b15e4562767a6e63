package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	"github.com/vladimiradmaev/reprocket/internal/stats"
)

var setsRepsPattern = regexp.MustCompile(`^(\d+)[xX×](\d+)$`)

// splitDate pulls an optional leading date ("YYYY-MM-DD", "today" or
// "yesterday") off args. Without one the date is today.
func splitDate(args []string, today time.Time) (string, []string) {
	if len(args) == 0 {
		return calendar.Key(today), args
	}
	switch strings.ToLower(args[0]) {
	case "today":
		return calendar.Key(today), args[1:]
	case "yesterday":
		return calendar.Key(calendar.AddDays(today, -1)), args[1:]
	}
	if d, err := calendar.Parse(args[0]); err == nil {
		return calendar.Key(d), args[1:]
	}
	return calendar.Key(today), args
}

// parseNumber accepts a decimal comma and a trailing unit suffix.
func parseNumber(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, suffix := range []string{"kcal", "kg", "lbs", "lb", "g"} {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func parseNonNegativeInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return v, nil
}

// ParseExercise reads "<name> <sets>x<reps> [weight]".
func ParseExercise(args []string) (domain.Exercise, error) {
	idx := -1
	for i, a := range args {
		if setsRepsPattern.MatchString(a) {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return domain.Exercise{}, fmt.Errorf("usage: /log <exercise> <sets>x<reps> [weight]")
	}

	m := setsRepsPattern.FindStringSubmatch(args[idx])
	sets, _ := strconv.Atoi(m[1])
	reps, _ := strconv.Atoi(m[2])
	ex := domain.Exercise{
		Name: strings.Join(args[:idx], " "),
		Sets: sets,
		Reps: reps,
	}

	if idx+1 < len(args) {
		w, err := parseNumber(args[idx+1])
		if err != nil || w < 0 {
			return domain.Exercise{}, fmt.Errorf("weight %q is not a number", args[idx+1])
		}
		ex.Weight = w
	}
	return ex, nil
}

// ParsePersonalRecord reads "<exercise> <value> [kg|lbs|reps|time]".
func ParsePersonalRecord(args []string, defaultUnit domain.WeightUnit) (domain.PersonalRecord, error) {
	usage := fmt.Errorf("usage: /pr <exercise> <value> [kg|lbs|reps|time]")
	if len(args) < 2 {
		return domain.PersonalRecord{}, usage
	}

	unit := domain.PRUnit(defaultUnit)
	switch u := domain.PRUnit(strings.ToLower(args[len(args)-1])); u {
	case domain.PRUnitKg, domain.PRUnitLbs, domain.PRUnitReps, domain.PRUnitTime:
		unit = u
		args = args[:len(args)-1]
	}
	if len(args) < 2 {
		return domain.PersonalRecord{}, usage
	}

	value, err := parseNumber(args[len(args)-1])
	if err != nil || value <= 0 {
		return domain.PersonalRecord{}, usage
	}
	return domain.PersonalRecord{
		ExerciseName: strings.Join(args[:len(args)-1], " "),
		Value:        value,
		Unit:         unit,
	}, nil
}

var goalTypeAliases = map[string]domain.GoalType{
	"lift":       domain.GoalWeightLift,
	"weightlift": domain.GoalWeightLift,
	"body":       domain.GoalBodyWeight,
	"bodyweight": domain.GoalBodyWeight,
	"weight":     domain.GoalBodyWeight,
	"generic":    domain.GoalGeneric,
	"other":      domain.GoalGeneric,
}

// ParseGoal reads "<type> <start> <target> <description> [by YYYY-MM-DD]".
// Lift and body-weight goals use the settings weight unit.
func ParseGoal(args []string, unit domain.WeightUnit) (domain.Goal, error) {
	usage := fmt.Errorf("usage: /goal <lift|body|generic> <start> <target> <description> [by YYYY-MM-DD]")
	if len(args) < 4 {
		return domain.Goal{}, usage
	}

	goalType, ok := goalTypeAliases[strings.ToLower(args[0])]
	if !ok {
		return domain.Goal{}, usage
	}
	start, err := parseNumber(args[1])
	if err != nil {
		return domain.Goal{}, usage
	}
	target, err := parseNumber(args[2])
	if err != nil {
		return domain.Goal{}, usage
	}

	desc := args[3:]
	var targetDate string
	if n := len(desc); n >= 3 && strings.EqualFold(desc[n-2], "by") {
		d, err := calendar.Parse(desc[n-1])
		if err != nil {
			return domain.Goal{}, fmt.Errorf("target date %q must be YYYY-MM-DD", desc[n-1])
		}
		targetDate = calendar.Key(d)
		desc = desc[:n-2]
	}

	g := domain.Goal{
		Type:        goalType,
		Description: strings.Join(desc, " "),
		StartValue:  start,
		TargetValue: target,
		TargetDate:  targetDate,
	}
	if goalType != domain.GoalGeneric {
		g.Unit = string(unit)
	}
	return g, nil
}

// ParseRestDays reads a comma or space separated list of weekday numbers
// (0=Sunday) or three-letter names. "none" clears the list.
func ParseRestDays(arg string) ([]int, error) {
	names := map[string]int{"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6}

	fields := strings.FieldsFunc(strings.ToLower(arg), func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 1 && fields[0] == "none" {
		return []int{}, nil
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("list rest days as 0-6 or sun..sat, or none")
	}

	days := make([]int, 0, len(fields))
	for _, f := range fields {
		if d, ok := names[f]; ok {
			days = append(days, d)
			continue
		}
		d, err := strconv.Atoi(f)
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("%q is not a weekday", f)
		}
		days = append(days, d)
	}
	return days, nil
}

// ParseMonth reads "YYYY-MM".
func ParseMonth(arg string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", arg)
	if err != nil {
		return 0, 0, fmt.Errorf("month %q must be YYYY-MM", arg)
	}
	return t.Year(), t.Month(), nil
}

// ParseMissedArgs reads either a preset name or "<start> <end>" dates.
func ParseMissedArgs(args []string) (stats.RangePreset, *time.Time, *time.Time, error) {
	switch len(args) {
	case 0:
		return stats.RangeThisMonth, nil, nil, nil
	case 1:
		preset := stats.RangePreset(strings.ToLower(args[0]))
		for _, p := range stats.RangePresets {
			if p == preset && p != stats.RangeCustom {
				return p, nil, nil, nil
			}
		}
		return "", nil, nil, fmt.Errorf("unknown range %q", args[0])
	case 2:
		start, err := calendar.Parse(args[0])
		if err != nil {
			return "", nil, nil, fmt.Errorf("start %q must be YYYY-MM-DD", args[0])
		}
		end, err := calendar.Parse(args[1])
		if err != nil {
			return "", nil, nil, fmt.Errorf("end %q must be YYYY-MM-DD", args[1])
		}
		if end.Before(start) {
			return "", nil, nil, fmt.Errorf("end date is before start date")
		}
		return stats.RangeCustom, &start, &end, nil
	default:
		return "", nil, nil, fmt.Errorf("usage: /missed [this_week|this_month|3_months|6_months|1_year] or /missed <start> <end>")
	}
}

// splitNote uses the first line as the title and the rest as the body.
func splitNote(text string) (title, content string) {
	text = strings.TrimSpace(text)
	title, content, _ = strings.Cut(text, "\n")
	return strings.TrimSpace(title), strings.TrimSpace(content)
}
