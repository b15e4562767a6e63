package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/reprocket/internal/calendar"
	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/logger"
)

// Backup is the full export document.
type Backup struct {
	AppData        domain.DayRecords      `json:"appData"`
	Settings       domain.Settings        `json:"settings"`
	Notes          []domain.Note          `json:"notes"`
	WeightHistory  domain.WeightHistory   `json:"weightHistory"`
	Goals          []*domain.Goal         `json:"goals"`
	Achievements   []domain.Achievement   `json:"achievements"`
	ProgressPhotos []domain.ProgressPhoto `json:"progressPhotos"`
}

var csvHeader = []string{"Date", "Title", "CaloriesEaten", "Protein", "CaloriesBurned", "Exercise", "Sets", "Reps", "Weight", "Unit"}

type BackupService struct {
	tracker *TrackerService
}

func NewBackupService(tracker *TrackerService) *BackupService {
	return &BackupService{tracker: tracker}
}

// BackupFileName is the JSON backup name for the given day.
func BackupFileName(day time.Time) string {
	return "reprocket-backup-" + calendar.Key(day) + ".json"
}

// WorkoutsFileName is the CSV export name for the given day.
func WorkoutsFileName(day time.Time) string {
	return "reprocket-workouts-" + calendar.Key(day) + ".csv"
}

func (s *BackupService) ExportJSON() ([]byte, error) {
	snap := s.tracker.Snapshot()
	b := Backup{
		AppData:        snap.Records,
		Settings:       snap.Settings,
		Notes:          snap.Notes,
		WeightHistory:  snap.Weights,
		Goals:          snap.Goals,
		Achievements:   snap.Achievements,
		ProgressPhotos: snap.Photos,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// ExportCSV writes one row per exercise, ordered by date. The first row of
// a day carries its summary columns. Days without exercises get one row.
func (s *BackupService) ExportCSV() []byte {
	snap := s.tracker.Snapshot()
	unit := string(snap.Settings.WeightUnit)

	var buf bytes.Buffer
	writeCSVRow(&buf, csvHeader)
	for _, date := range snap.Records.SortedDates() {
		rec := snap.Records[date]
		protein, burned := optionalInt(rec.Protein), optionalInt(rec.BurnedCalories)

		if len(rec.Exercises) == 0 {
			title := rec.Title
			if rec.IsRestDay {
				title = "Rest Day"
			}
			writeCSVRow(&buf, []string{date, title, strconv.Itoa(rec.Calories), protein, burned, "", "", "", "", ""})
			continue
		}

		for i, ex := range rec.Exercises {
			row := []string{"", "", "", "", "", ex.Name, strconv.Itoa(ex.Sets), strconv.Itoa(ex.Reps), formatNumber(ex.Weight), unit}
			if i == 0 {
				row[0], row[1], row[2], row[3], row[4] = date, rec.Title, strconv.Itoa(rec.Calories), protein, burned
			}
			writeCSVRow(&buf, row)
		}
	}
	return buf.Bytes()
}

// writeCSVRow quotes only fields containing a comma, quote or newline.
func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if strings.ContainsAny(f, ",\"\n") {
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
			buf.WriteByte('"')
			continue
		}
		buf.WriteString(f)
	}
	buf.WriteByte('\n')
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CheckImportFile rejects uploads that are not JSON by name or type.
func CheckImportFile(fileName, mimeType string) error {
	if mimeType == "application/json" || strings.EqualFold(filepath.Ext(fileName), ".json") {
		return nil
	}
	return apperrors.NewInvalidImportError("Invalid file type. Please upload a JSON file.", nil)
}

// ParseBackup decodes and validates a backup document. appData and
// settings are required; other collections are optional.
func ParseBackup(data []byte) (Bundle, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Bundle{}, apperrors.NewInvalidImportError("Error parsing JSON file: "+err.Error(), err)
	}
	if isMissing(raw["appData"]) || isMissing(raw["settings"]) {
		return Bundle{}, apperrors.NewInvalidImportError(
			"Invalid JSON structure. The file must contain at least 'appData' and 'settings' keys.", nil)
	}

	var b Bundle
	records := domain.DayRecords{}
	settings := domain.DefaultSettings()
	b.Records, b.Settings = &records, &settings
	if err := decodeField(raw, "appData", b.Records); err != nil {
		return Bundle{}, err
	}
	if err := decodeField(raw, "settings", b.Settings); err != nil {
		return Bundle{}, err
	}
	for date := range records {
		if _, err := calendar.Parse(date); err != nil {
			return Bundle{}, apperrors.NewInvalidImportError(fmt.Sprintf("appData has an invalid date %q", date), err)
		}
	}

	if !isMissing(raw["notes"]) {
		b.Notes = new([]domain.Note)
		if err := decodeField(raw, "notes", b.Notes); err != nil {
			return Bundle{}, err
		}
	}
	if !isMissing(raw["weightHistory"]) {
		b.Weights = &domain.WeightHistory{}
		if err := decodeField(raw, "weightHistory", b.Weights); err != nil {
			return Bundle{}, err
		}
		for date := range *b.Weights {
			if _, err := calendar.Parse(date); err != nil {
				return Bundle{}, apperrors.NewInvalidImportError(fmt.Sprintf("weightHistory has an invalid date %q", date), err)
			}
		}
	}
	if !isMissing(raw["goals"]) {
		var goals []*domain.Goal
		if err := decodeField(raw, "goals", &goals); err != nil {
			return Bundle{}, err
		}
		kept := make([]*domain.Goal, 0, len(goals))
		for _, g := range goals {
			if g != nil {
				kept = append(kept, g)
			}
		}
		b.Goals = &kept
	}
	if !isMissing(raw["achievements"]) {
		b.Achievements = new([]domain.Achievement)
		if err := decodeField(raw, "achievements", b.Achievements); err != nil {
			return Bundle{}, err
		}
	}
	if !isMissing(raw["progressPhotos"]) {
		b.Photos = new([]domain.ProgressPhoto)
		if err := decodeField(raw, "progressPhotos", b.Photos); err != nil {
			return Bundle{}, err
		}
	}
	return b, nil
}

func isMissing(v json.RawMessage) bool {
	return len(v) == 0 || string(v) == "null"
}

func decodeField(raw map[string]json.RawMessage, name string, dst any) error {
	if err := json.Unmarshal(raw[name], dst); err != nil {
		return apperrors.NewInvalidImportError(fmt.Sprintf("Field '%s' is malformed: %v", name, err), err)
	}
	return nil
}

// Import replaces the stored collections with the backup's contents. An
// invalid file changes nothing.
func (s *BackupService) Import(ctx context.Context, data []byte) error {
	b, err := ParseBackup(data)
	if err != nil {
		logger.Warn("Rejected backup import", "error", err)
		return err
	}
	if err := s.tracker.ReplaceAll(ctx, b); err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}
	logger.Info("Imported backup", "days", len(*b.Records))
	return nil
}
