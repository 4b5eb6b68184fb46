package journal

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
)

// ExportFormat names a report/table export encoding.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportReport writes a RunReport to path in the given format.
func ExportReport(report RunReport, format ExportFormat, path string) error {
	switch format {
	case FormatJSON:
		return exportReportJSON(report, path)
	case FormatCSV:
		return exportReportCSV(report, path)
	default:
		return fmt.Errorf("journal: unknown export format %q", format)
	}
}

func exportReportJSON(report RunReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("journal: creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("journal: encoding report to %s: %w", path, err)
	}
	return nil
}

func exportReportCSV(report RunReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("journal: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"run_id", "strategy", "n", "games", "seed", "duration_ms",
		"spearman_correlation", "numeric_failure_count", "pairing_fallback_count",
		"prediction_error_mean", "prediction_error_stddev",
		"skill_gap_mean", "skill_gap_stddev",
		"good_match_mean", "good_match_stddev",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("journal: writing header to %s: %w", path, err)
	}
	row := []string{
		report.RunID,
		report.Config.Strategy,
		strconv.Itoa(report.Config.N),
		strconv.Itoa(report.Config.Games),
		strconv.FormatUint(report.Config.Seed, 10),
		strconv.FormatInt(report.Duration.Milliseconds(), 10),
		strconv.FormatFloat(report.SpearmanCorrelation, 'f', 6, 64),
		strconv.Itoa(report.NumericFailureCount),
		strconv.Itoa(report.PairingFallbackCount),
		strconv.FormatFloat(report.PredictionError.Mean, 'f', 6, 64),
		strconv.FormatFloat(report.PredictionError.StdDev, 'f', 6, 64),
		strconv.FormatFloat(report.SkillGap.Mean, 'f', 6, 64),
		strconv.FormatFloat(report.SkillGap.StdDev, 'f', 6, 64),
		strconv.FormatFloat(report.GoodMatch.Mean, 'f', 6, 64),
		strconv.FormatFloat(report.GoodMatch.StdDev, 'f', 6, 64),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("journal: writing row to %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

// ExportPlayerTable writes the final per-player skill/rating/games table
// to path in the given format — the raw data behind the Spearman
// correlation in the report, for callers that want to plot it themselves.
func ExportPlayerTable(store *player.Store, format ExportFormat, path string) error {
	switch format {
	case FormatJSON:
		return exportPlayersJSON(store, path)
	case FormatCSV:
		return exportPlayersCSV(store, path)
	default:
		return fmt.Errorf("journal: unknown export format %q", format)
	}
}

type playerRow struct {
	ID       int     `json:"id"`
	Skill    float64 `json:"skill"`
	Rating   float64 `json:"rating"`
	Variance float64 `json:"variance"`
	Games    int     `json:"games"`
}

func exportPlayersJSON(store *player.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("journal: creating %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]playerRow, 0, store.Len())
	for _, p := range store.All() {
		rows = append(rows, playerRow{ID: p.ID, Skill: p.Skill, Rating: p.Rating, Variance: p.Variance, Games: p.Games})
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("journal: encoding players to %s: %w", path, err)
	}
	return nil
}

func exportPlayersCSV(store *player.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("journal: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "skill", "rating", "variance", "games"}); err != nil {
		return fmt.Errorf("journal: writing header to %s: %w", path, err)
	}
	for _, p := range store.All() {
		row := []string{
			strconv.Itoa(p.ID),
			strconv.FormatFloat(p.Skill, 'f', 6, 64),
			strconv.FormatFloat(p.Rating, 'f', 6, 64),
			strconv.FormatFloat(p.Variance, 'f', 6, 64),
			strconv.Itoa(p.Games),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("journal: writing row to %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
