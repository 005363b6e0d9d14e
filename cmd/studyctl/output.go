package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/flashcard-scheduler/internal/domain"
	"github.com/heartmarshall/flashcard-scheduler/internal/service/study"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// render writes v as JSON or YAML, or calls text for the table format.
func render(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	return renderTo(cmd.OutOrStdout(), format, v, text)
}

func renderTo(w io.Writer, format string, v any, text func(w io.Writer) error) error {
	switch format {
	case formatText, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		if err := text(tw); err != nil {
			return err
		}
		return tw.Flush()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// queueRow is the printable form of a ranked card.
type queueRow struct {
	Position   int       `json:"position"    yaml:"position"`
	CardID     string    `json:"card_id"     yaml:"card_id"`
	Composite  float64   `json:"composite"   yaml:"composite"`
	Due        float64   `json:"due"         yaml:"due"`
	Difficulty float64   `json:"difficulty"  yaml:"difficulty"`
	Retention  float64   `json:"retention"   yaml:"retention"`
	Risk       float64   `json:"risk"        yaml:"risk"`
	Leech      bool      `json:"leech"       yaml:"leech"`
	Fresh      bool      `json:"fresh"       yaml:"fresh"`
	NextReview time.Time `json:"next_review" yaml:"next_review"`
}

func queueRows(ranked []study.RankedCard) []queueRow {
	rows := make([]queueRow, len(ranked))
	for i, r := range ranked {
		rows[i] = queueRow{
			Position:   i + 1,
			CardID:     r.Card.ID.String(),
			Composite:  r.Composite,
			Due:        r.Factors.Due,
			Difficulty: r.Factors.Difficulty,
			Retention:  r.Factors.Retention,
			Risk:       r.Risk,
			Leech:      r.Leech,
			Fresh:      r.Card.IsFresh(),
			NextReview: r.Card.NextReview,
		}
	}
	return rows
}

func writeQueue(w io.Writer, rows []queueRow) error {
	fmt.Fprintln(w, "#\tCARD\tSCORE\tDUE\tDIFF\tRET\tRISK\tFLAGS")
	for _, r := range rows {
		flags := ""
		if r.Fresh {
			flags += "new "
		}
		if r.Leech {
			flags += "leech"
		}
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			r.Position, r.CardID, r.Composite, r.Due, r.Difficulty, r.Retention, r.Risk, flags)
	}
	return nil
}

// forecastView is the printable form of a forecast snapshot.
type forecastView struct {
	GeneratedAt   time.Time          `json:"generated_at"    yaml:"generated_at"`
	HorizonHours  float64            `json:"horizon_hours"   yaml:"horizon_hours"`
	AverageRisk   float64            `json:"average_risk"    yaml:"average_risk"`
	HighRiskCount int                `json:"high_risk_count" yaml:"high_risk_count"`
	Skipped       int                `json:"skipped"         yaml:"skipped"`
	Items         []forecastItemView `json:"items"           yaml:"items"`
}

type forecastItemView struct {
	CardID     string  `json:"card_id"      yaml:"card_id"`
	DueInHours float64 `json:"due_in_hours" yaml:"due_in_hours"`
	Risk       float64 `json:"risk"         yaml:"risk"`
}

func newForecastView(s domain.ForecastSnapshot, limit int) forecastView {
	items := s.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	v := forecastView{
		GeneratedAt:   s.GeneratedAt,
		HorizonHours:  s.HorizonHours,
		AverageRisk:   s.AverageRisk,
		HighRiskCount: s.HighRiskCount,
		Skipped:       s.Skipped,
		Items:         make([]forecastItemView, len(items)),
	}
	for i, it := range items {
		v.Items[i] = forecastItemView{CardID: it.CardID.String(), DueInHours: it.DueInHours, Risk: it.Risk}
	}
	return v
}

func writeForecast(w io.Writer, v forecastView) error {
	fmt.Fprintf(w, "generated\t%s\n", v.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "horizon\t%.0fh\n", v.HorizonHours)
	fmt.Fprintf(w, "average risk\t%.3f\n", v.AverageRisk)
	fmt.Fprintf(w, "high risk cards\t%d\n", v.HighRiskCount)
	if v.Skipped > 0 {
		fmt.Fprintf(w, "skipped\t%d\n", v.Skipped)
	}
	if len(v.Items) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nCARD\tDUE IN\tRISK")
	for _, it := range v.Items {
		fmt.Fprintf(w, "%s\t%.1fh\t%.3f\n", it.CardID, it.DueInHours, it.Risk)
	}
	return nil
}

// reviewView is the printable form of a schedule result.
type reviewView struct {
	CardID         string    `json:"card_id"         yaml:"card_id"`
	Interval       int       `json:"interval_days"   yaml:"interval_days"`
	EasinessFactor float64   `json:"easiness_factor" yaml:"easiness_factor"`
	NextReview     time.Time `json:"next_review"     yaml:"next_review"`
	Leech          bool      `json:"leech"           yaml:"leech"`
}

func newReviewView(r domain.ScheduleResult) reviewView {
	return reviewView{
		CardID:         r.Card.ID.String(),
		Interval:       r.Interval,
		EasinessFactor: r.EasinessFactor,
		NextReview:     r.NextReview,
		Leech:          r.Leech,
	}
}

func writeReview(w io.Writer, v reviewView) error {
	fmt.Fprintf(w, "card\t%s\n", v.CardID)
	fmt.Fprintf(w, "next review\t%s (in %d days)\n", v.NextReview.Format(time.RFC3339), v.Interval)
	fmt.Fprintf(w, "easiness\t%.2f\n", v.EasinessFactor)
	if v.Leech {
		fmt.Fprintln(w, "leech\tsuspended")
	}
	return nil
}
