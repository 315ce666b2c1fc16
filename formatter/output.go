package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"leafstage/models"
	"leafstage/severity"
)

// Render writes v as json, yaml, or the human layout for w. Human output is
// only defined for diagnoses, disease info and history lists; other values
// fall back to yaml.
func Render(w io.Writer, v interface{}, format string) error {
	switch format {
	case "json":
		return renderJSON(w, v)
	case "yaml":
		return renderYAML(w, v)
	case "human", "":
		switch x := v.(type) {
		case *models.Diagnosis:
			DiagnosisHuman(w, x)
		case models.DiseaseInfo:
			InfoHuman(w, x)
		case []models.HistoryItem:
			HistoryHuman(w, x)
		default:
			return renderYAML(w, v)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (supported: human, json, yaml)", format)
	}
}

func renderJSON(w io.Writer, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func renderYAML(w io.Writer, v interface{}) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(output))
	return nil
}

func stageColor(s models.Stage) *color.Color {
	switch s {
	case models.StageHealthy:
		return color.New(color.FgGreen, color.Bold)
	case models.StageEarly:
		return color.New(color.FgYellow, color.Bold)
	case models.StageMid:
		return color.New(color.FgHiRed, color.Bold)
	case models.StageSevere:
		return color.New(color.FgRed, color.Bold)
	}
	return color.New(color.FgWhite, color.Bold)
}

func DiagnosisHuman(w io.Writer, d *models.Diagnosis) {
	r := d.Result
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(w)
	stageColor(r.Stage).Fprintf(w, "🌿 %s (%s)\n", r.Info.Name, r.Stage)
	fmt.Fprintf(w, "   Severity:   %s / 100\n", severity.Format(r.SeverityScore))
	fmt.Fprintf(w, "   Confidence: %.0f%%\n", r.Confidence*100)
	if r.LesionCount > 0 {
		fmt.Fprintf(w, "   Lesions:    %d (avg %.1f mm)\n", r.LesionCount, r.AvgLesionSize)
	}
	fmt.Fprintf(w, "   Method:     %s\n\n", r.Method)

	cyan.Fprintln(w, "WHAT WE SEE:")
	fmt.Fprintf(w, "   %s\n", r.Reasoning)
	for _, s := range r.DetectedSymptoms {
		fmt.Fprintf(w, "   • %s\n", s)
	}
	if r.VisualEvidenceRegions != "" {
		fmt.Fprintf(w, "   Evidence: %s\n", r.VisualEvidenceRegions)
	}
	fmt.Fprintln(w)

	treatment(w, r.Info.Treatment)

	if d.Quality != nil {
		if warnings := d.Quality.Warnings(); len(warnings) > 0 {
			yellow.Fprintf(w, "⚠ Photo quality: %s\n", strings.Join(warnings, ", "))
		}
	}
}

func InfoHuman(w io.Writer, info models.DiseaseInfo) {
	fmt.Fprintln(w)
	stageColor(info.Stage).Fprintf(w, "%s - %s\n", info.Stage, info.Name)
	fmt.Fprintf(w, "   %s\n\n", info.Interpretation)
	color.New(color.FgCyan, color.Bold).Fprintln(w, "SYMPTOMS:")
	for _, s := range info.Symptoms {
		fmt.Fprintf(w, "   • %s\n", s)
	}
	fmt.Fprintln(w)
	treatment(w, info.Treatment)
}

func treatment(w io.Writer, t models.Treatment) {
	sections := []struct {
		title string
		items []string
	}{
		{"Immediate", t.Immediate},
		{"Preventive", t.Preventive},
		{"Cultural", t.Cultural},
		{"Chemical", t.Chemical},
		{"Nutritional", t.Nutritional},
		{"Recovery", t.Recovery},
	}
	green := color.New(color.FgGreen, color.Bold)
	green.Fprintln(w, "TREATMENT:")
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "   %s:\n", s.title)
		for _, item := range s.items {
			fmt.Fprintf(w, "     - %s\n", item)
		}
	}
	fmt.Fprintln(w)
}

func HistoryHuman(w io.Writer, items []models.HistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No diagnoses recorded yet.")
		return
	}
	for _, it := range items {
		stageColor(it.Stage).Fprintf(w, "%-3s", it.Stage)
		fmt.Fprintf(w, " %s  %-24s severity %5s  confidence %3.0f%%  %s\n",
			it.Timestamp.Local().Format("2006-01-02 15:04"), it.DiseaseName,
			severity.Format(it.SeverityScore), it.Confidence*100, it.ID)
	}
}
