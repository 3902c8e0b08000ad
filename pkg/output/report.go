package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/extsort/pkg/models"
)

// WriteRunReport writes the full list of actions of a run to a file.
// Format can be "human" or "json".
func WriteRunReport(report *models.OrganizeReport, filepath string, format string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	switch format {
	case "json":
		err = writeReportJSON(report, file)
	default: // "human"
		err = writeReportHuman(report, file)
	}

	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close report file: %w", cerr)
	}
	return err
}

// writeReportHuman writes actions grouped by kind, followed by errors and statistics
func writeReportHuman(report *models.OrganizeReport, w io.Writer) error {
	fmt.Fprintf(w, "Organize Report\n")
	fmt.Fprintf(w, "===============\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Operation: %s\n", report.OperationID)
	fmt.Fprintf(w, "Base: %s\n", report.BasePath)
	fmt.Fprintf(w, "Hash: %s\n", report.HashAlgorithm)
	fmt.Fprintf(w, "Status: %s\n\n", report.Status)

	byAction := make(map[models.Action][]models.FileAction)
	for _, fa := range report.Actions {
		byAction[fa.Action] = append(byAction[fa.Action], fa)
	}

	actionOrder := []models.Action{
		models.ActionMoved,
		models.ActionRenamed,
		models.ActionQuarantined,
		models.ActionDuplicateRemoved,
		models.ActionQuarantineDuplicateRemoved,
		models.ActionSkip,
		models.ActionError,
	}

	actionLabels := map[models.Action]string{
		models.ActionMoved:                      "Moved",
		models.ActionRenamed:                    "Renamed and Moved",
		models.ActionQuarantined:                "Quarantined",
		models.ActionDuplicateRemoved:           "Duplicates Removed",
		models.ActionQuarantineDuplicateRemoved: "Quarantine Duplicates Removed",
		models.ActionSkip:                       "Skipped",
		models.ActionError:                      "Failed",
	}

	for _, action := range actionOrder {
		actions := byAction[action]
		if len(actions) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d files)", actionLabels[action], len(actions))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for i := range actions {
			fmt.Fprintf(w, "  %s\n", DescribeAction(&actions[i]))
		}
		fmt.Fprintf(w, "\n")
	}

	renderStats(w, report)
	fmt.Fprintln(w, SummaryLine(report))

	return nil
}

// JSONReportAction is one entry of a JSON run report
type JSONReportAction struct {
	JSONActionData
	DurationMs int64 `json:"duration_ms"`
}

// writeReportJSON writes the report in JSON format
func writeReportJSON(report *models.OrganizeReport, w io.Writer) error {
	actions := make([]JSONReportAction, 0, len(report.Actions))
	for i := range report.Actions {
		fa := &report.Actions[i]
		actions = append(actions, JSONReportAction{
			JSONActionData: actionData(fa),
			DurationMs:     fa.Duration.Milliseconds(),
		})
	}

	output := struct {
		Generated     string             `json:"generated"`
		HashAlgorithm string             `json:"hash_algorithm"`
		Report        JSONReportData     `json:"report"`
		Actions       []JSONReportAction `json:"actions"`
	}{
		Generated:     time.Now().Format(time.RFC3339),
		HashAlgorithm: string(report.HashAlgorithm),
		Report:        NewJSONReport(report),
		Actions:       actions,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
