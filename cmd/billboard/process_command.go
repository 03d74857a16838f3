package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"billboard/internal/config"
	"billboard/internal/logging"
	"billboard/internal/pipeline"
	"billboard/internal/record"
)

func newProcessCommand(configFlag *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "process <url>",
		Short: "Fetch, enrich, and cache a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			p, err := pipeline.FromConfig(cfg, logger)
			if err != nil {
				return err
			}
			rec, err := p.Process(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(rec)
			}
			fmt.Fprintln(out, renderRecord(rec))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full record as JSON")
	return cmd
}

func renderRecord(rec record.Record) string {
	rows := [][]string{
		{"UID", rec.ID},
		{"Type", string(rec.Type)},
	}
	appendIf := func(label, value string) {
		if value != "" {
			rows = append(rows, []string{label, value})
		}
	}
	appendIf("Title", rec.Title)
	appendIf("Number", rec.Number)
	appendIf("Introduced", rec.IntroducedDate)
	appendIf("Origin chamber", rec.OriginChamber)
	appendIf("Current chamber", rec.CurrentChamber)
	appendIf("Session", rec.Session)
	appendIf("Policy area", rec.PolicyArea)
	appendIf("Latest action", rec.LatestAction)
	appendIf("Sponsor", rec.Sponsor)
	appendIf("Law", lawLabel(rec))
	appendIf("Audio", deref(rec.AudioPath))
	appendIf("Subtitles", deref(rec.SRTPath))
	rows = append(rows, []string{"Summary", rec.Summary})

	return renderTable([]string{"Field", "Value"}, rows)
}

func lawLabel(rec record.Record) string {
	if rec.LawNumber == "" {
		return ""
	}
	if rec.LawType == "" {
		return rec.LawNumber
	}
	return rec.LawType + " " + rec.LawNumber
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
