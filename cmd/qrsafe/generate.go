package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"qrsafe/internal/forms"
	"qrsafe/internal/history"
	"qrsafe/internal/logging"
	"qrsafe/internal/pipeline"
	"qrsafe/internal/qrgen"
	"qrsafe/internal/summarize"
)

// recordFile is the on-disk shape of a form submission.
type recordFile struct {
	Template string         `toml:"template"`
	Password string         `toml:"password"`
	Fields   map[string]any `toml:"fields"`
}

func newGenerateCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		inputPath     string
		outputPath    string
		acceptSummary bool
		skipHistory   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a password-gated QR code from a record file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			record, err := loadRecordFile(inputPath)
			if err != nil {
				return err
			}

			generator, err := qrgen.New(cfg.QR)
			if err != nil {
				return err
			}

			var store *history.Store
			if !skipHistory {
				store, err = history.Open(cfg)
				if err != nil {
					return fmt.Errorf("open history store: %w", err)
				}
				defer store.Close()
			}

			summarizer := summarize.NewClient(cfg.LLM)
			p := pipeline.New(cfg, logging.NewNop(), summarizer, generator, store)

			result, err := p.Generate(cmd.Context(), record)
			if err != nil {
				return err
			}

			if result.SummaryPending != nil {
				pending := result.SummaryPending
				if pending.NeedsUserInput {
					fmt.Fprintln(cmd.OutOrStdout(), "The data is too long for a QR code and could not be shortened automatically.")
					if pending.Summary != "" {
						fmt.Fprintln(cmd.OutOrStdout(), pending.Summary)
					}
					if pending.Reason != "" {
						fmt.Fprintln(cmd.OutOrStdout(), pending.Reason)
					}
					return errors.New("edit the record and try again")
				}
				if !acceptSummary {
					fmt.Fprintln(cmd.OutOrStdout(), "The data is too long for a QR code. Proposed summary:")
					fmt.Fprintln(cmd.OutOrStdout(), pending.Summary)
					return errors.New("rerun with --yes to accept the summary")
				}
				result, err = p.ConfirmSummary(cmd.Context(), record, pending.Summary)
				if err != nil {
					return err
				}
			}

			generated := result.Generated
			if err := os.WriteFile(outputPath, generated.PNG, 0o644); err != nil {
				return fmt.Errorf("write qr image: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "QR code written to %s\n", outputPath)
			fmt.Fprintf(cmd.OutOrStdout(), "View URL: %s\n", generated.URL)
			if generated.EntryID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "History entry: %s\n", generated.EntryID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Record file (TOML)")
	cmd.Flags().StringVarP(&outputPath, "out", "o", "qr.png", "Output PNG path")
	cmd.Flags().BoolVarP(&acceptSummary, "yes", "y", false, "Accept a proposed summary without prompting")
	cmd.Flags().BoolVar(&skipHistory, "no-history", false, "Do not record this QR code in history")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func loadRecordFile(path string) (*forms.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}
	var file recordFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse record file: %w", err)
	}
	if strings.TrimSpace(file.Template) == "" {
		return nil, errors.New("record file must set template")
	}
	return forms.NewRecord(file.Template, file.Password, file.Fields), nil
}
