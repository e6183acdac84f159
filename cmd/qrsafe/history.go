package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"qrsafe/internal/forms"
	"qrsafe/internal/history"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect retained QR codes",
	}
	cmd.AddCommand(newHistoryListCommand(cmdCtx))
	cmd.AddCommand(newHistoryClearCommand(cmdCtx))
	cmd.AddCommand(newHistoryExportCommand(cmdCtx))
	return cmd
}

func newHistoryListCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List retained QR codes, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "History is empty.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.ID,
					entry.CreatedAt.Local().Format(time.DateTime),
					forms.Label(entry.TemplateID),
					entry.DisplayName,
				})
			}
			if !isTerminal(cmd.OutOrStdout()) {
				for _, row := range rows {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(row, "\t"))
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Created", "Template", "Name"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum entries to show (0 = all retained)")
	return cmd
}

func newHistoryClearCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all retained QR codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}

func newHistoryExportCommand(cmdCtx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export <entry-id>",
		Short: "Write a retained QR code image to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			path := outputPath
			if path == "" {
				path = entry.ID + ".png"
			}
			if err := os.WriteFile(path, entry.QRPNG, 0o644); err != nil {
				return fmt.Errorf("write qr image: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "QR code written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output PNG path (default <entry-id>.png)")
	return cmd
}

func openHistory(cmdCtx *commandContext) (*history.Store, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return store, nil
}
