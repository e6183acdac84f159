package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"qrsafe/internal/gate"
	"qrsafe/internal/logging"
	"qrsafe/internal/pipeline"
	"qrsafe/internal/qrgen"
	"qrsafe/internal/summarize"
)

func newDecodeCommand(cmdCtx *commandContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "decode <data-or-url>",
		Short: "Decode QR payload data and unlock it with a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			generator, err := qrgen.New(cfg.QR)
			if err != nil {
				return err
			}
			p := pipeline.New(cfg, logging.NewNop(), summarize.NewClient(cfg.LLM), generator, nil)

			g := p.View(extractData(args[0]))
			switch g.State() {
			case gate.StateError:
				return errors.New(g.Reason())
			case gate.StateUnlocked:
				content, _ := g.Content()
				fmt.Fprintln(cmd.OutOrStdout(), content)
				return nil
			case gate.StateAwaitingPassword:
				if password == "" {
					return errors.New("payload is password protected; rerun with --password")
				}
				if !g.Submit(password) {
					return errors.New("incorrect password")
				}
				content, _ := g.Content()
				fmt.Fprintln(cmd.OutOrStdout(), content)
				return nil
			}
			return fmt.Errorf("unexpected gate state %s", g.State())
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password for protected payloads")
	return cmd
}

// extractData accepts either raw encoded data or a full view URL and returns
// the encoded payload.
func extractData(arg string) string {
	trimmed := strings.TrimSpace(arg)
	if strings.Contains(trimmed, "://") {
		if parsed, err := url.Parse(trimmed); err == nil {
			if data := parsed.Query().Get("data"); data != "" {
				return data
			}
		}
	}
	return trimmed
}
