package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"qrsafe/internal/forms"
)

func newTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available form templates and their fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, tmpl := range forms.Templates() {
				for _, field := range tmpl.Fields {
					required := ""
					if field.Required {
						required = "yes"
					}
					detail := string(field.Kind)
					if len(field.Options) > 0 {
						detail += " (" + strings.Join(field.Options, "|") + ")"
					}
					if field.MinLen > 0 {
						detail += " min " + strconv.Itoa(field.MinLen)
					}
					rows = append(rows, []string{tmpl.ID, tmpl.Label, field.Name, detail, required})
				}
			}
			if !isTerminal(cmd.OutOrStdout()) {
				for _, row := range rows {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(row, "\t"))
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Template", "Label", "Field", "Kind", "Required"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
