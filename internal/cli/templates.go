package cli

import (
	"fmt"

	"resume-builder/internal/model"
	"resume-builder/internal/templates"

	"github.com/spf13/cobra"
)

func newTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render("Templates"))
			for _, t := range templates.Catalog() {
				name := t.Name
				if t.ID == string(model.DefaultTemplate) {
					name += " (default)"
				}
				fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", t.ID)), name)
				fmt.Fprintf(w, "%14s%s\n", "", mutedStyle.Render(t.Category+" · "+t.Layout+" · "+t.Description))
			}
			return nil
		},
	}
}
