package cli

import (
	"errors"
	"fmt"
	"os"

	"resume-builder/internal/templates"

	"github.com/spf13/cobra"
)

func newPreviewCommand() *cobra.Command {
	var file, id, tpl, format, out string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a resume as HTML or Markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			doc, err := loadDocument(cmd.Context(), a, file, id, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if doc == nil {
				return errors.New("one of --file or --id is required")
			}
			t := pickTemplate(tpl, doc, a.Config.Render.Template)

			var body []byte
			switch format {
			case "html":
				body, err = templates.Render(doc.content, t)
			case "markdown", "md":
				var md string
				md, err = templates.Markdown(doc.content, t)
				body = []byte(md)
			default:
				return fmt.Errorf("unknown format %q (html or markdown)", format)
			}
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			return os.WriteFile(out, body, 0o644)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "resume JSON file (- for stdin)")
	f.StringVar(&id, "id", "", "id of a stored resume")
	f.StringVarP(&tpl, "template", "t", "", "template id")
	f.StringVar(&format, "format", "html", "html or markdown")
	f.StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}
