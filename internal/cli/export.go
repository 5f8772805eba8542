package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"resume-builder/internal/model"
	"resume-builder/internal/pdf"
	"resume-builder/internal/surface"
	"resume-builder/internal/usecase"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	file        string
	id          string
	url         string
	template    string
	mode        string
	format      string
	orientation string
	quality     float64
	filename    string
	out         string
	quiet       bool
}

func newExportCommand() *cobra.Command {
	o := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a resume as PDF",
		Example: `  resumepdf export --file resume.json --template modern
  resumepdf export --id 3f1c... --mode vector --format letter
  resumepdf export --url http://localhost:5173/preview --filename cv.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", "", "resume JSON file (- for stdin)")
	f.StringVar(&o.id, "id", "", "id of a stored resume")
	f.StringVar(&o.url, "url", "", "capture an already rendered page instead of rendering a template")
	f.StringVarP(&o.template, "template", "t", "", "template id")
	f.StringVarP(&o.mode, "mode", "m", "", "raster or vector (default from config)")
	f.StringVar(&o.format, "format", "", "paper size: a4 or letter")
	f.StringVar(&o.orientation, "orientation", "", "portrait or landscape")
	f.Float64Var(&o.quality, "quality", 0, "raster scale factor, 1 to 4")
	f.StringVar(&o.filename, "filename", "", "output file name (default Full_Name_YYYY-MM-DD.pdf)")
	f.StringVarP(&o.out, "out", "o", "", "output directory (default from config)")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "do not print progress")
	return cmd
}

func runExport(cmd *cobra.Command, o *exportOptions) error {
	a := appFrom(cmd)
	ctx := cmd.Context()

	doc, err := loadDocument(ctx, a, o.file, o.id, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if doc == nil && o.url == "" {
		return errors.New("one of --file, --id or --url is required")
	}
	modeName := o.mode
	if modeName == "" {
		modeName = a.Config.PDF.Mode
	}
	mode, err := pdf.ParseMode(modeName)
	if err != nil {
		return err
	}

	req := usecase.ExportRequest{
		TemplateID: pickTemplate(o.template, doc, a.Config.Render.Template),
		Mode:       mode,
		Options: pdf.Options{
			Format:      pdf.Format(o.format),
			Orientation: pdf.Orientation(o.orientation),
			Quality:     o.quality,
			Filename:    o.filename,
		},
	}
	if doc != nil {
		req.Content, req.ResumeID = doc.content, doc.resumeID
	}

	if o.url != "" {
		if mode != pdf.ModeRaster {
			return errors.New("--url can only be exported in raster mode")
		}
		if req.Content == nil {
			req.Content = &model.ResumeContent{}
		}
		chrome, err := a.Browser()
		if err != nil {
			return err
		}
		sc, err := surface.Open(ctx, chrome, o.url, a.Settler())
		if err != nil {
			return err
		}
		defer sc.Release()
		req.Surface = sc
	}

	errOut := cmd.ErrOrStderr()
	if !o.quiet {
		req.OnProgress = func(p int) {
			fmt.Fprintln(errOut, mutedStyle.Render(fmt.Sprintf("exporting... %d%%", p)))
		}
	}

	dir := o.out
	if dir == "" {
		dir = a.Config.Output.Dir
	}
	var (
		written string
		pages   int
	)
	saver := usecase.DirSaver{Dir: dir}
	req.Saver = usecase.SaverFunc(func(ctx context.Context, filename string, res *pdf.Result) error {
		if err := saver.Save(ctx, filename, res); err != nil {
			return err
		}
		written, pages = filepath.Join(dir, filename), res.Pages()
		return nil
	})
	if err := a.Exporter.Export(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d %s)\n", labelStyle.Render("Saved"), written, pages, plural(pages, "page"))
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
