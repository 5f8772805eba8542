package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"resume-builder/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newImportCommand() *cobra.Command {
	var file, title, tpl, user string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a resume JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			store, err := a.RequireStore()
			if err != nil {
				return err
			}
			if file == "" {
				return errors.New("--file is required")
			}
			content, err := readContent(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			owner := localUser
			if user != "" {
				if owner, err = uuid.Parse(user); err != nil {
					return fmt.Errorf("invalid user id %q", user)
				}
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			}
			res := &model.Resume{UserID: owner, Title: title, TemplateID: model.ParseTemplateID(tpl), Content: content}
			if err := store.SaveResume(cmd.Context(), res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", labelStyle.Render("Imported"), res.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "resume JSON file (- for stdin)")
	f.StringVar(&title, "title", "", "title (default file name)")
	f.StringVarP(&tpl, "template", "t", "", "template id")
	f.StringVar(&user, "user", "", "owner user id")
	return cmd
}

func newHistoryCommand() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the export history of a stored resume",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			store, err := a.RequireStore()
			if err != nil {
				return err
			}
			rid, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("invalid resume id %q", id)
			}
			jobs, err := store.ListExports(cmd.Context(), rid)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(w, mutedStyle.Render("no exports yet"))
				return nil
			}
			for _, j := range jobs {
				fmt.Fprintf(w, "%s  %-9s %-6s %-12s %s\n",
					j.CreatedAt.Local().Format("2006-01-02 15:04"), j.Status, j.Mode, j.TemplateID, j.Filename)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "resume id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
