package app

import (
	"errors"

	"github.com/blackwell-systems/mediadesk/internal/session"
	"github.com/blackwell-systems/mediadesk/internal/tui"
	"github.com/spf13/cobra"
)

func newBrowseCmd() *cobra.Command {
	var (
		pages  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the archive and edit the article's images",
		Long: `Browse the image archive.

On a terminal this opens the interactive editor: collect images into the
basket, attach them, embed attached images in the body and page through
the archive. Otherwise the displayed images are printed after loading
--pages additional windows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			s := newSession()

			if err := s.LoadAttached(ctx); err != nil {
				warn("could not load attached images: %v", err)
			}
			if err := s.Init(ctx); err != nil {
				return err
			}
			if pf := s.Prefetch(); pf != nil {
				if _, err := pf.Wait(ctx); err != nil && !errors.Is(err, session.ErrNoMorePages) {
					warn("prefetch failed: %v", err)
				}
			}

			if tui.ShouldUseTUI(cmd) {
				return tui.RunEditor(ctx, s)
			}

			for i := 0; i < pages; i++ {
				_, err := s.More(ctx).Wait(ctx)
				if errors.Is(err, session.ErrNoMorePages) {
					break
				}
				if err != nil {
					warn("loading page: %v", err)
				}
			}

			displayed := s.Displayed()
			if format == "" || format == "table" {
				header("Archive (%d shown, %d buffered)", len(displayed), len(s.Buffered()))
			}
			return printImages(cmd.OutOrStdout(), format, displayed, func(id int) imageState {
				return imageState{
					Attached: s.IsAttached(id),
					Included: s.InArticleBody(id),
				}
			})
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 0, "Additional windows to show (non-interactive)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json, yaml")

	return cmd
}
