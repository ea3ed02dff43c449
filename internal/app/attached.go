package app

import (
	"github.com/spf13/cobra"
)

func newAttachedCmd() *cobra.Command {
	var (
		format   string
		complete bool
	)

	cmd := &cobra.Command{
		Use:   "attached",
		Short: "List the images attached to the article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			s := newSession()

			if err := s.LoadAttached(ctx); err != nil {
				return err
			}
			if complete {
				if err := s.CompleteAttached(ctx); err != nil {
					warn("some records could not be completed: %v", err)
				}
			}

			images := s.Attached()
			if format == "" || format == "table" {
				header("Article %s: %d attached", s.Article(), len(images))
			}
			return printImages(cmd.OutOrStdout(), format, images, nil)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json, yaml")
	cmd.Flags().BoolVar(&complete, "complete", false, "Fetch the full record of every image")

	return cmd
}
