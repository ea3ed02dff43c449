package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/blackwell-systems/mediadesk/internal/util"
	"github.com/spf13/cobra"
)

func newAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <id>...",
		Short: "Attach archive images to the article",
		Long: `Attach archive images to the article.

Every id that is not attached yet is linked in a single request; ids that
are already attached are skipped.`,
		Example: `  mediadesk attach 5 7 9
  mediadesk attach 5,7,9 --article 64`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := util.ParseIDs(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s := newSession()
			if err := s.LoadAttached(ctx); err != nil {
				return err
			}

			added, err := s.AttachBulk(ctx, ids, false)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if !slices.Contains(added, id) {
					warn("%d is already attached", id)
				}
			}
			if len(added) > 0 {
				ok("Attached %d image(s) to article %s", len(added), s.Article())
			}
			return nil
		},
	}
}

func newDetachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <id>...",
		Short: "Detach images from the article",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := util.ParseIDs(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s := newSession()
			if err := s.LoadAttached(ctx); err != nil {
				return err
			}

			var errs []error
			for _, id := range ids {
				if !s.IsAttached(id) {
					warn("%d is not attached", id)
					continue
				}
				if err := s.Detach(ctx, id); err != nil {
					errs = append(errs, err)
					continue
				}
				ok("Detached %d", id)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d detach(es) failed: %w", len(errs), errors.Join(errs...))
			}
			return nil
		},
	}
}
