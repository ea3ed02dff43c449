package app

import (
	"context"
	"fmt"
	"os"

	"github.com/blackwell-systems/mediadesk/internal/config"
	"github.com/blackwell-systems/mediadesk/internal/session"
	"github.com/blackwell-systems/mediadesk/internal/tui"
	"github.com/blackwell-systems/mediadesk/internal/util"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	var (
		photographer string
		description  string
		attach       bool
		preview      bool
		format       string
	)

	cmd := &cobra.Command{
		Use:   "upload [file]...",
		Short: "Upload images to the archive",
		Long: `Upload images from disk to the archive.

Photographer and description default to upload.photographer and the
EXIF Artist / ImageDescription of each file. With --attach every
successful upload is attached to the article in one request.

Without file arguments an interactive picker opens in the current
directory.`,
		Example: `  mediadesk upload ~/pics/harbour.jpg ~/pics/market.jpg --attach
  mediadesk upload scan.png --photographer "Ana Silva" --description "Harbour at dawn"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if len(args) == 0 {
				if !tui.ShouldUseTUI(cmd) {
					return fmt.Errorf("no files given")
				}
				picked, err := pickFiles()
				if err != nil {
					return err
				}
				args = picked
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			s := newSession()

			files := make([]session.LocalFile, len(args))
			for i, arg := range args {
				files[i] = session.LocalFile{Path: config.ExpandHome(arg)}
			}
			uploads := s.AddToUploadList(ctx, files)
			for _, u := range uploads {
				if photographer != "" {
					u.SetPhotographer(photographer)
				}
				if description != "" {
					u.SetDescription(description)
				}
			}

			if preview {
				showPreviews(ctx, uploads)
			}

			futures := s.UploadAll(ctx)
			if tui.ShouldUseTUI(cmd) {
				if err := tui.ShowUploadProgress(uploads, futures); err != nil {
					cancel()
					return err
				}
			}
			_, uploadErr := session.WaitAll(ctx, futures)

			if err := printUploads(cmd.OutOrStdout(), format, uploads); err != nil {
				return err
			}

			if attach {
				added, err := s.AttachAllUploaded(ctx)
				if err != nil {
					return fmt.Errorf("attaching uploads: %w", err)
				}
				if len(added) > 0 {
					ok("Attached %d upload(s) to article %s", len(added), s.Article())
				}
			}
			if uploadErr != nil {
				return fmt.Errorf("%d of %d uploads failed", len(uploads)-len(s.CompletedIDs()), len(uploads))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&photographer, "photographer", "", "Photographer for every file")
	cmd.Flags().StringVar(&description, "description", "", "Description for every file")
	cmd.Flags().BoolVar(&attach, "attach", false, "Attach the uploaded images to the article")
	cmd.Flags().BoolVar(&preview, "preview", false, "Show an inline preview of each file (kitty, iTerm2)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json, yaml")

	return cmd
}

func pickFiles() ([]string, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = config.ExpandHome("~")
	}
	return tui.RunImagePicker(afero.NewOsFs(), wd)
}

// showPreviews prints a thumbnail of every readable file once its read
// has finished.
func showPreviews(ctx context.Context, uploads []*session.Upload) {
	protocol := tui.DetectImageProtocol()
	if protocol == tui.ProtocolNone || !util.IsTTY() {
		warn("this terminal cannot show inline images")
		return
	}
	for _, u := range uploads {
		if err := u.WaitRead(ctx); err != nil {
			warn("%s: %v", u.File.Name, err)
			continue
		}
		st := u.Status()
		header("%s %s", st.Name, util.Dimensions(st.Width, st.Height))
		fmt.Fprintln(os.Stdout, tui.RenderPreview(u.RawData(), protocol))
	}
}
