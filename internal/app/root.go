package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/blackwell-systems/mediadesk/internal/archive"
	"github.com/blackwell-systems/mediadesk/internal/config"
	"github.com/blackwell-systems/mediadesk/internal/pagetrack"
	"github.com/blackwell-systems/mediadesk/internal/session"
	"github.com/blackwell-systems/mediadesk/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	arc    *archive.Client
	logger *slog.Logger

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagArticle       int
	flagLanguage      string
	flagLogLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "mediadesk",
	Short: "Browse an image archive and manage the images of an article",
	Long: `mediadesk links archive images to the article you are editing.

Browse the archive page by page, collect images into a basket, attach
them to the article in one request, embed attached images in the body and
upload new images from disk.

Run 'mediadesk browse' on a terminal for the interactive editor.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/mediadesk/config.yml)")
	rootCmd.PersistentFlags().IntVar(&flagArticle, "article", 0, "Article number (overrides article.number)")
	rootCmd.PersistentFlags().StringVar(&flagLanguage, "language", "", "Article language (overrides article.language)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		if flagConfig != "" {
			if err := os.Setenv("MEDIADESK_CONFIG", flagConfig); err != nil {
				return err
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagArticle > 0 {
			cfg.Article.Number = flagArticle
		}
		if flagLanguage != "" {
			cfg.Article.Language = flagLanguage
		}
		if flagLogLevel != "" {
			cfg.Log.Level = flagLogLevel
		}
		logger = util.NewLogger(os.Stderr, cfg.Log.Level)

		// init and version work without a usable config.
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.Archive.Token == "" {
			logger.Warn("no archive token set, requests are sent unauthenticated", "env", cfg.Archive.TokenEnv)
		}

		arc = archive.New(cfg.Archive.Token, cfg.Archive.APIBase, archive.WithLogger(logger))
		return nil
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newBrowseCmd(),
		newAttachedCmd(),
		newAttachCmd(),
		newDetachCmd(),
		newUploadCmd(),
		newVersionCmd(),
	)
}

// newSession opens an editing session for the configured article.
func newSession() *session.Session {
	art := archive.Article{Number: cfg.Article.Number, Language: cfg.Article.Language}
	return session.New(arc, pagetrack.New(cfg.Archive.MaxPages), session.Options{
		Article:      art,
		FetchSize:    cfg.Archive.ItemsPerPage,
		DefaultSize:  cfg.Images.EffectiveSize(),
		Widths:       cfg.Images.EffectiveWidths(),
		Photographer: cfg.Upload.Photographer,
		Logger:       logger,
		OnSelectionClose: func() {
			logger.Debug("selection closed", "article", art.String())
		},
	})
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

func printField(label, value string) {
	fmt.Printf("  %-14s %s\n", color.CyanString(label+":"), value)
}
