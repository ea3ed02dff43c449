package app

import (
	"fmt"

	"github.com/blackwell-systems/mediadesk/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		apiBase      string
		tokenEnv     string
		photographer string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the mediadesk config file",
		Long: `Write the mediadesk config file.

The archive token is never stored; mediadesk reads it from the
environment variable named by --token-env (default MEDIADESK_TOKEN).`,
		Example: `  mediadesk init --api-base https://cms.example.org/content-api --article 64 --language de`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiBase != "" {
				cfg.Archive.APIBase = apiBase
			}
			if tokenEnv != "" {
				cfg.Archive.TokenEnv = tokenEnv
			}
			if photographer != "" {
				cfg.Upload.Photographer = photographer
			}
			if cfg.Archive.APIBase == "" {
				return fmt.Errorf("--api-base is required")
			}

			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("Wrote %s", config.Path())
			printField("api_base", cfg.Archive.APIBase)
			printField("token_env", cfg.Archive.TokenEnv)
			if cfg.Article.Number > 0 {
				printField("article", fmt.Sprintf("%d/%s", cfg.Article.Number, cfg.Article.Language))
			}

			fmt.Println()
			fmt.Println("Next:")
			fmt.Printf("  %s\n", color.CyanString("export %s=<token>", cfg.Archive.TokenEnv))
			fmt.Printf("  %s\n", color.CyanString("mediadesk browse --article <number>"))
			return nil
		},
	}

	cmd.Flags().StringVar(&apiBase, "api-base", "", "Content API base URL")
	cmd.Flags().StringVar(&tokenEnv, "token-env", "", "Environment variable holding the archive token")
	cmd.Flags().StringVar(&photographer, "photographer", "", "Default photographer for uploads")

	return cmd
}
