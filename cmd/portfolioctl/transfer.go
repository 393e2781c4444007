package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portfolio-api/internal/mailer"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/service"
)

const (
	resourceProjects = "projects"
	resourceBlog     = "blog"
)

var exportFormat string

var importCmd = &cobra.Command{
	Use:       "import <projects|blog> <file.ndjson>",
	Short:     "Create documents from an NDJSON file",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{resourceProjects, resourceBlog},
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		return withServices(cmd, func(ctx context.Context, services *service.Services) error {
			log := commandLogger(cmd)

			var result *models.ImportResult
			switch args[0] {
			case resourceProjects:
				result, err = service.Import[*models.Project, models.ProjectPatch](ctx, services.Projects, f, log)
			case resourceBlog:
				result, err = service.Import[*models.BlogPost, models.BlogPostPatch](ctx, services.Posts, f, log)
			default:
				return fmt.Errorf("unknown resource %q, want projects or blog", args[0])
			}
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d of %d %s (%d failed)\n", result.Successful, result.Total, args[0], result.Failed)
			for _, le := range result.Errors {
				fmt.Fprintf(out, "  line %d: %s\n", le.Line, le.Message)
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:       "export <projects|blog>",
	Short:     "Write every document to stdout",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{resourceProjects, resourceBlog},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, services *service.Services) error {
			log := commandLogger(cmd)
			out := cmd.OutOrStdout()

			var n int
			var err error
			switch args[0] {
			case resourceProjects:
				n, err = service.Export[*models.Project, models.ProjectPatch](ctx, services.Projects, out, exportFormat, repository.Filter{}, log)
			case resourceBlog:
				n, err = service.Export[*models.BlogPost, models.BlogPostPatch](ctx, services.Posts, out, exportFormat, repository.Filter{}, log)
			default:
				return fmt.Errorf("unknown resource %q, want projects or blog", args[0])
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			log.Info().Int("records", n).Str("resource", args[0]).Msg("Export complete")
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", models.FormatNDJSON, "output format: ndjson or json")
	rootCmd.AddCommand(importCmd, exportCmd)
}

func withServices(cmd *cobra.Command, fn func(ctx context.Context, services *service.Services) error) error {
	ctx := context.Background()
	log := commandLogger(cmd)

	cfg, store, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	if err := store.Prepare(ctx); err != nil {
		return fmt.Errorf("prepare store: %w", err)
	}

	repos, err := repository.New(store)
	if err != nil {
		return err
	}

	return fn(ctx, service.NewServices(repos, mailer.NewLogMailer(log), cfg, log))
}
