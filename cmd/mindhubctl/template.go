package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/drivers/database"
	"mindhub-service/internal/app/services/shared/redis"
	"mindhub-service/internal/pkg/clinimetrix"
	"mindhub-service/internal/pkg/constvars"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errInvalidTemplates = errors.New("one or more templates are invalid")

func newTemplateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Validate and seed scale templates",
	}

	validate := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that template files can be administered",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := loadTemplates(cmd.OutOrStdout(), c.log, args)
			return err
		},
	}

	var ttl time.Duration
	importCmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Validate templates and write them into the template cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := loadTemplates(cmd.OutOrStdout(), c.log, args)
			if err != nil {
				return err
			}
			if ttl == 0 {
				ttl = time.Duration(c.internalConfig.Assessment.TemplateCacheTTLInMinutes) * time.Minute
			}

			repo, closeFn, err := c.redisRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return importTemplates(cmd.Context(), repo, c.log, templates, ttl)
		},
	}
	importCmd.Flags().DurationVar(&ttl, "ttl", 0, "cache lifetime; defaults to the service's template cache TTL")

	evict := &cobra.Command{
		Use:   "evict TEMPLATE_ID...",
		Short: "Drop cached templates so the next read refetches them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := c.redisRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			for _, templateID := range args {
				if err := repo.Delete(cmd.Context(), fmt.Sprintf(constvars.RedisKeyTemplateCacheFormat, templateID)); err != nil {
					return err
				}
				c.log.WithField(constvars.LoggingTemplateIDKey, templateID).Info("Template evicted")
			}
			return nil
		},
	}

	cmd.AddCommand(validate, importCmd, evict)
	return cmd
}

func (c *cli) redisRepository(ctx context.Context) (contracts.RedisRepository, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := database.NewRedisClient(ctx, c.driverConfig, zap.NewNop())
	if err != nil {
		return nil, nil, err
	}
	return redis.NewRedisRepository(client), func() { client.Close() }, nil
}

// loadTemplates decodes and validates every file, reporting each one on out.
// It only fails after all files have been checked.
func loadTemplates(out io.Writer, log *logrus.Logger, paths []string) ([]*clinimetrix.Template, error) {
	templates := make([]*clinimetrix.Template, 0, len(paths))
	failed := 0

	for _, path := range paths {
		template, err := loadTemplate(path)
		if err != nil {
			failed++
			log.WithField("file", path).WithError(err).Warn("Template rejected")
			fmt.Fprintf(out, "FAIL %s\n", path)

			var templateErr *clinimetrix.TemplateError
			if errors.As(err, &templateErr) {
				for _, problem := range templateErr.Problems {
					fmt.Fprintf(out, "  - %s\n", problem)
				}
			} else {
				fmt.Fprintf(out, "  - %v\n", err)
			}
			continue
		}

		fmt.Fprintf(out, "ok   %s (%s, %d items)\n", path, template.ID, template.TotalItems())
		templates = append(templates, template)
	}

	if failed > 0 {
		return nil, fmt.Errorf("%w: %d of %d", errInvalidTemplates, failed, len(paths))
	}
	return templates, nil
}

func loadTemplate(path string) (*clinimetrix.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	template, err := clinimetrix.DecodeTemplate(f)
	if err != nil {
		return nil, err
	}
	if err := clinimetrix.ValidateTemplate(template); err != nil {
		return nil, err
	}
	return template, nil
}

func importTemplates(ctx context.Context, repo contracts.RedisRepository, log *logrus.Logger, templates []*clinimetrix.Template, ttl time.Duration) error {
	for _, template := range templates {
		key := fmt.Sprintf(constvars.RedisKeyTemplateCacheFormat, template.ID)
		if err := repo.Set(ctx, key, template, ttl); err != nil {
			return fmt.Errorf("import %s: %w", template.ID, err)
		}
		log.WithFields(logrus.Fields{
			constvars.LoggingTemplateIDKey: template.ID,
			constvars.LoggingRedisKey:      key,
			"ttl":                          ttl.String(),
		}).Info("Template imported")
	}
	return nil
}
