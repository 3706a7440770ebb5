package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/azimage/internal/config"
	"github.com/rshade/azimage/internal/selector"
	"github.com/rshade/azimage/internal/workflow"
)

// runBrowse runs one interactive browse over the catalog and writes the report.
func runBrowse(cmd *cobra.Command, cfg *config.Config, c workflow.Catalog) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	driver := workflow.NewDriver(c, selector.New(cmd.InOrStdin(), out), out, workflow.Options{
		Region:          cfg.Defaults.Region,
		PageSize:        cfg.Defaults.PageSize,
		MicrosoftOnly:   cfg.Defaults.MicrosoftOnly,
		PublisherSearch: cfg.Defaults.PublisherSearch,
		OutputDir:       cfg.Report.OutputDir,
		Prefix:          cfg.Report.Prefix,
		MaxVersions:     cfg.Report.MaxVersions,
	})

	res, err := driver.Run(ctx)
	if err != nil {
		logger.Debug().
			Ctx(ctx).
			Str("state", driver.State().String()).
			Int("exit_code", workflow.ExitCode(err)).
			Err(err).
			Msg("browse ended without a report")
		return err
	}

	logger.Info().
		Ctx(ctx).
		Str("publisher", res.Publisher.Name).
		Str("offer", res.Offer.Name).
		Str("sku", res.Sku.Name).
		Str("version", res.Report.Version).
		Str("report", res.ReportPath).
		Msg("report written")
	return nil
}
