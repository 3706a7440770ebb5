// Package cli implements the azimage command line: flag parsing, config
// loading, logging setup and the interactive browse command.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/azimage/internal/azure"
	"github.com/rshade/azimage/internal/config"
	"github.com/rshade/azimage/internal/logging"
	"github.com/rshade/azimage/internal/workflow"
	"github.com/rshade/azimage/pkg/version"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// CatalogFactory builds the Catalog used by the browse command.
type CatalogFactory func(cfg *config.Config) workflow.Catalog

// azureCatalog is the CatalogFactory backed by the Azure CLI.
func azureCatalog(cfg *config.Config) workflow.Catalog {
	return azure.NewClient(
		azure.WithBinary(cfg.Catalog.AzPath),
		azure.WithTimeout(cfg.Catalog.Timeout),
	)
}

// Flags holds the root command flag values.
type Flags struct {
	Region          string
	PageSize        int
	MicrosoftOnly   bool
	PublisherSearch string
	OutputDir       string
	Prefix          string
	ConfigPath      string
	Debug           bool
}

// NewRootCmd creates the root Cobra command for the azimage CLI, backed by
// the Azure CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithCatalog(ver, azureCatalog)
}

// NewRootCmdWithCatalog creates the root command with an explicit catalog
// factory for testability.
func NewRootCmdWithCatalog(ver string, newCatalog CatalogFactory) *cobra.Command {
	var (
		flags     Flags
		cfg       *config.Config
		logResult *logging.LogPathResult
	)

	cmd := &cobra.Command{
		Use:     "azimage",
		Short:   "Browse Azure VM images and write a Markdown report",
		Long:    rootCmdLong,
		Version: ver,
		Example: rootCmdExample,
		Args:    cobra.NoArgs,
		// main prints errors and maps them to exit codes.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			cfg = loaded

			result := setupLogging(cmd, cfg, flags.Debug)
			logResult = &result

			if !isTerminal(os.Stdin) {
				logger.Debug().Ctx(cmd.Context()).Msg("stdin is not a terminal; reading selections from input stream")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, cfg, newCatalog(cfg))
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (commit %s, built %s)\n",
		version.GetGitCommit(), version.GetBuildDate()))

	cmd.Flags().StringVar(&flags.Region, "region", config.DefaultRegion, "Azure region to browse")
	cmd.Flags().IntVar(&flags.PageSize, "page-size", config.DefaultPageSize, "items shown per page (must be >= 1)")
	cmd.Flags().BoolVar(&flags.MicrosoftOnly, "microsoft-only", false,
		"only list publishers whose name contains \"microsoft\"")
	cmd.Flags().StringVar(&flags.PublisherSearch, "publisher-search", "",
		"only list publishers whose name contains this text (case-insensitive)")
	cmd.Flags().StringVar(&flags.OutputDir, "output-dir", ".", "directory the report is written to")
	cmd.Flags().StringVar(&flags.Prefix, "prefix", config.DefaultReportPrefix, "report file name prefix")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "",
		"config file (default $AZIMAGE_HOME/config.yaml or ~/.azimage/config.yaml)")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "enable debug logging")

	return cmd
}

// loadConfig reads the config file and environment, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command, flags Flags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("region") {
		cfg.Defaults.Region = flags.Region
	}
	if changed("page-size") {
		cfg.Defaults.PageSize = flags.PageSize
	}
	if changed("microsoft-only") {
		cfg.Defaults.MicrosoftOnly = flags.MicrosoftOnly
	}
	if changed("publisher-search") {
		cfg.Defaults.PublisherSearch = flags.PublisherSearch
	}
	if changed("output-dir") {
		cfg.Report.OutputDir = flags.OutputDir
	}
	if changed("prefix") {
		cfg.Report.Prefix = flags.Prefix
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const rootCmdLong = `azimage walks the Azure Marketplace VM image catalog one level at a time:
publisher, offer, SKU. It resolves the newest version of the chosen SKU and
writes a Markdown report with the image reference, recent versions, the raw
metadata and deployment snippets.

At each prompt, type an item number to select it, or:
  n  next page        p  previous page
  s  select by number f  filter the list
  q  quit

The Azure CLI (az) must be installed and signed in.`

const rootCmdExample = `  # Browse images in the default region (eastus)
  azimage

  # Browse Microsoft publishers in West Europe, 30 per page
  azimage --region westeurope --microsoft-only --page-size 30

  # Jump straight to Canonical and write the report to ./reports
  azimage --publisher-search canonical --output-dir reports

  # Troubleshoot az invocations
  azimage --debug`
