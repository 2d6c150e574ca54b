// Package cli builds the sifter command tree.
package cli

import (
	"embed"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/sifter/internal/version"
	"github.com/arthur-debert/sifter/pkg/cobrax/topics"
	"github.com/arthur-debert/sifter/pkg/config"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/logging"
	"github.com/arthur-debert/sifter/pkg/report"
)

//go:embed help
var helpFS embed.FS

// app carries what the subcommands share once the root has set up.
type app struct {
	verbosity  int
	configPath string
	color      string

	cfg *config.Config
	fs  afero.Fs
}

// styled reports whether w should get colors under the loaded config.
func (a *app) styled(w io.Writer) bool {
	f, _ := w.(*os.File)
	return report.Styled(a.cfg.Output.Color, f)
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = config.UserConfigPath()
	}
	overrides := map[string]interface{}{}
	if a.color != "" {
		overrides["output.color"] = a.color
	}

	cfg, err := config.LoadFrom(path, overrides)
	if err != nil {
		return err
	}
	a.cfg = cfg

	verbosity := a.verbosity
	if verbosity == 0 {
		verbosity = cfg.Logging.Verbosity
	}
	logging.SetupLogger(verbosity)
	log.Debug().Str("command", cmd.Name()).Msg("Command started")
	return nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{fs: afero.NewOsFs()})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "sifter",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.color, "color", "", MsgFlagColor)

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newPluginsCmd(a))
	rootCmd.AddCommand(newInitCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	renderer := topics.NewMarkdownRenderer(report.Styled(config.ColorAuto, os.Stdout))
	if tm, err := topics.Load(helpFS, "help", topics.Options{Renderer: renderer}); err == nil {
		tm.Install(rootCmd)
	}

	return rootCmd
}
