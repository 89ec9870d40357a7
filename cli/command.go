package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/pulse/config"
	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/logging"
	"github.com/grovetools/pulse/util/pathutil"
)

// CommandOptions holds common options for pulse commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard pulse flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to pulse.yml config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger returns the CLI component logger adjusted for --verbose and --json.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("pulse-cli")
	logger := entry.Logger

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return entry
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the file named by --config, or searches for one from the
// working directory. With no file anywhere the defaults are returned.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := GetOptions(cmd)
	if opts.ConfigFile != "" {
		path, err := pathutil.Expand(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		return config.Load(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.LoadFromWithLogger(cwd, GetLogger(cmd).Logger)
}

// Execute runs root and reports any error, returning the process exit code.
// Structured errors get the friendly message for their code; anything else
// (usually a flag or argument problem) is printed with a usage hint.
func Execute(root *cobra.Command) int {
	ApplyStyledHelpRecursive(root)

	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}

	if _, ok := errors.As(err); ok {
		verbose, _ := cmd.Flags().GetBool("verbose")
		h := NewErrorHandler(verbose)
		h.Out = cmd.ErrOrStderr()
		_ = h.Handle(err)
	} else {
		PrintError(cmd, err)
	}
	return 1
}
