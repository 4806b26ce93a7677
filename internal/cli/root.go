package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/cimbrief/internal/logging"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool

	logger   *zap.Logger
	flushLog func()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cimbrief",
	Short: "cimbrief - CIM executive summaries and investment decks",
	Long: `cimbrief reads a Confidential Information Memorandum (PDF, DOCX, ODT,
HTML, Markdown or plain text), asks a language model to split it into
Company Overview, Financials, Market Opportunity and Risks, and produces:

- an executive summary in Markdown
- a short investment deck (PPTX, or PDF when the deck path ends in .pdf)
- a JSON dump of the presentation payload for inspection

Missing or malformed model output degrades to defaults; only a failed
summary request aborts the run.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, flush, err := logging.Install(verbose || viper.GetBool("output.verbose"))
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		logger, flushLog = l, flush
		return nil
	},
}

// Execute runs the root command; ctx cancels every in-flight request
func Execute(ctx context.Context) error {
	defer func() {
		if flushLog != nil {
			flushLog()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cimbrief %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.cimbrief/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".cimbrief"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CIMBRIEF_LLM_PROVIDER overrides llm.provider, and so on
	viper.SetEnvPrefix("CIMBRIEF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: cannot read config file %s: %v\n", cfgFile, err)
	}
}
