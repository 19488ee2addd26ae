package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/whmcsguru/ExceptionParser/internal/logging"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "exparse",
	Short: "exparse — PHP error log viewer and translator",
	Long: `exparse reads application error logs, picks out structured error entries
and prints each one as a diagnostic block: the parsed fields, any SQL
involved, a plain-language explanation for known failures, the likely
origin and the stack trace. Every other line is printed unchanged.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(os.Stderr, viper.GetBool("verbose"))
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the context,
// which stops processing at the next line boundary.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.exparse.yaml)")
	flags.StringP("output", "o", "text", "output format: text, json")
	flags.Bool("color", false, "colorize diagnostic blocks")
	flags.Bool("summary", false, "print a summary to stderr when done")
	flags.BoolP("verbose", "v", false, "log diagnostics to stderr")

	for _, name := range []string{"output", "color", "summary", "verbose"} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".exparse")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("exparse")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
