package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"synapse-digest/internal/config"
	"synapse-digest/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	appCfg   config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "synapse-digest",
	Short:         "SynapseDigest CLI",
	Long:          "Terminal client for the SynapseDigest news API: feeds, reactions, polls, comments and notifications.",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return showPrivacyNotice(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override app.log_level (debug, info, warn, error)")
}

func initConfig() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error reading .env: %v\n", err)
	}

	v := viper.GetViper()
	v.SetEnvPrefix("SYNAPSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/synapse-digest")
		v.AddConfigPath("configs")
	}

	usedFile := ""
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		usedFile = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
	if logLevel != "" {
		appCfg.App.LogLevel = logLevel
	}
	logger.SetupDefault(os.Stderr, appCfg.App.LogLevel, appCfg.App.LogFormat)
	if usedFile != "" {
		slog.Debug("using config file", "path", usedFile)
	}
}

// bindEnv registers the keys AutomaticEnv cannot discover on its own because
// they may be absent from the config file.
func bindEnv(v *viper.Viper) {
	for _, k := range []string{
		"app.log_level", "app.log_format", "app.login_url",
		"api.base_url", "api.timeout", "api.rate_limit", "api.burst",
		"auth.base_url", "auth.api_key",
		"store.driver", "store.path", "store.prefix",
		"redis.addr", "redis.username", "redis.password", "redis.db",
		"openai.api_key", "openai.model", "openai.base_url",
		"digest.output_dir", "digest.title", "digest.language",
		"metrics.addr",
	} {
		_ = v.BindEnv(k)
	}
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
