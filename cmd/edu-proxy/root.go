package main

import (
	"errors"
	"io/fs"

	"github.com/Sternrassler/edu-api-proxy/internal/config"
	"github.com/Sternrassler/edu-api-proxy/pkg/client"
	"github.com/Sternrassler/edu-api-proxy/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli carries the configuration shared by all subcommands.
type cli struct {
	viper  *viper.Viper
	config *config.Config
}

func newRootCmd() *cobra.Command {
	app := &cli{viper: config.New()}

	rootCmd := &cobra.Command{
		Use:           "edu-proxy",
		Short:         "Read-only proxy for the education directory APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg, err := config.Load(app.viper)
			if err != nil {
				return err
			}
			app.config = cfg

			logging.Setup(logging.Config{
				Level:  logging.LogLevel(cfg.LogLevel),
				Pretty: cfg.LogPretty,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-pretty", false, "human-readable console logs")
	flags.String("user-agent", client.DefaultUserAgent, "User-Agent sent upstream")
	flags.String("redis-url", "", "Redis URL for the shared cache tier (empty = memory only)")
	app.viper.BindPFlag("log_level", flags.Lookup("log-level"))
	app.viper.BindPFlag("log_pretty", flags.Lookup("log-pretty"))
	app.viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	app.viper.BindPFlag("redis_url", flags.Lookup("redis-url"))

	rootCmd.AddCommand(app.newServeCmd(), app.newFetchCmd(), newVersionCmd())

	return rootCmd
}

// newClient builds the fetch client, with the Redis tier when configured.
func (app *cli) newClient() (*client.Client, error) {
	cfg := client.DefaultConfig(app.config.UserAgent)

	if app.config.RedisURL != "" {
		opts, err := redis.ParseURL(app.config.RedisURL)
		if err != nil {
			return nil, err
		}
		cfg.Redis = redis.NewClient(opts)
	}

	return client.New(cfg)
}
