// Package command is the cobra front end of the mock backend. Settings are
// resolved by viper from flags, SESDASH_MOCK_* environment variables and an
// optional mockbackend.yaml, in that order of precedence.
package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/sesdash/internal/buildinfo"
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/dmitrijs2005/sesdash/internal/mockbackend"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const envPrefix = "SESDASH_MOCK"

// serveFunc runs the backend with the resolved settings.
type serveFunc func(cmd *cobra.Command, cfg *mockbackend.Config) error

// NewRootCmd builds the command tree around its own viper instance.
func NewRootCmd() *cobra.Command {
	return newRootCmd(serve)
}

func newRootCmd(run serveFunc) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "mockbackend",
		Short: "In-memory SES monitoring API",
		Long:  "Serves seeded SES events, users, settings and a suppression list over the dashboard's API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	d := mockbackend.DefaultConfig()
	f := rootCmd.PersistentFlags()
	f.String("config", "", "Config file (default ./mockbackend.yaml)")
	f.String("listen", d.ListenAddr, "Listen address")
	f.String("jwt_secret", d.JWTSecret, "HMAC secret used to sign tokens")
	f.Duration("token_ttl", d.TokenTTL, "Token validity")
	f.Duration("shutdown_timeout", d.ShutdownTimeout, "Graceful shutdown timeout")
	f.String("admin.username", d.AdminUsername, "Seeded admin username")
	f.String("admin.password", d.AdminPassword, "Seeded admin password")
	f.String("admin.email", d.AdminEmail, "Seeded admin email")
	f.String("demo.username", "", "Seeded non-admin username, empty to skip")
	f.String("demo.password", "", "Seeded non-admin password")
	f.Int("events", d.Events, "Number of sends to seed")
	f.Int64("seed", d.Seed, "Random seed for the generated data")
	f.Bool("aws.enabled", d.AWSEnabled, "Start with the AWS integration enabled")
	f.String("aws.region", d.AWSRegion, "Initial AWS region")
	f.Duration("aws.sync_delay", d.SyncDelay, "How long a suppression sync takes")
	f.String("sns.topic_arn", "", "Only accept SNS notifications from this topic")
	f.String("log.level", d.LogLevel, "Log level: debug, info, warn, error")
	f.String("log.format", d.LogFormat, "Log format: json or text")

	f.VisitAll(func(fl *pflag.Flag) {
		_ = v.BindPFlag(fl.Name, fl)
	})

	rootCmd.AddCommand(newServeCmd(v, run), newHashPasswordCmd())
	return rootCmd
}

func initConfig(v *viper.Viper, stderr io.Writer) error {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("mockbackend")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	fmt.Fprintf(stderr, "Using config file: %s\n", v.ConfigFileUsed())
	return nil
}

// loadConfig copies the resolved settings into a mockbackend.Config.
func loadConfig(v *viper.Viper) *mockbackend.Config {
	return &mockbackend.Config{
		ListenAddr:      v.GetString("listen"),
		JWTSecret:       v.GetString("jwt_secret"),
		TokenTTL:        v.GetDuration("token_ttl"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		AdminUsername:   v.GetString("admin.username"),
		AdminPassword:   v.GetString("admin.password"),
		AdminEmail:      v.GetString("admin.email"),
		DemoUser:        v.GetString("demo.username"),
		DemoPassword:    v.GetString("demo.password"),
		Events:          v.GetInt("events"),
		Seed:            v.GetInt64("seed"),
		AWSEnabled:      v.GetBool("aws.enabled"),
		AWSRegion:       v.GetString("aws.region"),
		SyncDelay:       v.GetDuration("aws.sync_delay"),
		SNSTopicARN:     v.GetString("sns.topic_arn"),
		LogLevel:        v.GetString("log.level"),
		LogFormat:       v.GetString("log.format"),
	}
}

func newServeCmd(v *viper.Viper, run serveFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the mock backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, loadConfig(v))
		},
	}
}

func serve(cmd *cobra.Command, cfg *mockbackend.Config) error {
	buildinfo.PrintBuildData(cmd.OutOrStdout())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.OutOrStdout())

	app, err := mockbackend.NewApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("mock backend init error: %w", err)
	}
	return app.Run(ctx)
}

// newHashPasswordCmd prints a bcrypt hash suitable for seeding a real
// backend's users table. The password is read from stdin when no argument
// is given.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [PASSWORD]",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

// Execute runs the root command and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
