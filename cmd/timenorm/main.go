package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/internal/version"
	"github.com/hrygo/timenorm/server"
	"github.com/hrygo/timenorm/store"
	"github.com/hrygo/timenorm/store/db"
)

var (
	rootCmd = &cobra.Command{
		Use:   "timenorm",
		Short: "A temporal expression normalization service that resolves expressions to TIMEX3 annotations.",
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile, err := loadProfile()
			if err != nil {
				slog.Error("failed to validate profile", "error", err)
				os.Exit(1)
			}
			if err := serve(instanceProfile); err != nil {
				slog.Error("failed to serve", "error", err)
				os.Exit(1)
			}
		},
	}
)

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)
	viper.SetDefault("timezone", "UTC")

	flags := rootCmd.PersistentFlags()
	flags.String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	flags.String("addr", "", "address of server")
	flags.Int("port", 8081, "port of server")
	flags.String("data", "", "data directory")
	flags.String("driver", "sqlite", "database driver")
	flags.String("dsn", "", "database source name(aka. DSN)")
	flags.String("timezone", "UTC", "default time zone of reference times")
	flags.String("direction", "", `default resolution direction: "past", "future", "closest", "this" or "none"`)
	flags.Int("max-depth", 0, "maximum number of nested resolution steps")
	flags.Int("workers", 0, "number of documents normalized concurrently in a batch")
	flags.Float64("rate-limit", 0, "requests per second per client, 0 disables limiting")
	flags.Int("rate-burst", 0, "burst size of the rate limit")

	for _, name := range []string{
		"mode", "addr", "port", "data", "driver", "dsn", "timezone",
		"direction", "max-depth", "workers", "rate-limit", "rate-burst",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("timenorm")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	rootCmd.AddCommand(normalizeCmd, expandCmd, constantsCmd)
}

// loadProfile builds the profile from flags and TIMENORM_* variables.
func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:             viper.GetString("mode"),
		Addr:             viper.GetString("addr"),
		Port:             viper.GetInt("port"),
		Data:             viper.GetString("data"),
		Driver:           viper.GetString("driver"),
		DSN:              viper.GetString("dsn"),
		DefaultTimezone:  viper.GetString("timezone"),
		ResolveDirection: viper.GetString("direction"),
		MaxResolveDepth:  viper.GetInt("max-depth"),
		Workers:          viper.GetInt("workers"),
		RateLimit:        viper.GetFloat64("rate-limit"),
		RateBurst:        viper.GetInt("rate-burst"),
	}
	instanceProfile.Version = version.GetCurrentVersion(instanceProfile.Mode)
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

func serve(instanceProfile *profile.Profile) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("failed to create db driver: %w", err)
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	s, err := server.NewServer(ctx, instanceProfile, storeInstance)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	printGreetings(instanceProfile)

	c := make(chan os.Signal, 1)
	// Trigger graceful shutdown on SIGINT or SIGTERM.
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	s.Shutdown(ctx)
	return nil
}

func printGreetings(p *profile.Profile) {
	fmt.Printf("timenorm %s started successfully!\n", p.Version)
	fmt.Printf("Mode: %s\nDriver: %s\nTimezone: %s\n", p.Mode, p.Driver, p.DefaultTimezone)
	if p.Driver == "sqlite" {
		fmt.Printf("Database: %s\n", p.DSN)
	}
	if len(p.Addr) == 0 {
		fmt.Printf("Listening on port %d\n", p.Port)
	} else {
		fmt.Printf("Listening on %s:%d\n", p.Addr, p.Port)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
