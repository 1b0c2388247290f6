// main.go - Admin control tool for videographer profiles
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"videoprofiles/internal"
	"videoprofiles/internal/config"
	"videoprofiles/internal/logger"
	"videoprofiles/internal/profiles"
	"videoprofiles/internal/seeder"
)

const (
	defaultShutdownTimeout = 30 * time.Second
)

// Command defines the interface for all command implementations
type Command interface {
	// Name returns the command name
	Name() string
	// Description returns the command description
	Description() string
	// Execute runs the command with the given app and args
	Execute(ctx context.Context, app *internal.Application, args []string) error
}

// The set of available commands
var commands = []Command{
	&MigrateCommand{},
	&SubmitCommand{},
	&SeedCommand{},
	&StatusCommand{},
	&HelpCommand{},
}

var log = logrus.New()

func main() {
	flag.Parse()
	_ = godotenv.Load()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := <-sigChan
		log.Warnf("Received signal: %v, initiating cleanup...", sig)
		cancel()
	}()

	cmdName, args := parseArgs()

	cmd := findCommand(cmdName)
	if cmd == nil {
		showUsageAndExit()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log = logger.New(cfg)

	var app *internal.Application
	if cmd.Name() != "help" {
		app, err = internal.NewAppWithConfig(cfg)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize app, proceeding with limited functionality")
		}
	}

	defer func() {
		if app != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
			defer cancel()
			if err := app.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("Cleanup error")
			}
		}
	}()

	if err := cmd.Execute(ctx, app, args); err != nil {
		log.WithError(err).Errorf("Command %s failed", cmd.Name())
		os.Exit(1)
	}

	log.Debugf("Command %s completed successfully", cmd.Name())
}

// MigrateCommand creates the profiles table when it is missing
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string        { return "migrate" }
func (c *MigrateCommand) Description() string { return "Creates the profiles table if it does not exist" }

func (c *MigrateCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if app == nil {
		return fmt.Errorf("app initialization failed, cannot run migrations")
	}

	log.Info("Ensuring profiles schema...")
	if err := app.DBManager.MigrateDatabase(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("Profiles schema is ready")
	return nil
}

// SubmitCommand registers the profiles described in a YAML or JSON file
type SubmitCommand struct{}

func (c *SubmitCommand) Name() string { return "submit" }
func (c *SubmitCommand) Description() string {
	return "Submits every profile document in a YAML or JSON file: submit <file>"
}

func (c *SubmitCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s <file>", c.Name())
	}
	if app == nil {
		return fmt.Errorf("app initialization failed, cannot connect to database")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	submitter := profiles.NewSubmitter(profiles.NewGormStore(app.DBManager.GetConnection()), app.Logger)
	summary, err := submitDocuments(ctx, f, submitter, os.Stdout)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"submitted":  summary.Submitted,
		"duplicates": summary.Duplicates,
		"failed":     summary.Failed,
	}).Info("Submission file processed")

	if summary.Failed > 0 || summary.Duplicates > 0 {
		return fmt.Errorf("%d of %d profiles were not stored", summary.Failed+summary.Duplicates, summary.Total())
	}
	return nil
}

// SeedCommand populates the profiles table with sample registrations
type SeedCommand struct{}

func (c *SeedCommand) Name() string        { return "seed" }
func (c *SeedCommand) Description() string { return "Seeds the database with sample profiles" }

func (c *SeedCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	count := fs.Int("profiles", 25, "number of profiles to generate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if app == nil {
		return fmt.Errorf("unable to initialise app")
	}

	submitter := profiles.NewSubmitter(profiles.NewGormStore(app.DBManager.GetConnection()), app.Logger)
	summary, err := seeder.NewSeeder(submitter, app.Logger, *count).Run(ctx)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"created":    summary.Created,
		"duplicates": summary.Duplicates,
	}).Info("Seeding finished")
	return nil
}

// StatusCommand implements a command to check the system status
type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return "Shows the current system status" }

func (c *StatusCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if app == nil {
		return fmt.Errorf("cannot check status: app initialization failed")
	}

	if err := app.DBManager.Ping(ctx); err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	fmt.Println("System Status:")
	fmt.Printf("- Database: Connected (%s)\n", app.Config.DatabaseType)

	if !app.DBManager.HasProfilesTable() {
		fmt.Println("- Profiles table: missing (run migrate)")
		return nil
	}

	db := app.DBManager.GetConnection()
	var count int64
	if err := db.WithContext(ctx).Model(&profiles.Profile{}).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	fmt.Println("- Profiles table: present")
	fmt.Printf("- Profiles: %d\n", count)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB: %w", err)
	}

	stats := sqlDB.Stats()
	fmt.Printf("- Max Open Connections: %d\n", stats.MaxOpenConnections)
	fmt.Printf("- Open Connections: %d\n", stats.OpenConnections)
	fmt.Printf("- In Use: %d\n", stats.InUse)
	fmt.Printf("- Idle: %d\n", stats.Idle)

	return nil
}

// HelpCommand implements a command to show usage information
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Shows usage information" }

func (c *HelpCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	printUsage()
	return nil
}

// parseArgs parses the command name and arguments
func parseArgs() (string, []string) {
	args := flag.Args()
	if len(args) == 0 {
		return "help", []string{}
	}
	return args[0], args[1:]
}

// findCommand finds a command by name
func findCommand(name string) Command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

func printUsage() {
	fmt.Println("Usage: vpctl [command] [args...]")
	fmt.Println("Available commands:")

	for _, cmd := range commands {
		fmt.Printf("  %s: %s\n", cmd.Name(), cmd.Description())
	}
}

// showUsageAndExit shows usage information and exits
func showUsageAndExit() {
	printUsage()
	os.Exit(1)
}
