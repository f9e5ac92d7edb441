package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aidosbek/staffwatch/internal/config"
	"github.com/aidosbek/staffwatch/internal/db"
	"github.com/aidosbek/staffwatch/internal/parser"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "staffwatch",
	Short: "Activity tracking sessions and attendance reports",
	Long: `staffwatch records desktop agent activity into tracking sessions and
reduces the recorded intervals into attendance and usage reports.`,
}

// initCore loads config and initializes the database, panicking on failure
func initCore() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.DatabasePath != "" {
		err = db.Open(cfg.DatabasePath, cfg.Debug)
	} else {
		err = db.Initialize(cfg.Debug)
	}
	if err != nil {
		panic(err)
	}

	min, max := cfg.TickBounds()
	if min <= 0 {
		min = time.Second
	}
	db.TickBounds = db.TickLimits{Min: min, Max: max}
	parser.AddBrowsers(cfg.Browsers)
}

// withCore wraps a command function to initialize config and database first
func withCore(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		initCore()
		fn(cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(attendanceCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(versionCmd)
}
