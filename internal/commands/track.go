package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidosbek/staffwatch/internal/db"
)

var trackCmd = &cobra.Command{
	Use:   "track [token]",
	Short: "Report one agent activity interval",
	Long: `Report a single activity interval against an active session. Times are
RFC 3339; when omitted the interval ends now and spans --seconds.

Examples:
  staffwatch track <token> --seconds 30 --app "Google Chrome" --title "Inbox - Google Chrome"
  staffwatch track <token> --start 2024-01-10T09:00:00Z --end 2024-01-10T09:00:30Z --idle`,
	Args: cobra.ExactArgs(1),
	Run: withCore(func(cmd *cobra.Command, args []string) {
		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		seconds, _ := cmd.Flags().GetInt("seconds")
		idle, _ := cmd.Flags().GetBool("idle")
		appName, _ := cmd.Flags().GetString("app")
		title, _ := cmd.Flags().GetString("title")

		var start, end time.Time
		var err error
		if endStr != "" {
			end, err = time.Parse(time.RFC3339, endStr)
			if err != nil {
				fmt.Printf("Error: invalid end time '%s'\n", endStr)
				return
			}
		} else {
			end = time.Now()
		}
		if startStr != "" {
			start, err = time.Parse(time.RFC3339, startStr)
			if err != nil {
				fmt.Printf("Error: invalid start time '%s'\n", startStr)
				return
			}
		} else {
			start = end.Add(-time.Duration(seconds) * time.Second)
		}

		interval, err := db.RecordInterval(context.Background(), args[0], start, end, idle, appName, title)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		state := "active"
		if interval.Idle {
			state = "idle"
		}
		fmt.Printf("Recorded %s interval #%d (%ds)\n", state, interval.ID, interval.DurationSeconds)
		if interval.URL != "" {
			fmt.Printf("URL: %s\n", interval.URL)
		}
	}),
}

func init() {
	trackCmd.Flags().String("start", "", "Interval start (RFC 3339)")
	trackCmd.Flags().String("end", "", "Interval end (RFC 3339), default now")
	trackCmd.Flags().Int("seconds", 30, "Interval length when --start is omitted")
	trackCmd.Flags().Bool("idle", false, "Mark the interval as idle")
	trackCmd.Flags().String("app", "", "Focused application name")
	trackCmd.Flags().String("title", "", "Focused window title")
}
