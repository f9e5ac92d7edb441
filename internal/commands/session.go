package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidosbek/staffwatch/internal/db"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a tracking session for a user",
	Long: `Start a new tracking session. Prints the session token the agent uses
for subsequent tick reports and lifecycle commands.

Examples:
  staffwatch start --user u-42 --company acme`,
	Run: withCore(func(cmd *cobra.Command, args []string) {
		userID, _ := cmd.Flags().GetString("user")
		companyID, _ := cmd.Flags().GetString("company")

		session, err := db.StartSession(context.Background(), userID, companyID, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("⏱️  Started session for user %s\n", session.UserID)
		fmt.Printf("Token: %s\n", session.Token)
		fmt.Printf("Started at: %s\n", session.StartedAt.Format("15:04:05"))
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause [token]",
	Short: "Pause an active session",
	Args:  cobra.ExactArgs(1),
	Run: withCore(func(cmd *cobra.Command, args []string) {
		session, err := db.PauseSession(context.Background(), args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("⏸️  Paused session for user %s\n", session.UserID)
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume [token]",
	Short: "Resume a paused session",
	Args:  cobra.ExactArgs(1),
	Run: withCore(func(cmd *cobra.Command, args []string) {
		session, err := db.ResumeSession(context.Background(), args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("▶️  Resumed session for user %s\n", session.UserID)
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop [token]",
	Short: "End a session and freeze its summary",
	Args:  cobra.ExactArgs(1),
	Run: withCore(func(cmd *cobra.Command, args []string) {
		session, err := db.EndSession(context.Background(), args[0], time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("⏹️  Ended session for user %s\n", session.UserID)
		fmt.Printf("Summary: %s\n", session.Summary)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a user's open session, if any",
	Run: withCore(func(cmd *cobra.Command, args []string) {
		userID, _ := cmd.Flags().GetString("user")

		session, err := db.GetOpenSession(context.Background(), userID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if session == nil {
			fmt.Println("No open session")
			return
		}

		elapsed := time.Since(session.StartedAt)
		fmt.Printf("⏱️  Session %s (%s)\n", session.Token, session.Status)
		fmt.Printf("Started at: %s\n", session.StartedAt.Format("15:04:05"))
		fmt.Printf("Elapsed time: %s\n", formatDuration(elapsed))
	}),
}

func init() {
	startCmd.Flags().String("user", "", "User identifier")
	startCmd.Flags().String("company", "", "Company identifier")
	startCmd.MarkFlagRequired("user")
	startCmd.MarkFlagRequired("company")

	statusCmd.Flags().String("user", "", "User identifier")
	statusCmd.MarkFlagRequired("user")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
