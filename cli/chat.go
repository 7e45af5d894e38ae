package cli

import (
	"fmt"
	"strings"

	"taskflow-cli/tui"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the AI task assistant",
	Long:  "With a message argument, sends it and prints the reply. Without one, opens the interactive chat page.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		if len(args) == 0 {
			return tui.RunChat(a.chat)
		}

		reply, err := a.chat.Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if reply == nil {
			return nil
		}
		fmt.Println(reply.Content)
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive task dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}
		return tui.RunDashboard(a.list)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd, dashboardCmd)
}
