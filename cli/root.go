package cli

import (
	"fmt"
	"os"

	"taskflow-cli/api"
	"taskflow-cli/chat"
	"taskflow-cli/config"
	"taskflow-cli/session"
	"taskflow-cli/tasks"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "taskflow",
	Short:         "TaskFlow client",
	Long:          "Command-line client for the TaskFlow task-management service: account, tasks and the AI assistant.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	config.LoadEnv()
	config.InitLogger()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app wires the session store into the request client and the typed clients
// on top of it. One instance per command invocation.
type app struct {
	session *session.Store
	tasks   *tasks.Client
	list    *tasks.TaskList
	chat    *chat.Relay
}

func newApp() (*app, error) {
	tokenPath, err := config.TokenPath()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve credential path: %v", err)
	}

	base := config.APIBaseURL()
	sess := session.Open(base, tokenPath)
	sess.Subscribe(func(ev session.Event) {
		// The web client redirects to the login page here; the closest thing a
		// CLI has is telling the user where to go.
		if ev == session.EventLoggedOut {
			config.Logger.Warn("Session cleared; run 'taskflow login' to sign in again")
		}
	})

	client := api.New(sess)
	taskClient := tasks.NewClient(client, base)

	return &app{
		session: sess,
		tasks:   taskClient,
		list:    tasks.NewTaskList(taskClient),
		chat:    chat.NewRelay(client, base, sess),
	}, nil
}

func requireAuth(a *app) error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'taskflow login' first")
	}
	return nil
}
