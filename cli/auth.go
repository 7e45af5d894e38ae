package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		email, password, err := credentialsPrompt(loginEmail, false)
		if err != nil {
			return err
		}

		if err := a.session.Login(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", email)
		return nil
	},
}

var signupEmail string

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account (signs you in on success)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		email, password, err := credentialsPrompt(signupEmail, true)
		if err != nil {
			return err
		}

		if err := a.session.Signup(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Printf("Account created, logged in as %s\n", email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.session.Logout()
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.session.IsAuthenticated() {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Println(a.session.UserID())
		return nil
	},
}

// credentialsPrompt collects email and password, prompting for whatever was
// not supplied by flag. With confirm set, the password is asked twice and a
// mismatch fails before anything is sent to the server.
func credentialsPrompt(email string, confirm bool) (string, string, error) {
	var err error
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return "", "", err
		}
	}
	if email == "" {
		return "", "", fmt.Errorf("email is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return "", "", err
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required")
	}

	if confirm {
		again, err := promptPassword("Confirm password: ")
		if err != nil {
			return "", "", err
		}
		if again != password {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}
	return email, password, nil
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}
