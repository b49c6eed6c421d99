// internal/commands/auth.go
package promptsql

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/promptsql/internal/providers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	authUsername string
	authPassword string
)

// loginCmd implements 'login', which exchanges credentials for a session token.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session token",
	Long: `The 'login' command asks the query service for a session token and saves it
to the credential file. Missing --username or --password values are read from
PROMPTSQL_USERNAME / PROMPTSQL_PASSWORD or prompted for.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig()
		if err != nil {
			return err
		}
		username, password, err := readCredentials(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}

		token, err := newBackend(cfg).Login(cmd.Context(), username, password)
		if err != nil {
			if errors.Is(err, providers.ErrUnauthorized) {
				return errors.New("login failed: invalid username or password")
			}
			return fmt.Errorf("login failed: %w", err)
		}
		if err := newCredentials(cfg).Save(token); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Logged in as %s.", username)
		return nil
	},
}

// logoutCmd implements 'logout', which discards the saved session token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the saved session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig()
		if err != nil {
			return err
		}
		if err := newCredentials(cfg).Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

// registerCmd implements 'register', which creates an account on the query service.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig()
		if err != nil {
			return err
		}
		username, password, err := readCredentials(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if err := newBackend(cfg).Register(cmd.Context(), username, password); err != nil {
			var bad *providers.BadRequestError
			if errors.As(err, &bad) && bad.Detail != "" {
				return fmt.Errorf("registration failed: %s", bad.Detail)
			}
			return fmt.Errorf("registration failed: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Account %s created. Run `promptsql login` to start a session.", username)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&authUsername, "username", "u", "", "account username")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "account password")
	}
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd)
}

// readCredentials resolves the username and password from flags, the
// environment, or a prompt on in.
func readCredentials(in io.Reader, out io.Writer) (string, string, error) {
	username := strings.TrimSpace(authUsername)
	if username == "" {
		username = strings.TrimSpace(viper.GetString("username"))
	}
	password := authPassword
	if password == "" {
		password = viper.GetString("password")
	}

	reader := bufio.NewReader(in)
	var err error
	if username == "" {
		if username, err = prompt(reader, out, "Username: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = prompt(reader, out, "Password: "); err != nil {
			return "", "", err
		}
	}
	if username == "" || password == "" {
		return "", "", errors.New("username and password are required")
	}
	return username, password, nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
