package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		email, password := loginEmail, loginPassword
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no password given")
			}
			password = strings.TrimSpace(line)
		}
		if _, err := a.auth.SignIn(ctx, email, password); err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		s := a.session.Current()
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", s.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.session.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireSession(); err != nil {
			return err
		}
		s := a.session.Current()
		if !s.Fresh {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: access token has expired")
		}
		u, err := a.api.Me(cmd.Context(), s.Token)
		if err != nil {
			return err
		}
		w := newTable(cmd.OutOrStdout())
		fmt.Fprintf(w, "id\t%s\n", u.ID)
		fmt.Fprintf(w, "email\t%s\n", u.Email)
		fmt.Fprintf(w, "name\t%s\n", u.FullName)
		fmt.Fprintf(w, "role\t%s\n", u.Role)
		fmt.Fprintf(w, "interests\t%s\n", strings.Join(u.Interests, ", "))
		if u.EmailSettings != nil {
			fmt.Fprintf(w, "digest email\t%t\n", u.EmailSettings.IsSubscribed)
		}
		return w.Flush()
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when empty)")
	_ = loginCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
