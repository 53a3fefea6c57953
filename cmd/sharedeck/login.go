package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd() *cobra.Command {
	var (
		username string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, st, err := newClient()
			if err != nil {
				return err
			}

			if username == "" {
				fmt.Print("username: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				username = strings.TrimSpace(line)
			}
			if username == "" {
				return fmt.Errorf("a username is required")
			}

			fmt.Print("password: ")
			password, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("cannot read password: %w", err)
			}

			ctx := context.Background()
			if err := client.Login(ctx, username, string(password), remember); err != nil {
				return err
			}

			token := client.SessionToken()
			if token == "" {
				return fmt.Errorf("server accepted the login but set no session cookie")
			}
			if err := st.SaveSessionToken(token); err != nil {
				return fmt.Errorf("could not persist session: %w", err)
			}

			me, err := client.Me(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("signed in as %s (%s)\n", me.Username, me.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "username (prompted when omitted)")
	cmd.Flags().BoolVar(&remember, "remember", true, "request a long-lived session")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, st, err := newClient()
			if err != nil {
				return err
			}
			ctx := context.Background()
			// Logout is CSRF-protected like every other mutation.
			client.Me(ctx)
			if err := client.Logout(ctx); err != nil {
				// The server-side session may already be gone; the local
				// token still gets cleared.
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
			if err := st.ClearSessionToken(); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}
