package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sharedeck/internal/api"
	"sharedeck/internal/log"
	"sharedeck/internal/tui"
	"sharedeck/internal/upload"
)

// browseCmd launches the interactive workspace.
func browseCmd() *cobra.Command {
	var (
		startPath string
		dropDir   string
	)

	cmd := &cobra.Command{
		Use:   "browse [path]",
		Short: "Open the interactive workspace",
		Long: `Open the terminal workspace against the configured server. The last
visited directory is restored unless a path is given. With --drop-dir,
files placed in that local directory are uploaded to the directory
currently open in the workspace.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, st, err := newClient()
			if err != nil {
				return err
			}
			// The TUI owns the terminal, so logs go to a file.
			log.Setup(st.Dir(), logLevel)

			me, err := client.Me(context.Background())
			if err != nil {
				return fmt.Errorf("cannot reach server: %w", err)
			}
			if !me.Authenticated && me.GuestMode == "disabled" {
				return fmt.Errorf("not signed in: run 'sharedeck login' first")
			}
			if !me.Permissions.CanBrowse {
				return fmt.Errorf("this session has no browse permission")
			}

			if len(args) > 0 {
				startPath = args[0]
			}

			var dropper *upload.DropWatcher
			if dropDir != "" {
				dropper, err = upload.NewDropWatcher(dropDir)
				if err != nil {
					return err
				}
				defer dropper.Stop()
			}

			m := tui.New(client, st, startPath, dropper)
			p := tea.NewProgram(m, tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				fmt.Fprintf(os.Stderr, "workspace error: %v\n", err)
				os.Exit(1)
			}
			if fm, ok := final.(*tui.Model); ok && fm.FatalErr() != nil {
				return fmt.Errorf("%w: run 'sharedeck login' to start a new session", fm.FatalErr())
			}

			// The server may have rotated the session cookie; keep the
			// stored token current for the next invocation.
			if token := client.SessionToken(); token != "" {
				if err := st.SaveSessionToken(token); err != nil {
					fmt.Fprintf(os.Stderr, "warning: could not persist session: %v\n", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dropDir, "drop-dir", "", "local directory watched for files to upload")

	return cmd
}

// ensureIdentity fetches /api/me and fails for anonymous sessions.
func ensureIdentity(ctx context.Context, client *api.Client) (*api.Identity, error) {
	me, err := client.Me(ctx)
	if err != nil {
		return nil, err
	}
	if !me.Authenticated && me.GuestMode == "disabled" {
		return nil, fmt.Errorf("not signed in: run 'sharedeck login' first")
	}
	return me, nil
}
