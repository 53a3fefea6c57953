// Command sharedeck is a terminal workspace for a self-hosted
// file-sharing server: browse and preview the shared tree, upload with
// progress, generate scp/rsync command lines, manage share links, and
// administer the server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sharedeck/internal/api"
	"sharedeck/internal/log"
	"sharedeck/internal/prefs"
)

var version = "dev"

var (
	serverURL string
	configDir string
	logLevel  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "sharedeck",
		Short:   "Terminal client for a self-hosted file-sharing server",
		Long: `Sharedeck is a terminal workspace for a self-hosted file-sharing
server: browse the shared tree, preview and download files, upload with
progress, generate scp/rsync transfer commands, and manage share links.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetupCLI(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", os.Getenv("SHAREDECK_SERVER"), "server base URL (or SHAREDECK_SERVER)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "preference directory (default is $HOME/.config/sharedeck)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(shareCmd())
	rootCmd.AddCommand(adminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func store() *prefs.Store {
	return prefs.NewStore(configDir)
}

// newClient builds an API client against the configured server and
// restores the persisted session, when one exists.
func newClient() (*api.Client, *prefs.Store, error) {
	if serverURL == "" {
		return nil, nil, fmt.Errorf("no server configured: pass --server or set SHAREDECK_SERVER")
	}
	client, err := api.New(serverURL)
	if err != nil {
		return nil, nil, err
	}
	st := store()
	if token := st.SessionToken(); token != "" {
		client.SetSessionToken(token)
	}
	return client, st, nil
}
