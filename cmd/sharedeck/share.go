package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sharedeck/internal/api"
	"sharedeck/internal/upload"
)

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Create, revoke, and use share links",
	}
	cmd.AddCommand(shareCreateCmd())
	cmd.AddCommand(shareRevokeCmd())
	cmd.AddCommand(shareUploadCmd())
	return cmd
}

func shareCreateCmd() *cobra.Command {
	var (
		expiry string
		mode   string
	)

	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Create a time-bounded share link for a server path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !api.ValidShareMode(mode) {
				return fmt.Errorf("mode must be browse, download, or upload")
			}
			client, _, err := newClient()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if _, err := ensureIdentity(ctx, client); err != nil {
				return err
			}
			link, err := client.CreateShare(ctx, args[0], expiry, mode)
			if err != nil {
				return err
			}
			fmt.Println(link.URL)
			fmt.Printf("token %s, expires %s\n", link.Token, link.ExpiresAt.Format("2006-01-02 15:04 MST"))
			return nil
		},
	}

	cmd.Flags().StringVar(&expiry, "expiry", "24h", "link lifetime as a Go duration")
	cmd.Flags().StringVar(&mode, "mode", api.ShareModeDownload, "browse, download, or upload")

	return cmd
}

func shareRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if _, err := ensureIdentity(ctx, client); err != nil {
				return err
			}
			if err := client.RevokeShare(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("revoked")
			return nil
		},
	}
}

// shareUploadCmd pushes files through an upload-mode share link. No
// session is needed; the token is the whole authorization.
func shareUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <token> <files...>",
		Short: "Upload files through an upload-mode share link",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}
			files, err := upload.Gather(args[1:])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("nothing to upload")
				return nil
			}
			result, err := upload.Send(context.Background(), client, client.ShareUploadEndpoint(args[0]), "", files, func(p upload.Progress) {
				if pct := p.Percent(); pct >= 0 {
					fmt.Printf("\r%3.0f%%", pct)
				}
			})
			fmt.Println()
			if err != nil {
				return err
			}
			for _, name := range result.Uploaded {
				fmt.Printf("uploaded %s\n", name)
			}
			for _, e := range result.Errors {
				fmt.Printf("rejected: %s\n", e)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d file(s) rejected", len(result.Errors))
			}
			return nil
		},
	}
	return cmd
}
