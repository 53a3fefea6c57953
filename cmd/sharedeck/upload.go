package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sharedeck/internal/upload"
)

// uploadCmd sends local files as one batch, with a progress readout.
func uploadCmd() *cobra.Command {
	var (
		remotePath string
		pattern    string
		fromDir    string
	)

	cmd := &cobra.Command{
		Use:   "upload [files...]",
		Short: "Upload local files to the server",
		Long: `Upload the given local files to a server directory as one batch.
With --glob, files under --dir (default ".") whose relative path matches
the pattern are uploaded instead, e.g.:

  sharedeck upload --glob '**/*.pdf' --to docs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && pattern == "" {
				return fmt.Errorf("give files to upload, or --glob")
			}

			client, _, err := newClient()
			if err != nil {
				return err
			}
			ctx := context.Background()
			me, err := ensureIdentity(ctx, client)
			if err != nil {
				return err
			}
			if !me.Permissions.CanUpload {
				return fmt.Errorf("this session has no upload permission")
			}

			var files []upload.File
			if pattern != "" {
				files, err = upload.GatherGlob(fromDir, pattern)
			} else {
				files, err = upload.Gather(args)
			}
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("nothing to upload")
				return nil
			}

			for _, f := range files {
				fmt.Printf("  %s\n", f.Path)
			}
			fmt.Printf("uploading %d file(s) to %q\n", len(files), remotePath)

			result, err := upload.Send(ctx, client, client.UploadEndpoint(), remotePath, files, func(p upload.Progress) {
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

	cmd.Flags().StringVar(&remotePath, "to", "", "server directory to upload into (default is the share root)")
	cmd.Flags().StringVar(&pattern, "glob", "", "upload files matching this glob instead of arguments")
	cmd.Flags().StringVar(&fromDir, "dir", ".", "local directory the glob is evaluated against")

	return cmd
}
