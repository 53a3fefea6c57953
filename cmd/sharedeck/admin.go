package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sharedeck/internal/api"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer the server (admin role required)",
	}
	cmd.AddCommand(adminSettingsCmd())
	cmd.AddCommand(adminUsersCmd())
	cmd.AddCommand(adminLinksCmd())
	cmd.AddCommand(adminAuditCmd())
	return cmd
}

// adminClient signs in like every other command but additionally
// requires the admin permission.
func adminClient(ctx context.Context) (*api.Client, error) {
	client, _, err := newClient()
	if err != nil {
		return nil, err
	}
	me, err := ensureIdentity(ctx, client)
	if err != nil {
		return nil, err
	}
	if !me.Permissions.CanAdmin {
		return nil, fmt.Errorf("this session has no admin permission")
	}
	return client, nil
}

func adminSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change server settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := adminClient(ctx)
			if err != nil {
				return err
			}
			s, err := client.AdminSettings(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "guest_mode\t%s\n", s.GuestMode)
			fmt.Fprintf(w, "max_upload_size_mb\t%d\n", s.MaxUploadSizeMB)
			fmt.Fprintf(w, "upload_allow_regex\t%s\n", s.UploadAllowRegex)
			fmt.Fprintf(w, "upload_deny_regex\t%s\n", s.UploadDenyRegex)
			fmt.Fprintf(w, "upload_subdir\t%s\n", s.UploadSubdir)
			fmt.Fprintf(w, "collision_policy\t%s\n", s.CollisionPolicy)
			fmt.Fprintf(w, "default_share_expiry\t%s\n", s.DefaultShareExpiry)
			fmt.Fprintf(w, "allow_delete\t%t\n", s.AllowDelete)
			fmt.Fprintf(w, "allow_rename\t%t\n", s.AllowRename)
			fmt.Fprintf(w, "read_only\t%t\n", s.ReadOnly)
			fmt.Fprintf(w, "theme\t%s\n", s.Theme)
			return w.Flush()
		},
	}
	cmd.AddCommand(adminSettingsSetCmd())
	return cmd
}

// adminSettingsSetCmd mutates a single named setting, reposting the full
// settings document the way the server expects.
func adminSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one server setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := adminClient(ctx)
			if err != nil {
				return err
			}
			s, err := client.AdminSettings(ctx)
			if err != nil {
				return err
			}
			if err := applySetting(s, args[0], args[1]); err != nil {
				return err
			}
			if err := client.AdminUpdateSettings(ctx, *s); err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func applySetting(s *api.Settings, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%s wants true or false, got %q", key, value)
		}
		return b, nil
	}

	switch key {
	case "guest_mode":
		s.GuestMode = value
	case "max_upload_size_mb":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s wants a number, got %q", key, value)
		}
		s.MaxUploadSizeMB = n
	case "upload_allow_regex":
		s.UploadAllowRegex = value
	case "upload_deny_regex":
		s.UploadDenyRegex = value
	case "upload_subdir":
		s.UploadSubdir = value
	case "collision_policy":
		s.CollisionPolicy = value
	case "default_share_expiry":
		s.DefaultShareExpiry = value
	case "allow_delete":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.AllowDelete = b
	case "allow_rename":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.AllowRename = b
	case "read_only":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.ReadOnly = b
	case "theme":
		s.Theme = value
	case "virus_scan_command":
		s.VirusScanCommand = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func adminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and manage user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := adminClient(ctx)
			if err != nil {
				return err
			}
			users, err := client.AdminUsers(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tSTATUS\tCREATED")
			for _, u := range users {
				status := "active"
				if u.Disabled {
					status = "disabled"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, status, u.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(adminUserCreateCmd())
	cmd.AddCommand(adminUserPasswordCmd())
	cmd.AddCommand(adminUserDisableCmd())
	cmd.AddCommand(adminUserDeleteCmd())
	return cmd
}

func promptPassword() (string, error) {
	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("cannot read password: %w", err)
	}
	return string(password), nil
}

func adminUserCreateCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := adminClient(ctx)
			if err != nil {
				return err
			}
			password, err := promptPassword()
			if err != nil {
				return err
			}
			id, err := client.AdminCreateUser(ctx, args[0], password, role)
			if err != nil {
				return err
			}
			fmt.Printf("created %s (id %d)\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "user", "account role (user or admin)")
	return cmd
}

func adminUserPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password <username>",
		Short: "Set a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := adminClient(ctx)
			if err != nil {
				return err
			}
			password, err := promptPassword()
			if err != nil {
				return err
			}
			if err := client.AdminSetPassword(ctx, args[0], password); err != nil {
				return err
			}
			fmt.Println("password updated")
			return nil
		},
	}
}

func adminUserDisableCmd() *cobra.Command {
	var enable bool
	cmd := &cobra.Command{
		Use:   "disable <username>",
		Short: "Disable (or re-enable) a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := adminClient(ctx)
			if err != nil {
				return err
			}
			if err := client.AdminSetUserDisabled(ctx, args[0], !enable); err != nil {
				return err
			}
			if enable {
				fmt.Printf("%s enabled\n", args[0])
			} else {
				fmt.Printf("%s disabled\n", args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&enable, "enable", false, "re-enable instead of disabling")
	return cmd
}

func adminUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := adminClient(ctx)
			if err != nil {
				return err
			}
			if err := client.AdminDeleteUser(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func adminLinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "List all share links",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := adminClient(ctx)
			if err != nil {
				return err
			}
			links, err := client.AdminLinks(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TOKEN\tPATH\tMODE\tEXPIRES\tSTATUS")
			for _, l := range links {
				status := "active"
				if l.Revoked {
					status = "revoked"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.Token, l.Path, l.Mode, l.ExpiresAt.Format("2006-01-02 15:04"), status)
			}
			return w.Flush()
		},
	}
}

func adminAuditCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent audit log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := adminClient(ctx)
			if err != nil {
				return err
			}
			entries, err := client.AdminAudit(ctx, limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tACTOR\tACTION\tTARGET")
			for _, e := range entries {
				actor := "-"
				if e.Username != nil {
					actor = *e.Username
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), actor, e.Action, e.Target)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum entries to show")
	return cmd
}
