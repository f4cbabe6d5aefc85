package cmd

import (
	"fmt"

	"synapse-digest/internal/admin"

	"github.com/spf13/cobra"
)

func (a *app) console() *admin.Console {
	return admin.NewConsole(a.api, a.session)
}

// withConsole runs fn with a signed-in admin console.
func withConsole(cmd *cobra.Command, fn func(a *app, c *admin.Console) error) error {
	a, err := newApp(cmd.Context(), cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}
	return fn(a, a.console())
}

var (
	adminSkip  int
	adminLimit int
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin console",
}

var adminDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show system stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(a *app, c *admin.Console) error {
			s, err := c.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "users\t%d\n", s.TotalUsers)
			fmt.Fprintf(w, "articles today\t%d\n", s.ArticlesToday)
			fmt.Fprintf(w, "subscribers\t%d\n", s.ActiveSubscribers)
			fmt.Fprintf(w, "errors today\t%d\n", s.ErrorsToday)
			return w.Flush()
		})
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(a *app, c *admin.Console) error {
			us, err := c.Users(cmd.Context(), adminSkip, adminLimit)
			if err != nil {
				return err
			}
			w := newTable(cmd.OutOrStdout())
			for _, u := range us {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, u.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		})
	},
}

var adminPromoteCmd = &cobra.Command{
	Use:   "promote <user-id>",
	Short: "Grant admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(a *app, c *admin.Console) error {
			m, err := c.Promote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.Message)
			return nil
		})
	},
}

var adminAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent admin actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(a *app, c *admin.Console) error {
			logs, err := c.AuditLogs(cmd.Context(), adminLimit)
			if err != nil {
				return err
			}
			w := newTable(cmd.OutOrStdout())
			for _, l := range logs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.CreatedAt.Format("2006-01-02 15:04"), l.Action, l.Resource, l.AdminID)
			}
			return w.Flush()
		})
	},
}

var adminArticlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List articles for moderation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(a *app, c *admin.Console) error {
			arts, err := c.Articles(cmd.Context(), adminSkip, adminLimit)
			if err != nil {
				return err
			}
			w := newTable(cmd.OutOrStdout())
			for _, x := range arts {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", x.ID, x.ViabilityScore, x.Category, x.Source, x.Title)
			}
			return w.Flush()
		})
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <article-id>",
	Short: "Hide an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(a *app, c *admin.Console) error {
			m, err := c.DeleteArticle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.Message)
			return nil
		})
	},
}

var adminEmailCmd = &cobra.Command{
	Use:   "send-digest",
	Short: "Trigger the digest email job now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(a *app, c *admin.Console) error {
			m, err := c.TriggerEmail(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.Message)
			return nil
		})
	},
}

var adminLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the server log tail (use `watch --admin-logs` to follow)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(a *app, c *admin.Console) error {
			tail := c.NewLogTail(a.cfg.Pollers.AdminLogLines)
			defer tail.Close()
			if err := tail.Refresh(cmd.Context()); err != nil {
				return err
			}
			for _, l := range tail.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		})
	},
}

func init() {
	adminCmd.PersistentFlags().IntVar(&adminSkip, "skip", 0, "rows to skip")
	adminCmd.PersistentFlags().IntVar(&adminLimit, "limit", 50, "rows to return")
	adminCmd.AddCommand(adminDashboardCmd, adminUsersCmd, adminPromoteCmd, adminAuditCmd,
		adminArticlesCmd, adminDeleteCmd, adminEmailCmd, adminLogsCmd)
	rootCmd.AddCommand(adminCmd)
}
