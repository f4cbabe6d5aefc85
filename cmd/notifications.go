package cmd

import (
	"fmt"
	"io"

	"synapse-digest/internal/notify"

	"github.com/spf13/cobra"
)

func (a *app) inbox() *notify.Inbox {
	return notify.NewInbox(a.api, a.session, a.calls)
}

func printInbox(out io.Writer, b *notify.Inbox) {
	items := b.Items()
	fmt.Fprintf(out, "Notifications (%d unread)\n", b.Unread())
	if len(items) == 0 {
		fmt.Fprintln(out, "  No notifications yet.")
		return
	}
	w := newTable(out)
	for _, n := range items {
		mark := "•"
		if n.IsRead {
			mark = " "
		}
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s:%s\t%s\n", mark, n.ID, n.ActorName, n.Type, n.ResourceType, n.ResourceID, n.CreatedAt.Format("Jan 2 15:04"))
	}
	_ = w.Flush()
}

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notifs"},
	Short:   "Replies and reactions to your comments",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireSession(); err != nil {
			return err
		}
		b := a.inbox()
		defer b.Close()
		if err := b.Refresh(cmd.Context()); err != nil {
			return err
		}
		printInbox(cmd.OutOrStdout(), b)
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>...",
	Short: "Mark notifications as read",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireSession(); err != nil {
			return err
		}
		b := a.inbox()
		defer b.Close()
		if err := b.Refresh(cmd.Context()); err != nil {
			return err
		}
		for _, id := range args {
			if !b.MarkRead(cmd.Context(), id) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: already read or unknown\n", id)
			}
		}
		printInbox(cmd.OutOrStdout(), b)
		return nil
	},
}

func init() {
	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd)
	rootCmd.AddCommand(notificationsCmd)
}
