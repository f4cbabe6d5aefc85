package cmd

import (
	"fmt"
	"io"

	"synapse-digest/internal/poll"
	"synapse-digest/internal/storage"

	"github.com/spf13/cobra"
)

func (a *app) pollWidget() *poll.Widget {
	return poll.New(a.api, storage.NewReceipts(a.kv), a.session, a.calls)
}

func printPoll(out io.Writer, w *poll.Widget) {
	switch w.State() {
	case poll.Empty:
		fmt.Fprintln(out, "No active poll today.")
		return
	case poll.Failed:
		fmt.Fprintf(out, "Poll error: %v\n", w.Err())
		return
	}
	p := w.Poll()
	choice, voted := w.Choice()
	fmt.Fprintf(out, "%s\n", p.Question)
	tw := newTable(out)
	pct := w.Percentages()
	for i, o := range p.Options {
		if voted {
			mark := ""
			if o.Text == choice {
				mark = "  ← your vote"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%d%%%s\n", o.ID, o.Text, pct[i], mark)
		} else {
			fmt.Fprintf(tw, "  %s\t%s\n", o.ID, o.Text)
		}
	}
	_ = tw.Flush()
	if voted {
		fmt.Fprintf(out, "%d votes\n", w.TotalVotes())
	} else {
		fmt.Fprintln(out, "Vote with: synapse-digest poll vote <option-id>")
	}
}

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Daily poll",
}

var pollShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's poll",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		w := a.pollWidget()
		defer w.Close()
		_ = w.Load(cmd.Context())
		printPoll(cmd.OutOrStdout(), w)
		return nil
	},
}

var pollVoteCmd = &cobra.Command{
	Use:   "vote <option-id>",
	Short: "Vote in today's poll",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		w := a.pollWidget()
		defer w.Close()
		if err := w.Load(cmd.Context()); err != nil {
			return err
		}
		if _, voted := w.Choice(); voted {
			fmt.Fprintln(cmd.ErrOrStderr(), "You already voted in this poll.")
		} else if err := w.Vote(cmd.Context(), args[0]); err != nil {
			return err
		}
		printPoll(cmd.OutOrStdout(), w)
		return nil
	},
}

func init() {
	pollCmd.AddCommand(pollShowCmd, pollVoteCmd)
	rootCmd.AddCommand(pollCmd)
}
