package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"synapse-digest/internal/comments"
	"synapse-digest/internal/model"
	"synapse-digest/internal/storage"

	"github.com/spf13/cobra"
)

// parseResource accepts article:<id> or poll:<id>; a bare id is an article.
func parseResource(s string) (model.Resource, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok {
		return model.Resource{Kind: model.ResourceArticle, ID: s}, nil
	}
	switch model.ResourceKind(kind) {
	case model.ResourceArticle, model.ResourcePoll:
		if id == "" {
			break
		}
		return model.Resource{Kind: model.ResourceKind(kind), ID: id}, nil
	}
	return model.Resource{}, fmt.Errorf("resource must look like article:<id> or poll:<id>, got %q", s)
}

func printThread(out io.Writer, t *comments.Thread) {
	switch t.State() {
	case model.StateFailed:
		fmt.Fprintln(out, "Could not load comments.")
		return
	case model.StateEmpty:
		fmt.Fprintln(out, "No comments yet. Start the conversation.")
		return
	}
	for _, e := range t.Grouped() {
		printComment(out, "", e.Comment)
		for _, r := range e.Replies {
			printComment(out, "    ↳ ", r)
		}
	}
}

func printComment(out io.Writer, indent string, c model.Comment) {
	tag := ""
	if c.VoteOption != "" {
		tag = fmt.Sprintf(" [voted %s]", c.VoteOption)
	}
	fmt.Fprintf(out, "%s%s%s (%s) id=%s\n", indent, c.UserName, tag, c.CreatedAt.Format("Jan 2 15:04"), c.ID)
	fmt.Fprintf(out, "%s  %s\n", indent, c.Content)
}

func (a *app) thread(ref string) (*comments.Thread, error) {
	res, err := parseResource(ref)
	if err != nil {
		return nil, err
	}
	return comments.NewThread(res, a.api, a.session), nil
}

// pollVoteHint shows the caller's own vote when commenting on a poll.
func (a *app) pollVoteHint(ctx context.Context, out io.Writer, res model.Resource) {
	if res.Kind != model.ResourcePoll {
		return
	}
	if text, ok, err := storage.NewReceipts(a.kv).Lookup(ctx, res.ID); err == nil && ok {
		fmt.Fprintf(out, "Posting as a voter of %q\n", text)
	}
}

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Comment threads of articles and polls",
}

var commentsListCmd = &cobra.Command{
	Use:   "list <article:<id>|poll:<id>>",
	Short: "List a comment thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		t, err := a.thread(args[0])
		if err != nil {
			return err
		}
		defer t.Close()
		_ = t.Load(cmd.Context())
		printThread(cmd.OutOrStdout(), t)
		return nil
	},
}

var commentsPostCmd = &cobra.Command{
	Use:   "post <article:<id>|poll:<id>> <text>",
	Short: "Post a comment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postComment(cmd, args[0], "", strings.Join(args[1:], " "))
	},
}

var commentsReplyCmd = &cobra.Command{
	Use:   "reply <article:<id>|poll:<id>> <comment-id> <text>",
	Short: "Reply to a top-level comment",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postComment(cmd, args[0], args[1], strings.Join(args[2:], " "))
	},
}

func postComment(cmd *cobra.Command, ref, parentID, text string) error {
	a, err := newApp(cmd.Context(), cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}
	t, err := a.thread(ref)
	if err != nil {
		return err
	}
	defer t.Close()
	a.pollVoteHint(cmd.Context(), cmd.ErrOrStderr(), t.Resource())
	_ = t.Load(cmd.Context())
	if parentID != "" {
		_, err = t.Reply(cmd.Context(), parentID, text)
	} else {
		_, err = t.Submit(cmd.Context(), text, nil)
	}
	if err != nil {
		return fmt.Errorf("post comment: %w", err)
	}
	printThread(cmd.OutOrStdout(), t)
	return nil
}

func init() {
	commentsCmd.AddCommand(commentsListCmd, commentsPostCmd, commentsReplyCmd)
	rootCmd.AddCommand(commentsCmd)
}
