package cmd

import (
	"fmt"
	"log/slog"

	"synapse-digest/internal/ai"
	"synapse-digest/internal/digest"
	"synapse-digest/internal/feed"
	"synapse-digest/internal/markdown"

	"github.com/spf13/cobra"
)

var digestOut string

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Export feeds as a markdown digest",
}

var digestExportCmd = &cobra.Command{
	Use:   "export [query...]",
	Short: "Write today's feed (or the given queries) to a markdown file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		cfg := a.cfg

		c := a.composer()
		var page feed.Page
		if len(args) == 0 {
			page = c.Home(cmd.Context(), cfg.Feed.Categories, cfg.Feed.SectionPreview)
		} else {
			qs, err := feed.ParseQueries(args)
			if err != nil {
				return err
			}
			page = c.Compose(cmd.Context(), qs...)
		}

		var summarizer ai.Summarizer
		if cfg.OpenAI.APIKey != "" {
			s, err := ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
			if err != nil {
				slog.Warn("digest: ai preface disabled", "error", err)
			} else {
				summarizer = s
			}
		}

		dir := cfg.Digest.OutputDir
		if digestOut != "" {
			dir = digestOut
		}
		e := &digest.Exporter{
			OutputDir:     dir,
			TitleTemplate: cfg.Digest.Title,
			Language:      cfg.Digest.Language,
			Summarizer:    summarizer,
		}
		path, err := e.Export(cmd.Context(), page)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var digestInspectCmd = &cobra.Command{
	Use:   "inspect <markdown_path>",
	Short: "Print the frontmatter and headings of a digest file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := markdown.ParseFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, k := range []string{"title", "slug", "datetime", "summary"} {
			fmt.Fprintf(out, "%s: %s\n", k, doc.Field(k))
		}
		for _, h := range doc.Headings() {
			fmt.Fprintln(out, h)
		}
		fmt.Fprintf(out, "body bytes: %d\n", len(doc.Body))
		return nil
	},
}

func init() {
	digestExportCmd.Flags().StringVar(&digestOut, "out", "", "output directory (default: digest.output_dir)")
	digestCmd.AddCommand(digestExportCmd, digestInspectCmd)
	rootCmd.AddCommand(digestCmd)
}
