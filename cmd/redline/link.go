package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-redline/pkg/redline"
)

type linkJSONOutput struct {
	RelationshipID string `json:"relationship_id"`
	URL            string `json:"url"`
	Anchor         string `json:"anchor"`
	File           string `json:"file"`
}

func newLinkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Work with hyperlinks in Word documents",
	}
	cmd.AddCommand(newLinkAddCommand())
	return cmd
}

func newLinkAddCommand() *cobra.Command {
	var (
		anchor    string
		url       string
		paragraph int
	)

	cmd := &cobra.Command{
		Use:   "add <file.docx>",
		Short: "Turn document text into a hyperlink",
		Long: `Wraps the first occurrence of the anchor text in a hyperlink.

With --paragraph, the search is limited to that paragraph (zero-based, counted
in document order including table cells).

Example: redline link add report.docx --anchor "the docs" --url https://example.com/docs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDocx(args[0]); err != nil {
				return err
			}
			if anchor == "" {
				return fmt.Errorf("--anchor is required")
			}
			if url == "" {
				return fmt.Errorf("--url is required")
			}

			var opts []redline.HyperlinkOption
			if cmd.Flags().Changed("paragraph") {
				opts = append(opts, redline.InParagraph(paragraph))
			}

			result, err := redline.AddHyperlink(args[0], anchor, url, opts...)
			if err != nil {
				return err
			}

			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(linkJSONOutput{
					RelationshipID: result.RelationshipID,
					URL:            result.URL,
					Anchor:         result.Anchor,
					File:           result.Path,
				})
			}
			successf("Linked %q to %s in %s (%s)", result.Anchor, result.URL, result.Path, result.RelationshipID)
			return nil
		},
	}

	cmd.Flags().StringVar(&anchor, "anchor", "", "Document text to turn into a link")
	cmd.Flags().StringVar(&url, "url", "", "Target URL")
	cmd.Flags().IntVar(&paragraph, "paragraph", 0, "Restrict the search to a zero-based paragraph index")

	return cmd
}
