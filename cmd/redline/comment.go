package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-redline/pkg/redline"
)

type commentJSONOutput struct {
	CommentID int    `json:"comment_id"`
	Author    string `json:"author"`
	Anchor    string `json:"anchor"`
	File      string `json:"file"`
}

func newCommentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Work with comments in Word documents",
	}
	cmd.AddCommand(newCommentAddCommand())
	return cmd
}

func newCommentAddCommand() *cobra.Command {
	var (
		anchor string
		text   string
	)

	cmd := &cobra.Command{
		Use:   "add <file.docx>",
		Short: "Anchor a comment to text in a document",
		Long: `Adds a Word comment anchored to the first occurrence of the anchor text.

The anchor may span multiple formatting runs. The comments part and its
registrations are created on demand for documents that have never held one.

Example: redline comment add report.docx --anchor "Q3 revenue" --text "Needs a source." --author "Dana"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDocx(args[0]); err != nil {
				return err
			}
			if anchor == "" {
				return fmt.Errorf("--anchor is required")
			}
			if text == "" {
				return fmt.Errorf("--text is required")
			}

			result, err := redline.AddComment(args[0], anchor, text, authorFlag, initialsFlag)
			if err != nil {
				return err
			}

			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(commentJSONOutput{
					CommentID: result.CommentID,
					Author:    result.Author,
					Anchor:    result.Anchor,
					File:      result.Path,
				})
			}
			successf("Comment %d by %s anchored to %q in %s", result.CommentID, result.Author, result.Anchor, result.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&anchor, "anchor", "", "Document text to anchor the comment to")
	cmd.Flags().StringVar(&text, "text", "", "Comment text")

	return cmd
}
