package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-redline/pkg/redline"
)

type trackJSONOutput struct {
	Operation string `json:"operation"`
	Count     int    `json:"count"`
	Author    string `json:"author"`
	File      string `json:"file"`
	ChangeIDs []int  `json:"change_ids"`
}

type changeJSONOutput struct {
	ID      int    `json:"id"`
	RawID   string `json:"raw_id"`
	Type    string `json:"type"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Text    string `json:"text"`
	Context string `json:"context"`
}

type changeListJSONOutput struct {
	Insertions      []changeJSONOutput `json:"insertions"`
	Deletions       []changeJSONOutput `json:"deletions"`
	TotalInsertions int                `json:"total_insertions"`
	TotalDeletions  int                `json:"total_deletions"`
}

func toChangeJSON(changes []redline.TrackedChange) []changeJSONOutput {
	out := make([]changeJSONOutput, 0, len(changes))
	for _, c := range changes {
		out = append(out, changeJSONOutput{
			ID:      c.ID,
			RawID:   c.RawID,
			Type:    c.Type,
			Author:  c.Author,
			Date:    c.Date,
			Text:    c.Text,
			Context: c.Context,
		})
	}
	return out
}

type reviewJSONOutput struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
	File   string `json:"file"`
}

// changeIDLabel renders a change id for display. A wrapper whose w:id did not
// parse as a number shows the raw attribute value instead of a misleading 0.
func changeIDLabel(c redline.TrackedChange) string {
	if c.ID == 0 && c.RawID != "0" {
		return c.RawID
	}
	return strconv.Itoa(c.ID)
}

func newTrackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Record and review tracked changes in Word documents",
	}
	cmd.AddCommand(newTrackReplaceCommand())
	cmd.AddCommand(newTrackInsertCommand())
	cmd.AddCommand(newTrackDeleteCommand())
	cmd.AddCommand(newTrackListCommand())
	cmd.AddCommand(newTrackAcceptCommand())
	cmd.AddCommand(newTrackRejectCommand())
	return cmd
}

func outputTrackResult(result *redline.TrackResult) error {
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(trackJSONOutput{
			Operation: result.Operation,
			Count:     result.Count,
			Author:    result.Author,
			File:      result.Path,
			ChangeIDs: result.ChangeIDs,
		})
	}
	successf("Tracked %s of %d occurrence(s) by %s in %s", result.Operation, result.Count, result.Author, result.Path)
	return nil
}

func newTrackReplaceCommand() *cobra.Command {
	var (
		search      string
		replacement string
	)

	cmd := &cobra.Command{
		Use:   "replace <file.docx>",
		Short: "Replace text as a tracked change",
		Long: `Marks every occurrence of the search text as deleted and inserts the
replacement after it, attributed to the author and pending review in Word.

Example: redline track replace contract.docx --search "30 days" --replace "45 days" --author "Dana"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDocx(args[0]); err != nil {
				return err
			}
			if search == "" {
				return fmt.Errorf("--search is required")
			}
			if replacement == "" {
				return fmt.Errorf("--replace is required")
			}

			result, err := redline.TrackReplace(args[0], search, replacement, authorFlag)
			if err != nil {
				return err
			}
			return outputTrackResult(result)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Text to replace")
	cmd.Flags().StringVar(&replacement, "replace", "", "Replacement text")

	return cmd
}

func newTrackInsertCommand() *cobra.Command {
	var (
		after string
		text  string
	)

	cmd := &cobra.Command{
		Use:   "insert <file.docx>",
		Short: "Insert text as a tracked change",
		Long: `Inserts new text immediately after the first occurrence of the anchor
text, as a tracked insertion pending review in Word.

Example: redline track insert contract.docx --after "governing law" --text " of Delaware"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDocx(args[0]); err != nil {
				return err
			}
			if after == "" {
				return fmt.Errorf("--after is required")
			}
			if text == "" {
				return fmt.Errorf("--text is required")
			}

			result, err := redline.TrackInsert(args[0], after, text, authorFlag)
			if err != nil {
				return err
			}
			return outputTrackResult(result)
		},
	}

	cmd.Flags().StringVar(&after, "after", "", "Anchor text to insert after")
	cmd.Flags().StringVar(&text, "text", "", "Text to insert")

	return cmd
}

func newTrackDeleteCommand() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "delete <file.docx>",
		Short: "Delete text as a tracked change",
		Long: `Marks every occurrence of the search text as deleted. The text stays in
the file, struck through, until the change is accepted or rejected.

Example: redline track delete contract.docx --search "time is of the essence"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDocx(args[0]); err != nil {
				return err
			}
			if search == "" {
				return fmt.Errorf("--search is required")
			}

			result, err := redline.TrackDelete(args[0], search, authorFlag)
			if err != nil {
				return err
			}
			return outputTrackResult(result)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Text to delete")

	return cmd
}

func newTrackListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <file.docx>",
		Short: "List pending tracked changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDocx(args[0]); err != nil {
				return err
			}

			changes, err := redline.ListTrackedChanges(args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				summary := redline.SummarizeChanges(changes)
				return json.NewEncoder(os.Stdout).Encode(changeListJSONOutput{
					Insertions:      toChangeJSON(summary.Insertions),
					Deletions:       toChangeJSON(summary.Deletions),
					TotalInsertions: summary.TotalInsertions,
					TotalDeletions:  summary.TotalDeletions,
				})
			}

			if len(changes) == 0 {
				fmt.Println("No pending tracked changes.")
				return nil
			}
			for _, c := range changes {
				kind := color.GreenString("+")
				if c.Type == "deletion" {
					kind = color.RedString("-")
				}
				fmt.Printf("%s [%s] %s by %s (%s): %q\n", kind, changeIDLabel(c), c.Type, c.Author, c.Date, c.Text)
				if c.Context != "" {
					fmt.Printf("    in: %s\n", c.Context)
				}
			}
			return nil
		},
	}

	return cmd
}

func reviewRunE(review func(string, ...redline.ReviewOption) (*redline.ReviewResult, error), authors *[]string, ids *[]int) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := requireDocx(args[0]); err != nil {
			return err
		}

		var opts []redline.ReviewOption
		for _, author := range *authors {
			opts = append(opts, redline.ByAuthor(author))
		}
		if len(*ids) > 0 {
			opts = append(opts, redline.ByIDs(*ids...))
		}

		result, err := review(args[0], opts...)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(reviewJSONOutput{
				Action: result.Action,
				Count:  result.Count,
				File:   result.Path,
			})
		}
		if result.Count == 0 {
			fmt.Println("No tracked changes matched the filters.")
			return nil
		}
		successf("%sed %d tracked change(s) in %s", result.Action, result.Count, result.Path)
		return nil
	}
}

func newTrackAcceptCommand() *cobra.Command {
	var (
		authors []string
		ids     []int
	)

	cmd := &cobra.Command{
		Use:   "accept <file.docx>",
		Short: "Accept pending tracked changes",
		Long: `Makes tracked changes permanent: insertions become regular text,
deletions are removed for good. With no filters every change is accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: reviewRunE(redline.AcceptTrackedChanges, &authors, &ids),
	}

	cmd.Flags().StringArrayVar(&authors, "by-author", nil, "Only changes by this author (repeatable)")
	cmd.Flags().IntSliceVar(&ids, "ids", nil, "Only changes with these ids")

	return cmd
}

func newTrackRejectCommand() *cobra.Command {
	var (
		authors []string
		ids     []int
	)

	cmd := &cobra.Command{
		Use:   "reject <file.docx>",
		Short: "Reject pending tracked changes",
		Long: `Undoes tracked changes: insertions are removed, deleted text is
restored. With no filters every change is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: reviewRunE(redline.RejectTrackedChanges, &authors, &ids),
	}

	cmd.Flags().StringArrayVar(&authors, "by-author", nil, "Only changes by this author (repeatable)")
	cmd.Flags().IntSliceVar(&ids, "ids", nil, "Only changes with these ids")

	return cmd
}
