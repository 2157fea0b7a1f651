package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-redline/internal/config"
	"github.com/benjaminschreck/go-redline/pkg/redline"
)

const version = "0.1.0"

var (
	jsonOutput   bool
	verbose      bool
	noColor      bool
	authorFlag   string
	initialsFlag string
)

// NewRootCommand creates the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "redline",
		Short: "Comment, link, and track changes in Word documents",
		Long: `Redline: .docx surgery from the terminal.

Anchors comments, wraps hyperlinks, and records tracked insertions and
deletions by matching literal document text, without opening Word. Only the
XML parts that change are rewritten; everything else in the file survives
byte for byte.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyConfig()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")
	rootCmd.PersistentFlags().StringVar(&authorFlag, "author", "", "Author name for comments and tracked changes")
	rootCmd.PersistentFlags().StringVar(&initialsFlag, "initials", "", "Author initials for comments")

	rootCmd.AddCommand(newCommentCommand())
	rootCmd.AddCommand(newLinkCommand())
	rootCmd.AddCommand(newTrackCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// applyConfig merges file/env configuration and flags into the engine's
// global settings. Flags win over config values.
func applyConfig() {
	engine := redline.DefaultConfig()

	cfg, err := config.Load()
	if err == nil {
		if cfg.Author != "" {
			engine.DefaultAuthor = cfg.Author
		}
		if cfg.Initials != "" {
			engine.DefaultInitials = cfg.Initials
		}
		if cfg.LogLevel != "" {
			engine.LogLevel = cfg.LogLevel
		}
		if !cfg.Output.Color {
			color.NoColor = true
		}
	}

	if authorFlag != "" {
		engine.DefaultAuthor = authorFlag
	}
	if initialsFlag != "" {
		engine.DefaultInitials = initialsFlag
	}
	if verbose {
		engine.LogLevel = "debug"
	}
	if noColor {
		color.NoColor = true
	}

	redline.SetGlobalConfig(engine)
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		if redline.IsLockedFile(err) {
			fmt.Fprintln(os.Stderr, color.YellowString("The document appears to be open in Word. Close it and retry."))
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the redline version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("redline version %s\n", version)
		},
	}
}

// requireDocx rejects paths that do not look like Word documents before any
// file access happens.
func requireDocx(path string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".docx") {
		return fmt.Errorf("expected a .docx file, got %q", path)
	}
	return nil
}

func successf(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}
