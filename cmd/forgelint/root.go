package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgekit/forge/profile"
)

// Options holds the global flags.
type Options struct {
	Format string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// fileReport is the lint outcome for one profile file.
type fileReport struct {
	File   string   `json:"file"`
	Error  string   `json:"error,omitempty"`
	Issues []string `json:"issues,omitempty"`
}

// NewRootCommand creates the forgelint root command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "forgelint [profile files...]",
		Short: "forgelint - structural linter for forge binding profiles",
		Args:  cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, clean := lintFiles(args)
			if err := render(cmd, opts.Format, reports); err != nil {
				return err
			}
			if !clean {
				return fmt.Errorf("%d file(s) with problems", countDirty(reports))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.SilenceUsage = true
	return cmd
}

func lintFiles(paths []string) (reports []fileReport, clean bool) {
	clean = true
	for _, path := range paths {
		r := fileReport{File: path}
		p, err := profile.Load(path)
		if err != nil {
			r.Error = err.Error()
			clean = false
		} else {
			for _, issue := range p.Validate() {
				r.Issues = append(r.Issues, issue.String())
			}
			if len(r.Issues) > 0 {
				clean = false
			}
		}
		reports = append(reports, r)
	}
	return reports, clean
}

func countDirty(reports []fileReport) int {
	n := 0
	for _, r := range reports {
		if r.Error != "" || len(r.Issues) > 0 {
			n++
		}
	}
	return n
}

func render(cmd *cobra.Command, format string, reports []fileReport) error {
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		switch {
		case r.Error != "":
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.File, r.Error)
		case len(r.Issues) > 0:
			for _, issue := range r.Issues {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.File, issue)
			}
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", r.File)
		}
	}
	return nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
