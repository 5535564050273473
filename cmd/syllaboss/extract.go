package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/syllaboss/internal/course"
	"github.com/dgallion1/syllaboss/internal/parser"
)

var extractCmd = &cobra.Command{
	Use:   "extract <syllabus.pdf>",
	Short: "Extract course information from a syllabus PDF into JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().String("out", "syllabus-info.json", "output JSON path")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	info, err := parser.Inspect(name, data)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if cfg.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ExtractTimeout)
		defer cancel()
	}

	ex, err := newExtractor(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer ex.Close()

	log.Info("extracting", "file", name, "pages", info.Pages, "provider", cfg.ExtractProvider)
	rec, err := ex.Extract(ctx, name, data)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if err := course.WriteSnapshot(out, rec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d homework, %d meetings)\n",
		out, rec.PageTitle(), len(rec.Info.Homework), len(rec.Info.Meetings))
	return nil
}
