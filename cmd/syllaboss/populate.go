package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/syllaboss/internal/course"
	"github.com/dgallion1/syllaboss/internal/populate"
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Fill a markdown template from extracted course JSON",
	Long: `Populate reads a course JSON file produced by "extract" and writes the
filled-in markdown. --template picks a built-in template (or one from
template_dir). --template-file uses an arbitrary template file instead.`,
	Args: cobra.NoArgs,
	RunE: runPopulate,
}

func init() {
	populateCmd.Flags().String("data", "syllabus-info.json", "course JSON path")
	populateCmd.Flags().String("template", "modern", "template selector: modern, classic, basic or library")
	populateCmd.Flags().String("template-file", "", "template file path, overrides --template")
	populateCmd.Flags().String("out", "filled-in-template.md", "output markdown path")
	populateCmd.Flags().String("empty-section", "", "empty section policy: keep, remove or na (default from config)")
	rootCmd.AddCommand(populateCmd)
}

func runPopulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	policyName, _ := cmd.Flags().GetString("empty-section")
	if policyName == "" {
		policyName = cfg.EmptySection
	}
	policy, err := populate.ParsePolicy(policyName)
	if err != nil {
		return err
	}
	opts := populate.Options{EmptySection: policy}

	dataPath, _ := cmd.Flags().GetString("data")
	outPath, _ := cmd.Flags().GetString("out")

	if tmplPath, _ := cmd.Flags().GetString("template-file"); tmplPath != "" {
		if _, err := populate.PopulateFile(dataPath, tmplPath, outPath, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
		return nil
	}

	selector, _ := cmd.Flags().GetString("template")
	tmpl, err := populate.NewCatalog(cfg.TemplateDir).Load(selector)
	if err != nil {
		return err
	}
	rec, err := course.LoadFile(dataPath)
	if err != nil {
		return err
	}
	if err := populate.WriteFile(outPath, populate.Populate(rec, tmpl, opts)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s using the %s template\n", outPath, selector)
	return nil
}
