package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/syllaboss/internal/blocks"
	"github.com/dgallion1/syllaboss/internal/notion"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.md>",
	Short: "Print the blocks a markdown file converts to, as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		bs := blocks.Convert(string(data))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if asNotion, _ := cmd.Flags().GetBool("notion"); asNotion {
			return enc.Encode(notion.Children(bs))
		}
		return enc.Encode(bs)
	},
}

func init() {
	convertCmd.Flags().Bool("notion", false, "print Notion block objects")
	rootCmd.AddCommand(convertCmd)
}
