package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/syllaboss/internal/blocks"
	"github.com/dgallion1/syllaboss/internal/notion"
)

var publishCmd = &cobra.Command{
	Use:   "publish <file.md>",
	Short: "Create a Notion page from a markdown file",
	Long: `Publish converts a populated markdown file to Notion blocks and creates a
page under the first page the integration can see, or at the workspace
root when it can see none. The title defaults to the first heading.`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().String("token", "", "Notion integration token (default $NOTION_API_KEY)")
	publishCmd.Flags().String("title", "", "page title")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("NOTION_API_KEY")
	}
	if token == "" {
		return errors.New("a Notion token is required (--token or NOTION_API_KEY)")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	bs := blocks.Convert(string(data))

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = firstHeading(bs)
	}

	nc := notion.NewClient(cfg.NotionBaseURL, cfg.NotionVersion, cfg.NotionMaxBlocks, cfg.PublishTimeout)
	defer nc.Close()
	res, err := nc.Publish(cmd.Context(), token, title, bs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.URL)
	if res.Dropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d trailing blocks exceeded the %d block limit\n", res.Dropped, res.Blocks)
	}
	return nil
}

func firstHeading(bs []blocks.Block) string {
	for _, b := range bs {
		if b.Kind == blocks.KindHeading && strings.TrimSpace(b.Text) != "" {
			return b.Text
		}
	}
	return "Course Syllabus"
}
