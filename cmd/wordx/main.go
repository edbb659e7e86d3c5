package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbaukes/go-wordx/pkg/wordx"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "wordx",
	Short: "Inspect and rebuild DOCX documents",
	Long:  `wordx extracts DOCX files into a structured document model and rebuilds them.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("wordx version %s\n", version)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Show the structure of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Print the plain text of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runText,
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [input] [output]",
	Short: "Extract a document and build it back",
	Long:  `Round-trips a document through the model: extract the input, rebuild it, and write the result.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runRebuild,
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := wordx.ExtractFile(args[0])
	if err != nil {
		return err
	}
	images := 0
	for _, p := range doc.Paragraphs {
		for i := range p.Runs {
			if p.Runs[i].Image != nil {
				images++
			}
		}
	}
	cmd.Printf("paragraphs: %d\n", len(doc.Paragraphs))
	cmd.Printf("tables:     %d\n", len(doc.Tables))
	cmd.Printf("styles:     %d\n", len(doc.Styles))
	cmd.Printf("numbering:  %d\n", len(doc.Numbering))
	cmd.Printf("media:      %d\n", len(doc.MediaFiles))
	cmd.Printf("images:     %d\n", images)
	return nil
}

func runText(cmd *cobra.Command, args []string) error {
	doc, err := wordx.ExtractFile(args[0])
	if err != nil {
		return err
	}
	for _, elem := range doc.Body {
		switch el := elem.(type) {
		case *wordx.Paragraph:
			cmd.Println(el.Text())
		case *wordx.Table:
			for _, row := range el.Rows {
				for _, cell := range row.Cells {
					cmd.Println(cell.Text())
				}
			}
		}
	}
	return nil
}

func runRebuild(cmd *cobra.Command, args []string) error {
	doc, err := wordx.ExtractFile(args[0])
	if err != nil {
		return err
	}
	if err := wordx.BuildFile(doc, args[1]); err != nil {
		return err
	}
	cmd.Printf("wrote %s\n", args[1])
	return nil
}

func main() {
	rootCmd.AddCommand(versionCmd, infoCmd, textCmd, rebuildCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
