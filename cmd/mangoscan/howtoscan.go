package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/supermango/mangoscan/internal/cli"
)

type scanInstruction struct {
	emoji         string
	title         string
	titleTagalog  string
	advice        string
	adviceTagalog string
}

var scanInstructions = []scanInstruction{
	{
		emoji:         "📸",
		title:         "Clean Lens",
		titleTagalog:  "Linisin ang Kamera",
		advice:        "Wipe your camera lens for a crystal clear photo.",
		adviceTagalog: "Punasan ang lente ng camera para luminaw ang kuha.",
	},
	{
		emoji:         "🍃",
		title:         "One Leaf Only",
		titleTagalog:  "Isang Dahon Lamang",
		advice:        "Show only one full leaf in the photo frame.",
		adviceTagalog: "Isang buong dahon lang ang kuhanan ng litrato.",
	},
	{
		emoji:         "☀️",
		title:         "Good Lighting",
		titleTagalog:  "Maliwanag na Ilaw",
		advice:        "Take photo during daylight, from above the leaf.",
		adviceTagalog: "Kuhanan ng litrato sa maliwanag na lugar.",
	},
}

func howToScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "how-to-scan",
		Short: "Show photo-taking guidance",
		Long:  `Show the steps for taking leaf photos the scanner can work with.`,
		Run: func(cmd *cobra.Command, _ []string) {
			tagalog, _ := cmd.Flags().GetBool("tagalog")
			fmt.Println(renderHowToScan(tagalog))
		},
	}

	cmd.Flags().Bool("tagalog", false, "show the guidance in Tagalog")

	return cmd
}

func renderHowToScan(tagalog bool) string {
	subtitle := "Follow these steps for best results"
	if tagalog {
		subtitle = "Sundin ang mga hakbang para sa magandang resulta"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", cli.SubtleStyle.Render(subtitle))

	for i, step := range scanInstructions {
		title, advice := step.title, step.advice
		if tagalog {
			title, advice = step.titleTagalog, step.adviceTagalog
		}
		fmt.Fprintf(&b, "%s %s %s\n   %s\n", cli.BoldStyle.Render(fmt.Sprintf("%d.", i+1)), step.emoji, cli.BoldStyle.Render(title), advice)
		if i < len(scanInstructions)-1 {
			b.WriteString("\n")
		}
	}

	return cli.RenderBox("📚 How to Scan", strings.TrimRight(b.String(), "\n"))
}
