package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/supermango/mangoscan/internal/cli"
	"github.com/supermango/mangoscan/internal/collector"
	"github.com/supermango/mangoscan/internal/common"
	"github.com/supermango/mangoscan/internal/config"
	"github.com/supermango/mangoscan/internal/gate"
	"github.com/supermango/mangoscan/internal/pipeline"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [photos...]",
		Short: "Scan mango leaf photos for Anthracnose",
		Long: `Collect exactly ten leaf photos, gather location and weather, and submit
everything to the prescription service for a severity assessment.

Photos can be passed as arguments or added interactively. The scan only
submits once all ten slots are filled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			skipVerify, _ := cmd.Flags().GetBool("yes")
			forceVerify, _ := cmd.Flags().GetBool("verify")
			noInput, _ := cmd.Flags().GetBool("no-input")
			saveName, _ := cmd.Flags().GetString("save")
			return runScan(cmd.Context(), args, scanOptions{
				skipVerify:  skipVerify,
				forceVerify: forceVerify,
				noInput:     noInput,
				saveName:    saveName,
			})
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the verification question and submit directly")
	cmd.Flags().Bool("verify", false, "ask the service to verify the photos are mango leaves first")
	cmd.Flags().Bool("no-input", false, "never prompt; requires all ten photos as arguments")
	cmd.Flags().String("save", "", "save the result under this tree name without prompting")

	return cmd
}

type scanOptions struct {
	skipVerify  bool
	forceVerify bool
	noInput     bool
	saveName    string
}

func runScan(ctx context.Context, args []string, opts scanOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	coll := collector.New()
	if len(args) > 0 {
		if err := gate.CheckImages(args); err != nil {
			return fmt.Errorf("photo check failed: %w", err)
		}
		accepted := coll.AddBatch(args)
		if accepted < len(args) {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("Only %d of %d photos fit; extra photos were dropped", accepted, len(args))))
		}
	}

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)

	if !coll.Complete() {
		if opts.noInput {
			return common.NewUserError(
				fmt.Sprintf("Need %d photos, have %d. Pass all photos as arguments when using --no-input", collector.MaxPhotos, coll.Len()),
				common.ErrCollectionIncomplete)
		}
		if err := collectLoop(ctx, coll, prompter); err != nil {
			return err
		}
	}

	printCollection(coll)

	verifyFirst := opts.forceVerify
	if !opts.skipVerify && !opts.forceVerify && !opts.noInput {
		fmt.Println()
		fmt.Println(cli.RenderBox("Verify Photos First?",
			"Are you sure all the leaves you submitted are Sweet Elena mango leaves?\n"+
				cli.SubtleStyle.Render("If you're not completely sure, a quick check can confirm your photos\nshow the right type of leaves.")))
		sure, err := prompter.Confirm(ctx, "Skip the verification test?", true)
		if err != nil {
			return err
		}
		verifyFirst = !sure
	}

	progress := cli.NewScanProgress(os.Stdout)
	p := buildPipeline(cfg, progress.Update, nil)

	outcome, err := p.Submit(ctx, coll.Images(), verifyFirst)
	if err != nil {
		return renderScanError(err)
	}

	fmt.Println(renderResult(outcome))

	return maybeSaveResult(ctx, cfg, prompter, outcome, coll, opts)
}

// collectLoop fills the collector interactively until all slots are used.
func collectLoop(ctx context.Context, coll *collector.Collector, prompter *cli.Prompter) error {
	fmt.Println(cli.FormatTitle("Leaf Photo Collection"))
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Add photos until all %d slots are filled. Commands: add <path>, rm <n>, list, clear, done", collector.MaxPhotos)))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		status := fmt.Sprintf("%s %d/%d photos", cli.CameraIcon, coll.Len(), collector.MaxPhotos)
		if coll.Complete() {
			fmt.Println(cli.FormatSuccess(status + " collected"))
			return nil
		}

		line, err := prompter.Prompt(ctx, status)
		if err != nil {
			return err
		}

		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(verb) {
		case "add":
			if rest == "" {
				fmt.Println(cli.FormatWarning("Usage: add <path>"))
				continue
			}
			if err := gate.CheckImage(rest); err != nil {
				fmt.Println(cli.FormatError(common.UserMessage(err)))
				continue
			}
			if !coll.Add(rest) {
				fmt.Println(cli.FormatWarning("All photo slots are already filled"))
			}
		case "rm":
			idx, convErr := strconv.Atoi(rest)
			if convErr != nil || coll.Remove(idx-1) != nil {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("Usage: rm <1-%d>", coll.Len())))
			}
		case "list":
			printCollection(coll)
		case "clear":
			coll.Clear()
			fmt.Println(cli.FormatInfo("Collection cleared"))
		case "done":
			if !coll.Complete() {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("Need %d photos, have %d", collector.MaxPhotos, coll.Len())))
				continue
			}
			return nil
		case "":
			// Empty line, just reprint the status.
		default:
			fmt.Println(cli.FormatWarning("Commands: add <path>, rm <n>, list, clear, done"))
		}
	}
}

func printCollection(coll *collector.Collector) {
	images := coll.Images()
	if len(images) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No photos collected yet"))
		return
	}

	var b strings.Builder
	for i, img := range images {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, img.Path)
	}
	fmt.Println(cli.RenderBox(fmt.Sprintf("Photos (%d/%d)", len(images), collector.MaxPhotos), strings.TrimRight(b.String(), "\n")))
}

// renderScanError turns pipeline failures into the guidance the grower
// should actually read.
func renderScanError(err error) error {
	if errors.Is(err, common.ErrUnclassifiablePhotos) {
		fmt.Println(renderUnclearPhotos())
		return errors.New("scan aborted: photos not recognized")
	}
	return fmt.Errorf("%s: %w", cli.FormatError("Scan failed"), err)
}

func renderUnclearPhotos() string {
	content := "One or more photos were not recognized as mango leaves. Please ensure\n" +
		"all photos clearly show the leaf against a proper background.\n\n" +
		cli.SubtleStyle.Render("Hindi nakilala ang isa o higit pang larawan bilang dahon ng mangga.\nSiguraduhing malinaw na nakikita ang dahon sa tamang background.") + "\n\n" +
		cli.InfoStyle.Render("Run 'mangoscan how-to-scan' before trying again.")
	return cli.RenderBox(cli.WarningIcon+" Unclear Photos Detected", content)
}

// maybeSaveResult offers to keep the result in the tree history.
func maybeSaveResult(ctx context.Context, cfg *config.Config, prompter *cli.Prompter, outcome *pipeline.Outcome, coll *collector.Collector, opts scanOptions) error {
	name := opts.saveName
	if name == "" {
		if opts.noInput {
			return nil
		}
		want, err := prompter.Confirm(ctx, "Save this result to your trees?", false)
		if err != nil || !want {
			return err
		}
		name, err = prompter.Prompt(ctx, "Tree name")
		if err != nil {
			return err
		}
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	images := coll.Images()
	record, err := store.Save(ctx, name, images[0].Path, outcome.Params)
	if err != nil {
		fmt.Println(cli.FormatError(common.UserMessage(err)))
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved %q to your trees (id %s)", record.Name, record.ID)))
	return nil
}
