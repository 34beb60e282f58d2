package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/namesake/internal"
	"github.com/starford/namesake/internal/noteservice"
)

var errAborted = errors.New("aborted")

// withService loads the config, opens the vault and hands the note service
// to fn. Logs and notices go to stderr so stdout only carries results.
func withService(cmd *cli.Command, fn func(svc *noteservice.Service) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := internal.Bootstrap(
		internal.WithConfig(cfg),
		internal.WithVersion(version),
		internal.WithLogWriter(os.Stderr),
		internal.WithNotifier(noteservice.NewWriterNotifier(os.Stderr)),
	)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt.Service)
}

func similarCommand() *cli.Command {
	return &cli.Command{
		Name:      "similar",
		Usage:     "List notes whose titles have the same words as the given note",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withService(cmd, func(svc *noteservice.Service) error {
				return runSimilar(ctx, svc, os.Stdout, cmd.Args().First(), cmd.Bool("json"))
			})
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List indexed notes with the words their titles are compared by",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withService(cmd, func(svc *noteservice.Service) error {
				return runList(ctx, svc, os.Stdout, cmd.Bool("json"))
			})
		},
	}
}

func fixImagesCommand() *cli.Command {
	return &cli.Command{
		Name:      "fix-images",
		Usage:     "Rewrite ![[<timestamp>.png]] embeds into ![[Pasted image <timestamp>.png]]",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "Only show what would change"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withService(cmd, func(svc *noteservice.Service) error {
				return runFixImages(ctx, svc, os.Stdout, cmd.Args().First(), cmd.Bool("dry-run"))
			})
		},
	}
}

func copyCommand() *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "Copy a note's content into its namesakes and rename them after it",
		ArgsUsage: "<source> [targets...]",
		Description: "Without explicit targets, every note whose title has the same words as the " +
			"source is overwritten. Each target keeps its folder and takes the source's title.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Do not ask for confirmation"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withService(cmd, func(svc *noteservice.Service) error {
				opts := copyOptions{
					source:  cmd.Args().First(),
					targets: cmd.Args().Tail(),
					yes:     cmd.Bool("yes"),
					in:      os.Stdin,
					out:     os.Stdout,
				}
				return runCopy(ctx, svc, opts)
			})
		},
	}
}

func runSimilar(ctx context.Context, svc *noteservice.Service, out io.Writer, path string, asJSON bool) error {
	res, err := svc.FindSimilar(ctx, path)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, res)
	}
	if len(res.Similar) == 0 {
		fmt.Fprintln(out, "No similar notes found.")
		return nil
	}

	rows := make([][]string, 0, len(res.Similar))
	for _, n := range res.Similar {
		rows = append(rows, []string{n.Title, n.Path, strconv.Itoa(n.Chars), n.Modified})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Path", "Chars", "Modified"},
		rows, 3))
	return nil
}

func runList(ctx context.Context, svc *noteservice.Service, out io.Writer, asJSON bool) error {
	notes, err := svc.ListNotes(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, notes)
	}

	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{n.Path, strings.Join(n.Words, " "), strconv.Itoa(n.Chars), n.Modified})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Path", "Words", "Chars", "Modified"},
		rows, 3))
	return nil
}

func runFixImages(ctx context.Context, svc *noteservice.Service, out io.Writer, path string, dryRun bool) error {
	if !dryRun {
		_, err := svc.FixImageLinks(ctx, path)
		return err
	}

	res, err := svc.PreviewImageLinks(ctx, path)
	if err != nil {
		return err
	}
	if len(res.Embeds) == 0 {
		fmt.Fprintln(out, "No image links found or nothing to replace.")
		return nil
	}
	rows := make([][]string, 0, len(res.Embeds))
	for _, e := range res.Embeds {
		rows = append(rows, []string{e.Original, e.Canonical})
	}
	fmt.Fprintln(out, renderTable([]string{"Embed", "Rewritten"}, rows))
	return nil
}

type copyOptions struct {
	source  string
	targets []string
	yes     bool
	in      io.Reader
	out     io.Writer
	// interactive overrides terminal detection on in.
	interactive func(io.Reader) bool
}

func runCopy(ctx context.Context, svc *noteservice.Service, opts copyOptions) error {
	src, err := svc.Note(ctx, opts.source)
	if err != nil {
		return err
	}

	targets := opts.targets
	if len(targets) == 0 {
		res, err := svc.FindSimilar(ctx, src.Path)
		if err != nil {
			return err
		}
		for _, n := range res.Similar {
			targets = append(targets, n.Path)
		}
	}
	if len(targets) == 0 {
		fmt.Fprintln(opts.out, "No similar notes found.")
		return nil
	}

	if !opts.yes {
		interactive := opts.interactive
		if interactive == nil {
			interactive = isTerminal
		}
		if !interactive(opts.in) {
			return fmt.Errorf("copy: refusing to overwrite %d notes without --yes: %w", len(targets), errAborted)
		}
		for _, t := range targets {
			fmt.Fprintf(opts.out, "  %s\n", t)
		}
		msg := fmt.Sprintf("Overwrite %d notes with %s and rename them to %q?", len(targets), src.Path, src.Title)
		if !confirm(opts.in, opts.out, msg) {
			return errAborted
		}
	}

	report, err := svc.CopyContent(ctx, src.Path, targets)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		status := "ok"
		if !r.OK() {
			status = r.Error
		}
		rows = append(rows, []string{r.Target, r.NewPath, status})
	}
	fmt.Fprintln(opts.out, renderTable([]string{"Target", "Renamed to", "Status"}, rows))

	if report.Failed > 0 {
		return fmt.Errorf("copy: %d of %d targets failed (operation %s)",
			report.Failed, len(report.Results), report.OperationID)
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
