package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideamap/ideamap/pkg/document"
	"github.com/ideamap/ideamap/pkg/errors"
	"github.com/ideamap/ideamap/pkg/outline"
	"github.com/ideamap/ideamap/pkg/render"
)

// Export formats.
const (
	FormatMarkdown = "markdown"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
	FormatPNG      = "png"
)

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format string
		out    string
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "export MAP",
		Short: "Render a stored map as markdown, dot, svg, or png",
		Long: `Export loads a map from the configured store and writes it in the
requested format. Text formats (markdown, dot) go to stdout unless
--out is given; image formats require --out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			doc, err := st.Load(ctx, name)
			if err != nil {
				return err
			}
			sc, _, err := document.ToScene(doc)
			if err != nil {
				return err
			}

			switch strings.ToLower(format) {
			case FormatMarkdown, "md":
				md, err := outline.Render(sc, doc.Name)
				if err != nil {
					return err
				}
				return writeTextOutput(out, md)
			case FormatDOT:
				return writeTextOutput(out, render.ToDOT(sc))
			case FormatSVG:
				if out == "" {
					return errors.New(errors.ErrCodeInvalidInput, "svg export requires --out")
				}
				svg, err := render.RenderSVG(render.ToDOT(sc))
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, svg, 0o644); err != nil {
					return err
				}
			case FormatPNG:
				if out == "" {
					return errors.New(errors.ErrCodeInvalidInput, "png export requires --out")
				}
				if err := render.SavePNG(out, sc, render.SnapshotOptions{Scale: scale}); err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (markdown, dot, svg, png)", format)
			}

			printSuccess("Exported %s", name)
			printStats(sc.NodeCount(), sc.EdgeCount())
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatMarkdown, "output format: markdown, dot, svg, png")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout for text formats)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "pixels per world unit for png export")
	return cmd
}

// writeTextOutput writes s to path, or stdout when path is empty.
func writeTextOutput(path, s string) error {
	if path == "" {
		fmt.Print(s)
		return nil
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}
