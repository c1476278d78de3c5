package cli

import (
	"github.com/spf13/cobra"

	"github.com/ideamap/ideamap/pkg/document"
	"github.com/ideamap/ideamap/pkg/editor"
	"github.com/ideamap/ideamap/pkg/errors"
	"github.com/ideamap/ideamap/pkg/expand"
	"github.com/ideamap/ideamap/pkg/scene"
)

// expandCommand creates the "expand" command.
func (c *CLI) expandCommand() *cobra.Command {
	var (
		all     bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "expand MAP NODE",
		Short: "Fetch related ideas for a node and fan them onto the map",
		Long: `Expand asks the configured idea service for topics related to a node
(matched by ID or exact title), lets you pick which ones to keep, and
adds them to the map as connected nodes arranged around the source.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, nodeRef := args[0], args[1]

			client, err := c.newExpandClient(noCache)
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			doc, err := st.Load(ctx, name)
			if err != nil {
				return err
			}
			sc, transform, err := document.ToScene(doc)
			if err != nil {
				return err
			}
			source := findNode(sc, nodeRef)
			if source == nil {
				return errors.New(errors.ErrCodeNotFound, "no node %q in map %q", nodeRef, name)
			}

			spin := newSpinner(ctx, "Fetching ideas for "+source.Title)
			spin.Start()
			ideas, err := client.Expand(ctx, source.Title)
			if err != nil {
				spin.StopWithError("Expansion failed: %s", errors.UserMessage(err))
				return err
			}
			if len(ideas) == 0 {
				spin.StopWithError("No ideas for %q", source.Title)
				return nil
			}
			spin.StopWithSuccess("Got %d ideas", len(ideas))

			if !all {
				ideas, err = pickIdeas(ideas)
				if err != nil {
					return err
				}
				if len(ideas) == 0 {
					printInfo("Nothing selected")
					return nil
				}
			}

			session := editor.NewSession(sc, editor.WithTransform(transform))
			if !session.BeginExpansion() {
				return errors.New(errors.ErrCodeExpansionBusy, "an expansion is already running")
			}
			if err := session.ApplyExpansion(source.ID, toEditorIdeas(ideas)); err != nil {
				return err
			}

			if err := st.Save(ctx, name, document.FromScene(sc, session.Transform(), doc.Name)); err != nil {
				return err
			}

			printSuccess("Added %d ideas around %q", len(ideas), source.Title)
			printStats(sc.NodeCount(), sc.EdgeCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "insert every returned idea without asking")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	return cmd
}

// findNode resolves a node by ID first, then by exact title.
func findNode(sc *scene.Scene, ref string) *scene.Node {
	if n := sc.Node(ref); n != nil {
		return n
	}
	for _, n := range sc.Nodes() {
		if !n.IsGroup() && n.Title == ref {
			return n
		}
	}
	return nil
}

func toEditorIdeas(ideas []expand.Idea) []editor.Idea {
	out := make([]editor.Idea, len(ideas))
	for i, idea := range ideas {
		out[i] = editor.Idea{Title: idea.Title, Body: idea.Body}
	}
	return out
}
