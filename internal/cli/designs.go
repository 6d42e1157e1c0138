package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naseej/meshdesign/pkg/designs"
	"github.com/naseej/meshdesign/pkg/mesh"
)

// newDesignsCmd creates the designs command group for managing saved
// designs on disk.
func newDesignsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "designs",
		Short: "Manage saved designs",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "designs directory (default ~/.config/meshdesign/designs)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved designs",
		RunE: func(cmd *cobra.Command, args []string) error {
			fileStore, err := designs.NewFileStore(dir)
			if err != nil {
				return err
			}
			names, err := fileStore.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No saved designs")
				return nil
			}
			for _, name := range names {
				fmt.Println(StyleValue.Render(name))
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileStore, err := designs.NewFileStore(dir)
			if err != nil {
				return err
			}
			d, err := fileStore.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(d.Name))
			printDetail("saved %s", d.SavedAt.Format("2006-01-02 15:04:05 MST"))
			printDetail("%d nodes, %d edges", len(d.Graph.Nodes), len(d.Graph.Edges))
			for _, n := range d.Graph.Nodes {
				profile := mesh.ProfileFor(n.Type)
				printDetail("%s %s (%s, %s)", profile.Icon, n.DisplayLabel(), profile.Title, n.Status)
			}
			for _, e := range d.Graph.Edges {
				printDetail("%s", e.ID)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileStore, err := designs.NewFileStore(dir)
			if err != nil {
				return err
			}
			if err := fileStore.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted design %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}
