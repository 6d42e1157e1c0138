package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/naseej/meshdesign/pkg/config"
	"github.com/naseej/meshdesign/pkg/designs"
	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// statusCycle is the order the "s" key steps a node's status through.
var statusCycle = []mesh.Status{mesh.StatusHealthy, mesh.StatusWarning, mesh.StatusError, mesh.StatusOffline}

// =============================================================================
// EditorModel - Interactive mesh graph editing
// =============================================================================

// EditorModel is the bubbletea model for the terminal graph editor. It
// drives the shared store through the same mutation API the HTTP console
// uses; the store stays the single source of truth and the model only
// holds view state.
type EditorModel struct {
	Store  *mesh.Store
	Dir    layout.Direction
	Cfg    layout.Config
	Cursor int
	Offset int
	Height int

	// connectFrom holds the source node id of an in-progress connection,
	// empty when no connection is pending.
	connectFrom string
	status      string
	saved       bool
}

// NewEditorModel creates an editor over the given store.
func NewEditorModel(store *mesh.Store, dir layout.Direction, cfg layout.Config) EditorModel {
	return EditorModel{
		Store:  store,
		Dir:    dir,
		Cfg:    cfg,
		Height: 15,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		snap := m.Store.Snapshot()
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.connectFrom != "" {
				m.connectFrom = ""
				m.status = "connection cancelled"
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(snap.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if n := m.nodeAtCursor(snap); n != nil {
				m.Store.SetSelectedNode(n.ID)
				m.status = fmt.Sprintf("selected %s", n.DisplayLabel())
			}
		case "c":
			n := m.nodeAtCursor(snap)
			if n == nil {
				break
			}
			if m.connectFrom == "" {
				m.connectFrom = n.ID
				m.status = fmt.Sprintf("connecting from %s — pick a target and press c", n.DisplayLabel())
				break
			}
			edge, rej := m.Store.Connect(m.connectFrom, n.ID)
			if rej != mesh.RejectionNone {
				m.status = fmt.Sprintf("connection rejected: %s", rej)
			} else {
				m.status = fmt.Sprintf("connected %s", edge.ID)
			}
			m.connectFrom = ""
		case "x":
			if n := m.nodeAtCursor(snap); n != nil {
				m.Store.RemoveNode(n.ID)
				if m.Cursor > 0 {
					m.Cursor--
				}
				m.status = fmt.Sprintf("removed %s", n.DisplayLabel())
			}
		case "s":
			if n := m.nodeAtCursor(snap); n != nil {
				m.Store.SetStatus(n.ID, nextStatus(n.Status))
			}
		case "a":
			id := fmt.Sprintf("node-%s", uuid.NewString()[:8])
			m.Store.AddNode(mesh.Node{ID: id, Type: mesh.TypeLogic, Label: "New Node"})
			m.status = fmt.Sprintf("added %s", id)
		case "l":
			m.Store.SetPositions(layout.Apply(m.Store.Snapshot(), m.Dir, m.Cfg))
			m.status = "layout applied"
		case "r":
			m.Store.Reset()
			m.Cursor, m.Offset = 0, 0
			m.connectFrom = ""
			m.status = "graph reset to seed"
		case "w":
			m.saved = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m EditorModel) View() string {
	var b strings.Builder
	snap := m.Store.Snapshot()

	b.WriteString(StyleTitle.Render("Mesh Editor"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  c connect  x delete  s status  a add  l layout  r reset  w save+quit  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(snap.Nodes) {
		end = len(snap.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := snap.Nodes[i]
		profile := mesh.ProfileFor(n.Type)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		selected := ""
		if snap.SelectedNodeID != nil && *snap.SelectedNodeID == n.ID {
			selected = "●"
		}
		if m.connectFrom == n.ID {
			selected = "→"
		}

		pos := fmt.Sprintf("%.0f,%.0f", n.Position.X, n.Position.Y)
		rows = append(rows, []string{
			cursor, selected, profile.Icon, n.DisplayLabel(), profile.Title, string(n.Status), pos,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "", "Node", "Type", "Status", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(snap.Nodes) {
				return lipgloss.NewStyle()
			}
			n := snap.Nodes[actualIdx]
			base := lipgloss.NewStyle()
			if col == 5 {
				base = base.Foreground(statusColor(n.Status))
			}
			if actualIdx == m.Cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			if n.Status == mesh.StatusOffline {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d nodes, %d edges]", m.Cursor+1, len(snap.Nodes), len(snap.Edges))))
	if m.status != "" {
		b.WriteString("  " + StyleDim.Render(m.status))
	}
	b.WriteString("\n")

	return b.String()
}

// nodeAtCursor returns the node under the cursor, nil when the graph is
// empty or the cursor is stale.
func (m EditorModel) nodeAtCursor(snap mesh.Snapshot) *mesh.Node {
	if m.Cursor < 0 || m.Cursor >= len(snap.Nodes) {
		return nil
	}
	return &snap.Nodes[m.Cursor]
}

func nextStatus(s mesh.Status) mesh.Status {
	for i, st := range statusCycle {
		if st == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return mesh.StatusHealthy
}

func statusColor(s mesh.Status) lipgloss.Color {
	switch s {
	case mesh.StatusHealthy:
		return colorGreen
	case mesh.StatusWarning:
		return colorYellow
	case mesh.StatusError:
		return colorRed
	default:
		return colorDim
	}
}

// =============================================================================
// edit command
// =============================================================================

// newEditCmd creates the edit command, which opens the terminal editor on
// the seed graph or a saved design.
func newEditCmd(configPath *string) *cobra.Command {
	var saveAs string

	cmd := &cobra.Command{
		Use:   "edit [design-name]",
		Short: "Edit a mesh graph interactively in the terminal",
		Long: `Edit opens a terminal editor over the working graph. Without a design
name it starts from the seed graph; with one it loads the saved design.
Press w to save on exit (requires --save or a design name).`,
		Example: `  meshdesign edit
  meshdesign edit telemetry
  meshdesign edit --save draft`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			fileStore, err := designs.NewFileStore(cfg.Designs.Dir)
			if err != nil {
				return err
			}

			store := mesh.NewStore(logger)
			name := saveAs
			if len(args) == 1 {
				name = args[0]
				d, err := fileStore.Get(cmd.Context(), name)
				if err != nil {
					return err
				}
				store.Replace(d.Graph.Nodes, d.Graph.Edges)
			}

			model := NewEditorModel(store, layout.ParseDirection(cfg.Layout.Direction), layoutConfigFrom(cfg.Layout))
			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}

			result, ok := final.(EditorModel)
			if !ok || !result.saved {
				return nil
			}
			if name == "" {
				printWarning("Nothing saved: no design name given (use --save or pass a name)")
				return nil
			}
			d := designs.Design{Name: name, SavedAt: time.Now().UTC(), Graph: store.Snapshot()}
			if err := fileStore.Set(cmd.Context(), d); err != nil {
				return err
			}
			printSuccess("Saved design %s", StyleHighlight.Render(name))
			return nil
		},
	}

	cmd.Flags().StringVar(&saveAs, "save", "", "design name to save to on exit")
	return cmd
}
