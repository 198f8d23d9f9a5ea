package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jhagedorn/wirecat/pkg/wiring"
	"github.com/jhagedorn/wirecat/pkg/wiring/ordering"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BoxListModel - Interactive box browser
// =============================================================================

// boxRow holds one box's display data, precomputed at model construction.
type boxRow struct {
	id    int
	box   wiring.Box
	layer int
	nIn   int
	nOut  int
}

// BoxListModel is the bubbletea model for browsing a diagram's boxes.
type BoxListModel struct {
	rows   []boxRow
	wires  []wiring.Wire
	cursor int
	height int
	offset int
}

// NewBoxListModel creates a box browser for the given diagram.
// Boxes appear in insertion order with their computed layer.
func NewBoxListModel(d *wiring.Diagram) BoxListModel {
	layers := ordering.Layers(d)

	var rows []boxRow
	for _, id := range d.BoxIDs() {
		b, _ := d.Box(id)
		rows = append(rows, boxRow{
			id:    id,
			box:   b,
			layer: layers[id],
			nIn:   len(d.WiresInto(id)),
			nOut:  len(d.WiresOutOf(id)),
		})
	}
	return BoxListModel{
		rows:   rows,
		wires:  d.Wires(),
		height: 15,
	}
}

func (m BoxListModel) Init() tea.Cmd {
	return nil
}

func (m BoxListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m BoxListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Diagram Boxes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("n%d", r.id),
			r.box.Kind.String(),
			boxLabel(r.box),
			fmt.Sprintf("%d", r.layer),
			fmt.Sprintf("%d/%d", r.nIn, r.nOut),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Box", "Kind", "Label", "Layer", "Wires").
		Rows(rows...)

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.wireDetail())

	return b.String()
}

// wireDetail lists the wires touching the box under the cursor.
func (m BoxListModel) wireDetail() string {
	if len(m.rows) == 0 {
		return listDimStyle.Render("empty diagram")
	}
	id := m.rows[m.cursor].id

	var lines []string
	for _, w := range m.wires {
		if w.Source.Box == id || w.Target.Box == id {
			lines = append(lines, fmt.Sprintf("%s %s %s", w.Source, iconArrow, w.Target))
		}
	}
	if len(lines) == 0 {
		return listDimStyle.Render("no wires")
	}
	return listDimStyle.Render(strings.Join(lines, "\n"))
}
