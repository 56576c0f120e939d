package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/pkg/geom"
	"github.com/matzehuels/pianoxl/pkg/preview"
	"github.com/matzehuels/pianoxl/pkg/render/sink"
	"github.com/matzehuels/pianoxl/pkg/state"
)

// statusLines is the number of terminal rows reserved below the frame.
const statusLines = 2

var (
	statusBarStyle = lipgloss.NewStyle().Foreground(colorGray)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// previewCommand creates the interactive terminal preview.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		designPath string
		flags      storeFlags
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Interactive terminal preview that follows the window size",
		Long: `Interactive terminal preview that follows the window size.

Each terminal cell stands for 8x16 pixels. Resize the terminal to see the
keyboard re-fit; click controls with the mouse or use the keys:

  s      cycle the size button (XL, XXL, XXXL)
  f      tap the fader
  tab    select the next settings control
  + / -  adjust the inversion (when selected)
  q      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), designPath, &flags)
		},
	}
	cmd.Flags().StringVar(&designPath, "design", "", "design table TOML (default: embedded)")
	flags.register(cmd)
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, designPath string, flags *storeFlags) error {
	table, err := loadTable(designPath)
	if err != nil {
		return err
	}
	store, err := flags.open(ctx, c.Logger)
	if err != nil {
		return err
	}
	shell, err := preview.New(ctx, table, preview.WithStore(store, flags.key))
	if err != nil {
		store.Close()
		return err
	}
	defer shell.Close()

	p := tea.NewProgram(newPreviewModel(ctx, shell),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// previewModel is the bubbletea model driving a preview shell.
type previewModel struct {
	ctx   context.Context
	shell *preview.Shell
	cols  int
	rows  int
	frame string
	last  string
	err   error
}

func newPreviewModel(ctx context.Context, shell *preview.Shell) previewModel {
	return previewModel{ctx: ctx, shell: shell}
}

func (m previewModel) Init() tea.Cmd { return nil }

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, max(msg.Height-statusLines, 0)
		m.shell.OnResize(float64(m.cols*sink.CellWidth), float64(m.rows*sink.CellHeight))
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		id, err := m.shell.Click(m.ctx, cellCenter(msg.X, msg.Y))
		m.err = err
		if id != "" {
			m.last = id
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			m.apply("size", m.shell.State().CycleSize())
		case "f":
			m.apply("fader", m.shell.State().TapFader(m.shell.Table().Fader.SnapPoints()))
		case "tab":
			m.apply("select", nextSelection(m.shell.State()))
		case "+", "=":
			if st := m.shell.State(); st.ButtonsEnabled() {
				m.apply("plus", st.Adjust(1))
			}
		case "-":
			if st := m.shell.State(); st.ButtonsEnabled() {
				m.apply("minus", st.Adjust(-1))
			}
		default:
			return m, nil
		}
	default:
		return m, nil
	}
	m.frame, m.err = m.paint()
	return m, nil
}

func (m *previewModel) apply(what string, st state.State) {
	m.last = what
	m.err = m.shell.SetState(m.ctx, st)
}

func (m previewModel) paint() (string, error) {
	if m.cols == 0 || m.rows == 0 {
		return "", m.err
	}
	surf := sink.NewCellSurface(m.cols, m.rows)
	if err := m.shell.OnPaint(surf); err != nil {
		return "", err
	}
	return surf.String(), m.err
}

func (m previewModel) View() string {
	var b strings.Builder
	b.WriteString(m.frame)
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(statusErrStyle.Render(m.err.Error()))
	} else {
		b.WriteString(statusBarStyle.Render(m.status()))
	}
	return b.String()
}

func (m previewModel) status() string {
	st := m.shell.State()
	parts := []string{
		fmt.Sprintf("%dx%d px", m.cols*sink.CellWidth, m.rows*sink.CellHeight),
		st.Size,
		fmt.Sprintf("fader %.3f", st.Fader),
	}
	if res := m.shell.Result(); res != nil && !res.Degenerate {
		parts = append(parts, fmt.Sprintf("scale %.3f", res.Fit.Scale))
	}
	if st.Selected != "" {
		parts = append(parts, "selected "+st.Selected)
	}
	if m.last != "" {
		parts = append(parts, "last "+m.last)
	}
	return strings.Join(parts, " · ") + "   s size · f fader · tab select · +/- adjust · q quit"
}

// cellCenter maps a terminal cell to the layout pixel at its centre.
func cellCenter(x, y int) geom.Point {
	return geom.Point{
		X: float64(x*sink.CellWidth) + sink.CellWidth/2,
		Y: float64(y*sink.CellHeight) + sink.CellHeight/2,
	}
}

// nextSelection cycles the selection through every control and back to
// none.
func nextSelection(st state.State) state.State {
	i := -1
	for j, c := range state.Selectable {
		if c == st.Selected {
			i = j
		}
	}
	if i == len(state.Selectable)-1 {
		return st.Toggle(st.Selected)
	}
	return st.Toggle(state.Selectable[i+1])
}
