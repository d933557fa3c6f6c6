package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orrery/internal/anim"
	"github.com/san-kum/orrery/internal/render"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/viewport"
)

const (
	hudWidth    = 30
	minHUDCols  = 70
	orbitStep   = 0.08
	zoomStep    = 1.15
	chromeLines = 2 // header and key hints
)

// Engine is what the terminal needs from a mounted engine. The accessors
// return nil or zero values between an unmount and the next mount. The
// scene graph itself belongs to the animation loop and is never read here.
type Engine interface {
	Controller() *viewport.Controller
	Scheduler() *anim.Scheduler
	Summary() scene.Summary
}

type Options struct {
	Title string
	Theme string
	FPS   int
}

type TickMsg time.Time

// StatusMsg shows a line of text in the header, e.g. after a reload.
type StatusMsg string

// Model draws the latest frame of the host next to a HUD.
type Model struct {
	host   *Host
	eng    Engine
	title  string
	theme  Theme
	fps    int
	frame  *render.Frame
	canvas *render.Canvas
	cols   int
	rows   int
	hud    bool
	help   bool
	status string
}

func NewModel(host *Host, eng Engine, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = anim.DefaultFPS
	}
	if opts.Title == "" {
		opts.Title = "orrery"
	}
	return Model{
		host:  host,
		eng:   eng,
		title: opts.Title,
		theme: GetTheme(opts.Theme),
		fps:   opts.FPS,
		hud:   true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.layout()
	case tea.KeyMsg:
		return m.key(msg)
	case StatusMsg:
		m.status = string(msg)
	case TickMsg:
		if f := m.host.Latest(); f != nil && f != m.frame {
			m.frame = f
			m.canvas = render.Rasterize(f)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctl := m.eng.Controller()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "?":
		m.help = !m.help
	case "h":
		m.hud = !m.hud
		m.layout()
	case "t":
		names := ThemeNames()
		for i, name := range names {
			if name == m.theme.Name {
				m.theme = GetTheme(names[(i+1)%len(names)])
				break
			}
		}
	}
	if ctl == nil {
		return m, nil
	}
	switch msg.String() {
	case "left", "a":
		ctl.Orbit(-orbitStep, 0)
	case "right", "d":
		ctl.Orbit(orbitStep, 0)
	case "up", "w":
		ctl.Orbit(0, -orbitStep)
	case "down", "s":
		ctl.Orbit(0, orbitStep)
	case "+", "=":
		ctl.Zoom(zoomStep)
	case "-", "_":
		ctl.Zoom(1 / zoomStep)
	case "r":
		ctl.Reset()
	}
	return m, nil
}

func (m Model) showHUD() bool {
	return m.hud && m.cols >= minHUDCols
}

// layout tells the host how much of the terminal the scene gets.
func (m *Model) layout() {
	cols := m.cols
	if m.showHUD() {
		cols -= hudWidth
	}
	m.host.setCells(max(cols, 0), max(m.rows-chromeLines, 0))
}

func (m Model) View() string {
	st := m.theme.styles()

	header := st.title.Render(strings.ToUpper(m.title))
	if sched := m.eng.Scheduler(); sched != nil {
		header += st.muted.Render(fmt.Sprintf("  %s  frame %d", sched.State(), sched.Frames()))
	}
	if m.status != "" {
		header += "  " + st.accent.Render(m.status)
	}

	view := ""
	if m.canvas != nil {
		view = colorize(m.canvas)
	}
	body := view
	if m.showHUD() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(m.cols-hudWidth).Render(view), m.hudView(st))
	}

	hints := st.muted.Render("←↑↓→ orbit  +/- zoom  r reset  t theme  h hud  ? help  q quit")
	if m.help {
		return header + "\n" + helpView(st) + "\n" + hints
	}
	return header + "\n" + body + "\n" + hints
}

func (m Model) hudView(st styles) string {
	var b strings.Builder
	b.WriteString(st.title.Render("BODIES") + "\n")

	sum, sched := m.eng.Summary(), m.eng.Scheduler()
	if sched == nil {
		b.WriteString(st.muted.Render("not mounted"))
		return st.panel.Render(b.String())
	}
	states := sched.States()
	b.WriteString(st.label.Render(truncate(sum.Center, 8)) + st.value.Render(fmt.Sprintf("spin %5.1f°", degrees(sched.Center()))) + "\n")
	for i, body := range sum.Bodies {
		if i >= len(states) {
			break
		}
		name := body.Name
		if body.Ring {
			name += "◦"
		}
		b.WriteString(st.label.Render(truncate(name, 8)) +
			st.value.Render(fmt.Sprintf("%5.1f° %5.1f°", degrees(states[i].Revolution), degrees(states[i].Spin))) + "\n")
	}
	if m.frame != nil {
		b.WriteString("\n" + st.label.Render("eye") + st.value.Render(fmt.Sprintf("%.0f,%.0f,%.0f", m.frame.Eye.X(), m.frame.Eye.Y(), m.frame.Eye.Z())) + "\n")
		b.WriteString(st.label.Render("surface") + st.value.Render(fmt.Sprintf("%dx%d", m.frame.Width, m.frame.Height)) + "\n")
	}
	return st.panel.Render(b.String())
}

func helpView(st styles) string {
	rows := [][2]string{
		{"← →  a d", "orbit around the center"},
		{"↑ ↓  w s", "tilt the view"},
		{"+ -", "zoom in and out"},
		{"r", "reset the camera"},
		{"t", "next theme"},
		{"h", "toggle the side panel"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(st.title.Render("KEYS") + "\n\n")
	for _, r := range rows {
		b.WriteString(st.accent.Render(fmt.Sprintf("  %-10s", r[0])) + st.value.Render(r[1]) + "\n")
	}
	return b.String()
}

// colorize renders the canvas with each run of equally colored cells in
// one style.
func colorize(c *render.Canvas) string {
	var b strings.Builder
	for y := range c.Grid {
		row, colors := c.Grid[y], c.Colors[y]
		for x := 0; x < len(row); {
			end := x + 1
			for end < len(row) && colors[end] == colors[x] && (row[end] == 0x2800) == (row[x] == 0x2800) {
				end++
			}
			run := string(row[x:end])
			if row[x] == 0x2800 {
				b.WriteString(run)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colors[x].Clamped().Hex())).Render(run))
			}
			x = end
		}
		if y < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Run drives the terminal until the user quits or ctx is done. The program
// is handed to ready before it starts so callers can send it messages.
func Run(ctx context.Context, host *Host, eng Engine, opts Options, ready func(p *tea.Program)) error {
	p := tea.NewProgram(NewModel(host, eng, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if ready != nil {
		ready(p)
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
