package tui

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mars-lander/internal/config"
	"github.com/vovakirdan/mars-lander/internal/core"
	"github.com/vovakirdan/mars-lander/internal/lander"
	"github.com/vovakirdan/mars-lander/internal/maps"
	"github.com/vovakirdan/mars-lander/internal/referee"
	"github.com/vovakirdan/mars-lander/internal/storage"
)

// hudHeight is the number of rows reserved below the playfield.
const hudHeight = 4

// WatchConfig configures a live descent.
type WatchConfig struct {
	Map      maps.Map
	Planner  config.PlannerConfig
	Preset   string
	Runtime  core.RuntimeConfig
	MaxTurns int // 0 plays until the craft lands, crashes or leaves
}

// plannedMsg carries the controller's answer for one turn.
// gen ties it to the descent that requested it.
type plannedMsg struct {
	gen    int
	report lander.TickReport
}

// WatchModel is the Bubble Tea model that flies the planner over a map
// and draws every turn.
type WatchModel struct {
	cfg    WatchConfig
	store  *storage.Store
	logger *log.Logger

	ref    *referee.Referee
	ctrl   *lander.Controller
	screen *core.Screen
	keys   WatchKeyMap
	help   help.Model

	seed     int64
	gen      int
	tickRate int
	started  time.Time
	last     lander.TickReport
	rollouts int

	paused   bool
	planning bool
	saved    bool
	quitting bool
}

// NewWatchModel prepares a descent over cfg.Map. The store may be nil, in
// which case finished runs are not recorded.
func NewWatchModel(cfg WatchConfig, store *storage.Store, logger *log.Logger) (WatchModel, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Runtime.ScreenW <= 0 || cfg.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.Runtime.ScreenW, cfg.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	if cfg.Runtime.TickRate <= 0 {
		cfg.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	if cfg.Runtime.Seed == 0 {
		cfg.Runtime.Seed = time.Now().UnixNano()
	}

	ref, err := referee.New(cfg.Map, lander.NewTrigTable())
	if err != nil {
		return WatchModel{}, err
	}

	h := help.New()
	h.ShowAll = false
	h.Width = cfg.Runtime.ScreenW

	m := WatchModel{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		ref:      ref,
		screen:   core.NewScreen(cfg.Runtime.ScreenW, fieldRows(cfg.Runtime.ScreenH)),
		keys:     DefaultWatchKeyMap(),
		help:     h,
		seed:     cfg.Runtime.Seed,
		tickRate: core.Clamp(cfg.Runtime.TickRate, minTickRate, maxTickRate),
		started:  time.Now(),
	}
	m.ctrl = m.newController()
	return m, nil
}

func fieldRows(screenH int) int {
	return core.Max(screenH-hudHeight, 2)
}

func (m *WatchModel) newController() *lander.Controller {
	policy := lander.NewRandomPolicy(rand.New(rand.NewSource(m.seed)), m.cfg.Planner.Policy)
	engine := lander.NewEngine(m.ref.Terrain(), m.ref.Trig(), policy, m.cfg.Planner.Search.StepCap)
	return lander.NewController(engine, m.cfg.Planner, m.logger)
}

// Init starts the display loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, fieldRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		if m.paused || m.planning || m.finished() {
			return m, tickCmd(m.tickRate)
		}
		m.planning = true
		return m, tea.Batch(m.planCmd(), tickCmd(m.tickRate))

	case plannedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.apply(msg.report)
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		if m.paused && !m.planning && !m.finished() {
			m.planning = true
			return m, m.planCmd()
		}

	case key.Matches(msg, m.keys.Restart):
		m.restart()

	case key.Matches(msg, m.keys.Faster):
		m.tickRate = core.Min(m.tickRate*2, maxTickRate)

	case key.Matches(msg, m.keys.Slower):
		m.tickRate = core.Max(m.tickRate/2, minTickRate)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// planCmd runs one controller tick off the UI goroutine. The controller is
// only touched by this command while planning is set.
func (m WatchModel) planCmd() tea.Cmd {
	ctrl, observed, gen := m.ctrl, m.ref.Craft(), m.gen
	return func() tea.Msg {
		return plannedMsg{gen: gen, report: ctrl.Tick(context.Background(), observed)}
	}
}

// apply feeds the planned command to the referee and records the run once
// the descent is over.
func (m *WatchModel) apply(report lander.TickReport) {
	m.planning = false
	m.last = report
	m.rollouts += report.Rollouts
	m.ref.Step(report.Move)

	if m.finished() {
		m.saveRun()
	}
}

// restart begins a fresh descent on the same map with the next seed.
// A plan still in flight belongs to the old generation and is dropped.
func (m *WatchModel) restart() {
	m.gen++
	m.seed++
	m.ref.Reset()
	m.ctrl = m.newController()
	m.last = lander.TickReport{}
	m.rollouts = 0
	m.planning = false
	m.saved = false
	m.started = time.Now()
}

func (m WatchModel) finished() bool {
	return m.ref.Done() || (m.cfg.MaxTurns > 0 && m.ref.Turn() >= m.cfg.MaxTurns)
}

func (m *WatchModel) saveRun() {
	if m.saved {
		return
	}
	m.saved = true

	craft := m.ref.Craft()
	m.logger.Info("descent finished",
		"map", m.cfg.Map.ID,
		"outcome", m.ref.Outcome(),
		"turns", m.ref.Turn(),
		"fuel", craft.Fuel,
		"seed", m.seed,
	)
	if m.store == nil {
		return
	}

	_, err := m.store.SaveRun(storage.RunEntry{
		MapID:      m.cfg.Map.ID,
		Outcome:    m.ref.Outcome().String(),
		Turns:      m.ref.Turn(),
		FuelLeft:   craft.Fuel,
		Rollouts:   m.rollouts,
		Seed:       m.seed,
		Preset:     m.cfg.Preset,
		DurationMS: time.Since(m.started).Milliseconds(),
	})
	if err != nil {
		m.logger.Warn("could not save run", "error", err)
	}
}

// HUD styles.
var (
	hudTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	hudLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	hudHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyles  = map[referee.Outcome]lipgloss.Style{
		referee.Flying:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		referee.Landed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		referee.Crashed: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		referee.Lost:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

// View renders the playfield with telemetry underneath.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.ref.Render(m.screen)
	if m.finished() {
		m.screen.DrawTextCentered(1, m.banner())
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.telemetryLine())
	b.WriteString("\n")
	b.WriteString(m.searchLine())
	b.WriteString("\n")
	b.WriteString(hudHelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// banner sums up a finished descent over the playfield.
func (m WatchModel) banner() string {
	return fmt.Sprintf(" %s after %d turns ", strings.ToUpper(m.ref.Outcome().String()), m.ref.Turn())
}

func (m WatchModel) statusLine() string {
	status := strings.ToUpper(m.ref.Outcome().String())
	if m.paused && !m.ref.Done() {
		status = "PAUSED"
	}
	return fmt.Sprintf("%s  %s %d  %s",
		hudTitleStyle.Render(m.cfg.Map.Name),
		hudLabelStyle.Render("turn"), m.ref.Turn(),
		statusStyles[m.ref.Outcome()].Render(status),
	)
}

func (m WatchModel) telemetryLine() string {
	c := m.ref.Craft()
	field := func(label string, value any) string {
		return hudLabelStyle.Render(label) + " " + fmt.Sprint(value)
	}
	return strings.Join([]string{
		field("x", c.Pos.X),
		field("y", c.Pos.Y),
		field("hs", fmt.Sprintf("%.1f", c.HSpeed)),
		field("vs", fmt.Sprintf("%.1f", c.VSpeed)),
		field("fuel", c.Fuel),
		field("angle", c.Angle),
		field("power", c.Thrust),
	}, "  ")
}

func (m WatchModel) searchLine() string {
	return fmt.Sprintf("%s %d  %s %d  %s %.0f  %s %d  %s %d/s",
		hudLabelStyle.Render("rollouts"), m.last.Rollouts,
		hudLabelStyle.Render("total"), m.rollouts,
		hudLabelStyle.Render("best"), m.last.Best.Score,
		hudLabelStyle.Render("seed"), m.seed,
		hudLabelStyle.Render("speed"), m.tickRate,
	)
}

// Referee returns the referee driving this descent.
func (m WatchModel) Referee() *referee.Referee { return m.ref }

// IsQuitting returns true if the user asked to leave.
func (m WatchModel) IsQuitting() bool { return m.quitting }

// RunWatch flies the planner over cfg.Map in the terminal.
func RunWatch(cfg WatchConfig, store *storage.Store, logger *log.Logger) error {
	model, err := NewWatchModel(cfg, store, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
