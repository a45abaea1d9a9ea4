// Package ui is the terminal front end of the demo: a ball following clicks on the right, the
// position plot on the left and the gain fields below.
package ui

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"go.viam.com/piddemo/control"
	"go.viam.com/piddemo/figure"
	"go.viam.com/piddemo/logging"
)

// World dimensions, in the units the controller works in. The plot pane covers the world left of
// PlotWidth; the ball lives right of it.
const (
	WorldWidth  = 1400.0
	WorldHeight = 800.0
	PlotWidth   = 600.0

	// rows below the arena: gain labels, gain fields, button, status
	controlRows = 5
	eventBuffer = 64
)

// Config configures the terminal UI.
type Config struct {
	// Bell rings the terminal bell when the ball settles on a new target.
	Bell      bool
	BallRune  rune
	BallStyle tcell.Style
	TextBox   TextBoxConfig
	Button    ButtonConfig
}

// DefaultConfig returns the default look of the UI.
func DefaultConfig() Config {
	return Config{
		BallRune:  '●',
		BallStyle: tcell.StyleDefault.Foreground(tcell.ColorOrangeRed),
		TextBox:   DefaultTextBoxConfig(),
		Button:    DefaultButtonConfig(),
	}
}

// UI owns a tcell screen. Events are forwarded from tcell on a separate goroutine into a
// channel; everything else happens on the frame loop goroutine through Poll and Render.
type UI struct {
	cfg    Config
	logger logging.Logger
	screen tcell.Screen

	events chan tcell.Event
	posted chan control.Input
	quit   chan struct{}

	gains      []*TextBox
	shownGains control.Gains
	ok         *Button
	lastBt     tcell.ButtonMask

	settledTarget float64
	rang          bool
}

// New initializes the terminal and returns a UI showing the given gains in its fields.
func New(logger logging.Logger, cfg Config, gains control.Gains) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "cannot create terminal screen")
	}
	return NewWithScreen(logger, cfg, gains, screen)
}

// NewWithScreen is New on an existing, uninitialized screen.
func NewWithScreen(logger logging.Logger, cfg Config, gains control.Gains, screen tcell.Screen) (*UI, error) {
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "cannot initialize terminal screen")
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	u := &UI{
		cfg:           cfg,
		logger:        logger,
		screen:        screen,
		events:        make(chan tcell.Event, eventBuffer),
		posted:        make(chan control.Input, eventBuffer),
		quit:          make(chan struct{}),
		ok:            NewButton(cfg.Button),
		settledTarget: math.NaN(),
	}
	for _, label := range []string{"kp:", "ki:", "kd:"} {
		boxCfg := cfg.TextBox
		boxCfg.Label = label
		u.gains = append(u.gains, NewTextBox(boxCfg, ""))
	}
	u.showGains(gains)
	u.layout()
	go screen.ChannelEvents(u.events, u.quit)
	return u, nil
}

func formatGain(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// showGains writes gains into the three fields.
func (u *UI) showGains(g control.Gains) {
	u.shownGains = g
	for i, v := range []float64{g.Kp, g.Ki, g.Kd} {
		u.gains[i].SetText(formatGain(v))
	}
}

// Close restores the terminal.
func (u *UI) Close() {
	close(u.quit)
	u.screen.Fini()
}

// Post queues an input for the next Poll. It never blocks; inputs are dropped when the queue is
// full.
func (u *UI) Post(in control.Input) {
	select {
	case u.posted <- in:
	default:
		u.logger.Warnw("dropping input, queue full", "input", fmt.Sprintf("%T", in))
	}
}

// Poll returns the inputs produced by pending terminal events and posted inputs.
func (u *UI) Poll() []control.Input {
	var inputs []control.Input
	for {
		select {
		case ev, ok := <-u.events:
			if !ok {
				return append(inputs, control.QuitInput{})
			}
			inputs = append(inputs, u.HandleEvent(ev)...)
		case in := <-u.posted:
			inputs = append(inputs, in)
		default:
			return inputs
		}
	}
}

// layout places the widgets for the current screen size.
func (u *UI) layout() {
	_, h := u.screen.Size()
	fieldsRow := h - 3
	step := u.cfg.TextBox.Width + 4
	for i, box := range u.gains {
		box.Move(2+i*step, fieldsRow)
	}
	u.ok.Move(2+len(u.gains)*step, fieldsRow)
}

// arena returns the first column of the ball area and the number of rows above the controls.
func (u *UI) arena() (plotCols, rows int) {
	w, h := u.screen.Size()
	return int(math.Round(float64(w) * PlotWidth / WorldWidth)), max(h-controlRows, 1)
}

// ToWorld maps the center of a terminal cell to world coordinates.
func (u *UI) ToWorld(col, row int) (float64, float64) {
	w, _ := u.screen.Size()
	_, rows := u.arena()
	return (float64(col) + 0.5) * WorldWidth / float64(w), (float64(row) + 0.5) * WorldHeight / float64(rows)
}

// ToColumn maps a world x to the terminal column containing it.
func (u *UI) ToColumn(x float64) int {
	w, _ := u.screen.Size()
	col := int(math.Floor(x * float64(w) / WorldWidth))
	return min(max(col, 0), w-1)
}

func (u *UI) submitGains() control.Input {
	return control.GainsInput{Result: control.ParseGains(u.gains[0].Text(), u.gains[1].Text(), u.gains[2].Text())}
}

// HandleEvent updates widget state for a terminal event and returns the resulting inputs.
func (u *UI) HandleEvent(ev tcell.Event) []control.Input {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
		u.layout()
	case *tcell.EventKey:
		return u.handleKey(ev)
	case *tcell.EventMouse:
		return u.handleMouse(ev)
	}
	return nil
}

func (u *UI) handleKey(ev *tcell.EventKey) []control.Input {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return []control.Input{control.QuitInput{}}
	case tcell.KeyCtrlS:
		return []control.Input{u.submitGains()}
	case tcell.KeyTab:
		u.focusNext()
		return nil
	}
	for _, box := range u.gains {
		if box.HandleKey(ev) {
			return nil
		}
	}
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
		return []control.Input{control.QuitInput{}}
	}
	return nil
}

func (u *UI) focusNext() {
	next := 0
	for i, box := range u.gains {
		if box.Active() {
			box.SetActive(false)
			next = (i + 1) % len(u.gains)
		}
	}
	u.gains[next].SetActive(true)
}

func (u *UI) handleMouse(ev *tcell.EventMouse) []control.Input {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && u.lastBt&tcell.Button1 == 0
	u.lastBt = buttons
	u.ok.hover = u.ok.Contains(x, y)
	if !pressed {
		return nil
	}

	var clickedBox bool
	for _, box := range u.gains {
		hit := box.Contains(x, y)
		box.SetActive(hit)
		clickedBox = clickedBox || hit
	}
	if clickedBox {
		return nil
	}
	if u.ok.Contains(x, y) {
		u.ok.clicked = true
		return []control.Input{u.submitGains()}
	}

	plotCols, rows := u.arena()
	if x < plotCols || y >= rows {
		return nil
	}
	wx, wy := u.ToWorld(x, y)
	return []control.Input{control.TargetInput{X: wx, Y: wy}}
}

// Render draws a frame: plot pane, ball, widgets and status line.
func (u *UI) Render(ctx context.Context, f control.Frame) error {
	s := u.screen
	s.Clear()
	w, h := s.Size()
	plotCols, rows := u.arena()
	s.HideCursor()

	divider := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := 0; y < rows; y++ {
		s.SetContent(plotCols, y, '│', nil, divider)
	}
	for y, line := range figure.ASCII(f.Samples, f.Target, plotCols-12, rows) {
		for x, r := range []rune(line) {
			if x >= plotCols {
				break
			}
			s.SetContent(x, y, r, nil, tcell.StyleDefault)
		}
	}

	// fields follow gains applied from elsewhere, such as a config reload
	if f.Gains != u.shownGains {
		u.showGains(f.Gains)
	}

	s.SetContent(u.ToColumn(f.Target), 0, '▼', nil, divider)
	s.SetContent(u.ToColumn(f.Position), rows/2, u.cfg.BallRune, nil, u.cfg.BallStyle)

	for _, box := range u.gains {
		box.Draw(s)
	}
	u.ok.Draw(s)

	g := f.Gains
	status := fmt.Sprintf("x=%.1f target=%.1f kp=%g ki=%g kd=%g mean=%.1f sd=%.1f",
		f.Position, f.Target, g.Kp, g.Ki, g.Kd, f.Summary.Mean, f.Summary.StdDev)
	if f.Summary.SettledAt >= 0 {
		status += fmt.Sprintf(" settled@%.2fs", f.Summary.SettledAt)
	}
	drawString(s, 0, h-1, truncate(status, w), tcell.StyleDefault.Foreground(tcell.ColorSilver))

	u.ringOnSettle(f)
	s.Show()
	return nil
}

func (u *UI) ringOnSettle(f control.Frame) {
	if f.Target != u.settledTarget {
		u.settledTarget = f.Target
		u.rang = false
	}
	if !u.cfg.Bell || u.rang || f.Summary.SettledAt < 0 {
		return
	}
	u.rang = true
	if err := u.screen.Beep(); err != nil {
		u.logger.Debugw("cannot ring terminal bell", "error", err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
