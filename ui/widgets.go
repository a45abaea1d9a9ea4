package ui

import (
	"github.com/gdamore/tcell/v2"
)

// TextBoxConfig configures a single-line text field.
type TextBoxConfig struct {
	X, Y  int
	Width int
	Label string
	// InactiveOnEnter drops focus when Enter is pressed.
	InactiveOnEnter bool
	Active          bool
	Style           tcell.Style
	ActiveStyle     tcell.Style
	LabelStyle      tcell.Style
}

// DefaultTextBoxConfig returns a 12 cell wide inactive field.
func DefaultTextBoxConfig() TextBoxConfig {
	return TextBoxConfig{
		Width:       12,
		Style:       tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite),
		ActiveStyle: tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack),
		LabelStyle:  tcell.StyleDefault.Foreground(tcell.ColorWhite),
	}
}

// TextBox is an editable single-line field with a label drawn above it.
type TextBox struct {
	cfg    TextBoxConfig
	text   []rune
	active bool
}

// NewTextBox returns a text box holding text.
func NewTextBox(cfg TextBoxConfig, text string) *TextBox {
	return &TextBox{cfg: cfg, text: []rune(text), active: cfg.Active}
}

// Contains reports whether cell (x, y) is inside the field.
func (b *TextBox) Contains(x, y int) bool {
	return y == b.cfg.Y && x >= b.cfg.X && x < b.cfg.X+b.cfg.Width
}

// Move places the field at (x, y).
func (b *TextBox) Move(x, y int) {
	b.cfg.X, b.cfg.Y = x, y
}

// Text returns the current contents.
func (b *TextBox) Text() string {
	return string(b.text)
}

// SetText replaces the contents.
func (b *TextBox) SetText(text string) {
	b.text = []rune(text)
}

// Active reports whether the field has focus.
func (b *TextBox) Active() bool {
	return b.active
}

// SetActive gives or takes focus.
func (b *TextBox) SetActive(active bool) {
	b.active = active
}

// HandleKey edits the field and reports whether the key was consumed.
func (b *TextBox) HandleKey(ev *tcell.EventKey) bool {
	if !b.active {
		return false
	}
	switch ev.Key() {
	case tcell.KeyRune:
		b.text = append(b.text, ev.Rune())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(b.text) > 0 {
			b.text = b.text[:len(b.text)-1]
		}
	case tcell.KeyEnter:
		if b.cfg.InactiveOnEnter {
			b.active = false
		}
	default:
		return false
	}
	return true
}

// Draw paints the label on the row above the field and the tail of the text that fits.
func (b *TextBox) Draw(s tcell.Screen) {
	drawString(s, b.cfg.X, b.cfg.Y-1, b.cfg.Label, b.cfg.LabelStyle)
	style := b.cfg.Style
	if b.active {
		style = b.cfg.ActiveStyle
	}
	visible := b.text
	if len(visible) > b.cfg.Width-1 {
		visible = visible[len(visible)-(b.cfg.Width-1):]
	}
	for i := 0; i < b.cfg.Width; i++ {
		r := ' '
		if i < len(visible) {
			r = visible[i]
		}
		s.SetContent(b.cfg.X+i, b.cfg.Y, r, nil, style)
	}
	if b.active {
		s.ShowCursor(b.cfg.X+len(visible), b.cfg.Y)
	}
}

// ButtonConfig configures a push button.
type ButtonConfig struct {
	X, Y         int
	Width        int
	Text         string
	Style        tcell.Style
	HoverStyle   tcell.Style
	ClickedStyle tcell.Style
}

// DefaultButtonConfig returns an 8 cell wide "OK" button.
func DefaultButtonConfig() ButtonConfig {
	return ButtonConfig{
		Width:        8,
		Text:         "OK",
		Style:        tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite),
		HoverStyle:   tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.NewRGBColor(205, 195, 100)),
		ClickedStyle: tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack),
	}
}

// Button is a clickable label.
type Button struct {
	cfg     ButtonConfig
	hover   bool
	clicked bool
}

// NewButton returns a button.
func NewButton(cfg ButtonConfig) *Button {
	return &Button{cfg: cfg}
}

// Contains reports whether cell (x, y) is on the button.
func (b *Button) Contains(x, y int) bool {
	return y == b.cfg.Y && x >= b.cfg.X && x < b.cfg.X+b.cfg.Width
}

// Move places the button at (x, y).
func (b *Button) Move(x, y int) {
	b.cfg.X, b.cfg.Y = x, y
}

// Draw paints the button with its text centered.
func (b *Button) Draw(s tcell.Screen) {
	style := b.cfg.Style
	switch {
	case b.clicked:
		style = b.cfg.ClickedStyle
	case b.hover:
		style = b.cfg.HoverStyle
	}
	for i := 0; i < b.cfg.Width; i++ {
		s.SetContent(b.cfg.X+i, b.cfg.Y, ' ', nil, style)
	}
	text := []rune(b.cfg.Text)
	start := b.cfg.X + (b.cfg.Width-len(text))/2
	drawString(s, start, b.cfg.Y, b.cfg.Text, style)
	b.clicked = false
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
