package renderer

import "github.com/gdamore/tcell/v2"

// Styles holds the HUD palette.
type Styles struct {
	Panel   tcell.Style
	Label   tcell.Style
	Value   tcell.Style
	Held    tcell.Style
	Land    tcell.Style
	Grid    tcell.Style
	Center  tcell.Style
	Status  tcell.Style
	Warning tcell.Style
	Error   tcell.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	base := tcell.StyleDefault
	return Styles{
		Panel:   base,
		Label:   base.Foreground(tcell.ColorGray),
		Value:   base.Foreground(tcell.ColorWhite).Bold(true),
		Held:    base.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow),
		Land:    base.Foreground(tcell.ColorGreen),
		Grid:    base.Foreground(tcell.ColorTeal),
		Center:  base.Foreground(tcell.ColorRed).Bold(true),
		Status:  base.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
		Warning: base.Foreground(tcell.ColorBlack).Background(tcell.ColorOlive),
		Error:   base.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon),
	}
}

// StatusLevel selects the status line style.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusWarning
	StatusError
)

func (s Styles) status(level StatusLevel) tcell.Style {
	switch level {
	case StatusWarning:
		return s.Warning
	case StatusError:
		return s.Error
	default:
		return s.Status
	}
}
