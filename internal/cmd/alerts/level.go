package alerts

import "fmt"

// Level represents the severity of an alert.
type Level int

// Alert levels.
const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

var levels = [...]struct {
	name, icon, color string
}{
	LevelError:   {"error", "✗", "\033[31m"},
	LevelWarning: {"warning", "!", "\033[33m"},
	LevelInfo:    {"info", "i", "\033[36m"},
	LevelSuccess: {"success", "✓", "\033[32m"},
}

const resetColor = "\033[0m"

func (l Level) known() bool {
	return l >= 0 && int(l) < len(levels)
}

// String returns the string representation of the alert level.
func (l Level) String() string {
	if !l.known() {
		return fmt.Sprintf("unknown(%d)", int(l))
	}
	return levels[l].name
}

// Icon returns the symbol printed before messages of this level.
func (l Level) Icon() string {
	if !l.known() {
		return "?"
	}
	return levels[l].icon
}

// Color returns the ANSI color code for terminal output.
func (l Level) Color() string {
	if !l.known() {
		return resetColor
	}
	return levels[l].color
}
