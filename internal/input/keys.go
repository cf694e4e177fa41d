package input

type UiAction rune

const (
	Unknown    UiAction = iota
	Quit       UiAction = 81 // 'Q'
	Up         UiAction = 87 // 'W'
	Down       UiAction = 83 // 'S'
	UpArrow    UiAction = 8593
	DownArrow  UiAction = 8595
	escape              = 27
	csiUp               = 'A'
	csiDown             = 'B'
)

// ProcessInput maps one raw read from a terminal in raw mode to an action.
// Arrow keys arrive as ESC [ A and ESC [ B.
func ProcessInput(raw []byte) (action UiAction) {
	if len(raw) == 0 {
		return Unknown
	}
	if raw[0] == escape {
		if len(raw) < 3 || raw[1] != '[' {
			return Unknown
		}
		switch raw[2] {
		case csiUp:
			return UpArrow
		case csiDown:
			return DownArrow
		}
		return Unknown
	}

	inputVal := int(raw[0])
	// Convert to UpperCase
	if inputVal >= 97 && inputVal <= 122 {
		inputVal = inputVal - 32
	}
	switch UiAction(inputVal) {
	case Quit, Up, Down:
		return UiAction(inputVal)
	}
	return Unknown
}
