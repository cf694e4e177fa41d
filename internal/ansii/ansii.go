package ansii

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type ANSI string

const (
	reset       ANSI = "\033[0m"
	clearScreen ANSI = "\033[2J"
	hideCursor  ANSI = "\033[?25l"
	showCursor  ANSI = "\033[?25h"
	home        ANSI = "\033[H"
)

type screen struct {
	ClearScreen ANSI
	HideCursor  ANSI
	ShowCursor  ANSI
	Home        ANSI
}

var (
	Screen = screen{ClearScreen: clearScreen, HideCursor: hideCursor, ShowCursor: showCursor, Home: home}
)

// Luminance ramp, darkest first.
var shades = []string{" ", "░", "▒", "▓", "█"}

func GetTermSize() (width int, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

func MakeTermRaw() (*term.State, error) {
	return term.MakeRaw(int(os.Stdin.Fd()))
}

func RestoreTerm(prev *term.State) error {
	return term.Restore(int(os.Stdin.Fd()), prev)
}

func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func (s screen) PlaceCursor(X, Y int) ANSI {
	return ANSI(fmt.Sprintf("\033[%d;%dH", Y, X))
}

// Panel shows an L8 layer on a terminal of cols x rows cells. Each cell
// covers a block of pixels and shows the brightest of them.
type Panel struct {
	Cols, Rows int
}

// Render builds the escape sequence for one full frame. Every row starts
// with an absolute cursor move, so a stray line break never shifts the panel.
func (p Panel) Render(layer []uint8, width, height int) string {
	if p.Cols <= 0 || p.Rows <= 0 {
		return ""
	}
	cellW := (width + p.Cols - 1) / p.Cols
	cellH := (height + p.Rows - 1) / p.Rows

	var builder strings.Builder
	for row := 0; row < p.Rows && row*cellH < height; row++ {
		builder.WriteString(string(Screen.PlaceCursor(1, row+1)))
		for col := 0; col < p.Cols && col*cellW < width; col++ {
			builder.WriteString(shade(layer, width, height, col*cellW, row*cellH, cellW, cellH))
		}
	}
	builder.WriteString(string(Styles.Reset))
	return builder.String()
}

// Present writes the frame in a single write so the terminal never shows a
// half drawn frame.
func (p Panel) Present(w io.Writer, layer []uint8, width, height int) error {
	_, err := io.WriteString(w, p.Render(layer, width, height))
	return err
}

func shade(layer []uint8, width, height, x0, y0, w, h int) string {
	var peak uint8
	for y := y0; y < y0+h && y < height; y++ {
		for x := x0; x < x0+w && x < width; x++ {
			peak = max(peak, layer[y*width+x])
		}
	}
	return shades[int(peak)*(len(shades)-1)/255]
}

type style struct {
	Reset ANSI
}

var Styles = style{Reset: reset}
