package renderer

// Segments of a 3x7 seven-segment glyph.
const (
	segTop = 1 << iota
	segTopLeft
	segTopRight
	segCenter
	segBottomLeft
	segBottomRight
	segBottom
)

var digitSegments = [10]uint8{
	segTop | segTopLeft | segTopRight | segBottomLeft | segBottomRight | segBottom,
	segTopRight | segBottomRight,
	segTop | segTopRight | segCenter | segBottomLeft | segBottom,
	segTop | segTopRight | segCenter | segBottomRight | segBottom,
	segTopLeft | segTopRight | segCenter | segBottomRight,
	segTop | segTopLeft | segCenter | segBottomRight | segBottom,
	segTop | segTopLeft | segCenter | segBottomLeft | segBottomRight | segBottom,
	segTop | segTopRight | segBottomRight,
	segTop | segTopLeft | segTopRight | segCenter | segBottomLeft | segBottomRight | segBottom,
	segTop | segTopLeft | segTopRight | segCenter | segBottomRight | segBottom,
}

// Which segment lights each cell of the glyph, row by row. 0 is never lit.
var glyphCells = [7][3]uint8{
	{segTop, segTop, segTop},
	{segTopLeft, 0, segTopRight},
	{segTopLeft, 0, segTopRight},
	{segCenter, segCenter, segCenter},
	{segBottomLeft, 0, segBottomRight},
	{segBottomLeft, 0, segBottomRight},
	{segBottom, segBottom, segBottom},
}

const (
	glyphWidth   = 3
	glyphHeight  = 7
	glyphAdvance = 5
)

// drawSegments paints every cell of the glyph, unlit segments in the
// background colour so the previous digit is overwritten.
func drawSegments(d Display, x, y, scale int, segments uint8) {
	for row, cells := range glyphCells {
		for col, seg := range cells {
			if seg == 0 {
				continue
			}
			color := Background
			if segments&seg != 0 {
				color = Foreground
			}
			px, py := x+col*scale, y+row*scale
			drawRectangle(d, px, px+scale-1, py, py+scale-1, color)
		}
	}
}

func drawDigit(d Display, x, y, scale, digit int) {
	drawSegments(d, x, y, scale, digitSegments[digit])
}

// drawCounter draws v as two decimal digits, values above 99 clamped. With
// blankZero a leading zero is drawn as an unlit glyph.
func drawCounter(d Display, x, y, scale, v int, blankZero bool) {
	v = clamp(v, 0, 99)
	if tens := v / 10; tens == 0 && blankZero {
		drawSegments(d, x, y, scale, 0)
	} else {
		drawDigit(d, x, y, scale, tens)
	}
	drawDigit(d, x+glyphAdvance*scale, y, scale, v%10)
}

// DrawFPS draws the frame rate overlay in the top left corner.
func DrawFPS(d Display, fps int) {
	drawCounter(d, 0, 0, 1, fps, false)
}
