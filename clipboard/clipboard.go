// Package clipboard copies transform values as text in the editor's
// Vector2(x,y), Vector3(x,y,z) and plain number formats.
package clipboard

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/jakecoffman/cp"
	sysclip "golang.design/x/clipboard"
)

var ErrFormat = errors.New("clipboard: unrecognized format")

const number = `(-?\d+(?:\.\d+)?)`

var (
	floatPattern   = regexp.MustCompile(`^` + number + `$`)
	vector2Pattern = regexp.MustCompile(`^Vector2\(\s*` + number + `,\s*` + number + `\s*\)$`)
	vector3Pattern = regexp.MustCompile(`^Vector3\(\s*` + number + `,\s*` + number + `,\s*` + number + `\s*\)$`)
)

// Buffer is a text clipboard.
type Buffer interface {
	ReadText() string
	WriteText(string)
}

// System is the operating system clipboard.
type System struct{}

var (
	initOnce sync.Once
	initErr  error
)

// NewSystem initializes the OS clipboard. It fails on headless machines.
func NewSystem() (System, error) {
	initOnce.Do(func() {
		initErr = sysclip.Init()
	})
	if initErr != nil {
		return System{}, fmt.Errorf("clipboard: init: %w", initErr)
	}
	return System{}, nil
}

func (System) ReadText() string {
	return string(sysclip.Read(sysclip.FmtText))
}

func (System) WriteText(s string) {
	sysclip.Write(sysclip.FmtText, []byte(s))
}

// Memory is an in-process clipboard, used when the OS one is unavailable.
type Memory struct {
	text string
}

func (m *Memory) ReadText() string   { return m.text }
func (m *Memory) WriteText(s string) { m.text = s }

// Board reads and writes typed values through a Buffer.
type Board struct {
	Buffer Buffer
}

// New returns a board on the OS clipboard, falling back to memory.
func New() *Board {
	sys, err := NewSystem()
	if err != nil {
		return &Board{Buffer: &Memory{}}
	}
	return &Board{Buffer: sys}
}

func (b *Board) text() string {
	if b == nil || b.Buffer == nil {
		return ""
	}
	return b.Buffer.ReadText()
}

func (b *Board) write(s string) {
	if b == nil || b.Buffer == nil {
		return
	}
	b.Buffer.WriteText(s)
}

func (b *Board) SetText(s string)           { b.write(s) }
func (b *Board) SetFloat(v float64)         { b.write(FormatFloat(v)) }
func (b *Board) SetVector2(v cp.Vector)     { b.write(FormatVector2(v)) }
func (b *Board) SetVector3(x, y, z float64) { b.write(FormatVector3(x, y, z)) }

func (b *Board) Text() string { return b.text() }

func (b *Board) Float() (float64, error) { return ParseFloat(b.text()) }

// Vector2 reads a Vector2, or the x and y of a Vector3.
func (b *Board) Vector2() (cp.Vector, error) { return ParseVector2(b.text()) }

func (b *Board) HasFloat() bool { return floatPattern.MatchString(b.text()) }

func (b *Board) HasVector() bool {
	s := b.text()
	return vector2Pattern.MatchString(s) || vector3Pattern.MatchString(s)
}

func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func FormatVector2(v cp.Vector) string {
	return fmt.Sprintf("Vector2(%s,%s)", FormatFloat(v.X), FormatFloat(v.Y))
}

func FormatVector3(x, y, z float64) string {
	return fmt.Sprintf("Vector3(%s,%s,%s)", FormatFloat(x), FormatFloat(y), FormatFloat(z))
}

func ParseFloat(s string) (float64, error) {
	m := floatPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	return strconv.ParseFloat(m[1], 64)
}

func ParseVector2(s string) (cp.Vector, error) {
	if m := vector2Pattern.FindStringSubmatch(s); m != nil {
		return parseVector(m[1], m[2])
	}
	if m := vector3Pattern.FindStringSubmatch(s); m != nil {
		return parseVector(m[1], m[2])
	}
	return cp.Vector{}, fmt.Errorf("%w: %q", ErrFormat, s)
}

func ParseVector3(s string) (x, y, z float64, err error) {
	m := vector3Pattern.FindStringSubmatch(s)
	if m == nil {
		if v, err2 := ParseVector2(s); err2 == nil {
			return v.X, v.Y, 0, nil
		}
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	v, err := parseVector(m[1], m[2])
	if err != nil {
		return 0, 0, 0, err
	}
	z, err = strconv.ParseFloat(m[3], 64)
	return v.X, v.Y, z, err
}

func parseVector(xs, ys string) (cp.Vector, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return cp.Vector{}, err
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return cp.Vector{}, err
	}
	return cp.Vector{X: x, Y: y}, nil
}
