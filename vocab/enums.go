package vocab

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// LogicItemType enumerates the kinds of logic item the core supports.
type LogicItemType int

const (
	And LogicItemType = iota
	Or
	Xor
	Buffer
	Button
	LED
	DisplayNumber
	DisplayASCII
	ClockGenerator
	FlipFlopJK
	FlipFlopD
	FlipFlopMSD
	LatchD
	ShiftRegister
	SubCircuit
	TextElement
)

var logicItemTypeNames = [...]string{
	"and", "or", "xor", "buffer", "button", "led",
	"display_number", "display_ascii", "clock_generator",
	"flipflop_jk", "flipflop_d", "flipflop_ms_d", "latch_d",
	"shift_register", "sub_circuit", "text_element",
}

func (t LogicItemType) String() string {
	if int(t) < 0 || int(t) >= len(logicItemTypeNames) {
		return fmt.Sprintf("LogicItemType(%d)", int(t))
	}
	return logicItemTypeNames[t]
}

// TitleName returns the Title Case rendering of the type's name, e.g.
// for UI labels.
func (t LogicItemType) TitleName() string {
	return titleCaser.String(t.String())
}

// Orientation is the rotation of a logic item; undirected items (e.g.
// a text element) ignore it.
type Orientation int

const (
	Right Orientation = iota
	Left
	Up
	Down
	Undirected
)

var orientationNames = [...]string{"right", "left", "up", "down", "undirected"}

func (o Orientation) String() string {
	if int(o) < 0 || int(o) >= len(orientationNames) {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// TitleName returns the Title Case rendering, e.g. "Right".
func (o Orientation) TitleName() string {
	return titleCaser.String(o.String())
}

// Opposite returns the orientation that handshakes with o: Right<->Left,
// Up<->Down. Undirected has no opposite and returns itself.
func (o Orientation) Opposite() Orientation {
	switch o {
	case Right:
		return Left
	case Left:
		return Right
	case Up:
		return Down
	case Down:
		return Up
	default:
		return Undirected
	}
}

// DisplayState is the three-valued insertion-mode tag shared by logic
// items, decorations, and wires.
type DisplayState int

const (
	Temporary DisplayState = iota
	Colliding
	Normal
)

var displayStateNames = [...]string{"temporary", "colliding", "normal"}

func (s DisplayState) String() string {
	if int(s) < 0 || int(s) >= len(displayStateNames) {
		return fmt.Sprintf("DisplayState(%d)", int(s))
	}
	return displayStateNames[s]
}

// PointType tags the role of a segment's endpoint.
type PointType int

const (
	NewUnknown PointType = iota
	Input
	Output
	Corner
	Cross
	Shadow
)

var pointTypeNames = [...]string{"new_unknown", "input", "output", "corner", "cross", "shadow"}

func (p PointType) String() string {
	if int(p) < 0 || int(p) >= len(pointTypeNames) {
		return fmt.Sprintf("PointType(%d)", int(p))
	}
	return pointTypeNames[p]
}

// IsConnection reports whether the point type is a logic-item
// handshake endpoint (input or output).
func (p PointType) IsConnection() bool {
	return p == Input || p == Output
}

// InsertionMode is the mode requested for an add/change-mode
// operation. It is a superset of DisplayState: InsertOrDiscard has no
// DisplayState equivalent, it is resolved by the facade into either
// Normal or Colliding.
type InsertionMode int

const (
	ModeTemporary InsertionMode = iota
	ModeColliding
	ModeInsertOrDiscard
)

// SelectionFunction is the set operation a visible-selection rectangle
// applies.
type SelectionFunction int

const (
	Add SelectionFunction = iota
	Subtract
)

func (f SelectionFunction) String() string {
	if f == Add {
		return "add"
	}
	return "subtract"
}
