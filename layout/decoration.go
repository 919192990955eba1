package layout

import "github.com/sarchlab/logiksim/vocab"

// Decoration is a purely visual element (e.g. a text label): it has
// geometry but participates in no connection or simulation semantics.
type Decoration struct {
	Position     vocab.Point
	Width        vocab.Grid
	Height       vocab.Grid
	DisplayState vocab.DisplayState
	Attributes   DecorationAttributes
}

// DecorationAttributes holds the text content and size set_attributes
// can update.
type DecorationAttributes struct {
	Content  string
	FontSize int
}

// Clone returns a deep copy suitable for embedding in a bus message.
func (d Decoration) Clone() Decoration {
	return d
}

// BoundingBox returns the decoration's footprint rectangle.
func (d Decoration) BoundingBox() vocab.Rect {
	w, h := d.Width, d.Height
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return vocab.NewRect(d.Position, d.Position.Add(w-1, h-1))
}
