// Package bus implements the editable circuit's message bus: a closed
// set of tagged events delivered synchronously, in
// emission order, to every registered listener. The bus itself is
// deliberately small and dependency-free — it is the one piece of the
// core that must never call back into a mutator, so it is kept
// auditable.
package bus

import (
	"fmt"

	"github.com/sarchlab/logiksim/vocab"
)

// LayoutData carries the geometric/electrical facts about a logic
// item needed by indices and the schematic generator once it is
// inserted. It is copied into messages rather than referenced so that
// a listener never has to worry about the layout mutating underneath
// it mid-delivery.
type LayoutData struct {
	Type         vocab.LogicItemType
	Position     vocab.Point
	Orientation  vocab.Orientation
	InputCount   int
	OutputCount  int
	InputOffset  []vocab.Point // absolute position of each input pin
	OutputOffset []vocab.Point // absolute position of each output pin
}

// DecorationData carries the geometric facts about a decoration.
type DecorationData struct {
	Position vocab.Point
	Width    vocab.Grid
	Height   vocab.Grid
}

// SegmentInfo carries a segment's current geometry and endpoint types.
type SegmentInfo struct {
	Line   vocab.OrderedLine
	P0Type vocab.PointType
	P1Type vocab.PointType
}

// Kind identifies the concrete type of a Message without a type
// switch, useful for listener dispatch tables and logging.
type Kind int

const (
	KindLogicItemCreated Kind = iota
	KindLogicItemIDUpdated
	KindLogicItemDeleted
	KindLogicItemInserted
	KindInsertedLogicItemIDUpdated
	KindLogicItemUninserted

	KindDecorationCreated
	KindDecorationIDUpdated
	KindDecorationDeleted
	KindDecorationInserted
	KindInsertedDecorationIDUpdated
	KindDecorationUninserted

	KindSegmentCreated
	KindSegmentIDUpdated
	KindSegmentPartMoved
	KindSegmentPartDeleted
	KindSegmentInserted
	KindInsertedSegmentIDUpdated
	KindInsertedEndPointsUpdated
	KindSegmentUninserted
)

// Message is the closed tagged-union of every event the core emits.
// Exactly one of the embedded payload types is meaningful; Kind
// selects which, avoiding interface-based dynamic dispatch for the
// common case of "what kind of message is this".
type Message struct {
	Kind Kind

	LogicItemCreated           LogicItemCreated
	LogicItemIDUpdated         LogicItemIDUpdated
	LogicItemDeleted           LogicItemDeleted
	LogicItemInserted          LogicItemInserted
	InsertedLogicItemIDUpdated InsertedLogicItemIDUpdated
	LogicItemUninserted        LogicItemUninserted

	DecorationCreated           DecorationCreated
	DecorationIDUpdated         DecorationIDUpdated
	DecorationDeleted           DecorationDeleted
	DecorationInserted          DecorationInserted
	InsertedDecorationIDUpdated InsertedDecorationIDUpdated
	DecorationUninserted        DecorationUninserted

	SegmentCreated           SegmentCreated
	SegmentIDUpdated         SegmentIDUpdated
	SegmentPartMoved         SegmentPartMoved
	SegmentPartDeleted       SegmentPartDeleted
	SegmentInserted          SegmentInserted
	InsertedSegmentIDUpdated InsertedSegmentIDUpdated
	InsertedEndPointsUpdated InsertedEndPointsUpdated
	SegmentUninserted        SegmentUninserted
}

// Payload types, one per event kind.

type LogicItemCreated struct{ ID vocab.LogicItemID }
type LogicItemIDUpdated struct{ Old, New vocab.LogicItemID }
type LogicItemDeleted struct{ ID vocab.LogicItemID }
type LogicItemInserted struct {
	ID   vocab.LogicItemID
	Data LayoutData
}
type InsertedLogicItemIDUpdated struct {
	Old, New vocab.LogicItemID
	Data     LayoutData
}
type LogicItemUninserted struct {
	ID   vocab.LogicItemID
	Data LayoutData
}

type DecorationCreated struct{ ID vocab.DecorationID }
type DecorationIDUpdated struct{ Old, New vocab.DecorationID }
type DecorationDeleted struct{ ID vocab.DecorationID }
type DecorationInserted struct {
	ID   vocab.DecorationID
	Data DecorationData
}
type InsertedDecorationIDUpdated struct {
	Old, New vocab.DecorationID
	Data     DecorationData
}
type DecorationUninserted struct {
	ID   vocab.DecorationID
	Data DecorationData
}

type SegmentCreated struct {
	Segment vocab.Segment
	Size    vocab.Offset
}
type SegmentIDUpdated struct{ Old, New vocab.Segment }
type SegmentPartMoved struct {
	Destination       vocab.SegmentPart
	Source            vocab.SegmentPart
	CreateDestination bool
	DeleteSource      bool
}
type SegmentPartDeleted struct {
	Part          vocab.SegmentPart
	DeleteSegment bool
}
type SegmentInserted struct {
	Segment vocab.Segment
	Info    SegmentInfo
}
type InsertedSegmentIDUpdated struct {
	Old, New vocab.Segment
	Info     SegmentInfo
}
type InsertedEndPointsUpdated struct {
	Segment          vocab.Segment
	NewInfo, OldInfo SegmentInfo
}
type SegmentUninserted struct {
	Segment vocab.Segment
	Info    SegmentInfo
}

// Constructors build a Message with the right Kind set, so callers
// cannot forget to keep the two in sync.

func NewLogicItemCreated(id vocab.LogicItemID) Message {
	return Message{Kind: KindLogicItemCreated, LogicItemCreated: LogicItemCreated{ID: id}}
}
func NewLogicItemIDUpdated(old, new vocab.LogicItemID) Message {
	return Message{Kind: KindLogicItemIDUpdated, LogicItemIDUpdated: LogicItemIDUpdated{Old: old, New: new}}
}
func NewLogicItemDeleted(id vocab.LogicItemID) Message {
	return Message{Kind: KindLogicItemDeleted, LogicItemDeleted: LogicItemDeleted{ID: id}}
}
func NewLogicItemInserted(id vocab.LogicItemID, data LayoutData) Message {
	return Message{Kind: KindLogicItemInserted, LogicItemInserted: LogicItemInserted{ID: id, Data: data}}
}
func NewInsertedLogicItemIDUpdated(old, new vocab.LogicItemID, data LayoutData) Message {
	return Message{Kind: KindInsertedLogicItemIDUpdated, InsertedLogicItemIDUpdated: InsertedLogicItemIDUpdated{Old: old, New: new, Data: data}}
}
func NewLogicItemUninserted(id vocab.LogicItemID, data LayoutData) Message {
	return Message{Kind: KindLogicItemUninserted, LogicItemUninserted: LogicItemUninserted{ID: id, Data: data}}
}

func NewDecorationCreated(id vocab.DecorationID) Message {
	return Message{Kind: KindDecorationCreated, DecorationCreated: DecorationCreated{ID: id}}
}
func NewDecorationIDUpdated(old, new vocab.DecorationID) Message {
	return Message{Kind: KindDecorationIDUpdated, DecorationIDUpdated: DecorationIDUpdated{Old: old, New: new}}
}
func NewDecorationDeleted(id vocab.DecorationID) Message {
	return Message{Kind: KindDecorationDeleted, DecorationDeleted: DecorationDeleted{ID: id}}
}
func NewDecorationInserted(id vocab.DecorationID, data DecorationData) Message {
	return Message{Kind: KindDecorationInserted, DecorationInserted: DecorationInserted{ID: id, Data: data}}
}
func NewInsertedDecorationIDUpdated(old, new vocab.DecorationID, data DecorationData) Message {
	return Message{Kind: KindInsertedDecorationIDUpdated, InsertedDecorationIDUpdated: InsertedDecorationIDUpdated{Old: old, New: new, Data: data}}
}
func NewDecorationUninserted(id vocab.DecorationID, data DecorationData) Message {
	return Message{Kind: KindDecorationUninserted, DecorationUninserted: DecorationUninserted{ID: id, Data: data}}
}

func NewSegmentCreated(seg vocab.Segment, size vocab.Offset) Message {
	return Message{Kind: KindSegmentCreated, SegmentCreated: SegmentCreated{Segment: seg, Size: size}}
}
func NewSegmentIDUpdated(old, new vocab.Segment) Message {
	return Message{Kind: KindSegmentIDUpdated, SegmentIDUpdated: SegmentIDUpdated{Old: old, New: new}}
}
func NewSegmentPartMoved(dst, src vocab.SegmentPart, createDst, deleteSrc bool) Message {
	return Message{Kind: KindSegmentPartMoved, SegmentPartMoved: SegmentPartMoved{
		Destination: dst, Source: src, CreateDestination: createDst, DeleteSource: deleteSrc,
	}}
}
func NewSegmentPartDeleted(part vocab.SegmentPart, deleteSegment bool) Message {
	return Message{Kind: KindSegmentPartDeleted, SegmentPartDeleted: SegmentPartDeleted{Part: part, DeleteSegment: deleteSegment}}
}
func NewSegmentInserted(seg vocab.Segment, info SegmentInfo) Message {
	return Message{Kind: KindSegmentInserted, SegmentInserted: SegmentInserted{Segment: seg, Info: info}}
}
func NewInsertedSegmentIDUpdated(old, new vocab.Segment, info SegmentInfo) Message {
	return Message{Kind: KindInsertedSegmentIDUpdated, InsertedSegmentIDUpdated: InsertedSegmentIDUpdated{Old: old, New: new, Info: info}}
}
func NewInsertedEndPointsUpdated(seg vocab.Segment, newInfo, oldInfo SegmentInfo) Message {
	return Message{Kind: KindInsertedEndPointsUpdated, InsertedEndPointsUpdated: InsertedEndPointsUpdated{Segment: seg, NewInfo: newInfo, OldInfo: oldInfo}}
}
func NewSegmentUninserted(seg vocab.Segment, info SegmentInfo) Message {
	return Message{Kind: KindSegmentUninserted, SegmentUninserted: SegmentUninserted{Segment: seg, Info: info}}
}

// String renders a short human-readable form of the message, used by
// Trace-level logging and the Validator's panic messages.
func (m Message) String() string {
	switch m.Kind {
	case KindLogicItemCreated:
		return fmt.Sprintf("LogicItemCreated{%s}", m.LogicItemCreated.ID)
	case KindLogicItemIDUpdated:
		return fmt.Sprintf("LogicItemIdUpdated{%s -> %s}", m.LogicItemIDUpdated.Old, m.LogicItemIDUpdated.New)
	case KindLogicItemDeleted:
		return fmt.Sprintf("LogicItemDeleted{%s}", m.LogicItemDeleted.ID)
	case KindLogicItemInserted:
		return fmt.Sprintf("LogicItemInserted{%s}", m.LogicItemInserted.ID)
	case KindInsertedLogicItemIDUpdated:
		return fmt.Sprintf("InsertedLogicItemIdUpdated{%s -> %s}", m.InsertedLogicItemIDUpdated.Old, m.InsertedLogicItemIDUpdated.New)
	case KindLogicItemUninserted:
		return fmt.Sprintf("LogicItemUninserted{%s}", m.LogicItemUninserted.ID)
	case KindDecorationCreated:
		return fmt.Sprintf("DecorationCreated{%s}", m.DecorationCreated.ID)
	case KindDecorationIDUpdated:
		return fmt.Sprintf("DecorationIdUpdated{%s -> %s}", m.DecorationIDUpdated.Old, m.DecorationIDUpdated.New)
	case KindDecorationDeleted:
		return fmt.Sprintf("DecorationDeleted{%s}", m.DecorationDeleted.ID)
	case KindDecorationInserted:
		return fmt.Sprintf("DecorationInserted{%s}", m.DecorationInserted.ID)
	case KindInsertedDecorationIDUpdated:
		return fmt.Sprintf("InsertedDecorationIdUpdated{%s -> %s}", m.InsertedDecorationIDUpdated.Old, m.InsertedDecorationIDUpdated.New)
	case KindDecorationUninserted:
		return fmt.Sprintf("DecorationUninserted{%s}", m.DecorationUninserted.ID)
	case KindSegmentCreated:
		return fmt.Sprintf("SegmentCreated{%s, size=%d}", m.SegmentCreated.Segment, m.SegmentCreated.Size)
	case KindSegmentIDUpdated:
		return fmt.Sprintf("SegmentIdUpdated{%s -> %s}", m.SegmentIDUpdated.Old, m.SegmentIDUpdated.New)
	case KindSegmentPartMoved:
		return fmt.Sprintf("SegmentPartMoved{%s -> %s}", m.SegmentPartMoved.Source, m.SegmentPartMoved.Destination)
	case KindSegmentPartDeleted:
		return fmt.Sprintf("SegmentPartDeleted{%s}", m.SegmentPartDeleted.Part)
	case KindSegmentInserted:
		return fmt.Sprintf("SegmentInserted{%s}", m.SegmentInserted.Segment)
	case KindInsertedSegmentIDUpdated:
		return fmt.Sprintf("InsertedSegmentIdUpdated{%s -> %s}", m.InsertedSegmentIDUpdated.Old, m.InsertedSegmentIDUpdated.New)
	case KindInsertedEndPointsUpdated:
		return fmt.Sprintf("InsertedEndPointsUpdated{%s}", m.InsertedEndPointsUpdated.Segment)
	case KindSegmentUninserted:
		return fmt.Sprintf("SegmentUninserted{%s}", m.SegmentUninserted.Segment)
	default:
		return "Message(unknown)"
	}
}
