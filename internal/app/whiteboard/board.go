package whiteboard

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
)

// DisplayEntry is a board entry joined with its staff member.
type DisplayEntry struct {
	Provider  string
	Surgeon   string
	StaffID   string
	StaffName string
	StaffRole string
}

// Board maps room name to its display entry.
type Board map[string]DisplayEntry

// Rooms returns the board's room names in natural order ("Room 2" before "Room 10").
func (b Board) Rooms() []string {
	rooms := make([]string, 0, len(b))
	for room := range b {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return natural.Less(rooms[i], rooms[j]) })
	return rooms
}

// Row pairs a room with its entry for ordered rendering.
type Row struct {
	Room string
	DisplayEntry
}

// Rows returns the board as ordered rows.
func (b Board) Rows() []Row {
	rooms := b.Rooms()
	rows := make([]Row, 0, len(rooms))
	for _, room := range rooms {
		rows = append(rows, Row{Room: room, DisplayEntry: b[room]})
	}
	return rows
}

// UnknownStaffName is the display name used when a staff id does not resolve.
func UnknownStaffName(staffID string) string {
	return fmt.Sprintf("Unknown (staff_id: %s)", staffID)
}

// FallbackBoard is rendered, with a warning, when the board store is unreachable.
func FallbackBoard() Board {
	return Board{
		"Room 1": {Provider: "Dr. Smith", Surgeon: "Dr. Jones"},
		"Room 2": {Provider: "Dr. Lee", Surgeon: "Dr. Patel"},
	}
}
