package core

import (
	"sort"
	"sync"
)

// RoomInfo is a point-in-time view of one room.
type RoomInfo struct {
	ID      string
	Members int
}

// Directory maps room identifiers to their member sets.
// A room exists only while it has at least one member.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]*Room)}
}

// EnsureRoom returns the room for id, creating an empty one if absent.
// Callers must add a member before releasing control, otherwise the
// empty room is reclaimed by the next RemoveMember on it.
func (d *Directory) EnsureRoom(id string) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureLocked(id)
}

func (d *Directory) ensureLocked(id string) *Room {
	room, ok := d.rooms[id]
	if !ok {
		room = NewRoom(id)
		d.rooms[id] = room
	}
	return room
}

// AddMember inserts conn into room id, creating the room on first join.
// Returns false if conn was already a member.
func (d *Directory) AddMember(id string, conn ConnID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureLocked(id).AddMember(conn)
}

// RemoveMember removes conn from room id and deletes the room once empty.
// Unknown rooms and non-members are ignored.
func (d *Directory) RemoveMember(id string, conn ConnID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[id]
	if !ok {
		return false
	}
	removed := room.RemoveMember(conn)
	if room.Empty() {
		delete(d.rooms, id)
	}
	return removed
}

// MembersOf lists the members of room id in join order; nil for unknown rooms.
func (d *Directory) MembersOf(id string) []ConnID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[id]
	if !ok {
		return nil
	}
	return room.Members()
}

// Len returns the number of live rooms.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

// Snapshot returns every room with its member count, sorted by room id.
func (d *Directory) Snapshot() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]RoomInfo, 0, len(d.rooms))
	for id, room := range d.rooms {
		out = append(out, RoomInfo{ID: id, Members: room.Len()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
