package core

import "sort"

// ConnID is the transport-assigned identifier of a live connection.
type ConnID string

// Room groups connections that joined under the same room identifier.
type Room struct {
	ID      string
	members map[ConnID]uint64
	seq     uint64
}

// NewRoom constructs a room with no members.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		members: make(map[ConnID]uint64),
	}
}

// AddMember inserts a connection into the room. Returns true if newly added.
func (r *Room) AddMember(id ConnID) bool {
	if _, exists := r.members[id]; exists {
		return false
	}
	r.seq++
	r.members[id] = r.seq
	return true
}

// RemoveMember deletes a connection from the room. Returns true if removed.
func (r *Room) RemoveMember(id ConnID) bool {
	if _, exists := r.members[id]; !exists {
		return false
	}
	delete(r.members, id)
	return true
}

// Has reports whether the connection is a member.
func (r *Room) Has(id ConnID) bool {
	_, ok := r.members[id]
	return ok
}

// Members returns member identifiers in join order.
func (r *Room) Members() []ConnID {
	out := make([]ConnID, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return r.members[out[i]] < r.members[out[j]]
	})
	return out
}

// Len returns the number of members.
func (r *Room) Len() int {
	return len(r.members)
}

// Empty returns true if no connections are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}
