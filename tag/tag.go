// Package tag implements the named workspace of spec §3: a frame tree
// plus a stack plus the floating flag and dirty-flags marker. Grounded
// on original_source/src/tag.h for the function surface (add/find/
// remove, rename, set-floating) and on cortile's per-location
// Workspace/Manager pairing in desktop/tracker.go for how a Go repo
// pairs a workspace's layout state with its own stack.
package tag

import (
	"github.com/sashwm/sash/frame"
	"github.com/sashwm/sash/stack"
)

// Flags aggregates per-tag state exposed to monitors/EWMH (spec §3
// "flags bitmask (urgency aggregate, occupancy)").
type Flags uint32

const (
	FlagUrgent Flags = 1 << iota
	FlagOccupied
)

// Tag is a named workspace. Root is the frame tree root; Stack is
// exclusively owned by the tag per spec §3's ownership rules.
type Tag struct {
	Name     string
	Root     *frame.Node
	Stack    *stack.Stack
	Floating bool
	Flags    Flags
	Dirty    bool
}

// New constructs an empty tag with one empty frame, ready to receive
// clients.
func New(name string) *Tag {
	return &Tag{
		Name:  name,
		Root:  frame.NewLeaf(),
		Stack: stack.New(),
	}
}

func (t *Tag) MarkDirty()  { t.Dirty = true }
func (t *Tag) ClearDirty() { t.Dirty = false }

func (t *Tag) SetOccupied(occupied bool) {
	if occupied {
		t.Flags |= FlagOccupied
	} else {
		t.Flags &^= FlagOccupied
	}
}

func (t *Tag) SetUrgentFlag(urgent bool) {
	if urgent {
		t.Flags |= FlagUrgent
	} else {
		t.Flags &^= FlagUrgent
	}
}

// List is the ordered, named collection of tags a World owns. Lookup by
// name is linear, which is fine at the scale (a handful of tags) every
// pack example and the original both operate at.
type List struct {
	tags []*Tag
}

func NewList() *List { return &List{} }

// Add creates and appends a tag, returning it. Duplicate names are
// rejected by the caller (wm.World), which is the only place that knows
// whether "unique" is violated across the whole world.
func (l *List) Add(name string) *Tag {
	t := New(name)
	l.tags = append(l.tags, t)
	return t
}

func (l *List) Find(name string) *Tag {
	for _, t := range l.tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Remove deletes the tag named name. Spec §3: "removal is forbidden
// when any client still references it (they are migrated first by the
// caller)" — inUse reports whether any client still names this tag;
// the caller computes that by scanning its client table and refuses if
// inUse returns true.
func (l *List) Remove(name string, inUse func(*Tag) bool) bool {
	for i, t := range l.tags {
		if t.Name != name {
			continue
		}
		if inUse != nil && inUse(t) {
			return false
		}
		l.tags = append(l.tags[:i], l.tags[i+1:]...)
		return true
	}
	return false
}

func (l *List) Rename(oldName, newName string) bool {
	if l.Find(newName) != nil {
		return false
	}
	t := l.Find(oldName)
	if t == nil {
		return false
	}
	t.Name = newName
	return true
}

func (l *List) All() []*Tag {
	out := make([]*Tag, len(l.tags))
	copy(out, l.tags)
	return out
}
