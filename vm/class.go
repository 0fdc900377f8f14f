package vm

import "sync"

// ClassID is an index into the VM's class arena.
type ClassID int32

// NoClass marks the absence of a base class (a hierarchy root).
const NoClass ClassID = -1

// Class represents a Rill class.
//
// Classes live in an arena (ClassTable) and refer to their single base
// class by arena index rather than by pointer, so the ownership story
// stays flat: the table owns every class for the lifetime of the VM.
//
// Handlers map selector symbol IDs to callables. Installing a handler
// for a selector that already has one replaces it, which preserves the
// observable rule that the most recently installed handler wins at that
// level. Handler lists are mutated only during setup and are read-only
// during steady-state dispatch.
type Class struct {
	ID       ClassID
	Name     string
	Base     ClassID // NoClass for hierarchy roots
	handlers map[uint32]Handler
}

// Install binds a handler to a selector on this class, replacing any
// earlier handler for the same selector.
func (c *Class) Install(selector uint32, h Handler) {
	c.handlers[selector] = h
}

// OwnHandler returns this class's own handler for selector, without
// consulting the base chain. Returns nil if none is installed.
func (c *Class) OwnHandler(selector uint32) Handler {
	return c.handlers[selector]
}

// Selectors returns the selector IDs this class itself handles.
func (c *Class) Selectors() []uint32 {
	sels := make([]uint32, 0, len(c.handlers))
	for sel := range c.handlers {
		sels = append(sels, sel)
	}
	return sels
}

// ---------------------------------------------------------------------------
// ClassTable: the class arena
// ---------------------------------------------------------------------------

// ClassTable owns all classes, indexed by ClassID. Names resolve through
// a side map for bootstrap and reflection.
type ClassTable struct {
	mu      sync.RWMutex
	classes []*Class
	byName  map[string]ClassID
}

// NewClassTable creates an empty class table.
func NewClassTable() *ClassTable {
	return &ClassTable{
		classes: make([]*Class, 0, 32),
		byName:  make(map[string]ClassID),
	}
}

// Define creates a class with the given name and base and adds it to the
// arena. Base may be NoClass for a root.
func (ct *ClassTable) Define(name string, base ClassID) *Class {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	c := &Class{
		ID:       ClassID(len(ct.classes)),
		Name:     name,
		Base:     base,
		handlers: make(map[uint32]Handler),
	}
	ct.classes = append(ct.classes, c)
	ct.byName[name] = c.ID
	return c
}

// Get returns the class at the given index, or nil if out of range.
func (ct *ClassTable) Get(id ClassID) *Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	if id < 0 || int(id) >= len(ct.classes) {
		return nil
	}
	return ct.classes[id]
}

// LookupName returns the class with the given name, or nil.
func (ct *ClassTable) LookupName(name string) *Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	if id, ok := ct.byName[name]; ok {
		return ct.classes[id]
	}
	return nil
}

// Len returns the number of classes in the arena.
func (ct *ClassTable) Len() int {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return len(ct.classes)
}

// Resolve finds the handler for (class, selector) by walking the base
// chain starting at start. The first class in the walk that defines the
// selector wins, so a derived class's handler always shadows a base
// class's handler for the same selector. Returns nil when no class in
// the chain handles the selector (message not understood).
func (ct *ClassTable) Resolve(start ClassID, selector uint32) Handler {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	for id := start; id != NoClass; {
		if int(id) >= len(ct.classes) {
			return nil
		}
		c := ct.classes[id]
		if h, ok := c.handlers[selector]; ok {
			return h
		}
		id = c.Base
	}
	return nil
}
