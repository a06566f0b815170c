// Package sim provides an in-memory Compound/Channel implementation used
// by loadeq's tests and by cmd/loadeqviz to drive the equalizer without a
// real rendering framework attached.
package sim

import (
	"sync"

	"github.com/google/uuid"

	"github.com/PeterZhouSZ/Equalizer/internal/model"
)

// Channel is a synthetic rendering resource with a fixed pixel viewport.
// Its identity (for map-keying and listener registration) is its pointer
// identity, matching the "stable identity usable as a map key" contract
// of spec.md §3.
type Channel struct {
	id   uuid.UUID
	name string
	w, h int

	mu        sync.Mutex
	listeners []any
}

// NewChannel creates a named synthetic channel with the given pixel
// dimensions.
func NewChannel(name string, w, h int) *Channel {
	return &Channel{id: uuid.New(), name: name, w: w, h: h}
}

// ID returns the channel's stable identity.
func (c *Channel) ID() uuid.UUID { return c.id }

func (c *Channel) Name() string              { return c.name }
func (c *Channel) PixelViewport() (int, int) { return c.w, c.h }

func (c *Channel) AddListener(listener any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

func (c *Channel) RemoveListener(listener any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, l := range c.listeners {
		if l == listener {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount reports how many listeners are currently registered,
// used by tests to verify spec.md §8 property 8 (listener accounting).
func (c *Channel) ListenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

// Compound is a synthetic node of the compound configuration tree. A
// Compound with no Kids is a leaf and must have a Channel and a positive
// TaskID; an internal Compound has Kids and ignores Channel/TaskID.
type Compound struct {
	Kids      []*Compound
	Running   bool
	UsageVal  float64
	TaskIDVal uint32
	Chan      *Channel

	// VP and Rng capture the last values SetViewport/SetRange assigned,
	// for test assertions. PVPW/PVPH is only meaningful on the root.
	VP   model.Viewport
	Rng  model.Range
	PVPW int
	PVPH int
}

// NewLeaf creates a leaf compound bound to channel with the given task ID
// and usage, running by default.
func NewLeaf(channel *Channel, taskID uint32, usage float64) *Compound {
	return &Compound{Running: true, UsageVal: usage, TaskIDVal: taskID, Chan: channel}
}

// NewInternal creates an internal compound over the given children.
func NewInternal(children ...*Compound) *Compound {
	return &Compound{Kids: children, Running: true}
}

func (c *Compound) Children() []model.Compound {
	if c.Kids == nil {
		return nil
	}
	out := make([]model.Compound, len(c.Kids))
	for i, k := range c.Kids {
		out[i] = k
	}
	return out
}

func (c *Compound) IsRunning() bool { return c.Running }
func (c *Compound) Usage() float64  { return c.UsageVal }
func (c *Compound) TaskID() uint32  { return c.TaskIDVal }
func (c *Compound) Channel() model.Channel {
	if c.Chan == nil {
		return nil
	}
	return c.Chan
}
func (c *Compound) SetViewport(vp model.Viewport) { c.VP = vp }
func (c *Compound) SetRange(r model.Range)        { c.Rng = r }
func (c *Compound) InheritedPixelViewport() (int, int) { return c.PVPW, c.PVPH }
