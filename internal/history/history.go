// Package history implements the Frame History: a bounded FIFO of
// per-frame leaf-assignment records, keyed by frame number, with
// eviction and statistic-reduction rules (spec.md §4.3, §4.6).
package history

import (
	"log/slog"

	"github.com/PeterZhouSZ/Equalizer/internal/model"
)

// Data is one Leaf Assignment record: the viewport/range a leaf was
// given for some frame, and its measured cost once known (spec.md §3).
type Data struct {
	TaskID  uint32
	Channel model.Channel
	VP      model.Viewport
	Range   model.Range
	// Time is -1 until the leaf's measured cost arrives via Ingest.
	Time float64
	// Load is Time/VP.Area(), valid only once Time >= 0.
	Load float64

	// consumed tracks whether an earlier Ingest call already set Time for
	// this item (spec.md §4.6 step 2); once true, later calls are no-ops.
	consumed bool
}

// HasTime reports whether this item's measured cost has arrived.
func (d *Data) HasTime() bool { return d.Time >= 0 }

// Record is one frame's full set of leaf assignments, in left-to-right
// tree order.
type Record struct {
	FrameNumber uint32
	Items       []Data
}

// allMeasured reports whether every item in the record has a measured
// time, per spec.md §4.3.
func (r *Record) allMeasured() bool {
	for i := range r.Items {
		if !r.Items[i].HasTime() {
			return false
		}
	}
	return true
}

// History is the Frame History: records ordered by ascending
// FrameNumber, newest at the back. It is never empty after New or after
// Maintain runs (spec.md §3, §4.3).
type History struct {
	records []Record
	logger  *slog.Logger
}

// New creates an empty History seeded with the synthetic record spec.md
// §3 describes: frameNumber=0, one item with time=1, load=1, taskID=0,
// channel=nil.
func New(logger *slog.Logger) *History {
	h := &History{logger: logger}
	h.seedSynthetic()
	return h
}

func (h *History) seedSynthetic() {
	h.records = []Record{{
		FrameNumber: 0,
		Items: []Data{{
			TaskID:  0,
			Channel: nil,
			VP:      model.FullViewport,
			Range:   model.FullRange,
			Time:    1,
			Load:    1,
		}},
	}}
}

// Empty reports whether the history holds no records.
func (h *History) Empty() bool { return len(h.records) == 0 }

// Len returns the number of retained records.
func (h *History) Len() int { return len(h.records) }

// Front returns the oldest retained record — the reference
// implementation's `_history.front()`. After Maintain runs this is the
// youngest fully-measured record (spec.md §4.3's U), which is what
// spec.md §4.4/§4.5 mean by "the most recent (front) history record":
// everything newer is either this same record or the not-yet-measured
// record Push just appended for the current frame. Callers read it for
// damping targets and split-position source data; they never write into
// it — new assignments go into the record returned by Push.
func (h *History) Front() *Record {
	if len(h.records) == 0 {
		return nil
	}
	return &h.records[0]
}

// FilterNonEmpty returns the subset of items with a non-empty viewport
// and a non-empty range, per spec.md §4.4's "filtered to drop items with
// empty viewport or empty range" and §7's "item with zero area or empty
// range (silently filtered)". The reference implementation's
// _removeEmpty.
func FilterNonEmpty(items []Data) []Data {
	out := make([]Data, 0, len(items))
	for _, d := range items {
		if d.VP.HasArea() && d.Range.HasData() {
			out = append(out, d)
		}
	}
	return out
}

// RecordAt returns the record with the given frame number, or nil if
// none is present — used by Ingest (spec.md §4.6 step 1).
func (h *History) RecordAt(frameNumber uint32) *Record {
	for i := range h.records {
		if h.records[i].FrameNumber == frameNumber {
			return &h.records[i]
		}
	}
	return nil
}

// Push appends a new, empty record for frameNumber at the back, as the
// newest record (spec.md §4.2 step 4); Front still returns the oldest.
func (h *History) Push(frameNumber uint32, itemCount int) *Record {
	h.records = append(h.records, Record{
		FrameNumber: frameNumber,
		Items:       make([]Data, 0, itemCount),
	})
	return &h.records[len(h.records)-1]
}

// Maintain runs history eviction (spec.md §4.3): find the youngest
// record every one of whose items has a measured time, evict everything
// older, and reseed with the synthetic record if that empties the
// history entirely.
func (h *History) Maintain() {
	youngest := -1
	for i := len(h.records) - 1; i >= 0; i-- {
		if h.records[i].allMeasured() {
			youngest = i
			break
		}
	}
	if youngest > 0 {
		evicted := h.records[:youngest]
		h.records = h.records[youngest:]
		if h.logger != nil {
			h.logger.Debug("history evicted", "count", len(evicted), "retainedFrame", h.records[0].FrameNumber)
		}
	}
	if len(h.records) == 0 {
		if h.logger != nil {
			h.logger.Warn("history empty after maintenance, reseeding synthetic record")
		}
		h.seedSynthetic()
	}
}

// Ingest reduces a batch of statistics for one channel's item within
// frameNumber's record, per spec.md §4.6. It returns the item's measured
// time and true if this call set it; false (with time 0) if nothing
// changed — no matching item, an empty item, no start time observed, or
// the item was already consumed by an earlier Ingest call.
func Ingest(rec *Record, channel model.Channel, statistics []model.Statistic) (float64, bool) {
	var item *Data
	for i := range rec.Items {
		if rec.Items[i].Channel == channel {
			item = &rec.Items[i]
			break
		}
	}
	if item == nil || !item.VP.HasArea() || !item.Range.HasData() {
		return 0, false
	}
	if item.consumed {
		// Idempotent: the reference reducer updates an item once and
		// returns on subsequent notifications for the same frame.
		return 0, false
	}

	// seenStart/startTime/endTime/timeTransmit are local to this call's
	// batch, not carried across Ingest calls: the reference reducer
	// recomputes an item's time from one complete statistics batch, so a
	// FRAME_TRANSMIT-only batch followed by a later CLEAR/DRAW batch for
	// the same item must not have their transmit times combined.
	var seenStart bool
	var startTime, endTime, timeTransmit int64

reduce:
	for _, stat := range statistics {
		if stat.TaskID != item.TaskID {
			continue
		}
		switch stat.Kind {
		case model.StatClear, model.StatDraw, model.StatReadback:
			if !seenStart {
				startTime, endTime = stat.StartTime, stat.EndTime
				seenStart = true
			} else {
				startTime = min(startTime, stat.StartTime)
				endTime = max(endTime, stat.EndTime)
			}
		case model.StatFrameTransmit:
			timeTransmit += stat.EndTime - stat.StartTime
		case model.StatAssemble:
			break reduce
		}
	}

	if !seenStart {
		return 0, false
	}
	t := max(1, float64(endTime-startTime), float64(timeTransmit))
	item.Time = t
	item.Load = item.Time / item.VP.Area()
	item.consumed = true
	return t, true
}
