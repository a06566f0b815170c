// Package loadeq implements the adaptive load-equalizing scheduler of a
// distributed parallel-rendering framework.
//
// # Overview
//
// A LoadEqualizer is attached to one internal node of a compound
// configuration tree (the "governed compound"). Each frame it observes
// per-child rendering costs from the previous frame and repartitions the
// 2D screen region and/or the depth range between the governed compound's
// children so that every child finishes at approximately the same
// wall-clock time.
//
//	le := loadeq.New(loadeq.NewConfig(loadeq.WithMode(loadeq.Mode2D)))
//	defer le.Close()
//
//	// once per frame, before the governed compound renders:
//	le.FrameStart(governed, frameNumber)
//
//	// once per child channel, as its statistics for a past frame arrive:
//	le.NotifyLoadData(channel, frameNumber, statistics)
//
// # Scope
//
// loadeq consumes a read-only view of the compound tree (children,
// per-child usage weight, per-child channel identity and pixel viewport)
// and a mutator that assigns a fractional viewport and depth range to each
// leaf compound. It does not render, perform network I/O, persist state,
// load plugins, parse the compound tree's configuration, or transport
// rendering statistics — those are the surrounding framework's job.
//
// # Coordinate system
//
// Viewports and ranges are normalized to [0,1]. A Viewport's origin is the
// top-left of the destination surface; a Range is a 1D interval over the
// depth/database axis used for sort-last compositing.
package loadeq
