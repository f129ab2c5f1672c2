// Package renderer implements the parallel render driver: bucket generation,
// the worker pool, the progressive display and screenshot output.
package renderer

import (
	"github.com/frayproject/fray/bitmap"
	"github.com/frayproject/fray/types"
)

// A rectangular image region [X0, X1) x [Y0, Y1).
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Create a rect from its corners.
func NewRect(x0, y0, x1, y1 int) Rect {
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Clip the rectangle against the image size.
func (r *Rect) Clip(maxX, maxY int) {
	if r.X1 > maxX {
		r.X1 = maxX
	}
	if r.Y1 > maxY {
		r.Y1 = maxY
	}
}

// Input sampled by the interactive loop each frame.
type InputState struct {
	Quit bool

	// camera fly
	Forward, Back    bool
	StrafeL, StrafeR bool
	MouseDX, MouseDY float64

	// request a screenshot of the current framebuffer
	Screenshot bool

	// trace a debugging ray through a clicked pixel
	DebugClick     bool
	DebugX, DebugY float64
}

// The Display interface is the surface the driver renders onto. All region
// operations return false when the user asked to quit, which makes workers
// unwind cooperatively.
type Display interface {
	// Set up a window (or whatever stands in for one).
	Init(frameWidth, frameHeight int, fullscreen bool) error

	// Show the whole framebuffer.
	Present(vfb *bitmap.Bitmap) bool

	// Show one region of the framebuffer.
	PresentRegion(r Rect, vfb *bitmap.Bitmap) bool

	// Fill a region with a flat color (used by the pre-pass).
	PaintRegion(r Rect, c types.Color) bool

	// Draw progress brackets around a region being worked on.
	MarkRegion(r Rect) bool

	// Drain pending window events.
	PollEvents() InputState

	// Block until the user closes the window.
	WaitForExit()

	// Update the window caption.
	SetCaption(caption string)

	// Tear the window down.
	Close()
}

// A display that renders nowhere: used for tests and headless runs.
type NullDisplay struct {
	// When set, region operations start returning false, like a user
	// quitting mid-render.
	CancelRequested bool

	PresentCalls int
	RegionCalls  int
	PaintCalls   int
	MarkCalls    int
}

func (d *NullDisplay) Init(frameWidth, frameHeight int, fullscreen bool) error {
	return nil
}

func (d *NullDisplay) Present(vfb *bitmap.Bitmap) bool {
	d.PresentCalls++
	return !d.CancelRequested
}

func (d *NullDisplay) PresentRegion(r Rect, vfb *bitmap.Bitmap) bool {
	d.RegionCalls++
	return !d.CancelRequested
}

func (d *NullDisplay) PaintRegion(r Rect, c types.Color) bool {
	d.PaintCalls++
	return !d.CancelRequested
}

func (d *NullDisplay) MarkRegion(r Rect) bool {
	d.MarkCalls++
	return !d.CancelRequested
}

func (d *NullDisplay) PollEvents() InputState {
	return InputState{Quit: d.CancelRequested}
}

func (d *NullDisplay) WaitForExit() {}

func (d *NullDisplay) SetCaption(caption string) {}

func (d *NullDisplay) Close() {}
