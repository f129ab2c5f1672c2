package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/frayproject/fray/bitmap"
	"github.com/frayproject/fray/types"
)

// Color of the in-progress bucket brackets.
var bracketColor = types.RGB(0.0, 0.0, 0.5)

// An OpenGL-backed display: the framebuffer is kept in a texture attached to
// an FBO and blitted into the window, progress brackets are drawn with
// immediate-mode lines on top.
type GLDisplay struct {
	window *glfw.Window

	frameW, frameH int

	texFbo    uint32
	fbTexture uint32

	// CPU-side staging copy of the window contents
	staging []uint8

	// input state accumulated by the glfw callbacks
	keysDown   map[glfw.Key]bool
	screenshot bool
	debugClick bool
	debugX     float64
	debugY     float64
	lastCursor [2]float64
	mouseDX    float64
	mouseDY    float64
	rotating   bool
}

// Create an uninitialized GL display.
func NewGLDisplay() *GLDisplay {
	return &GLDisplay{keysDown: make(map[glfw.Key]bool)}
}

func (d *GLDisplay) Init(frameWidth, frameHeight int, fullscreen bool) error {
	d.frameW = frameWidth
	d.frameH = frameHeight
	d.staging = make([]uint8, frameWidth*frameHeight*4)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("renderer: failed to initialize glfw: %s", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	var monitor *glfw.Monitor
	if fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	window, err := glfw.CreateWindow(frameWidth, frameHeight, "fray", monitor, nil)
	if err != nil {
		return fmt.Errorf("renderer: could not create opengl window: %s", err)
	}
	d.window = window
	d.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("renderer: could not init opengl: %s", err)
	}

	// Setup texture for image data
	gl.GenTextures(1, &d.fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(frameWidth), int32(frameHeight), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &d.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, d.fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Ortho projection for the progress brackets
	gl.Disable(gl.DEPTH_TEST)
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, float64(frameWidth), float64(frameHeight), 0, -1, 1)
	gl.Viewport(0, 0, int32(frameWidth), int32(frameHeight))
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()

	d.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	d.window.SetKeyCallback(d.onKeyEvent)
	d.window.SetMouseButtonCallback(d.onMouseEvent)
	d.window.SetCursorPosCallback(d.onCursorPosEvent)

	return nil
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

func (d *GLDisplay) stageRegion(r Rect, vfb *bitmap.Bitmap) {
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			px := vfb.GetPixel(x, y)
			off := (y*d.frameW + x) * 4
			d.staging[off+0] = clamp8(px[0])
			d.staging[off+1] = clamp8(px[1])
			d.staging[off+2] = clamp8(px[2])
			d.staging[off+3] = 255
		}
	}
}

func (d *GLDisplay) stageFlat(r Rect, c types.Color) {
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			off := (y*d.frameW + x) * 4
			d.staging[off+0] = clamp8(c[0])
			d.staging[off+1] = clamp8(c[1])
			d.staging[off+2] = clamp8(c[2])
			d.staging[off+3] = 255
		}
	}
}

// Upload the staging buffer and blit it into the window.
func (d *GLDisplay) blit() {
	gl.BindTexture(gl.TEXTURE_2D, d.fbTexture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(d.frameW), int32(d.frameH), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(d.staging))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.texFbo)
	gl.BlitFramebuffer(0, 0, int32(d.frameW), int32(d.frameH), 0, int32(d.frameH), int32(d.frameW), 0, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}

func (d *GLDisplay) alive() bool {
	return d.window != nil && !d.window.ShouldClose()
}

func (d *GLDisplay) Present(vfb *bitmap.Bitmap) bool {
	if !d.alive() {
		return false
	}
	d.stageRegion(NewRect(0, 0, d.frameW, d.frameH), vfb)
	d.blit()
	d.window.SwapBuffers()
	glfw.PollEvents()
	return d.alive()
}

func (d *GLDisplay) PresentRegion(r Rect, vfb *bitmap.Bitmap) bool {
	if !d.alive() {
		return false
	}
	d.stageRegion(r, vfb)
	d.blit()
	d.window.SwapBuffers()
	glfw.PollEvents()
	return d.alive()
}

func (d *GLDisplay) PaintRegion(r Rect, c types.Color) bool {
	if !d.alive() {
		return false
	}
	d.stageFlat(r, c)
	d.blit()
	d.window.SwapBuffers()
	glfw.PollEvents()
	return d.alive()
}

func (d *GLDisplay) MarkRegion(r Rect) bool {
	if !d.alive() {
		return false
	}
	d.blit()

	// bracket corners around the region being worked on
	gl.LineWidth(2.0)
	gl.Color3f(bracketColor[0], bracketColor[1], bracketColor[2])
	const arm = 6
	corners := [4][2]int32{
		{int32(r.X0), int32(r.Y0)},
		{int32(r.X1 - 1), int32(r.Y0)},
		{int32(r.X0), int32(r.Y1 - 1)},
		{int32(r.X1 - 1), int32(r.Y1 - 1)},
	}
	gl.Begin(gl.LINES)
	for i, corner := range corners {
		dx := int32(arm)
		if i%2 == 1 {
			dx = -arm
		}
		dy := int32(arm)
		if i >= 2 {
			dy = -arm
		}
		gl.Vertex2i(corner[0], corner[1])
		gl.Vertex2i(corner[0]+dx, corner[1])
		gl.Vertex2i(corner[0], corner[1])
		gl.Vertex2i(corner[0], corner[1]+dy)
	}
	gl.End()

	d.window.SwapBuffers()
	glfw.PollEvents()
	return d.alive()
}

func (d *GLDisplay) PollEvents() InputState {
	glfw.PollEvents()

	state := InputState{
		Quit:       !d.alive(),
		Forward:    d.keysDown[glfw.KeyUp] || d.keysDown[glfw.KeyW],
		Back:       d.keysDown[glfw.KeyDown] || d.keysDown[glfw.KeyS],
		StrafeL:    d.keysDown[glfw.KeyLeft] || d.keysDown[glfw.KeyA],
		StrafeR:    d.keysDown[glfw.KeyRight] || d.keysDown[glfw.KeyD],
		MouseDX:    d.mouseDX,
		MouseDY:    d.mouseDY,
		Screenshot: d.screenshot,
		DebugClick: d.debugClick,
		DebugX:     d.debugX,
		DebugY:     d.debugY,
	}
	d.mouseDX, d.mouseDY = 0, 0
	d.screenshot = false
	d.debugClick = false
	return state
}

func (d *GLDisplay) WaitForExit() {
	for d.alive() {
		glfw.WaitEvents()
	}
}

func (d *GLDisplay) SetCaption(caption string) {
	if d.window != nil {
		d.window.SetTitle(caption)
	}
}

func (d *GLDisplay) Close() {
	if d.window != nil {
		d.window.SetShouldClose(true)
		d.window.Destroy()
		d.window = nil
	}
	glfw.Terminate()
}

func (d *GLDisplay) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	switch action {
	case glfw.Press:
		d.keysDown[key] = true
	case glfw.Release:
		d.keysDown[key] = false
	default:
		return
	}

	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		d.window.SetShouldClose(true)
	case glfw.KeyF12:
		d.screenshot = true
	}
}

func (d *GLDisplay) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if action == glfw.Press && button == glfw.MouseButtonRight {
		// a right click asks for a debug trace through that pixel
		x, y := w.GetCursorPos()
		d.debugClick = true
		d.debugX, d.debugY = x, y
	}
	if button == glfw.MouseButtonLeft {
		d.rotating = action == glfw.Press
		if d.rotating {
			d.lastCursor[0], d.lastCursor[1] = w.GetCursorPos()
		}
	}
}

func (d *GLDisplay) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	if !d.rotating {
		return
	}
	d.mouseDX += xPos - d.lastCursor[0]
	d.mouseDY += yPos - d.lastCursor[1]
	d.lastCursor[0], d.lastCursor[1] = xPos, yPos
}
