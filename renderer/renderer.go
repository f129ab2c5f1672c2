package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frayproject/fray/bitmap"
	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/log"
	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/scene"
	"github.com/frayproject/fray/tracer"
	"github.com/frayproject/fray/types"
)

// Side of a pre-pass tile in pixels.
const prepassSize = 16

// Fixed low-discrepancy in-pixel offsets used for plain antialiasing. With
// depth of field or GI enabled the offsets come from the RNG instead.
var aaOffsets = [5][2]float64{
	{0, 0},
	{0.6, 0},
	{0.3, 0.3},
	{0, 0.6},
	{0.6, 0.6},
}

// The bucket renderer: drives a pool of workers over the bucket list and a
// progressive display.
type Renderer struct {
	scene   *scene.Scene
	display Display
	options Options

	frameW, frameH int
	numThreads     int

	vfb  *bitmap.Bitmap
	pool *rnd.Pool

	// guards all display operations
	displayMu sync.Mutex

	// set when the display reports a quit request
	wantToQuit atomic.Bool

	stats  FrameStats
	logger log.Logger
}

// Create a renderer for a prepared scene. The display is initialized with
// the frame dimensions.
func New(sc *scene.Scene, display Display, options Options) (*Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}

	frameW := sc.Settings.FrameWidth
	frameH := sc.Settings.FrameHeight
	if options.FrameW > 0 {
		frameW = options.FrameW
	}
	if options.FrameH > 0 {
		frameH = options.FrameH
	}
	if frameW < 1 || frameH < 1 {
		return nil, ErrBadFrameSize
	}
	sc.Settings.FrameWidth = frameW
	sc.Settings.FrameHeight = frameH

	numThreads := options.NumThreads
	if numThreads == 0 {
		numThreads = sc.Settings.NumThreads
	}
	if numThreads == 0 {
		numThreads = runtime.NumCPU()
	}

	seed := options.Seed
	if seed == 0 {
		seed = 42
	}

	r := &Renderer{
		scene:      sc,
		display:    display,
		options:    options,
		frameW:     frameW,
		frameH:     frameH,
		numThreads: numThreads,
		vfb:        bitmap.New(frameW, frameH),
		pool:       rnd.NewPool(seed, numThreads),
		logger:     log.New("renderer"),
	}

	if err := display.Init(frameW, frameH, sc.Settings.Fullscreen); err != nil {
		return nil, err
	}
	return r, nil
}

// The rendered framebuffer.
func (r *Renderer) VFB() *bitmap.Bitmap {
	return r.vfb
}

// Statistics for the last rendered frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// Shut the display down.
func (r *Renderer) Close() {
	r.display.Close()
}

// Number of rays traced per pixel this frame.
func (r *Renderer) samplesPerPixel() int {
	samples := 1
	if r.scene.Settings.WantAA {
		samples = len(aaOffsets)
	}
	if r.scene.Camera.DOF && r.scene.Camera.NumDOFSamples > samples {
		samples = r.scene.Camera.NumDOFSamples
	}
	if r.scene.Settings.GI && r.scene.Settings.NumPaths > samples {
		samples = r.scene.Settings.NumPaths
	}
	return samples
}

// Trace the full color of one (fractional) pixel position: camera ray
// generation, stereo eye handling and saturation adjustment.
func (r *Renderer) raytraceSinglePixel(ctx *tracer.Context, x, y float64) types.Color {
	cam := r.scene.Camera
	getRay := func(x, y float64, which scene.WhichCamera) geom.Ray {
		if cam.DOF {
			return cam.GetDOFRay(x, y, which, ctx.Rand())
		}
		return cam.GetScreenRay(x, y, which)
	}

	if cam.StereoSeparation > 0 {
		leftRay := getRay(x, y, scene.CameraLeft)
		rightRay := getRay(x, y, scene.CameraRight)
		colorLeft := ctx.Trace(leftRay)
		colorRight := ctx.Trace(rightRay)
		if r.scene.Settings.Saturation != 1 {
			colorLeft = colorLeft.AdjustSaturation(r.scene.Settings.Saturation)
			colorRight = colorRight.AdjustSaturation(r.scene.Settings.Saturation)
		}
		return colorLeft.MulColor(cam.LeftMask).Add(colorRight.MulColor(cam.RightMask))
	}

	return ctx.Trace(getRay(x, y, scene.CameraCenter))
}

// Quick coarse pass: one ray per 16x16 tile, painted flat, so the user sees
// the scene layout within a fraction of a second.
func (r *Renderer) prepass(ctx *tracer.Context) bool {
	for y := 0; y < r.frameH; y += prepassSize {
		ey := min(r.frameH, y+prepassSize)
		cy := (y + ey) / 2
		for x := 0; x < r.frameW; x += prepassSize {
			ex := min(r.frameW, x+prepassSize)
			cx := (x + ex) / 2
			c := r.raytraceSinglePixel(ctx, float64(cx), float64(cy))
			if !r.display.PaintRegion(NewRect(x, y, ex, ey), c) {
				return false
			}
		}
	}
	return true
}

// Render one bucket into the framebuffer.
func (r *Renderer) renderBucket(ctx *tracer.Context, bucket Rect, samplesPerPixel int) {
	jittered := r.scene.Camera.DOF || r.scene.Settings.GI
	rand := ctx.Rand()

	for y := bucket.Y0; y < bucket.Y1; y++ {
		for x := bucket.X0; x < bucket.X1; x++ {
			avg := types.Color{}
			for i := 0; i < samplesPerPixel; i++ {
				var offsetX, offsetY float64
				if jittered {
					offsetX = float64(rand.RandFloat())
					offsetY = float64(rand.RandFloat())
				} else {
					offsetX = aaOffsets[i%len(aaOffsets)][0]
					offsetY = aaOffsets[i%len(aaOffsets)][1]
				}
				avg = avg.Add(r.raytraceSinglePixel(ctx, float64(x)+offsetX, float64(y)+offsetY))
			}
			r.vfb.SetPixel(x, y, avg.Scale(1/float32(samplesPerPixel)))
		}
	}
}

// Render one frame into the framebuffer using the worker pool. The bucket
// cursor is an atomic counter; the display is the only shared resource that
// needs a lock.
func (r *Renderer) renderFrame() error {
	r.scene.BeginFrame()

	interactive := r.scene.Settings.Interactive

	if r.scene.Settings.WantPrepass && !interactive {
		if !r.prepass(tracer.NewContext(r.scene, r.pool.Gen(0))) {
			r.wantToQuit.Store(true)
			return ErrInterrupted
		}
	}

	buckets := GetBucketsList(r.frameW, r.frameH)
	samplesPerPixel := r.samplesPerPixel()

	r.stats = FrameStats{
		Workers:         make([]WorkerStat, r.numThreads),
		Buckets:         len(buckets),
		SamplesPerPixel: samplesPerPixel,
	}

	start := time.Now()
	var cursor int64
	var wg sync.WaitGroup

	for workerIdx := 0; workerIdx < r.numThreads; workerIdx++ {
		wg.Add(1)
		go func(workerIdx int) {
			defer wg.Done()

			ctx := tracer.NewContext(r.scene, r.pool.Gen(workerIdx))
			stat := &r.stats.Workers[workerIdx]
			stat.Id = workerIdx
			workerStart := time.Now()
			defer func() { stat.RenderTime = time.Since(workerStart) }()

			for {
				bucketIdx := int(atomic.AddInt64(&cursor, 1)) - 1
				if bucketIdx >= len(buckets) {
					return
				}
				bucket := buckets[bucketIdx]

				if !interactive {
					r.displayMu.Lock()
					ok := r.display.MarkRegion(bucket)
					r.displayMu.Unlock()
					if !ok {
						r.wantToQuit.Store(true)
						return
					}
				}

				r.renderBucket(ctx, bucket, samplesPerPixel)
				stat.Buckets++

				if !interactive {
					r.displayMu.Lock()
					ok := r.display.PresentRegion(bucket, r.vfb)
					r.displayMu.Unlock()
					if !ok {
						r.wantToQuit.Store(true)
						return
					}
				}
			}
		}(workerIdx)
	}

	wg.Wait()
	r.stats.RenderTime = time.Since(start)

	if r.wantToQuit.Load() {
		return ErrInterrupted
	}
	return nil
}

// Render a single frame and leave it on the display.
func (r *Renderer) Render() error {
	r.display.SetCaption("fray: rendering...")
	err := r.renderFrame()
	if err != nil {
		return err
	}
	r.display.Present(r.vfb)
	r.display.SetCaption(fmt.Sprintf("fray: rendered in %.2fs", r.stats.RenderTime.Seconds()))
	r.logger.Noticef("frame rendered in %.2fs (%d buckets, %d samples/pixel)",
		r.stats.RenderTime.Seconds(), r.stats.Buckets, r.stats.SamplesPerPixel)
	return nil
}

// Camera fly speeds for the interactive loop.
const (
	movementPerSec   = 20.0
	mouseSensitivity = 0.1
)

// Run the interactive loop: render, present, apply camera movement, repeat
// until the user quits.
func (r *Renderer) RenderInteractive() error {
	cam := r.scene.Camera
	for {
		frameStart := time.Now()
		if err := r.renderFrame(); err != nil {
			return err
		}
		r.display.Present(r.vfb)
		timeDelta := time.Since(frameStart).Seconds()

		input := r.display.PollEvents()
		if input.Quit {
			return nil
		}
		if input.Screenshot {
			if path, err := r.SaveScreenshot(false); err == nil {
				r.logger.Noticef("screenshot saved to %s", path)
			}
		}
		if input.DebugClick {
			// trace a test ray through the clicked pixel with the debug flag
			ray := cam.GetScreenRay(input.DebugX, input.DebugY, scene.CameraCenter)
			ray.Flags |= geom.RFDebug
			ctx := tracer.NewContext(r.scene, r.pool.Gen(0))
			r.logger.Infof("debug ray through (%.0f, %.0f): %v", input.DebugX, input.DebugY, ctx.Trace(ray))
		}

		movement := movementPerSec * timeDelta
		if input.Forward {
			cam.Move(0, +movement)
		}
		if input.Back {
			cam.Move(0, -movement)
		}
		if input.StrafeL {
			cam.Move(-movement, 0)
		}
		if input.StrafeR {
			cam.Move(+movement, 0)
		}
		cam.Rotate(-mouseSensitivity*input.MouseDX, -mouseSensitivity*input.MouseDY)
	}
}

// Block until the user closes the window.
func (r *Renderer) WaitForExit() {
	if !r.wantToQuit.Load() {
		r.display.WaitForExit()
	}
}
