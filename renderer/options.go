package renderer

type Options struct {
	// Override the scene's frame dims when non-zero.
	FrameW int
	FrameH int

	// Number of worker threads; 0 means the scene's numThreads setting, or
	// one per CPU when that is 0 as well.
	NumThreads int

	// Seed for the per-worker random generator pool.
	Seed uint32
}
