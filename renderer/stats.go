package renderer

import "time"

// Per-worker render statistics.
type WorkerStat struct {
	// Worker index.
	Id int

	// Number of buckets this worker claimed.
	Buckets int

	// Time spent tracing.
	RenderTime time.Duration
}

// Statistics for one rendered frame.
type FrameStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Total buckets in the frame.
	Buckets int

	// Samples traced per pixel.
	SamplesPerPixel int

	// Total render time for the frame.
	RenderTime time.Duration
}
