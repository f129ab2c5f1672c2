package scene

import "github.com/frayproject/fray/types"

// All global settings of the scene: frame size, antialiasing toggles,
// transport mode, thread count.
type GlobalSettings struct {
	FrameWidth  int
	FrameHeight int

	// Lighting
	AmbientLight types.Color

	// Transport
	WantAA        bool
	GI            bool
	NumPaths      int
	MaxTraceDepth int

	Saturation float32

	WantPrepass bool

	// 0 means autodetect
	NumThreads int

	Interactive bool
	Fullscreen  bool
}

// The defaults used for settings a scene file does not mention.
func DefaultSettings() GlobalSettings {
	return GlobalSettings{
		FrameWidth:    640,
		FrameHeight:   480,
		WantAA:        true,
		WantPrepass:   true,
		NumPaths:      40,
		MaxTraceDepth: 4,
		Saturation:    1,
	}
}
