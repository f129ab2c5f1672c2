package renderer

import (
	"fmt"
	"os"

	"github.com/frayproject/fray/bitmap"
)

// Find the first fray_NNNN.<ext> name not taken in the working directory.
func nextScreenshotName(ext string) (string, error) {
	for idx := 0; idx < 10000; idx++ {
		name := fmt.Sprintf("fray_%04d.%s", idx, ext)
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name, nil
		}
	}
	return "", fmt.Errorf("renderer: no free screenshot slot")
}

// Save the framebuffer as an auto-numbered screenshot. The LDR copy is
// always written; pass wantHDR to keep a full-range .hdr one next to it.
func (r *Renderer) SaveScreenshot(wantHDR bool) (string, error) {
	name, err := nextScreenshotName("bmp")
	if err != nil {
		return "", err
	}
	if err := bitmap.Save(name, r.vfb); err != nil {
		return "", err
	}
	if wantHDR {
		hdrName, err := nextScreenshotName("hdr")
		if err != nil {
			return name, err
		}
		if err := bitmap.Save(hdrName, r.vfb); err != nil {
			return name, err
		}
	}
	return name, nil
}
