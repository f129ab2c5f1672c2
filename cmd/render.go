package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/frayproject/fray/renderer"
	"github.com/frayproject/fray/scene"
)

// Scene rendered when no file argument is given.
const defaultScenePath = "data/forest.fray"

func sceneFileArg(ctx *cli.Context) string {
	if ctx.Args().Present() {
		return ctx.Args().First()
	}
	return defaultScenePath
}

func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	sceneFile := sceneFileArg(ctx)
	if _, err := os.Stat(sceneFile); err != nil {
		return nil, fmt.Errorf("usage: fray [scene.fray]: %s", err)
	}

	start := time.Now()
	sc, err := scene.Parse(sceneFile)
	if err != nil {
		return nil, err
	}
	logger.Infof("parsed %s in %d ms", sceneFile, time.Since(start).Nanoseconds()/1e6)

	start = time.Now()
	sc.BeginRender()
	logger.Infof("begin-render pass took %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

func rendererOptions(ctx *cli.Context) renderer.Options {
	return renderer.Options{
		FrameW:     ctx.Int("width"),
		FrameH:     ctx.Int("height"),
		NumThreads: ctx.Int("threads"),
		Seed:       uint32(ctx.Uint("seed")),
	}
}

func printFrameStats(stats renderer.FrameStats) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"worker", "buckets", "time"})
	for _, w := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", w.Id),
			fmt.Sprintf("%d", w.Buckets),
			w.RenderTime.Round(time.Millisecond).String(),
		})
	}
	table.SetFooter([]string{"total", fmt.Sprintf("%d", stats.Buckets), stats.RenderTime.Round(time.Millisecond).String()})
	table.Render()
}

// Render a single frame of a scene.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	var display renderer.Display
	if ctx.Bool("no-display") {
		display = &renderer.NullDisplay{}
	} else {
		display = renderer.NewGLDisplay()
	}

	r, err := renderer.New(sc, display, rendererOptions(ctx))
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Render(); err != nil {
		if err == renderer.ErrInterrupted {
			logger.Notice("render interrupted")
			return nil
		}
		return err
	}

	fmt.Printf("Render took %.2fs\n", r.Stats().RenderTime.Seconds())
	printFrameStats(r.Stats())

	if ctx.Bool("save") {
		path, err := r.SaveScreenshot(ctx.Bool("hdr"))
		if err != nil {
			return err
		}
		logger.Noticef("saved %s", path)
	}

	if !ctx.Bool("no-display") {
		r.WaitForExit()
	}
	return nil
}

// Render the scene in a camera-fly loop.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	sc.Settings.Interactive = true
	sc.Settings.WantPrepass = false

	r, err := renderer.New(sc, renderer.NewGLDisplay(), rendererOptions(ctx))
	if err != nil {
		return err
	}
	defer r.Close()

	return r.RenderInteractive()
}
