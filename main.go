package main

import (
	"fmt"
	"os"

	"github.com/frayproject/fray/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	renderFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Usage: "override the frame width from the scene file",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "override the frame height from the scene file",
		},
		cli.IntFlag{
			Name:  "threads",
			Usage: "number of render threads; 0 = the scene's numThreads, or one per cpu",
		},
		cli.UintFlag{
			Name:  "seed",
			Value: 42,
			Usage: "seed for the random generator pool",
		},
	}

	app := cli.NewApp()
	app.Name = "fray"
	app.Usage = "render scenes with whitted raytracing or path tracing"
	app.Version = "0.9.0"
	app.ArgsUsage = "[scene.fray]"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "render",
			Usage:     "render a single frame",
			ArgsUsage: "[scene.fray]",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "no-display",
					Usage: "render headless, without opening a window",
				},
				cli.BoolFlag{
					Name:  "save",
					Usage: "save an auto-numbered fray_NNNN.bmp screenshot",
				},
				cli.BoolFlag{
					Name:  "hdr",
					Usage: "also save a full-range .hdr screenshot",
				},
			}, renderFlags...),
			Action: cmd.RenderScene,
		},
		{
			Name:      "interactive",
			Usage:     "render interactively with a fly camera",
			ArgsUsage: "[scene.fray]",
			Flags:     renderFlags,
			Action:    cmd.RenderInteractive,
		},
		{
			Name:      "info",
			Usage:     "print an inventory of a scene file",
			ArgsUsage: "[scene.fray]",
			Action:    cmd.SceneInfo,
		},
	}
	// a bare `fray scene.fray` renders the scene
	app.Action = cmd.RenderScene

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(-1)
	}
}
