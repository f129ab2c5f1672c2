package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Print an inventory of the elements in a scene file.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	hasEnv := "no"
	if sc.Environment != nil {
		hasEnv = "yes"
	}
	transport := "raytracer"
	if sc.Settings.GI {
		transport = fmt.Sprintf("pathtracer (%d paths)", sc.Settings.NumPaths)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"element", "count / value"})
	table.Append([]string{"frame", fmt.Sprintf("%dx%d", sc.Settings.FrameWidth, sc.Settings.FrameHeight)})
	table.Append([]string{"transport", transport})
	table.Append([]string{"max trace depth", fmt.Sprintf("%d", sc.Settings.MaxTraceDepth)})
	table.Append([]string{"geometries", fmt.Sprintf("%d", len(sc.Geometries))})
	table.Append([]string{"shaders", fmt.Sprintf("%d", len(sc.Shaders))})
	table.Append([]string{"textures", fmt.Sprintf("%d", len(sc.Textures))})
	table.Append([]string{"nodes", fmt.Sprintf("%d", len(sc.Nodes))})
	table.Append([]string{"super nodes", fmt.Sprintf("%d", len(sc.SuperNodes))})
	table.Append([]string{"lights", fmt.Sprintf("%d", len(sc.Lights))})
	table.Append([]string{"environment", hasEnv})
	table.Render()
	return nil
}
