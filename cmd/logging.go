package cmd

import (
	"github.com/frayproject/fray/log"
	"github.com/urfave/cli"
)

var logger = log.New("fray")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
