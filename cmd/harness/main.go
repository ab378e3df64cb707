package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "harness"
	app.Version = "0.1"
	app.Usage = "resolve browser drivers and probe pages with element queries"
	app.Flags = globalFlags()
	app.Commands = []*cli.Command{
		{
			Name:   "driver",
			Usage:  "download the driver matching the installed browser and print its path",
			Action: Driver,
		},
		{
			Name:   "find",
			Usage:  "open a page and wait for elements matching a locator",
			Action: Find,
			Flags:  FindFlags(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
