package main

import (
	"log"
	"os"

	clilib "github.com/urfave/cli/v2"

	cosmiccli "github.com/cosmic-development/cosmic/cli"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "cosmic",
		Usage: "Serve the Cosmic Development site",
		Commands: []*clilib.Command{
			cosmiccli.InitCommand,
			cosmiccli.DevCommand,
			cosmiccli.ProdCommand,
			cosmiccli.CleanCommand,
			cosmiccli.CheckCommand,
			cosmiccli.InfoCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
