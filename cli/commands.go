package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/cosmic-development/cosmic"
	"github.com/cosmic-development/cosmic/core"
)

var loadConfig = core.LoadConfig

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "path to the site configuration file",
	Value: core.DefaultConfigFile,
}

var portFlag = &cli.IntFlag{
	Name:  "port",
	Usage: "port to listen on (overrides the config file)",
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start Cosmic in dev mode (no caching, live reload)",
	Flags: []cli.Flag{configFlag, portFlag},
	Action: func(c *cli.Context) error {
		return cosmic.Start(cosmic.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		})
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start Cosmic in production mode (caching on by default)",
	Flags: []cli.Flag{configFlag, portFlag},
	Action: func(c *cli.Context) error {
		return cosmic.Start(cosmic.RuntimeConfig{
			Env:         "prod",
			EnableCache: true,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		})
	},
}
