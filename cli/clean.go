package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/cosmic-development/cosmic/core"
)

// CleanCommand removes cached pages. With a route argument only that route's
// page and gzip sibling go; nested routes are kept.
var CleanCommand = &cli.Command{
	Name:      "clean",
	Usage:     "Remove cached pages from the output directory",
	ArgsUsage: "[route]",
	Flags:     []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := loadConfig(c.String("config"))

		info, err := os.Stat(config.OutputDir)
		switch {
		case os.IsNotExist(err):
			fmt.Println("🧼 Nothing to clean:", config.OutputDir)
			return nil
		case err != nil:
			return fmt.Errorf("failed to access path: %w", err)
		case !info.IsDir():
			return fmt.Errorf("not a directory: %s", config.OutputDir)
		}

		routes, err := core.CachedRoutes(config.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to list cached pages: %w", err)
		}

		if c.Args().Present() {
			key := core.RouteKey(c.Args().First())
			routes = slices.DeleteFunc(routes, func(r string) bool { return r != key })
			if len(routes) == 0 {
				fmt.Println("🧼 Nothing cached for", core.RoutePath(key))
				return nil
			}
		}

		for _, route := range routes {
			if err := core.RemoveCachedRoute(config, route); err != nil {
				return fmt.Errorf("failed to remove %s: %w", core.RoutePath(route), err)
			}
			fmt.Println("🧹 Removed", core.RoutePath(route))
		}

		fmt.Printf("✅ Removed %d cached page(s).\n", len(routes))
		return nil
	},
}
