package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cosmic-development/cosmic/controller"
	"github.com/cosmic-development/cosmic/core"
	"github.com/cosmic-development/cosmic/templates"
)

var checkPages = func() []controller.Page {
	return controller.NewMainController(nil).Pages()
}

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Render every page offline and report template errors",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := loadConfig(c.String("config"))
		fsys, _ := core.OpenTemplates(config.TemplatesDir, templates.FS)
		engine := core.NewEngine(fsys)

		var failed bool
		for _, page := range checkPages() {
			var buf bytes.Buffer
			if err := engine.Render(context.Background(), &buf, page.Template, page.Context); err != nil {
				failed = true
				fmt.Printf("❌ %s → %v\n", page.Path, err)
				continue
			}
			fmt.Printf("✅ %s (%s)\n", page.Path, page.Template)
		}

		if failed {
			return cli.Exit("some templates failed to render", 1)
		}

		fmt.Println("✅ All templates validated successfully.")
		return nil
	},
}
