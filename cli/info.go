package cli

import (
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v2"

	"github.com/cosmic-development/cosmic/core"
	"github.com/cosmic-development/cosmic/templates"
)

type siteInfo struct {
	Config         core.Config `json:"config"`
	TemplateSource string      `json:"templateSource"`
	Templates      []string    `json:"templates"`
	CachedPages    int         `json:"cachedPages"`
}

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print site configuration, templates and cache summary",
	Flags: []cli.Flag{
		configFlag,
		&cli.BoolFlag{Name: "json", Usage: "print the summary as JSON"},
	},
	Action: func(c *cli.Context) error {
		config := loadConfig(c.String("config"))

		fsys, onDisk := core.OpenTemplates(config.TemplatesDir, templates.FS)
		names, err := core.NewEngine(fsys).Templates()
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		info := siteInfo{
			Config:         config,
			TemplateSource: "embedded",
			Templates:      names,
			CachedPages:    core.CountCachedPages(config.OutputDir),
		}
		if onDisk {
			info.TemplateSource = config.TemplatesDir
		}

		if c.Bool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		fmt.Println("📁 Templates:", info.TemplateSource)
		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔁 Cache Enabled:", config.CacheEnabled)
		fmt.Println("🔁 Minify Enabled:", config.Minify)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", config.DebugLogs)
		fmt.Println("🔌 Port:", config.Port)
		fmt.Println()
		fmt.Println("🗂️  Templates Found:", len(info.Templates))
		fmt.Println("💾 Cached Pages:", info.CachedPages)

		return nil
	},
}
