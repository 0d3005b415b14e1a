package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/cosmic-development/cosmic/templates"
)

var starterFS fs.FS = templates.FS

var InitCommand = &cli.Command{
	Name:  "init",
	Usage: "Copy the built-in templates into the templates directory for editing",
	Flags: []cli.Flag{
		configFlag,
		&cli.BoolFlag{Name: "force", Usage: "overwrite templates that already exist"},
	},
	Action: func(c *cli.Context) error {
		config := loadConfig(c.String("config"))
		targetDir := config.TemplatesDir
		fmt.Println("🚀 Writing templates to:", targetDir)

		written, err := copyEmbeddedDir(starterFS, ".", targetDir, c.Bool("force"))
		if err != nil {
			return fmt.Errorf("failed to write templates: %w", err)
		}

		for _, path := range written {
			fmt.Println("📝", path)
		}
		fmt.Println("✅ Templates ready.")
		fmt.Println("▶  Run: cosmic dev")
		return nil
	},
}

// copyEmbeddedDir copies every non-Go file under sourceDir into targetDir and
// returns the paths it wrote. Existing files are kept unless overwrite is set.
func copyEmbeddedDir(source fs.FS, sourceDir string, targetDir string, overwrite bool) ([]string, error) {
	var written []string
	err := fs.WalkDir(source, sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		if rel == "." || filepath.Ext(path) == ".go" {
			return nil
		}

		targetPath := filepath.Join(targetDir, rel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, os.ModePerm)
		}

		if _, err := os.Stat(targetPath); err == nil && !overwrite {
			fmt.Println("⏭️  Skipping existing", targetPath)
			return nil
		}

		data, err := fs.ReadFile(source, path)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), os.ModePerm); err != nil {
			return err
		}

		if err := os.WriteFile(targetPath, data, 0644); err != nil {
			return err
		}
		written = append(written, targetPath)
		return nil
	})
	return written, err
}
