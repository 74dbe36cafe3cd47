package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/listo/internal/config"
)

// NewInitCommand returns the onboarding subcommand.
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Initialize the listo home directory (~/.listo)",
		Action: runInit,
	}
}

func runInit(_ context.Context, cmd *cli.Command) error {
	root := config.ListoPath()
	w := stdout(cmd)
	created := false

	if _, err := os.Stat(root); err != nil {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", root, err)
		}
		fmt.Fprintf(w, "  Created %s\n", root)
		created = true
	}

	// Write default config if missing.
	configPath := config.ConfigPath()
	if _, err := os.Stat(configPath); err != nil {
		if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(w, "  Created %s\n", configPath)
		created = true
	}

	// Write default .env if missing.
	dotenvPath := config.DotenvPath()
	if _, err := os.Stat(dotenvPath); err != nil {
		if err := os.WriteFile(dotenvPath, []byte(defaultDotenv), 0o600); err != nil {
			return fmt.Errorf("write .env: %w", err)
		}
		fmt.Fprintf(w, "  Created %s\n", dotenvPath)
		created = true
	}

	if !created {
		fmt.Fprintf(w, "%s is already set up. Nothing to do.\n", root)
		return nil
	}

	fmt.Fprintln(w, initMessage(root))
	return nil
}

const defaultConfig = `{
	// listo configuration

	"storage": {
		// file | sqlite | memory
		"driver": "file",
		// "path": "${{ .Env.HOME }}/.listo/data",

		// Seal stored values with age. The key is created on first use.
		"encrypt": false
	},

	"server": {
		"host": "127.0.0.1",
		"port": 18421
	},

	"log": {
		"level": "info"
	}
}
`

const defaultDotenv = `# listo environment variables
# This file is loaded automatically. Existing env vars are never overridden.

# LISTO_LOG_LEVEL=debug
`

func initMessage(root string) string {
	return fmt.Sprintf(`
  Ready. Your tasks live in %s

  Next steps:
    1. Tweak %s/config.jsonc if you feel like it
    2. Run: listo add "Buy milk"
    3. Or:  listo tui   /   listo serve
`, root, root)
}
