package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/listo/internal/secrets"
)

// NewKeyCommand returns the key subcommand.
func NewKeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "Manage the storage encryption key",
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Create the age key used when storage.encrypt is on",
				Action: runKeyGenerate,
			},
		},
	}
}

func runKeyGenerate(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cfg.Storage.KeyFile
	created, err := secrets.GenerateIdentity(path)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if !created {
		fmt.Fprintf(w, "Key already exists at %s\n", path)
		return nil
	}
	identity, err := secrets.LoadIdentity(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Created %s\nPublic key: %s\n", path, identity.Recipient())
	return nil
}
