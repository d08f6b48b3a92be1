package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookstore/internal/config"
)

type PurgeCommand struct {
	DatabasePath string
	Yes          bool

	Out io.Writer
}

func NewPurgeCommand() *PurgeCommand {
	return &PurgeCommand{}
}

func (cmd *PurgeCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("purge", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.Yes, "yes", false, "Confirm deleting every book (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s purge -yes [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete every book in the inventory. Ids are not reused afterwards.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !cmd.Yes {
		fs.Usage()
		return fmt.Errorf("refusing to purge without -yes")
	}

	return nil
}

func (cmd *PurgeCommand) Run() error {
	inventory, p, err := openInventory(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer p.Close()

	res, err := inventory.PurgeAll(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(output(cmd.Out), "✅ Deleted %d book(s) from %s\n", res.BooksDeleted, cmd.DatabasePath)
	return nil
}
