package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookstore/internal/config"
)

type SeedCommand struct {
	DatabasePath string
	Count        int

	Out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.Count, "count", 1, "Number of demo books to insert")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Insert the demo book (\"The Giver\") into the inventory.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed -count 5 -db ./shop.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Count < 1 {
		fs.Usage()
		return fmt.Errorf("count must be at least 1")
	}

	return nil
}

func (cmd *SeedCommand) Run() error {
	inventory, p, err := openInventory(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer p.Close()

	out := output(cmd.Out)
	ctx := context.Background()

	for i := 0; i < cmd.Count; i++ {
		uri, err := inventory.SeedDemo(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Inserted %s\n", uri)
	}

	fmt.Fprintf(out, "\n✅ Seeded %d demo book(s) into %s\n", cmd.Count, cmd.DatabasePath)
	return nil
}
