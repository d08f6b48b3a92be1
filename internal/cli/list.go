package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/services"
)

type ListCommand struct {
	DatabasePath string
	Supplier     string
	Sort         string

	Out io.Writer
}

func NewListCommand() *ListCommand {
	return &ListCommand{}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Supplier, "supplier", "", "Only list books from this supplier")
	fs.StringVar(&cmd.Sort, "sort", "", "Column to sort by, prefix with '-' for descending")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the books in the inventory.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s list -supplier \"Penguin House\" -sort -quantity\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ListCommand) Run() error {
	inventory, p, err := openInventory(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer p.Close()

	books, err := inventory.List(context.Background(), services.ListOptions{
		Supplier: cmd.Supplier,
		Sort:     cmd.Sort,
	})
	if err != nil {
		return err
	}

	out := output(cmd.Out)
	if len(books) == 0 {
		fmt.Fprintf(out, "ℹ️  No books in %s\n", cmd.DatabasePath)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUPPLIER\tPHONE")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			b.ID, b.ProductName, b.Price, b.Quantity, b.SupplierName, b.SupplierPhoneNumber)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d book(s)\n", len(books))
	return nil
}
