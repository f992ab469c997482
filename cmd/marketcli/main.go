// marketcli is a small admin CLI over the local book store. It talks to
// the same file or sqlite store the API server uses in local mode.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bookmarket/internal/identity"
	"bookmarket/internal/kvstore"
	"bookmarket/internal/listing"
)

var (
	storePath    string
	storeBackend string
)

func main() {
	root := &cobra.Command{
		Use:          "marketcli",
		Short:        "Manage textbook listings in the local store",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&storePath, "store", "bookmarket.json", "path to the local store")
	root.PersistentFlags().StringVar(&storeBackend, "backend", "file", "local store backend: file or sqlite")

	root.AddCommand(listCmd(), searchCmd(), addCmd(), soldCmd(), rmCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openService() (*listing.Service, error) {
	var store kvstore.Store
	switch storeBackend {
	case "file":
		store = kvstore.NewFile(storePath)
	case "sqlite":
		var err error
		store, err = kvstore.NewSQLite(storePath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown backend %q (want file or sqlite)", storeBackend)
	}
	return listing.NewService(listing.NewKVRepo(store)), nil
}

func printBooks(books []listing.Book) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOURSE\tPRICE\tCONDITION\tGENRE\tSOLD")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\t%v\n",
			b.ID, b.Title, b.CourseCode, b.Price, b.Condition, b.Genre, b.IsSold)
	}
	w.Flush()
}

func listCmd() *cobra.Command {
	var genre string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List unsold books, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openService()
			if err != nil {
				return err
			}
			books, err := svc.List(context.Background(), listing.Genre(genre))
			if err != nil {
				return err
			}
			printBooks(books)
			return nil
		},
	}
	cmd.Flags().StringVar(&genre, "genre", "", "restrict to one genre")
	return cmd
}

func searchCmd() *cobra.Command {
	var genre, minPrice, maxPrice string
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search unsold books by title, course code or description",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			filters := listing.Filters{Genre: listing.Genre(genre)}
			if minPrice != "" {
				v, err := strconv.ParseFloat(minPrice, 64)
				if err != nil {
					return fmt.Errorf("invalid --min-price: %w", err)
				}
				filters.MinPrice = &v
			}
			if maxPrice != "" {
				v, err := strconv.ParseFloat(maxPrice, 64)
				if err != nil {
					return fmt.Errorf("invalid --max-price: %w", err)
				}
				filters.MaxPrice = &v
			}
			books, err := svc.Search(context.Background(), query, filters)
			if err != nil {
				return err
			}
			printBooks(books)
			return nil
		},
	}
	cmd.Flags().StringVar(&genre, "genre", "", "restrict to one genre")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "inclusive lower price bound")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "inclusive upper price bound")
	return cmd
}

func addCmd() *cobra.Command {
	var in listing.CreateInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a listing owned by the guest profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openService()
			if err != nil {
				return err
			}
			b, err := svc.Create(context.Background(), in, identity.GuestID)
			if err != nil {
				return err
			}
			fmt.Printf("created %s (%s)\n", b.ID, b.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "book title")
	cmd.Flags().StringVar(&in.CourseCode, "course", "", "course code")
	cmd.Flags().StringVar(&in.Price, "price", "", "asking price")
	cmd.Flags().StringVar(&in.Condition, "condition", string(listing.ConditionGood), "condition")
	cmd.Flags().StringVar(&in.MaterialType, "material", string(listing.MaterialTextbook), "material type")
	cmd.Flags().StringVar(&in.Genre, "genre", "", "genre")
	cmd.Flags().StringVar(&in.Description, "description", "", "optional description")
	return cmd
}

func soldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sold <id>",
		Short: "Mark a listing as sold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService()
			if err != nil {
				return err
			}
			sold := true
			b, err := svc.Update(context.Background(), args[0], listing.UpdateInput{IsSold: &sold})
			if err != nil {
				return err
			}
			fmt.Printf("marked %s as sold\n", b.ID)
			return nil
		},
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService()
			if err != nil {
				return err
			}
			if err := svc.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}
