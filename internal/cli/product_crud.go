package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bee-market/internal/catalog"
	"bee-market/internal/query"
)

// ProductCommand groups the product CRUD subcommands.
func ProductCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage catalog products",
	}
	cmd.AddCommand(productCreateCommand())
	cmd.AddCommand(productGetCommand())
	cmd.AddCommand(productListCommand())
	cmd.AddCommand(productUpdateCommand())
	cmd.AddCommand(productDeleteCommand())
	return cmd
}

func productCreateCommand() *cobra.Command {
	var (
		dbConnStr string
		ownerID   int64
		fields    catalog.ProductFields
		images    []string
		infos     []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product with its ordered images and info entries",
		Example: `  catalog product create --owner 7 --name "Wildflower Honey" \
    --description "500g jar" --price 12.50 --category honey \
    --image https://img.example.com/a.jpg --image https://img.example.com/b.jpg \
    --info "Origin|Local apiary"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			infoEntries, err := parseInfoEntries(infos)
			if err != nil {
				return err
			}

			s, err := openStore(dbConnStr)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.CreateProduct(cmd.Context(), ownerID, fields, images, infoEntries)
			if err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}
			fmt.Printf("Created product: %s (ID: %s)\n", fields.Name, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides env var)")
	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Owning seller ID (required)")
	cmd.Flags().StringVar(&fields.Name, "name", "", "Product name (required)")
	cmd.Flags().StringVar(&fields.Description, "description", "", "Product description (required)")
	cmd.Flags().Float64Var(&fields.Price, "price", 0, "Product price")
	cmd.Flags().StringVar(&fields.Category, "category", "", "Product category (required)")
	cmd.Flags().BoolVar(&fields.IsLimited, "limited", false, "Limited edition flag")
	cmd.Flags().BoolVar(&fields.InStock, "in-stock", true, "In-stock flag")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Image URL, repeatable; order defines display order")
	cmd.Flags().StringArrayVar(&infos, "info", nil, `Additional info entry as "Title|Description", repeatable`)

	return cmd
}

func productGetCommand() *cobra.Command {
	var dbConnStr string

	cmd := &cobra.Command{
		Use:   "get <product-id>",
		Short: "Fetch a product with its images, info entries, and rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(dbConnStr)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get product: %w", err)
			}
			printProduct(p)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides env var)")

	return cmd
}

func productListCommand() *cobra.Command {
	var (
		dbConnStr  string
		ownerID    int64
		category   string
		isLimited  string
		inStock    string
		searchTerm string
		sortBy     string
		descending bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products matching the given filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := query.Filter{
				Category:   category,
				SearchTerm: searchTerm,
			}
			if cmd.Flags().Changed("owner") {
				filter.OwnerID = &ownerID
			}
			var err error
			if filter.IsLimited, err = query.ParseBoolFlag(isLimited); err != nil {
				return err
			}
			if filter.InStock, err = query.ParseBoolFlag(inStock); err != nil {
				return err
			}

			s, err := openStore(dbConnStr)
			if err != nil {
				return err
			}
			defer s.Close()

			products, err := s.ListProducts(cmd.Context(), filter, query.Sort{Field: sortBy, Descending: descending})
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			if len(products) == 0 {
				fmt.Println("No products found.")
				return nil
			}
			fmt.Println("Products:")
			for i := range products {
				printProduct(&products[i])
				fmt.Println("  ---")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides env var)")
	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Filter by owning seller ID")
	cmd.Flags().StringVar(&category, "category", "", "Filter by exact category")
	cmd.Flags().StringVar(&isLimited, "limited", "", `Filter by limited flag ("true" or "false")`)
	cmd.Flags().StringVar(&inStock, "in-stock", "", `Filter by in-stock flag ("true" or "false")`)
	cmd.Flags().StringVar(&searchTerm, "search", "", "Case-insensitive substring match on name")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort field: name, price, or createdAt")
	cmd.Flags().BoolVar(&descending, "desc", false, "Sort descending")

	return cmd
}

func productUpdateCommand() *cobra.Command {
	var (
		dbConnStr   string
		name        string
		description string
		price       float64
		category    string
		isLimited   bool
		inStock     bool
		images      []string
		infos       []string
	)

	cmd := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Partially update a product; image/info flags replace the whole set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch catalog.ProductPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("price") {
				patch.Price = &price
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("limited") {
				patch.IsLimited = &isLimited
			}
			if cmd.Flags().Changed("in-stock") {
				patch.InStock = &inStock
			}
			if cmd.Flags().Changed("image") {
				patch.Images = images
			}
			if cmd.Flags().Changed("info") {
				infoEntries, err := parseInfoEntries(infos)
				if err != nil {
					return err
				}
				patch.Infos = infoEntries
			}

			s, err := openStore(dbConnStr)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.UpdateProduct(cmd.Context(), args[0], patch); err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
			fmt.Printf("Updated product %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides env var)")
	cmd.Flags().StringVar(&name, "name", "", "New product name")
	cmd.Flags().StringVar(&description, "description", "", "New product description")
	cmd.Flags().Float64Var(&price, "price", 0, "New product price")
	cmd.Flags().StringVar(&category, "category", "", "New product category")
	cmd.Flags().BoolVar(&isLimited, "limited", false, "New limited edition flag")
	cmd.Flags().BoolVar(&inStock, "in-stock", true, "New in-stock flag")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Replacement image URL, repeatable; replaces the whole set")
	cmd.Flags().StringArrayVar(&infos, "info", nil, `Replacement info entry as "Title|Description", repeatable`)

	return cmd
}

func productDeleteCommand() *cobra.Command {
	var dbConnStr string

	cmd := &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Delete a product and all of its images, info entries, and ratings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(dbConnStr)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete product: %w", err)
			}
			fmt.Printf("Deleted product %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides env var)")

	return cmd
}

// parseInfoEntries splits each "Title|Description" flag value into an entry.
func parseInfoEntries(raw []string) ([]catalog.InfoEntry, error) {
	entries := make([]catalog.InfoEntry, 0, len(raw))
	for _, r := range raw {
		title, description, ok := strings.Cut(r, "|")
		if !ok {
			return nil, fmt.Errorf("invalid --info value %q: expected \"Title|Description\"", r)
		}
		entries = append(entries, catalog.InfoEntry{Title: title, Description: description})
	}
	return entries, nil
}

func printProduct(p *catalog.Product) {
	fmt.Printf("  ID: %s\n", p.ID)
	fmt.Printf("  Owner: %d\n", p.OwnerID)
	fmt.Printf("  Name: %s\n", p.Name)
	fmt.Printf("  Description: %s\n", p.Description)
	fmt.Printf("  Price: %.2f\n", p.Price)
	fmt.Printf("  Category: %s\n", p.Category)
	fmt.Printf("  Limited: %t, In stock: %t\n", p.IsLimited, p.InStock)
	fmt.Printf("  Rating: %.2f (%d ratings)\n", p.RateScore, p.RateCount)
	for _, img := range p.Images {
		fmt.Printf("  Image %d: %s\n", img.Ordinal, img.URL)
	}
	for _, info := range p.Infos {
		fmt.Printf("  Info %d: %s - %s\n", info.Ordinal, info.Title, info.Description)
	}
}
