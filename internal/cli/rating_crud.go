package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bee-market/internal/catalog"
	"bee-market/internal/store"
)

// RatingCommand groups the rating subcommands.
func RatingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rating",
		Short: "Manage product ratings",
	}
	cmd.AddCommand(ratingRateCommand())
	cmd.AddCommand(ratingRemoveCommand())
	cmd.AddCommand(ratingListCommand())
	return cmd
}

func ratingRateCommand() *cobra.Command {
	var (
		dbConnStr string
		userID    int64
		score     int
	)

	cmd := &cobra.Command{
		Use:   "rate <product-id>",
		Short: "Submit or update a user's rating for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(dbConnStr)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.RateProduct(cmd.Context(), args[0], userID, score)
			if err != nil {
				return fmt.Errorf("failed to rate product: %w", err)
			}
			switch {
			case result.Created:
				fmt.Printf("Rated product %s with %d\n", args[0], score)
			case result.Changed:
				fmt.Printf("Updated rating for product %s to %d\n", args[0], score)
			default:
				fmt.Println("Rating unchanged")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides env var)")
	cmd.Flags().Int64Var(&userID, "user", 0, "Rating user ID (required)")
	cmd.Flags().IntVar(&score, "score", 0, "Score between 1 and 5 (required)")

	return cmd
}

func ratingRemoveCommand() *cobra.Command {
	var (
		dbConnStr string
		userID    int64
	)

	cmd := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a user's rating for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(dbConnStr)
			if err != nil {
				return err
			}
			defer s.Close()

			removed, err := s.UnrateProduct(cmd.Context(), args[0], userID)
			if err != nil {
				return fmt.Errorf("failed to remove rating: %w", err)
			}
			if !removed {
				fmt.Println("No rating found.")
				return nil
			}
			fmt.Printf("Removed rating for product %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides env var)")
	cmd.Flags().Int64Var(&userID, "user", 0, "Rating user ID (required)")

	return cmd
}

func ratingListCommand() *cobra.Command {
	var (
		dbConnStr string
		productID string
		userID    int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ratings for a product or by a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if productID == "" && !cmd.Flags().Changed("user") {
				return fmt.Errorf("must specify either --product or --user")
			}

			s, err := openStore(dbConnStr)
			if err != nil {
				return err
			}
			defer s.Close()

			ratings, err := listRatings(cmd, s, productID, userID)
			if err != nil {
				return err
			}
			if len(ratings) == 0 {
				fmt.Println("No ratings found.")
				return nil
			}
			fmt.Println("Ratings:")
			for _, r := range ratings {
				fmt.Printf("  Product: %s, User: %d, Score: %d\n", r.ProductID, r.UserID, r.Score)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides env var)")
	cmd.Flags().StringVar(&productID, "product", "", "List ratings for this product")
	cmd.Flags().Int64Var(&userID, "user", 0, "List ratings by this user")
	cmd.MarkFlagsMutuallyExclusive("product", "user")

	return cmd
}

func listRatings(cmd *cobra.Command, s *store.Store, productID string, userID int64) ([]catalog.Rating, error) {
	if productID != "" {
		ratings, err := s.RatingsByProduct(cmd.Context(), productID)
		if err != nil {
			return nil, fmt.Errorf("failed to list ratings: %w", err)
		}
		return ratings, nil
	}
	ratings, err := s.RatingsByUser(cmd.Context(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}
