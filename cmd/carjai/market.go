package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carjai/marketplace-client/internal/app"
	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/core/service"
)

func carsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cars",
		Short: "Browse car listings",
	}

	var search domain.CarSearch
	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search active listings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				search.Query = args[0]
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				page, err := a.Client.Cars().Search(ctx, search)
				if err != nil {
					return err
				}
				writeListings(cmd.OutOrStdout(), page.Cars)
				fmt.Fprintf(cmd.OutOrStdout(), "\npage %d, %d results\n", page.Page, page.Total)
				return nil
			})
		},
	}
	f := searchCmd.Flags()
	f.IntVar(&search.Page, "page", 0, "Result page")
	f.IntVar(&search.Limit, "limit", 0, "Results per page")
	f.IntVar(&search.MinPrice, "min-price", 0, "Minimum price (THB)")
	f.IntVar(&search.MaxPrice, "max-price", 0, "Maximum price (THB)")
	f.IntVar(&search.MinYear, "min-year", 0, "Oldest model year")
	f.IntVar(&search.MaxYear, "max-year", 0, "Newest model year")
	f.StringVar(&search.Province, "province", "", "Province")
	f.IntVar(&search.BodyTypeID, "body-type", 0, "Body type id")
	f.IntVar(&search.FuelTypeID, "fuel-type", 0, "Fuel type id")

	showCmd := &cobra.Command{
		Use:   "show <car-id>",
		Short: "Show a listing and record it as recently viewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intArg(args[0], "car id")
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				detail, err := a.Client.Cars().Get(ctx, id)
				if err != nil {
					return err
				}
				listing := detail.Listing()
				a.Recent.Add(ctx, id, &domain.RecentSnapshot{
					Title:        listing.Title(),
					Price:        listing.Price,
					ThumbnailURL: listing.ThumbnailURL,
				})
				return printJSON(cmd.OutOrStdout(), detail)
			})
		},
	}

	cmd.AddCommand(searchCmd, showCmd)
	return cmd
}

func favoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage saved cars",
	}

	toggle := func(use, short, done string, add bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <car-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := intArg(args[0], "car id")
				if err != nil {
					return err
				}
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					favs := a.Client.Favorites()
					call := favs.Remove
					if add {
						call = favs.Add
					}
					if err := call(ctx, id); err != nil {
						return err
					}
					success(cmd.OutOrStdout(), "%s car %d", done, id)
					return nil
				})
			},
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved cars",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					cars, err := a.Client.Favorites().List(ctx)
					if err != nil {
						return err
					}
					writeListings(cmd.OutOrStdout(), cars)
					return nil
				})
			},
		},
		toggle("add", "Save a car", "Saved", true),
		toggle("remove", "Remove a saved car", "Removed", false),
	)

	return cmd
}

func recentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Recently viewed cars",
	}

	var localOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List recently viewed cars, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				merge := !localOnly && a.Users.Snapshot().Authenticated
				items := a.Recent.List(ctx, merge)
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "CAR\tTITLE\tPRICE\tVIEWED")
				for _, it := range items {
					var title, price string
					if it.Snapshot != nil {
						title = it.Snapshot.Title
						price = formatPrice(it.Snapshot.Price)
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", it.CarID, title, price, it.ViewedAt.Local().Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}
	list.Flags().BoolVar(&localOnly, "local", false, "Skip merging the server-side history")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "clear",
			Short: "Forget locally stored views",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					a.Recent.Clear(ctx)
					success(cmd.OutOrStdout(), "Cleared recent views")
					return nil
				})
			},
		},
	)

	return cmd
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare up to four cars side by side",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <car-id>",
			Short: "Add a car to the comparison",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := intArg(args[0], "car id")
				if err != nil {
					return err
				}
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					switch {
					case a.Comparison.IsPresent(id):
						warn(cmd.OutOrStdout(), "Car %d is already being compared", id)
						return nil
					case !a.Comparison.CanAddMore():
						return fmt.Errorf("comparison is full (%d cars); remove one first", service.MaxComparison)
					}
					detail, err := a.Client.Cars().Get(ctx, id)
					if err != nil {
						return err
					}
					if !a.Comparison.Add(detail.Listing()) {
						return fmt.Errorf("could not add car %d", id)
					}
					success(cmd.OutOrStdout(), "Comparing %d of %d cars", len(a.Comparison.List()), service.MaxComparison)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <car-id>",
			Short: "Remove a car from the comparison",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := intArg(args[0], "car id")
				if err != nil {
					return err
				}
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					if !a.Comparison.Remove(id) {
						warn(cmd.OutOrStdout(), "Car %d is not being compared", id)
						return nil
					}
					success(cmd.OutOrStdout(), "Removed car %d", id)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Show the cars being compared",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					writeListings(cmd.OutOrStdout(), a.Comparison.List())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the comparison",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					a.Comparison.Clear()
					success(cmd.OutOrStdout(), "Comparison cleared")
					return nil
				})
			},
		},
	)

	return cmd
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				profile, err := a.Client.Profile().Get(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), profile)
			})
		},
	}
}

func referenceCmd() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Show the body type, fuel, transmission and drivetrain options",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				data, err := a.Client.Reference().All(ctx, lang)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), data)
			})
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "en", "Label language (en or th)")

	return cmd
}

func ocrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocr",
		Short: "Document recognition",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <image>",
		Short: "Read a vehicle registration book and print the recognised fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Client.OCR().VerifyDocument(ctx, filepath.Base(args[0]), f)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), domain.ParseDocumentText(res.ExtractedText))
			})
		},
	})

	return cmd
}

func writeListings(out io.Writer, cars []domain.CarListing) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCAR\tYEAR\tPRICE")
	for _, c := range cars {
		year := "-"
		if c.Year != nil {
			year = fmt.Sprint(*c.Year)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Title(), year, formatPrice(c.Price))
	}
	_ = w.Flush()
}

func formatPrice(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("฿%d", *p)
}
