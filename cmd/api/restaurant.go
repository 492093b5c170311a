package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cimillas/table-reservations/internal/app"
	"github.com/cimillas/table-reservations/internal/clock"
	"github.com/cimillas/table-reservations/internal/domain"
	"github.com/cimillas/table-reservations/internal/storage/postgres"
)

func newRestaurantCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurant",
		Short: "Manage restaurants",
	}
	cmd.AddCommand(newRestaurantAddCmd(opts))
	cmd.AddCommand(newRestaurantListCmd(opts))
	return cmd
}

func newRestaurantAddCmd(opts *rootOptions) *cobra.Command {
	var (
		name      string
		openHour  int
		closeHour int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			rt, err := openRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			svc := app.NewRestaurantService(postgres.NewRestaurantRepository(rt.pool), clock.NewSystem())
			restaurant, err := svc.CreateRestaurant(cmd.Context(), app.CreateRestaurantInput{
				Name:      name,
				OpenHour:  openHour,
				CloseHour: closeHour,
			})
			if err != nil {
				return fmt.Errorf("create restaurant: %w", err)
			}
			return printRestaurants(cmd.OutOrStdout(), []domain.Restaurant{restaurant})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "restaurant name")
	cmd.Flags().IntVar(&openHour, "open", 0, "opening hour (0-23)")
	cmd.Flags().IntVar(&closeHour, "close", 0, "closing hour (1-24, exclusive)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("open")
	_ = cmd.MarkFlagRequired("close")
	return cmd
}

func newRestaurantListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List restaurants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			rt, err := openRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			svc := app.NewRestaurantService(postgres.NewRestaurantRepository(rt.pool), clock.NewSystem())
			restaurants, err := svc.ListRestaurants(cmd.Context())
			if err != nil {
				return fmt.Errorf("list restaurants: %w", err)
			}
			return printRestaurants(cmd.OutOrStdout(), restaurants)
		},
	}
}

func printRestaurants(out io.Writer, restaurants []domain.Restaurant) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tHOURS")
	for _, r := range restaurants {
		fmt.Fprintf(tw, "%s\t%s\t%02d:00-%02d:00\n", r.ID, r.Name, r.Window.OpenHour, r.Window.CloseHour)
	}
	return tw.Flush()
}
