package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/raushankrgupta/printlabs/shopify"
	"github.com/spf13/cobra"
)

func (c *cli) productsCmd() *cobra.Command {
	products := &cobra.Command{
		Use:   "products",
		Short: "Product commands",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List the shop's products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.adminClient(cmd.Context())
			if err != nil {
				return err
			}
			items, err := client.ListProducts(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE")
			for _, p := range items {
				fmt.Fprintf(tw, "%s\t%s\n", shopify.LegacyID(p.ID), p.Title)
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", shopify.DefaultProductPageSize, "number of products to fetch")

	products.AddCommand(list)
	return products
}
