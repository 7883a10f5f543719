package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/yanizio/stockroom/internal/database"
	"github.com/yanizio/stockroom/internal/product"
)

func newProductCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"p"},
		Short:   "Insert, show, change, or remove products",
	}
	cmd.AddCommand(
		newProductAddCmd(a),
		newProductGetCmd(a),
		newProductSetCmd(a),
		newProductRmCmd(a),
	)
	return cmd
}

func newProductAddCmd(a *app) *cobra.Command {
	var (
		name string
		qty  int
		gtin int64
		desc string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert a new product and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []product.Option
			if cmd.Flags().Changed("gtin") {
				opts = append(opts, product.WithGTIN(gtin))
			}
			if cmd.Flags().Changed("description") {
				opts = append(opts, product.WithDescription(desc))
			}
			p := product.New(name, qty, opts...)
			if err := p.Insert(cmd.Context(), a.db); err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().IntVar(&qty, "qty", 0, "quantity in stock")
	cmd.Flags().Int64Var(&gtin, "gtin", 0, "GTIN code (omit for NULL)")
	cmd.Flags().StringVar(&desc, "description", "", "description (omit for NULL)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProductGetCmd(a *app) *cobra.Command {
	var lock bool
	cmd := &cobra.Command{
		Use:   "get ID...",
		Short: "Show one or more products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var found []*product.Product
			load := func(ex *sqlx.Tx) error {
				for _, id := range ids {
					var (
						p   *product.Product
						err error
					)
					if ex != nil {
						p, err = product.GetForUpdate(ctx, ex, id)
					} else {
						p, err = product.Get(ctx, a.db, id)
					}
					if err != nil {
						return err
					}
					found = append(found, p)
				}
				return nil
			}
			if lock {
				err = database.WithTx(ctx, a.db, load)
			} else {
				err = load(nil)
			}
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), found...)
			return nil
		},
	}
	cmd.Flags().BoolVar(&lock, "lock", false, "read under an exclusive row lock inside one transaction")
	return cmd
}

func newProductSetCmd(a *app) *cobra.Command {
	var (
		name      string
		qty       int
		delta     int
		gtin      int64
		desc      string
		clearGTIN bool
		clearDesc bool
	)
	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Change a product under a row lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			ctx := cmd.Context()

			var p *product.Product
			err = database.WithTx(ctx, a.db, func(tx *sqlx.Tx) error {
				var err error
				if p, err = product.GetForUpdate(ctx, tx, ids[0]); err != nil {
					return err
				}
				if f.Changed("name") {
					p.Name = name
				}
				if f.Changed("qty") {
					p.QtyInStock = qty
				}
				p.QtyInStock += delta
				switch {
				case clearGTIN:
					p.GtinCode = nil
				case f.Changed("gtin"):
					p.GtinCode = &gtin
				}
				switch {
				case clearDesc:
					p.Description = nil
				case f.Changed("description"):
					p.Description = &desc
				}
				return p.Update(ctx, tx)
			})
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().IntVar(&qty, "qty", 0, "new quantity in stock")
	cmd.Flags().IntVar(&delta, "delta", 0, "add to the quantity in stock (negative to take)")
	cmd.Flags().Int64Var(&gtin, "gtin", 0, "new GTIN code")
	cmd.Flags().StringVar(&desc, "description", "", "new description")
	cmd.Flags().BoolVar(&clearGTIN, "clear-gtin", false, "set the GTIN code to NULL")
	cmd.Flags().BoolVar(&clearDesc, "clear-description", false, "set the description to NULL")
	cmd.MarkFlagsMutuallyExclusive("gtin", "clear-gtin")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	return cmd
}

func newProductRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := product.Ref(ids[0]).Delete(cmd.Context(), a.db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %d\n", ids[0])
			return nil
		},
	}
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, len(args))
	for i, s := range args {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid product id %q", s)
		}
		ids[i] = id
	}
	return ids, nil
}

// printProducts renders a table; nil columns print as NULL.
func printProducts(w io.Writer, ps ...*product.Product) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "GTIN", "QTY", "NAME", "DESCRIPTION"})
	for _, p := range ps {
		gtin, desc := any("NULL"), any("NULL")
		if p.GtinCode != nil {
			gtin = *p.GtinCode
		}
		if p.Description != nil {
			desc = *p.Description
		}
		t.AppendRow(table.Row{p.ID(), gtin, p.QtyInStock, p.Name, desc})
	}
	t.Render()
}
