package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"oppdash/internal/domain"
	"oppdash/internal/usecase"
)

// NewProductsCommand lists the product catalog.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List selectable products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			products := a.Dashboard.Products()
			if rootOpts.Format == "json" {
				return rootOpts.writeJSON(cmd.OutOrStdout(), products)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tNAME\tLIVE")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", p.Product, p.DisplayName, p.Live)
			}
			return tw.Flush()
		},
	}
}

// viewOptions are the filter and sort flags shared by list and export
type viewOptions struct {
	criteria domain.FilterCriteria
	sort     []string
	marked   []string
}

func (v *viewOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&v.criteria.StoreKey, "store-key", "", "store key contains")
	f.StringVar(&v.criteria.TaxID, "tax-id", "", "CNPJ contains")
	f.StringVar(&v.criteria.StoreName, "store-name", "", "store name contains (any case)")
	f.StringVar(&v.criteria.Status, "status", "", "exact status (ativa|bloqueada|em processo de encerramento)")
	f.StringVar(&v.criteria.BranchCode, "branch", "", "branch code contains")
	f.StringVar(&v.criteria.RegionalManagement, "management", "", "regional management contains")
	f.StringVar(&v.criteria.RegionalDirectorate, "directorate", "", "regional directorate contains")
	f.StringVar(&v.criteria.Trend, "trend", "", "exact trend (queda|atencao|estavel|comecando)")
	f.StringSliceVar(&v.sort, "sort", nil, "sort requests in order; repeating a column flips its direction")
	f.StringSliceVar(&v.marked, "mark", nil, "store keys to mark")
}

// apply replays the flags against a freshly selected dashboard
func (v *viewOptions) apply(cmd *cobra.Command, d *usecase.Dashboard, product domain.Product) (usecase.View, error) {
	ctx := cmd.Context()

	out := d.Select(ctx, product)
	if !out.Found {
		return usecase.View{}, &ExitError{Code: ExitCommandError, Message: fmt.Sprintf("product %q not found", product), Err: out.Err}
	}
	if out.Diagnostic != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", out.Diagnostic)
	}

	for _, column := range v.sort {
		d.RequestSort(domain.ParseField(column))
	}
	for _, key := range v.marked {
		if key = strings.TrimSpace(key); key != "" {
			d.ToggleMark(key)
		}
	}
	return d.ApplyFilters(ctx, v.criteria), nil
}

// NewListCommand prints the ordered, filtered view of a product.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &viewOptions{}
	var markedOnly bool

	cmd := &cobra.Command{
		Use:   "list <product>",
		Short: "Show a product's opportunity table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			view, err := opts.apply(cmd, a.Dashboard, domain.Product(args[0]))
			if err != nil {
				return err
			}
			records := view.Records
			if markedOnly {
				records = a.Dashboard.MarkedView(cmd.Context())
			}

			if rootOpts.Format == "json" {
				view.Records = records
				view.Matched = len(records)
				return rootOpts.writeJSON(cmd.OutOrStdout(), view)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s)\n", view.Title, view.State)
			if view.Advisory != "" {
				fmt.Fprintln(w, view.Advisory)
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tM-3\tM-2\tM-1\tM0\tSTATUS\tTREND\tDIRECTORATE")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
					r.StoreKey, r.StoreName, r.MonthM3, r.MonthM2, r.MonthM1, r.MonthM0,
					r.Status, r.Trend, r.RegionalDirectorate)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(w, "%d of %d stores\n", len(records), view.Total)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&markedOnly, "marked-only", false, "show only marked stores")
	return cmd
}

// NewExportCommand writes the ordered, filtered view to an xlsx file.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &viewOptions{}
	var dir string

	cmd := &cobra.Command{
		Use:   "export <product>",
		Short: "Export a product's table to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := opts.apply(cmd, a.Dashboard, domain.Product(args[0])); err != nil {
				return err
			}

			tmp, err := os.CreateTemp(dir, ".oppctl-export-*")
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "cannot write to output directory", Err: err}
			}
			defer os.Remove(tmp.Name())

			name, rows, err := a.Dashboard.Export(cmd.Context(), tmp)
			if closeErr := tmp.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return &ExitError{Code: ExitFailure, Message: "export failed", Err: err}
			}

			path := filepath.Join(dir, name)
			if err := os.Rename(tmp.Name(), path); err != nil {
				return &ExitError{Code: ExitFailure, Message: "export failed", Err: err}
			}

			if rootOpts.Format == "json" {
				return rootOpts.writeJSON(cmd.OutOrStdout(), map[string]any{"file": path, "rows": rows})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", rows, path)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&dir, "output", "o", ".", "output directory")
	return cmd
}
