package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-dispersion/optics/catalogue"
	"github.com/cwbudde/algo-dispersion/optics/core"
)

func newCatalogueCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"cat"},
		Short:   "Build and query the material catalogue",
	}
	cmd.AddCommand(
		newCatalogueRebuildCmd(a),
		newCatalogueListCmd(a),
		newCatalogueAliasCmd(a),
		newCatalogueWatchCmd(a),
	)
	return cmd
}

func newCatalogueRebuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rescan the material files and save the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.catalogue()
			if err != nil {
				return err
			}
			if err := c.Rebuild(cmd.Context()); err != nil {
				return err
			}
			if err := c.Save(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d materials written to %s\n", c.Len(), c.File())
			return nil
		},
	}
}

func newCatalogueListCmd(a *app) *cobra.Command {
	var database, name string
	var aliased bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogue entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.catalogue()
			if err != nil {
				return err
			}
			name = strings.ToLower(name)
			entries := c.Filter(func(e catalogue.Entry) bool {
				if database != "" && !strings.EqualFold(e.Database, database) {
					return false
				}
				if name != "" && !strings.Contains(strings.ToLower(e.Name+" "+e.FullName), name) {
					return false
				}
				return !aliased || e.Alias != ""
			})

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROW\tALIAS\tNAME\tAUTHOR\tDATABASE\tRANGE\tN\tK")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s-%s %s\t%s\t%s\n",
					e.Row, e.Alias, e.Name, e.Author, e.Database,
					formatValue(e.SpectrumLowerBound), formatValue(e.SpectrumUpperBound), e.Unit,
					formatValue(e.NReference), formatValue(e.KReference))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&database, "database", "", "only entries of this sub-database")
	cmd.Flags().StringVar(&name, "name", "", "only entries whose name contains this text")
	cmd.Flags().BoolVar(&aliased, "aliased", false, "only entries with an alias")
	return cmd
}

func newCatalogueAliasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "alias <row> <alias>",
		Short: "Assign an alias to a catalogue row and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("row %q: %w", args[0], core.ErrValidation)
			}
			c, err := a.catalogue()
			if err != nil {
				return err
			}
			if err := c.RegisterAlias(row, args[1]); err != nil {
				return err
			}
			return c.Save()
		},
	}
}

func newCatalogueWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the catalogue whenever user data files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.catalogue()
			if err != nil {
				return err
			}
			w, err := catalogue.NewWatcher(c, catalogue.WithDebounce(debounce))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()
			a.logger.Info("watching", "path", w.Dir)

			for {
				select {
				case <-ctx.Done():
					return nil
				case err := <-w.Rebuilds:
					if err == nil {
						fmt.Fprintf(a.out, "%s: %d materials\n", time.Now().Format(time.TimeOnly), c.Len())
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", catalogue.DefaultDebounce, "quiet period before a rebuild")
	return cmd
}
