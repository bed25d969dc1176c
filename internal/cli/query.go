package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"precios/catalog/internal/client"
	"precios/catalog/internal/container"
	"precios/catalog/internal/domain"
	"precios/catalog/internal/service"

	"github.com/spf13/cobra"
)

const remoteTimeout = 30 * time.Second

// localReader adapts the in-process service to the client interface.
type localReader struct {
	svc *service.Service
}

func (r localReader) Categories(ctx context.Context) ([]string, error) {
	return r.svc.Categories(ctx), nil
}

func (r localReader) Items(ctx context.Context, category string) ([]*domain.Record, error) {
	return r.svc.Items(ctx, category)
}

func (r localReader) Search(ctx context.Context, query string) ([]*domain.Record, error) {
	return r.svc.Search(ctx, query), nil
}

// reader queries the server given by --remote, or the configured source
// directory when no remote is set.
func (o *options) reader() (client.CatalogClient, error) {
	if o.remote != "" {
		return client.NewCatalogClient(o.remote, remoteTimeout), nil
	}
	app, err := container.New(o.cfg)
	if err != nil {
		return nil, err
	}
	return localReader{svc: app.Service}, nil
}

func addRemoteFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.remote, "remote", "", "query a running server at this base URL instead of the local directory")
}

func newCategoriesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List category names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.reader()
			if err != nil {
				return err
			}
			names, err := r.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	addRemoteFlag(cmd, opts)
	return cmd
}

func newItemsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items <category>",
		Short: "Print the records of one category as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.reader()
			if err != nil {
				return err
			}
			items, err := r.Items(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), items)
		},
	}
	addRemoteFlag(cmd, opts)
	return cmd
}

func newSearchCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search records by free text and print matches as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.reader()
			if err != nil {
				return err
			}
			items, err := r.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), items)
		},
	}
	addRemoteFlag(cmd, opts)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
