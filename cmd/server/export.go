package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lojf/clientbook/internal/db"
	"github.com/lojf/clientbook/internal/services"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all clients as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return export(cmd.Context(), cfg.DBPath, w)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func export(ctx context.Context, path string, w io.Writer) error {
	conn, err := db.Open(path, nil)
	if err != nil {
		return err
	}
	defer db.Close(conn)
	return services.NewClients(conn, nil, nil).Export(ctx, w)
}
