package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lojf/clientbook/internal/config"
)

type rootOptions struct {
	v          *viper.Viper
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.New()}

	root := &cobra.Command{
		Use:           "clientbook",
		Short:         "Client contact manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./clientbook.yaml)")
	root.PersistentFlags().String("db", "", "SQLite database file")
	_ = opts.v.BindPFlag("db_path", root.PersistentFlags().Lookup("db"))

	serve := newServeCmd(opts)
	root.AddCommand(serve, newExportCmd(opts))
	// Running the bare binary starts the server.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(o.v, o.configFile)
}
