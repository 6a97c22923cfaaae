package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after flags, environment variables and the config
file have been merged, in the YAML layout a config file uses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			if _, err := a.out.Write(data); err != nil {
				return err
			}
			if !resolve {
				return nil
			}

			host, err := a.cfg.ResolveHost()
			if err != nil {
				host = "error: " + err.Error()
			}
			endpoint, err := a.cfg.ResolveEndpoint()
			if err != nil {
				endpoint = "error: " + err.Error()
			}
			fmt.Fprintf(a.out, "# resolved host: %s\n", host)
			fmt.Fprintf(a.out, "# resolved url endpoint: %s\n", endpoint)
			fmt.Fprintf(a.out, "# asset directories: %v\n", a.cfg.AssetDirList())
			return nil
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "Also print the resolved host, endpoint and asset directories")
	return cmd
}
