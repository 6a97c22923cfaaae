package cmd

import (
	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Write routing rules, rewrite documents and print the build status",
		Long: `Build runs the whole post-build step: it writes the routing rules for the
asset directories, rewrites every HTML document, then prints a summary of the
errors found along the way. A configuration error stops the build before
any file is touched.

Examples:
  URL=https://example.com assetpipe build --publish-dir public --url-endpoint https://ik.imagekit.io/demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.generateRedirects(); err != nil {
				return err
			}
			if err := a.rewriteDocuments(cmd.Context()); err != nil {
				return err
			}
			if err := a.finish(); err != nil {
				return err
			}
			a.printStatus()
			return nil
		},
	}
}
