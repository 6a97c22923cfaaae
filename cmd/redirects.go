package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/assetpipe/core"
	"github.com/gaurav-prasanna/assetpipe/core/asseturl"
	"github.com/gaurav-prasanna/assetpipe/core/config"
	"github.com/gaurav-prasanna/assetpipe/core/output"
	"github.com/gaurav-prasanna/assetpipe/core/redirect"
	"github.com/gaurav-prasanna/assetpipe/core/render"
	"github.com/gaurav-prasanna/assetpipe/discover"
)

func newRedirectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "redirects",
		Short: "Write the routing rules for the configured asset directories",
		Long: `Redirects writes two rules per asset directory: a 302 that sends requests
for the asset to the CDN, and a 200 rewrite under the disguised path the CDN
uses to fetch the original from the origin.

Examples:
  assetpipe redirects --publish-dir public --url-endpoint https://ik.imagekit.io/demo
  assetpipe redirects --images-path images,media --redirects-format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.generateRedirects(); err != nil {
				return err
			}
			return a.finish()
		},
	}
}

// generateRedirects resolves the configuration, checks that the asset
// directories hold files and writes the routing table. Configuration
// failures abort before any rule is written.
func (a *app) generateRedirects() error {
	a.log.Info().Msg("Creating redirects...")

	rc, err := a.cfg.RewriteConfig()
	if err != nil {
		a.log.Error().Err(err).Msg("Configuration error")
		return err
	}
	a.log.Info().Str("host", rc.OriginHost).Msg("Using host")

	dirs := a.cfg.AssetDirList()
	files, err := discover.ListFiles(rc.SiteRootDir, dirs)
	if err != nil {
		return fmt.Errorf("listing assets: %w", err)
	}
	if len(files) == 0 {
		err := core.NewAssetPathError()
		a.log.Error().Strs("dirs", dirs).Msg(err.Error())
		return err
	}
	a.log.Debug().Int("files", len(files)).Strs("dirs", dirs).Msg("Found assets")

	writer, err := output.New(rc.SiteRootDir, a.cfg.DryRun)
	if err != nil {
		return err
	}

	table := redirect.NewTable()
	a.report.Merge(redirect.Generate(dirs, asseturl.New(rc), table, a.log.Logger)...)

	renderer := selectRenderer(a.cfg.RedirectsFormat)
	data, err := renderer.Render(table.Rules())
	if err != nil {
		return fmt.Errorf("rendering redirects: %w", err)
	}

	path, err := writer.WriteRedirects(renderer.FileName(), data, a.cfg.RedirectsFormat == config.FormatNetlify)
	if err != nil {
		return err
	}

	event := a.log.Info().Str("path", path).Int("rules", table.Len())
	if a.cfg.DryRun {
		event.Bool("dry_run", true).Msg("Redirects computed")
		a.log.Debug().Msg(string(data))
		return nil
	}
	event.Msg("Redirects written")
	return nil
}

// selectRenderer creates the Renderer for the configured table format.
func selectRenderer(format string) core.Renderer {
	switch format {
	case config.FormatJSON:
		return render.NewJSONRenderer()
	case config.FormatYAML:
		return render.NewYAMLRenderer()
	default:
		return render.NewRedirectsRenderer()
	}
}
