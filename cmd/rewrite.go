package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/assetpipe/core"
	"github.com/gaurav-prasanna/assetpipe/core/asseturl"
	"github.com/gaurav-prasanna/assetpipe/core/extract"
	"github.com/gaurav-prasanna/assetpipe/core/fetch"
	"github.com/gaurav-prasanna/assetpipe/core/output"
	"github.com/gaurav-prasanna/assetpipe/core/report"
	"github.com/gaurav-prasanna/assetpipe/core/rewrite"
	"github.com/gaurav-prasanna/assetpipe/discover"
)

func newRewriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite",
		Short: "Rewrite image references in every HTML document of the published site",
		Long: `Rewrite finds every .html file below the publish directory and points its
<img> src/srcset, <link rel="preload" as="image"> href and <picture> source
srcset attributes at the CDN. Documents are rewritten in place.

Examples:
  assetpipe rewrite --publish-dir public
  assetpipe rewrite --dry-run --report errors.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.rewriteDocuments(cmd.Context()); err != nil {
				return err
			}
			return a.finish()
		},
	}
}

// pipeline is the per-run set of stages a document goes through:
// fetch → rewrite → write.
type pipeline struct {
	fetcher  core.Fetcher
	rewriter *rewrite.Rewriter
	writer   *output.Writer
}

// rewriteDocuments rewrites all documents below the site root. Documents are
// independent and run concurrently; their errors are merged into the report
// in discovery order once all of them are done.
func (a *app) rewriteDocuments(ctx context.Context) error {
	rc, err := a.cfg.RewriteConfig()
	if err != nil {
		a.log.Error().Err(err).Msg("Configuration error")
		return err
	}

	writer, err := output.New(rc.SiteRootDir, a.cfg.DryRun)
	if err != nil {
		return err
	}
	p := &pipeline{
		fetcher:  fetch.New(),
		rewriter: rewrite.New(extract.New(), asseturl.New(rc), a.log.Logger),
		writer:   writer,
	}

	pages, err := discover.FindDocuments(ctx, rc.SiteRootDir)
	if err != nil {
		a.log.Error().Err(err).Msg("Error finding HTML files")
		return nil
	}
	a.log.Info().Int("pages", len(pages)).Msg("Rewriting documents...")

	results := make([]report.PageErrors, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, page := range pages {
		if gctx.Err() != nil {
			break
		}
		i, page := i, page
		g.Go(func() error {
			results[i] = p.process(gctx, page)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.report.Merge(results...)

	rewritten := 0
	for _, r := range results {
		if len(r.Errors) == 0 {
			rewritten++
		}
	}
	a.log.Info().Int("pages", len(pages)).Int("clean", rewritten).Bool("dry_run", a.cfg.DryRun).Msg("Rewrite finished")
	return nil
}

// process runs a single document through the pipeline. Any failure is
// returned as the page's errors; the document is only written when it was
// rewritten.
func (p *pipeline) process(ctx context.Context, page string) report.PageErrors {
	pe := report.PageErrors{Page: page}

	// 1. Fetch
	doc, err := p.fetcher.Fetch(ctx, page)
	if err != nil {
		pe.Errors = pageError(page, fmt.Errorf("fetch: %w", err))
		return pe
	}

	// 2. Rewrite
	result, err := p.rewriter.Rewrite(doc.HTML, doc.Path)
	if err != nil {
		pe.Errors = pageError(page, fmt.Errorf("rewrite: %w", err))
		return pe
	}
	pe.Errors = result.Errors

	// 3. Write
	if err := p.writer.WriteDocument(page, result.HTML); err != nil {
		pe.Errors = append(pe.Errors, pageError(page, err)...)
	}
	return pe
}

func pageError(page string, err error) []core.RewriteError {
	return []core.RewriteError{{Source: page, Message: err.Error()}}
}
