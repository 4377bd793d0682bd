package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/matheuskafuri/hnsort/internal/crawl"
	"github.com/matheuskafuri/hnsort/internal/logging"
	"github.com/matheuskafuri/hnsort/internal/tui"
	"github.com/spf13/cobra"
)

func newBrowseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Crawl and browse the result in an interactive list",
		Long: `Run the same crawl as the root command and show the stories in a two-pane
terminal browser. Press r to crawl again and ? for keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			// The alternate screen owns the terminal; only --verbose logs go through.
			var logOut io.Writer = io.Discard
			if s.verbose {
				logOut = cmd.ErrOrStderr()
			}
			base := s.logger(logOut)

			return tui.Run(tui.RunOpts{
				Crawl: func(uiCtx context.Context) (*crawl.Result, error) {
					runCtx, cancel := context.WithCancel(ctx)
					defer cancel()
					stopUI := context.AfterFunc(uiCtx, cancel)
					defer stopUI()
					return s.runCrawl(runCtx, logging.ForRun(base, logging.NewRunID()))
				},
				BaseURL: s.cfg.StartURL,
				Order:   s.orderOptions(),
				Kinds:   s.cfg.KindSet(),
			})
		},
	}
}
