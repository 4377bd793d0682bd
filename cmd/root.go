package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ErrInvalidOption is returned for flag values outside their accepted range.
var ErrInvalidOption = errors.New("invalid option")

type options struct {
	target    int
	pages     int
	minAge    int
	order     string
	kinds     []string
	format    string
	timeoutMS int
	headful   bool
	engine    string
	config    string
	output    string
	exportDB  string
	verbose   bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "hnsort",
		Short: "Collect the newest Hacker News stories in time order",
		Long: `hnsort walks the "newest" listing page by page until it holds the requested
number of distinct stories, turns their relative ages into timestamps and
prints them sorted as text, JSON or CSV.`,
		Example: `  hnsort                        # newest 100 stories, newest first
  hnsort --target=50 --order=asc
  hnsort --target=200 --format=json --output=stories.json
  hnsort --min-age=60 --format=csv
  hnsort --kind=show,launch
  hnsort browse                 # interactive list`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, opts)
		},
	}

	f := root.PersistentFlags()
	f.IntVar(&opts.target, "target", 100, "number of stories to collect")
	f.IntVar(&opts.pages, "pages", 10, "maximum number of listing pages to read")
	f.IntVar(&opts.minAge, "min-age", 0, "drop stories younger than this many minutes")
	f.StringVar(&opts.order, "order", "desc", "final ordering: asc (oldest first) or desc (newest first)")
	f.StringSliceVar(&opts.kinds, "kind", nil, "keep only these post types: ask, show, launch, tell, story")
	f.StringVar(&opts.format, "format", "pretty", "output format: pretty, json or csv")
	f.IntVar(&opts.timeoutMS, "timeout", 15000, "per-step navigation and extraction timeout in milliseconds")
	f.BoolVar(&opts.headful, "headful", false, "show the browser window")
	f.StringVar(&opts.engine, "engine", "browser", "page engine: browser (headless Chrome) or http")
	f.StringVar(&opts.config, "config", "", "path to config file")
	f.StringVarP(&opts.output, "output", "o", "", "write the result to a file instead of stdout")
	f.StringVar(&opts.exportDB, "export-db", "", "also save the run to this SQLite file")
	f.Lookup("export-db").NoOptDefVal = defaultExportPath()
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log crawl progress to stderr")

	root.SetHelpCommand(newHelpCmd())
	root.AddCommand(newBrowseCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// newHelpCmd replaces cobra's help command so that "h" works as well.
func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "help [command]",
		Aliases: []string{"h"},
		Short:   "Help about any command",
		Run: func(cmd *cobra.Command, args []string) {
			target, _, err := cmd.Root().Find(args)
			if target == nil || err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Unknown help topic %q\n", args)
				target = cmd.Root()
			}
			_ = target.Help()
		},
	}
}

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hnsort %s (commit: %s, built: %s)\n", version, commit, date)
			if check {
				printUpdate(cmd)
			}
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
