package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/calumari/dbind"
	"github.com/calumari/dbind/internal/logattr"
)

const (
	defaultInput  = "input.html"
	defaultData   = "data.json"
	defaultOutput = "output.html"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dbind [input.html] [data.json] [output.html]",
		Short: "Bind JSON data into an HTML template",
		Long: `dbind replaces the content of every element carrying a d="key"
attribute in the input HTML with the matching value from the data file
and writes the result to the output file.

Data files ending in .tsv or .txt/.rec are read as tab-separated values
or records; everything else is read as JSON.`,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotenv(); err != nil {
				return err
			}
			cfg, err := loadConfig(nil)
			if err != nil {
				return err
			}
			return run(cfg, args, cmd.ErrOrStderr())
		},
	}
}

// positional fills in the defaults for missing positional arguments.
func positional(args []string) (input, data, output string) {
	input, data, output = defaultInput, defaultData, defaultOutput
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 {
		data = args[1]
	}
	if len(args) > 2 {
		output = args[2]
	}
	return input, data, output
}

func run(cfg config, args []string, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	b, err := cfg.binder()
	if err != nil {
		return err
	}

	input, data, output := positional(args)
	res, err := dbind.ProcessFiles(input, data, output,
		dbind.WithBinder(b),
		dbind.WithLogger(logger),
	)
	if err != nil {
		logger.Debug("process failed", logattr.Error(err))
		return err
	}

	if len(res.Missing) > 0 {
		logger.Warn("missing data", logattr.Keys(res.Missing), logattr.Path("input", input))
	}
	return nil
}
