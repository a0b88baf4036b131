package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

var (
	// ErrUsage is returned when the command line cannot be used to start a run.
	ErrUsage = errors.New("usage: ledger [flags] <transactions.csv>")
	// ErrSharedStdout is returned when the snapshot and the rejection log
	// would both be written to stdout.
	ErrSharedStdout = errors.New("-o and -rejections cannot both write to stdout")
)

type Config struct {
	InputPath      string
	OutputPath     string
	RejectionsPath string
	MetricsPath    string
	DBSource       string
	LogLevel       string
	Env            string
}

// Load reads flags from args and falls back to the environment for the
// settings that are usually supplied by the deployment.
func Load(args []string, getenv func(string) string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.OutputPath, "o", "-", "snapshot output path, - for stdout")
	fs.StringVar(&cfg.RejectionsPath, "rejections", "", "write the rejection log as CSV to this path, - for stdout when -o is a file")
	fs.StringVar(&cfg.MetricsPath, "metrics", "", "write Prometheus metrics in textfile format to this path")
	fs.StringVar(&cfg.DBSource, "db", getenv("DB_SOURCE"), "PostgreSQL DSN to export the run to (env DB_SOURCE)")
	fs.StringVar(&cfg.LogLevel, "log-level", withDefault(getenv("LOG_LEVEL"), "info"), "debug, info, warn or error (env LOG_LEVEL)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), ErrUsage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, ErrUsage
	}
	cfg.InputPath = fs.Arg(0)

	if cfg.OutputPath == "-" && cfg.RejectionsPath == "-" {
		return nil, ErrSharedStdout
	}

	cfg.Env = withDefault(getenv("ENVIRONMENT"), "development")

	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
