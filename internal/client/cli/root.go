package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/trainpi/internal/client/config"
	"github.com/spf13/cobra"
)

type runFunc func(ctx context.Context, a *App, args []string) error

// runner turns a runFunc into a cobra RunE that builds the App from the
// resolved config and closes it afterwards.
type runner func(runFunc) func(*cobra.Command, []string) error

// rootOptions are the persistent flags. Flags that were set explicitly
// override the config file.
type rootOptions struct {
	configPath string
	serverAddr string
	grpcAddr   string
	transport  string
	dbPath     string
	timeout    time.Duration
	logBackend string
}

func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerAddr = o.serverAddr
	}
	if flags.Changed("grpc-addr") {
		cfg.GRPCAddr = o.grpcAddr
	}
	if flags.Changed("transport") {
		cfg.Transport = o.transport
	}
	if flags.Changed("db") {
		cfg.DBPath = o.dbPath
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = o.timeout
	}
	if flags.Changed("log-backend") {
		cfg.LogBackend = o.logBackend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRootCmd builds the trainpi command tree reading from in and writing
// to out. Logs and errors go to errOut.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "trainpi",
		Short:         "TrainPi exceptions client",
		Long:          "Lists, creates and clears training exceptions. Works from the local cache when the server is unreachable.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (JSON, or YAML with a .yaml/.yml extension)")
	pf.StringVar(&opts.serverAddr, "server", "", "REST API base URL")
	pf.StringVar(&opts.grpcAddr, "grpc-addr", "", "gRPC endpoint host:port")
	pf.StringVar(&opts.transport, "transport", "", "transport to the server: http or grpc")
	pf.StringVar(&opts.dbPath, "db", "", "local SQLite database path")
	pf.DurationVar(&opts.timeout, "timeout", 0, "remote request timeout")
	pf.StringVar(&opts.logBackend, "log-backend", "", "log backend: slog or zap")

	run := func(fn runFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			a, err := NewApp(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			return fn(cmd.Context(), a, args)
		}
	}

	root.AddCommand(
		newRegisterCmd(run),
		newLoginCmd(run),
		newLogoutCmd(run),
		newStatusCmd(run),
		newExceptionsCmd(run),
		newProfileCmd(run),
		newFormatDurationCmd(),
		newShellCmd(run),
	)
	return root
}

// Execute runs the command line in os.Args against the terminal.
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
}
