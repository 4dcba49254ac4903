package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ajiwo/carrot"
	"github.com/ajiwo/carrot/backends"
	"github.com/ajiwo/carrot/backends/queue"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// errProcessLocal is returned when get or purge names the in-process queue,
// whose contents never outlive a single command.
var errProcessLocal = errors.New("in-process queue backend holds no messages between commands")

// openBroker opens name like carrot.Open but rejects the in-process queue.
func openBroker(name string, cfg carrot.Config) (backends.Backend, error) {
	t, err := carrot.Resolve(name)
	if err != nil {
		return nil, err
	}
	if t.Module == queue.Module {
		return nil, fmt.Errorf("%s: %w", name, errProcessLocal)
	}
	return carrot.Open(name, cfg)
}

type cliOptions struct {
	ConfigFile string
	LogLevel   string
}

// session is the state shared by subcommands after the root pre-run
type session struct {
	config carrot.Config
	log    zerolog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}
	sess := &session{}

	cmd := &cobra.Command{
		Use:           "carrot",
		Short:         "Resolve and exercise messaging backends",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return sess.init(cmd, opts)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	addRootFlags(cmd.PersistentFlags(), opts)
	cmd.AddCommand(
		newResolveCommand(),
		newDefaultCommand(),
		newAliasesCommand(),
		newModulesCommand(),
		newPublishCommand(sess),
		newGetCommand(sess),
		newPurgeCommand(sess),
	)
	return cmd
}

func addRootFlags(fs *pflag.FlagSet, opts *cliOptions) {
	fs.StringVar(&opts.ConfigFile, "config", "", "Config file path (default: $HOME/.carrot/config.*)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

// init loads configuration, sets up logging and selects the default backend.
// A default backend that cannot be resolved aborts the command.
func (s *session) init(cmd *cobra.Command, opts *cliOptions) error {
	v, err := carrot.NewViper(opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		v.Set("log_level", opts.LogLevel)
	}

	cfg, err := carrot.LoadConfig(v)
	if err != nil {
		return err
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel)

	s.config = cfg
	s.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: os.Getenv("NO_COLOR") != ""}).
		Level(level).
		With().Timestamp().Logger()

	if err := carrot.Init(carrot.WithSettings(v), carrot.WithLogger(s.log)); err != nil {
		return fmt.Errorf("default backend: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type resolution struct {
	Name        string `json:"name"`
	Module      string `json:"module"`
	Source      string `json:"source"`
	Backend     string `json:"backend"`
	Description string `json:"description,omitempty"`
}

func describe(name string, t *backends.Type) resolution {
	_, source := backends.ModulePath(name)
	return resolution{
		Name:        name,
		Module:      t.Module,
		Source:      source.String(),
		Backend:     t.Name,
		Description: t.Description,
	}
}

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve NAME",
		Short: "Show which backend module a name resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := carrot.Resolve(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), describe(args[0], t))
		},
	}
}

func newDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Show the default backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := carrot.DefaultBackend()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), describe(backends.DefaultBackendName(), t))
		},
	}
}

func newAliasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "List backend aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), backends.Aliases())
		},
	}
}

func newModulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List registered backend modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]resolution, 0)
			for _, module := range backends.Modules() {
				t, err := carrot.Resolve(module)
				if err != nil {
					continue
				}
				out = append(out, describe(module, t))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newPublishCommand(sess *session) *cobra.Command {
	var contentType string
	var headers []string

	cmd := &cobra.Command{
		Use:   "publish NAME QUEUE BODY",
		Short: "Publish a message through a backend",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := carrot.Open(args[0], sess.config)
			if err != nil {
				return err
			}
			defer b.Close()

			msg := backends.NewMessage([]byte(args[2]), contentType)
			for _, h := range headers {
				k, v, ok := strings.Cut(h, "=")
				if !ok {
					return fmt.Errorf("header %q must be key=value", h)
				}
				msg.Headers[k] = v
			}

			ctx := cmd.Context()
			if err := b.Declare(ctx, args[1]); err != nil {
				return err
			}
			if err := b.Publish(ctx, args[1], msg); err != nil {
				return err
			}
			sess.log.Info().Str("queue", args[1]).Str("id", msg.ID).Msg("published")
			return writeJSON(cmd.OutOrStdout(), map[string]string{"id": msg.ID})
		},
	}
	cmd.Flags().StringVar(&contentType, "content-type", "text/plain", "Message content type")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Message header key=value (repeatable)")
	return cmd
}

func newGetCommand(sess *session) *cobra.Command {
	var ack bool

	cmd := &cobra.Command{
		Use:   "get NAME QUEUE",
		Short: "Fetch one message from a queue",
		Long: "Fetch one message from a broker queue.\n\n" +
			"The in-process memory backend is rejected: each command starts with an empty queue.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBroker(args[0], sess.config)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx := cmd.Context()
			msg, err := b.Get(ctx, args[1])
			if err != nil {
				return err
			}
			if ack {
				if err := b.Ack(ctx, msg); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				*backends.Message
				Body string `json:"body"`
			}{msg, string(msg.Body)})
		},
	}
	cmd.Flags().BoolVar(&ack, "ack", true, "Acknowledge the message after printing")
	return cmd
}

func newPurgeCommand(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "purge NAME QUEUE",
		Short: "Discard all waiting messages in a queue",
		Long: "Discard all waiting messages in a broker queue.\n\n" +
			"The in-process memory backend is rejected: each command starts with an empty queue.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBroker(args[0], sess.config)
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := b.Purge(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]int{"purged": n})
		},
	}
}

