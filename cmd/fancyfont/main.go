package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dyne/fancyfont/internal/config"
	"github.com/dyne/fancyfont/internal/inspect"
	"github.com/dyne/fancyfont/internal/log"
	"github.com/dyne/fancyfont/internal/plan"
	"github.com/dyne/fancyfont/internal/preview"
	"github.com/dyne/fancyfont/internal/prompt"
	"github.com/dyne/fancyfont/internal/restyle"
	"github.com/dyne/fancyfont/internal/server"
	"github.com/dyne/fancyfont/internal/style"
)

type globalOptions struct {
	Verbose bool
	Config  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootOpts := &globalOptions{}
	root := &cobra.Command{
		Use:           "fancyfont",
		Short:         "Restyle plain text with Unicode letter variants",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&rootOpts.Verbose, "verbose", false, "enable debug logging")
	root.PersistentFlags().StringVar(&rootOpts.Config, "config", "", "configuration file")

	root.AddCommand(listCmd())
	root.AddCommand(transformCmd(rootOpts))
	root.AddCommand(previewCmd(rootOpts))
	root.AddCommand(plainCmd())
	root.AddCommand(promptCmd(rootOpts))
	root.AddCommand(serveCmd(rootOpts))
	root.AddCommand(inspectCmd(rootOpts))
	root.AddCommand(planCmd(rootOpts))
	root.AddCommand(restyleCmd(rootOpts))
	return root
}

func (o *globalOptions) logger(cmd *cobra.Command) *log.Logger {
	level := log.LevelInfo
	if o.Verbose {
		level = log.LevelDebug
	}
	return log.New(level, cmd.ErrOrStderr())
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return preview.Styles(cmd.OutOrStdout())
		},
	}
}

func transformCmd(rootOpts *globalOptions) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "transform [text...]",
		Short: "Apply one style to the arguments, or to stdin line by line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				return err
			}
			if id == "" {
				id = cfg.Style
			}
			if err := style.Check(id); err != nil {
				return err
			}
			return eachInput(cmd, args, func(text string) string {
				return style.Transform(text, id)
			})
		},
	}
	cmd.Flags().StringVarP(&id, "style", "s", "", "style id (see list)")
	return cmd
}

func plainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plain [text...]",
		Short: "Fold styled letters back to plain text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachInput(cmd, args, style.Plain)
		},
	}
}

// eachInput applies fn to the joined args, or to every stdin line when no
// args are given.
func eachInput(cmd *cobra.Command, args []string, fn func(string) string) error {
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		_, err := fmt.Fprintln(out, fn(strings.Join(args, " ")))
		return err
	}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(out, fn(scanner.Text())); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func previewCmd(rootOpts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [text...]",
		Short: "Show the text in every configured style",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimRight(string(data), "\r\n")
			}
			return preview.Table(cmd.OutOrStdout(), text, cfg.PreviewStyles(), terminalWidth(cmd.OutOrStdout()))
		},
	}
}

func promptCmd(rootOpts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Preview styles interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sess := prompt.NewSession(out, cfg.PreviewStyles(), terminalWidth(out))
			return prompt.Run(sess, rootOpts.logger(cmd))
		},
	}
}

func serveCmd(rootOpts *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve style previews over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			srv := server.New(addr, cfg.PreviewStyles(), rootOpts.logger(cmd))
			if err := srv.Start(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return srv.Close()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func inspectCmd(rootOpts *globalOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List tables and the text columns a config can restyle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect.Run(cmd.Context(), inPath, cmd.OutOrStdout(), rootOpts.logger(cmd))
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input SQLite file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func planCmd(rootOpts *globalOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which columns a restyle would rewrite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				return err
			}
			return plan.Run(cmd.Context(), inPath, cfg, cmd.OutOrStdout(), rootOpts.logger(cmd))
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input SQLite file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func restyleCmd(rootOpts *globalOptions) *cobra.Command {
	var opts restyle.Options
	cmd := &cobra.Command{
		Use:   "restyle",
		Short: "Copy a SQLite database, restyling configured text columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.Logger = rootOpts.logger(cmd)
			_, err = restyle.Run(cmd.Context(), opts)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.InPath, "in", "", "input SQLite file")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "output SQLite file")
	cmd.Flags().StringVar(&opts.FKMode, "fk", "on", "foreign key enforcement (on|off)")
	cmd.Flags().StringVar(&opts.Triggers, "triggers", "on", "trigger creation (on|off)")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 4, "parallelism")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// terminalWidth is 0 (no truncation) unless w is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
