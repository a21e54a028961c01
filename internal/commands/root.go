// Package commands provides the voicetasks command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"voicetasks/internal/backend/googletasks"
	"voicetasks/internal/config"
	"voicetasks/internal/credentials"
	"voicetasks/internal/exitcode"
	"voicetasks/internal/logging"
	"voicetasks/internal/service"
	"voicetasks/internal/telephony"
)

// DefaultEnvFile is loaded before the environment is read, if present.
const DefaultEnvFile = ".env"

// ServiceFactory creates the task service for a command.
type ServiceFactory func(cfg *config.Config) (service.Service, error)

// CallerFactory creates the outbound call placer.
type CallerFactory func(tw config.Twilio) (telephony.Caller, error)

// Options holds the collaborators the commands are built with.
// Zero values fall back to the production implementations.
type Options struct {
	Version string

	NewService ServiceFactory
	NewCaller  CallerFactory

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// app is the state shared by all commands of one invocation.
type app struct {
	opts Options

	envFile    string
	secretsDir string
	debug      bool
	quiet      bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.NewService == nil {
		opts.NewService = func(cfg *config.Config) (service.Service, error) {
			return googletasks.New(credentials.Default(cfg)), nil
		}
	}
	if opts.NewCaller == nil {
		opts.NewCaller = func(tw config.Twilio) (telephony.Caller, error) {
			return telephony.NewTwilioCaller(tw)
		}
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Capture spoken tasks from a phone call into Google Tasks",
		Long: `voicetasks rings your phone, asks for today's tasks, and files every
item you say as a separate entry in your Google Tasks account.

Run "voicetasks login" once to authorize the account, then
"voicetasks serve" to expose the call webhooks.`,
		Version:           opts.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate(`{{printf "voicetasks version %s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", DefaultEnvFile, "Dotenv file loaded before reading the environment")
	pf.StringVar(&a.secretsDir, "secrets-dir", "", "Directory holding credentials.json and token.json (default \""+config.DefaultSecretsDir+"\")")
	pf.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Suppress confirmation output")

	root.AddCommand(
		newServeCmd(a),
		newLoginCmd(a),
		newListsCmd(a),
		newAddCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads the dotenv file and builds the configuration.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := loadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg := config.FromEnv(a.opts.Getenv)
	if a.secretsDir != "" {
		cfg.SecretsDir = a.secretsDir
	}
	cfg.Debug = a.debug
	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), cfg.Debug)
	return nil
}

// loadEnvFile loads path into the process environment. Variables that are
// already set win, and a missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// service creates the task service.
func (a *app) service() (service.Service, error) {
	svc, err := a.opts.NewService(a.cfg)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// println writes a confirmation line unless --quiet is set.
func (a *app) println(w io.Writer, msg string) {
	if !a.quiet {
		fmt.Fprintln(w, msg)
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, opts Options, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitcode.FromError(err)
	}
	return exitcode.Success
}
