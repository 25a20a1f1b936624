// Package commands implements the CLI commands for rpmd.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/rpmd/internal/app"
	"go.trai.ch/rpmd/internal/build"
	"go.trai.ch/rpmd/internal/core/domain"
)

// CLI represents the command line interface for rpmd.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	global  globalFlags
}

// Application represents the application logic interface.
type Application interface {
	ServeDaemon(ctx context.Context, opts app.DaemonOptions) error
	DaemonStatus(ctx context.Context, opts app.ClientOptions) error
	StopDaemon(ctx context.Context, opts app.ClientOptions) error

	ListRepos(ctx context.Context, opts app.ClientOptions, patterns []string) error
	ListRepoConf(ctx context.Context, opts app.ClientOptions, ids []string) error
	GetRepoConf(ctx context.Context, opts app.ClientOptions, id string) error
	EnableRepos(ctx context.Context, opts app.ClientOptions, ids []string) error
	DisableRepos(ctx context.Context, opts app.ClientOptions, ids []string) error
	RepoQuery(ctx context.Context, opts app.ClientOptions, patterns []string, query app.QueryOptions) error

	RunGoal(ctx context.Context, opts app.ClientOptions, action domain.GoalAction, specs []string, goal app.GoalOptions) error
	CreateRepo(ctx context.Context, dir, manifest string) error
}

type globalFlags struct {
	settings     string
	socket       string
	installroot  string
	configFile   string
	reposdir     []string
	cachedir     string
	enableRepos  []string
	disableRepos []string
	json         bool
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "rpmd",
		Short:         "A session-scoped package resolution daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.global.settings, "config", "", "Path to the daemon settings file")
	flags.StringVar(&c.global.socket, "socket", "", "Path to the daemon socket")
	flags.StringVar(&c.global.installroot, "installroot", "", "Operate on this installation root")
	flags.StringVar(&c.global.configFile, "config-file", "", "Main configuration file of the session")
	flags.StringSliceVar(&c.global.reposdir, "reposdir", nil, "Directories searched for .repo files")
	flags.StringVar(&c.global.cachedir, "cachedir", "", "Metadata cache directory")
	flags.StringSliceVar(&c.global.enableRepos, "enablerepo", nil, "Enable repositories for this command")
	flags.StringSliceVar(&c.global.disableRepos, "disablerepo", nil, "Disable repositories for this command")
	flags.BoolVar(&c.global.json, "json", false, "Print machine-readable output")

	rootCmd.AddCommand(c.newDaemonCmd())
	rootCmd.AddCommand(c.newRepoCmd())
	rootCmd.AddCommand(c.newRepoConfCmd())
	rootCmd.AddCommand(c.newRepoQueryCmd())
	for _, action := range goalActions {
		rootCmd.AddCommand(c.newGoalCmd(action))
	}
	rootCmd.AddCommand(c.newCreateRepoCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// clientOptions collects the global flags into the options of one command.
func (c *CLI) clientOptions() app.ClientOptions {
	session := map[string]any{}
	if c.global.installroot != "" {
		session[domain.SessionOptInstallroot] = c.global.installroot
	}
	if c.global.configFile != "" {
		session[domain.SessionOptConfigFilePath] = c.global.configFile
	}
	if len(c.global.reposdir) > 0 {
		session[domain.SessionOptReposdir] = strings.Join(c.global.reposdir, ",")
	}
	if c.global.cachedir != "" {
		session[domain.SessionOptCachedir] = c.global.cachedir
	}
	return app.ClientOptions{
		SettingsPath: c.global.settings,
		Socket:       c.global.socket,
		Session:      session,
		EnableRepos:  c.global.enableRepos,
		DisableRepos: c.global.disableRepos,
		JSON:         c.global.json,
	}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
