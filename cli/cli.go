// Package cli implements the clings command surface: list views, capture,
// todo and project management, search with filter expressions, bulk
// operations, statistics, the weekly review, shell completions, and the
// interactive TUI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/clings-dev/clings/bulk"
	"github.com/clings-dev/clings/config"
	"github.com/clings-dev/clings/filter"
	"github.com/clings-dev/clings/output"
	"github.com/clings-dev/clings/review"
	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

// Bridge is everything the commands need from the Things client.
type Bridge interface {
	List(ctx context.Context, view things.ListView) ([]*task.Todo, error)
	AllTodos(ctx context.Context) ([]*task.Todo, error)
	Todo(ctx context.Context, id string) (*task.Todo, error)
	Search(ctx context.Context, query string) ([]*task.Todo, error)
	Add(ctx context.Context, t things.NewTodo) (things.CreateResponse, error)
	Update(ctx context.Context, id string, u things.TodoUpdate) error
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id, listName string) error
	SetDue(ctx context.Context, id, due string) error
	Projects(ctx context.Context) ([]*task.Project, error)
	AddProject(ctx context.Context, p things.NewProject) (things.CreateResponse, error)
	Areas(ctx context.Context) ([]*task.Area, error)
	Tags(ctx context.Context) ([]*task.Tag, error)
	Open(ctx context.Context, target string) error
	CompleteBatch(ctx context.Context, ids []string) (things.BatchResult, error)
	CancelBatch(ctx context.Context, ids []string) (things.BatchResult, error)
	AddTagsBatch(ctx context.Context, ids []string, tags string) (things.BatchResult, error)
	MoveBatch(ctx context.Context, ids []string, projectName string) (things.BatchResult, error)
	SetDueBatch(ctx context.Context, ids []string, due string) (things.BatchResult, error)
	ClearDueBatch(ctx context.Context, ids []string) (things.BatchResult, error)
	OpenListsAll(ctx context.Context) (things.OpenLists, error)
	AllListsAll(ctx context.Context) (things.AllLists, error)
}

// App wires the commands to their dependencies.
type App struct {
	bridge Bridge
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	statePath string
	confirm   bulk.ConfirmFunc
	prompter  review.Prompter
	runTUI    func(ctx context.Context, bridge Bridge) error

	// rootOutput holds the --output value parsed before the command word,
	// so subcommand flag sets can fall back to it.
	rootOutput string
}

// AppOption configures an App.
type AppOption func(*App)

// WithOutput redirects command output, for tests.
func WithOutput(stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithNow fixes the clock.
func WithNow(now func() time.Time) AppOption {
	return func(a *App) { a.now = now }
}

// WithStatePath overrides the review state file location.
func WithStatePath(path string) AppOption {
	return func(a *App) { a.statePath = path }
}

// WithBulkConfirm replaces the interactive bulk confirmation.
func WithBulkConfirm(f bulk.ConfirmFunc) AppOption {
	return func(a *App) { a.confirm = f }
}

// WithReviewPrompter replaces the interactive review prompt.
func WithReviewPrompter(p review.Prompter) AppOption {
	return func(a *App) { a.prompter = p }
}

// WithTUI sets the function the tui command launches.
func WithTUI(run func(ctx context.Context, bridge Bridge) error) AppOption {
	return func(a *App) { a.runTUI = run }
}

// NewApp builds the command dispatcher around a bridge.
func NewApp(bridge Bridge, options ...AppOption) *App {
	a := &App{
		bridge: bridge,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
	for _, o := range options {
		o(a)
	}
	return a
}

// listAliases maps bare view commands to list arguments.
var listAliases = map[string]string{
	"today": "today", "t": "today",
	"inbox": "inbox", "i": "inbox",
	"upcoming": "upcoming", "u": "upcoming",
	"anytime": "anytime",
	"someday": "someday", "s": "someday",
	"logbook": "logbook", "l": "logbook",
}

// Run parses args and executes one command, returning the process exit
// code. Global flags may appear before the command; --output also works
// after it.
func (a *App) Run(ctx context.Context, args []string) int {
	fs := a.flagSet("clings")
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(a.stdout, usage)
			return 0
		}
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 2
	}

	if v, err := fs.GetString("output"); err == nil {
		a.rootOutput = v
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprint(a.stdout, usage)
		return 0
	}
	cmd, cmdArgs := rest[0], rest[1:]

	err := a.dispatch(ctx, cmd, cmdArgs)
	if err == nil {
		return 0
	}
	return a.reportError(err)
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	if view, ok := listAliases[cmd]; ok {
		return a.cmdList(ctx, append([]string{view}, args...))
	}

	switch cmd {
	case "list":
		return a.cmdList(ctx, args)
	case "add", "a":
		return a.cmdAdd(ctx, args)
	case "todo":
		return a.cmdTodo(ctx, args)
	case "project":
		return a.cmdProject(ctx, args)
	case "search":
		return a.cmdSearch(ctx, args)
	case "open":
		return a.cmdOpen(ctx, args)
	case "bulk", "b":
		return a.cmdBulk(ctx, args)
	case "stats":
		return a.cmdStats(ctx, args)
	case "review", "r":
		return a.cmdReview(ctx, args)
	case "shell":
		return a.cmdShell(args)
	case "tui":
		if a.runTUI == nil {
			return errors.New("tui is not available in this build")
		}
		return a.runTUI(ctx, a.bridge)
	case "help":
		fmt.Fprint(a.stdout, usage)
		return nil
	case "version":
		fmt.Fprintf(a.stdout, "clings version %s\ncommit: %s\nbuilt: %s\n",
			config.Version, config.GitCommit, config.BuildDate)
		return nil
	default:
		return fmt.Errorf("unknown command %q, run 'clings help' for usage", cmd)
	}
}

// flagSet builds a pflag set with the global flags every command accepts.
func (a *App) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringP("output", "o", "", "output format: pretty, simple, or json")
	fs.String("log-level", "", "log level: debug, info, warn, or error")
	return fs
}

// format resolves the output format: the subcommand flag wins, then the
// root flag, then the configured default.
func (a *App) format(fs *pflag.FlagSet) output.Format {
	if v, err := fs.GetString("output"); err == nil && v != "" {
		return output.ParseFormat(v)
	}
	if a.rootOutput != "" {
		return output.ParseFormat(a.rootOutput)
	}
	return output.ParseFormat(config.GetOutputFormat())
}

func (a *App) renderer(fs *pflag.FlagSet) *output.Renderer {
	return output.NewRenderer(a.stdout, a.format(fs))
}

func (a *App) today() task.Date {
	return task.DateOf(a.now())
}

func (a *App) reportError(err error) int {
	var ferr *filter.FilterError
	if errors.As(err, &ferr) {
		fmt.Fprintln(a.stderr, ferr.Diagnostic())
		return 1
	}
	if errors.Is(err, bulk.ErrCancelled) {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	var terr *things.Error
	if errors.As(err, &terr) {
		fmt.Fprintln(a.stderr, "error:", terr)
		return 1
	}
	fmt.Fprintln(a.stderr, "error:", err)
	return 1
}

const usage = `clings - a Things 3 command line interface

Usage: clings [flags] <command> [args]

Commands:
  list [view]      Show a list view (today, inbox, upcoming, anytime,
                   someday, logbook, areas, tags, projects)
  today, inbox, upcoming, anytime, someday, logbook
                   Shortcuts for the matching list view
  add <text>       Quick add with natural language
  todo <cmd> <id>  show, complete, cancel, delete, update
  project <cmd>    list, show <id>, add <title>
  search [query]   Search todos; --filter takes an expression
  open <target>    Open a view or item in Things
  bulk <cmd>       complete, cancel, tag, move, set-due, clear-due
  stats            Productivity dashboard, --trends, --heatmap
  review           Guided weekly review, --resume, --status, --clear
  shell            completions <bash|zsh|fish>
  tui              Interactive terminal UI
  version          Print version information

Flags:
  -o, --output     pretty (default), simple, or json
      --log-level  debug, info, warn, or error

Filter expressions (search --filter, bulk --where):
  Fields:    status, due, tags, project, area, name, notes
  Operators: =, !=, <, >, LIKE, CONTAINS, IS NULL
  Logic:     AND, OR, NOT, parentheses
  Example:   status = open AND (due < today OR tags CONTAINS 'urgent')
`
