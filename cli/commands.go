package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clings-dev/clings/filter"
	"github.com/clings-dev/clings/quickadd"
	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

func (a *App) cmdList(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view := "today"
	if rest := fs.Args(); len(rest) > 0 {
		view = strings.ToLower(rest[0])
	}
	r := a.renderer(fs)

	switch view {
	case "areas":
		areas, err := a.bridge.Areas(ctx)
		if err != nil {
			return err
		}
		return r.Areas(areas)
	case "tags":
		tags, err := a.bridge.Tags(ctx)
		if err != nil {
			return err
		}
		return r.Tags(tags)
	case "projects":
		projects, err := a.bridge.Projects(ctx)
		if err != nil {
			return err
		}
		return r.Projects(projects)
	}

	lv, ok := things.ParseListView(view)
	if !ok {
		return fmt.Errorf("unknown list view %q, valid views: today, inbox, upcoming, anytime, someday, logbook, areas, tags, projects", view)
	}
	todos, err := a.bridge.List(ctx, lv)
	if err != nil {
		return err
	}
	r.Message("%s", lv)
	return r.Todos(todos, a.today())
}

func (a *App) cmdAdd(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	parseOnly := fs.Bool("parse-only", false, "show what would be created without creating it")
	project := fs.String("project", "", "override the detected project")
	area := fs.String("area", "", "override the detected area")
	when := fs.StringP("when", "w", "", "override the detected schedule date")
	deadline := fs.StringP("deadline", "d", "", "override the detected deadline")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.Join(fs.Args(), " ")
	parsed, err := quickadd.Parse(text, a.today())
	if err != nil {
		return err
	}
	if *project != "" {
		parsed.Project = *project
	}
	if *area != "" {
		parsed.Area = *area
	}
	if *when != "" {
		parsed.When = *when
	}
	if *deadline != "" {
		parsed.Deadline = *deadline
	}

	r := a.renderer(fs)
	if *parseOnly {
		return r.JSON(parsed)
	}

	resp, err := a.bridge.Add(ctx, parsed.NewTodo())
	if err != nil {
		return err
	}
	return r.Created("todo", resp)
}

func (a *App) cmdTodo(ctx context.Context, args []string) error {
	fs := a.flagSet("todo")
	title := fs.String("title", "", "new title (update)")
	notes := fs.String("notes", "", "new notes (update)")
	when := fs.String("when", "", "new schedule date (update)")
	deadline := fs.String("deadline", "", "new deadline (update)")
	tags := fs.String("tags", "", "replacement tags, comma-separated (update)")
	project := fs.String("project", "", "move to project (update)")
	area := fs.String("area", "", "move to area (update)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) < 2 {
		return errors.New("usage: clings todo <show|complete|cancel|delete|update> <id>")
	}
	sub, id := rest[0], rest[1]
	r := a.renderer(fs)

	switch sub {
	case "show":
		t, err := a.bridge.Todo(ctx, id)
		if err != nil {
			return err
		}
		return r.TodoDetail(t, a.today())
	case "complete":
		if err := a.bridge.Complete(ctx, id); err != nil {
			return err
		}
		r.Message("Completed todo: %s", id)
		return nil
	case "cancel":
		if err := a.bridge.Cancel(ctx, id); err != nil {
			return err
		}
		r.Message("Canceled todo: %s", id)
		return nil
	case "delete":
		if err := a.bridge.Delete(ctx, id); err != nil {
			return err
		}
		r.Message("Canceled todo: %s (the scripting interface does not support true deletion)", id)
		return nil
	case "update":
		u := things.TodoUpdate{}
		set := func(flag string, target **string, value *string) {
			if fs.Changed(flag) {
				*target = value
			}
		}
		set("title", &u.Name, title)
		set("notes", &u.Notes, notes)
		set("when", &u.When, when)
		set("deadline", &u.Deadline, deadline)
		set("tags", &u.Tags, tags)
		set("project", &u.Project, project)
		set("area", &u.Area, area)
		if err := a.bridge.Update(ctx, id, u); err != nil {
			return err
		}
		r.Message("Updated todo: %s", id)
		return nil
	default:
		return fmt.Errorf("unknown todo command %q", sub)
	}
}

func (a *App) cmdProject(ctx context.Context, args []string) error {
	fs := a.flagSet("project")
	notes := fs.StringP("notes", "n", "", "project notes")
	area := fs.StringP("area", "a", "", "area to organize under")
	tags := fs.StringP("tags", "t", "", "tags, comma-separated")
	due := fs.StringP("due", "d", "", "project deadline")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	sub := "list"
	if len(rest) > 0 {
		sub = rest[0]
	}
	r := a.renderer(fs)

	switch sub {
	case "list":
		projects, err := a.bridge.Projects(ctx)
		if err != nil {
			return err
		}
		return r.Projects(projects)
	case "show":
		if len(rest) < 2 {
			return errors.New("usage: clings project show <id>")
		}
		projects, err := a.bridge.Projects(ctx)
		if err != nil {
			return err
		}
		for _, p := range projects {
			if p.ID == rest[1] {
				return r.ProjectDetail(p)
			}
		}
		return &things.Error{Kind: things.ErrNotFound, Detail: "project " + rest[1]}
	case "add":
		if len(rest) < 2 {
			return errors.New("usage: clings project add <title>")
		}
		p := things.NewProject{
			Name:     strings.Join(rest[1:], " "),
			Notes:    *notes,
			Area:     *area,
			Deadline: *due,
		}
		if *tags != "" {
			for _, t := range strings.Split(*tags, ",") {
				p.Tags = append(p.Tags, strings.TrimSpace(t))
			}
		}
		resp, err := a.bridge.AddProject(ctx, p)
		if err != nil {
			return err
		}
		return r.Created("project", resp)
	default:
		return fmt.Errorf("unknown project command %q", sub)
	}
}

func (a *App) cmdSearch(ctx context.Context, args []string) error {
	fs := a.flagSet("search")
	tag := fs.String("tag", "", "require a tag")
	project := fs.String("project", "", "require a project")
	due := fs.String("due", "", "require a due date (today, tomorrow, or yyyy-mm-dd)")
	filterExpr := fs.StringP("filter", "f", "", "filter expression")
	if err := fs.Parse(args); err != nil {
		return err
	}
	r := a.renderer(fs)

	if *filterExpr != "" {
		expr, err := filter.ParseFilter(*filterExpr)
		if err != nil {
			return err
		}
		todos, err := a.bridge.AllTodos(ctx)
		if err != nil {
			return err
		}
		r.Message("Filter: %q", *filterExpr)
		return r.Todos(filter.Select(todos, expr), a.today())
	}

	var todos []*task.Todo
	var err error
	query := strings.Join(fs.Args(), " ")
	if query != "" {
		todos, err = a.bridge.Search(ctx, query)
	} else {
		todos, err = a.bridge.List(ctx, things.ListAnytime)
	}
	if err != nil {
		return err
	}

	todos = applyConveniences(todos, *tag, *project, *due, a.today())
	if query != "" {
		r.Message("Search: %q", query)
	} else {
		r.Message("Search results")
	}
	return r.Todos(todos, a.today())
}

// applyConveniences narrows search results by the --tag, --project, and
// --due flags.
func applyConveniences(todos []*task.Todo, tag, project, due string, today task.Date) []*task.Todo {
	var dueDate task.Date
	if due != "" {
		switch strings.ToLower(due) {
		case "today":
			dueDate = today
		case "tomorrow":
			dueDate = today.AddDays(1)
		default:
			if d, err := task.ParseDate(due); err == nil {
				dueDate = d
			}
		}
	}

	out := todos[:0:0]
	for _, t := range todos {
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		if project != "" {
			if t.Project == nil || !strings.EqualFold(*t.Project, project) {
				continue
			}
		}
		if due != "" {
			if t.DueDate == nil || dueDate.IsZero() || !t.DueDate.Equal(dueDate) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (a *App) cmdOpen(ctx context.Context, args []string) error {
	fs := a.flagSet("open")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return errors.New("usage: clings open <view or item id>")
	}
	if err := a.bridge.Open(ctx, rest[0]); err != nil {
		return err
	}
	a.renderer(fs).Message("Opened: %s", rest[0])
	return nil
}
