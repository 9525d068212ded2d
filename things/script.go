package things

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsString renders s as a JavaScript string literal. JSON encoding handles
// quotes, newlines, and emoji correctly, so the result can be spliced into
// JXA source verbatim.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal cannot fail on a string, but keep a safe fallback.
		escaped := strings.NewReplacer(
			`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`,
		).Replace(s)
		return `"` + escaped + `"`
	}
	return string(b)
}

// jsStringArray renders items as a JavaScript array literal.
func jsStringArray(items []string) string {
	escaped := make([]string, len(items))
	for i, s := range items {
		escaped[i] = jsString(s)
	}
	return "[" + strings.Join(escaped, ", ") + "]"
}

// mapTodoJS is the shared JXA snippet converting a Things todo object to the
// JSON shape task.Todo unmarshals from. The tagNames property is a single
// comma-separated string in the scripting dictionary.
const mapTodoJS = `function mapTodo(t) {
    let tags = [];
    try {
        const tagNames = t.tagNames();
        if (tagNames && tagNames.length > 0) {
            tags = tagNames.split(', ').filter(x => x.length > 0);
        }
    } catch(e) {}

    let dueDate = null;
    try {
        const d = t.dueDate();
        if (d) dueDate = d.toISOString().split('T')[0];
    } catch(e) {}

    return {
        id: t.id(),
        name: t.name(),
        notes: t.notes() || '',
        status: t.status(),
        dueDate: dueDate,
        tags: tags,
        project: t.project() ? t.project().name() : null,
        area: t.area() ? t.area().name() : null,
        checklistItems: [],
        creationDate: t.creationDate() ? t.creationDate().toISOString() : null,
        modificationDate: t.modificationDate() ? t.modificationDate().toISOString() : null
    };
}`

func listScript(view ListView) string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    %s
    const list = Things.lists.byName(%s);
    return JSON.stringify(list.toDos().map(mapTodo));
})()`, mapTodoJS, jsString(view.String()))
}

func allTodosScript() string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    %s
    return JSON.stringify(Things.toDos().map(mapTodo));
})()`, mapTodoJS)
}

func todoScript(id string) string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    %s
    const t = Things.toDos.byId(%s);
    if (!t.exists()) throw new Error('Can\'t get todo');
    const todo = mapTodo(t);
    try {
        const items = t.toDos();
        if (items && items.length > 0) {
            todo.checklistItems = items.map(i => ({
                name: i.name(),
                completed: i.status() === 'completed'
            }));
        }
    } catch(e) {}
    return JSON.stringify(todo);
})()`, mapTodoJS, jsString(id))
}

func searchScript(query string) string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    %s
    const query = %s.toLowerCase();
    const todos = Things.toDos().filter(t => {
        const name = t.name().toLowerCase();
        const notes = (t.notes() || '').toLowerCase();
        return name.includes(query) || notes.includes(query);
    });
    return JSON.stringify(todos.map(mapTodo));
})()`, mapTodoJS, jsString(query))
}

// NewTodo holds the optional properties for todo creation. Zero values mean
// the property is left unset.
type NewTodo struct {
	Name      string
	Notes     string
	When      string // scheduling date, places the todo in Today/Upcoming
	Deadline  string // due date
	Tags      []string
	List      string // project or built-in list name
	Area      string // ignored when List resolves to a project
	Checklist []string
}

func addTodoScript(t NewTodo) string {
	var b strings.Builder
	fmt.Fprintf(&b, `(() => {
    const Things = Application('Things3');
    const props = { name: %s };
`, jsString(t.Name))
	if t.Notes != "" {
		fmt.Fprintf(&b, "    props.notes = %s;\n", jsString(t.Notes))
	}
	if t.Deadline != "" {
		fmt.Fprintf(&b, "    props.dueDate = new Date(%s);\n", jsString(t.Deadline))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "    props.tagNames = %s;\n", jsString(strings.Join(t.Tags, ", ")))
	}
	b.WriteString("    const todo = Things.make({ new: 'toDo', withProperties: props });\n")
	// Area is set after make() to avoid a -1700 type conversion error.
	if t.Area != "" {
		fmt.Fprintf(&b, `    const targetArea = Things.areas.byName(%s);
    if (targetArea.exists()) {
        todo.area = targetArea;
    }
`, jsString(t.Area))
	}
	if t.When != "" {
		fmt.Fprintf(&b, "    Things.schedule(todo, { for: new Date(%s) });\n", jsString(t.When))
	}
	// Built-in lists and projects share a namespace from the user's point
	// of view, so try lists first and fall back to a project lookup.
	if t.List != "" {
		name := jsString(t.List)
		fmt.Fprintf(&b, `    const targetList = Things.lists.byName(%s);
    if (targetList.exists()) {
        Things.move(todo, { to: targetList });
    } else {
        const targetProject = Things.projects.whose({ name: %s })[0];
        if (targetProject) {
            Things.move(todo, { to: targetProject });
        }
    }
`, name, name)
	}
	if len(t.Checklist) > 0 {
		fmt.Fprintf(&b, `    const checklistItems = %s;
    for (const item of checklistItems) {
        Things.make({ new: 'toDo', withProperties: { name: item }, at: todo });
    }
`, jsStringArray(t.Checklist))
	}
	b.WriteString(`    return JSON.stringify({ id: todo.id(), name: todo.name() });
})()`)
	return b.String()
}

func setStatusScript(id, status string) string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    const todo = Things.toDos.byId(%s);
    if (!todo.exists()) throw new Error('Can\'t get todo');
    todo.status = %s;
})()`, jsString(id), jsString(status))
}

// TodoUpdate holds partial updates for an existing todo. Nil pointer fields
// are left untouched; a pointer to the empty string clears the property
// where Things supports clearing.
type TodoUpdate struct {
	Name     *string
	Notes    *string
	When     *string
	Deadline *string
	Tags     *string // comma-separated, replaces existing tags
	Project  *string
	Area     *string
}

func updateTodoScript(id string, u TodoUpdate) string {
	var b strings.Builder
	fmt.Fprintf(&b, `(() => {
    const Things = Application('Things3');
    const todo = Things.toDos.byId(%s);
    if (!todo.exists()) throw new Error('Can\'t get todo');
`, jsString(id))
	if u.Name != nil {
		fmt.Fprintf(&b, "    todo.name = %s;\n", jsString(*u.Name))
	}
	if u.Notes != nil {
		fmt.Fprintf(&b, "    todo.notes = %s;\n", jsString(*u.Notes))
	}
	if u.Deadline != nil {
		if *u.Deadline == "" {
			b.WriteString("    todo.dueDate = null;\n")
		} else {
			fmt.Fprintf(&b, "    todo.dueDate = new Date(%s);\n", jsString(*u.Deadline))
		}
	}
	if u.Tags != nil {
		fmt.Fprintf(&b, "    todo.tagNames = %s;\n", jsString(*u.Tags))
	}
	if u.When != nil {
		fmt.Fprintf(&b, "    Things.schedule(todo, { for: new Date(%s) });\n", jsString(*u.When))
	}
	if u.Project != nil {
		name := jsString(*u.Project)
		fmt.Fprintf(&b, `    const targetList = Things.lists.byName(%s);
    if (targetList.exists()) {
        Things.move(todo, { to: targetList });
    } else {
        const targetProject = Things.projects.whose({ name: %s })[0];
        if (targetProject) {
            Things.move(todo, { to: targetProject });
        }
    }
`, name, name)
	}
	if u.Area != nil {
		fmt.Fprintf(&b, `    const targetArea = Things.areas.byName(%s);
    if (targetArea.exists()) {
        todo.area = targetArea;
    }
`, jsString(*u.Area))
	}
	b.WriteString("})()")
	return b.String()
}

func addTagsScript(id, tags string) string {
	t := jsString(tags)
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    const todo = Things.toDos.byId(%s);
    if (!todo.exists()) throw new Error('Can\'t get todo');
    const currentTags = todo.tagNames() || '';
    todo.tagNames = currentTags ? currentTags + ', ' + %s : %s;
})()`, jsString(id), t, t)
}

func moveScript(id, listName string) string {
	name := jsString(listName)
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    const todo = Things.toDos.byId(%s);
    if (!todo.exists()) throw new Error('Can\'t get todo');
    const targetList = Things.lists.byName(%s);
    if (targetList.exists()) {
        Things.move(todo, { to: targetList });
    } else {
        const targetProject = Things.projects.whose({ name: %s })[0];
        if (targetProject) {
            Things.move(todo, { to: targetProject });
        } else {
            throw new Error('Can\'t get list or project');
        }
    }
})()`, jsString(id), name, name)
}

func setDueScript(id, due string) string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    const todo = Things.toDos.byId(%s);
    if (!todo.exists()) throw new Error('Can\'t get todo');
    todo.dueDate = new Date(%s);
})()`, jsString(id), jsString(due))
}

func clearDueScript(id string) string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    const todo = Things.toDos.byId(%s);
    if (!todo.exists()) throw new Error('Can\'t get todo');
    todo.dueDate = null;
})()`, jsString(id))
}

func projectsScript() string {
	return `(() => {
    const Things = Application('Things3');
    const projects = Things.projects();
    return JSON.stringify(projects.map(p => {
        let tags = [];
        try {
            const tagNames = p.tagNames();
            if (tagNames && tagNames.length > 0) {
                tags = tagNames.split(', ').filter(x => x.length > 0);
            }
        } catch(e) {}

        let dueDate = null;
        try {
            const d = p.dueDate();
            if (d) dueDate = d.toISOString().split('T')[0];
        } catch(e) {}

        return {
            id: p.id(),
            name: p.name(),
            notes: p.notes() || '',
            status: p.status(),
            area: p.area() ? p.area().name() : null,
            tags: tags,
            dueDate: dueDate
        };
    }));
})()`
}

// NewProject holds the optional properties for project creation.
type NewProject struct {
	Name     string
	Notes    string
	Area     string
	Tags     []string
	Deadline string
}

func addProjectScript(p NewProject) string {
	var b strings.Builder
	fmt.Fprintf(&b, `(() => {
    const Things = Application('Things3');
    const props = { name: %s };
`, jsString(p.Name))
	if p.Notes != "" {
		fmt.Fprintf(&b, "    props.notes = %s;\n", jsString(p.Notes))
	}
	if p.Deadline != "" {
		fmt.Fprintf(&b, "    props.dueDate = new Date(%s);\n", jsString(p.Deadline))
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "    props.tagNames = %s;\n", jsString(strings.Join(p.Tags, ", ")))
	}
	b.WriteString("    const project = Things.make({ new: 'project', withProperties: props });\n")
	if p.Area != "" {
		fmt.Fprintf(&b, `    const targetArea = Things.areas.byName(%s);
    if (targetArea.exists()) {
        project.area = targetArea;
    }
`, jsString(p.Area))
	}
	b.WriteString(`    return JSON.stringify({ id: project.id(), name: project.name() });
})()`)
	return b.String()
}

func projectTodosScript(projectName string) string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    %s
    const projects = Things.projects.whose({ name: %s });
    if (projects.length === 0) throw new Error('Can\'t get project');
    const todos = projects[0].toDos();
    return JSON.stringify(todos.map(mapTodo));
})()`, mapTodoJS, jsString(projectName))
}

func areasScript() string {
	return `(() => {
    const Things = Application('Things3');
    const areas = Things.areas();
    return JSON.stringify(areas.map(a => ({
        id: a.id(),
        name: a.name()
    })));
})()`
}

func tagsScript() string {
	return `(() => {
    const Things = Application('Things3');
    const tags = Things.tags();
    return JSON.stringify(tags.map(t => ({
        id: t.id(),
        name: t.name()
    })));
})()`
}

func openListScript(listName string) string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    Things.activate();
    Things.show(Things.lists.byName(%s));
})()`, jsString(listName))
}

func openItemScript(id string) string {
	idStr := jsString(id)
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    Things.activate();
    const todo = Things.toDos.byId(%s);
    if (todo.exists()) {
        Things.show(todo);
    } else {
        const project = Things.projects.byId(%s);
        if (project.exists()) {
            Things.show(project);
        } else {
            throw new Error('Can\'t get item');
        }
    }
})()`, idStr, idStr)
}

// batchBodyJS wraps a per-todo mutation in the standard batch loop that
// counts successes and failures instead of aborting on the first error.
func batchScript(ids []string, prologue, mutation string) string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    const ids = %s;
    %s
    let succeeded = 0;
    let failed = 0;
    const errors = [];

    for (const id of ids) {
        try {
            const todo = Things.toDos.byId(id);
            if (todo.exists()) {
                %s
                succeeded++;
            } else {
                failed++;
                errors.push({ id: id, error: 'Not found' });
            }
        } catch (e) {
            failed++;
            errors.push({ id: id, error: e.message });
        }
    }

    return JSON.stringify({ succeeded, failed, errors });
})()`, jsStringArray(ids), prologue, mutation)
}

func batchStatusScript(ids []string, status string) string {
	return batchScript(ids, "", fmt.Sprintf("todo.status = %s;", jsString(status)))
}

func batchAddTagsScript(ids []string, tags string) string {
	prologue := fmt.Sprintf("const newTags = %s;", jsString(tags))
	mutation := `const currentTags = todo.tagNames() || '';
                todo.tagNames = currentTags ? currentTags + ', ' + newTags : newTags;`
	return batchScript(ids, prologue, mutation)
}

func batchMoveScript(ids []string, projectName string) string {
	prologue := fmt.Sprintf(`const projects = Things.projects.whose({ name: %s });
    if (projects.length === 0) {
        return JSON.stringify({ succeeded: 0, failed: ids.length, errors: [{ id: 'all', error: 'Project not found' }] });
    }
    const targetProject = projects[0];`, jsString(projectName))
	return batchScript(ids, prologue, "Things.move(todo, { to: targetProject });")
}

func batchSetDueScript(ids []string, due string) string {
	prologue := fmt.Sprintf("const dueDate = new Date(%s);", jsString(due))
	return batchScript(ids, prologue, "todo.dueDate = dueDate;")
}

func batchClearDueScript(ids []string) string {
	return batchScript(ids, "", "todo.dueDate = null;")
}

func openListsScript() string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    %s
    const result = {
        inbox: [],
        today: [],
        upcoming: [],
        anytime: [],
        someday: []
    };
    const lists = ['Inbox', 'Today', 'Upcoming', 'Anytime', 'Someday'];
    for (const listName of lists) {
        try {
            const list = Things.lists.byName(listName);
            result[listName.toLowerCase()] = list.toDos().map(mapTodo);
        } catch(e) {}
    }
    return JSON.stringify(result);
})()`, mapTodoJS)
}

// allListsScript includes the Logbook, capped at the 500 most recent
// completions. Full Logbook history can hold thousands of items.
func allListsScript() string {
	return fmt.Sprintf(`(() => {
    const Things = Application('Things3');
    %s
    const result = {
        inbox: [],
        today: [],
        upcoming: [],
        anytime: [],
        someday: [],
        logbook: []
    };
    const regularLists = ['Inbox', 'Today', 'Upcoming', 'Anytime', 'Someday'];
    for (const listName of regularLists) {
        try {
            const list = Things.lists.byName(listName);
            result[listName.toLowerCase()] = list.toDos().map(mapTodo);
        } catch(e) {}
    }
    try {
        const logbook = Things.lists.byName('Logbook');
        const todos = logbook.toDos();
        const limit = Math.min(todos.length, 500);
        const recent = [];
        for (let i = 0; i < limit; i++) {
            recent.push(mapTodo(todos[i]));
        }
        result.logbook = recent;
    } catch(e) {}
    return JSON.stringify(result);
})()`, mapTodoJS)
}
