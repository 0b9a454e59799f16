package ui

import (
	"fmt"
	"strings"

	"storemy/pkg/database"
	"storemy/pkg/dispatcher"
	dberror "storemy/pkg/error"
	"storemy/pkg/parser"
	"storemy/pkg/parser/statements"
	"storemy/pkg/registry"
	"storemy/pkg/session"
)

// Result is what the shell shows for one line of input.
type Result struct {
	Input    string
	Response string
	RC       dberror.RC
	Columns  []string
	Rows     [][]string
	Err      error
	Quit     bool
}

// Failed reports whether the line produced an error or a non-success code.
func (r Result) Failed() bool {
	return r.Err != nil || !r.RC.OK()
}

// Executor runs shell input against a registry on behalf of one session.
// Lines starting with a backslash are meta commands, everything else is SQL.
type Executor struct {
	registry   *registry.Registry
	dispatcher *dispatcher.Dispatcher
	session    *session.Session
}

// NewExecutor returns an executor for sess. A nil session means the default one.
func NewExecutor(reg *registry.Registry, sess *session.Session) *Executor {
	if sess == nil {
		sess = session.Default()
	}
	return &Executor{
		registry:   reg,
		dispatcher: dispatcher.New(reg),
		session:    sess,
	}
}

// Session returns the session the executor runs for.
func (e *Executor) Session() *session.Session {
	return e.session
}

// Execute runs one line of input.
func (e *Executor) Execute(input string) Result {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, `\`) {
		return e.executeMeta(input)
	}
	return e.executeSQL(input)
}

// executeSQL dispatches every statement in input and concatenates the
// responses. The code of the last failing statement wins.
func (e *Executor) executeSQL(input string) Result {
	res := Result{Input: input}

	stmts, err := parser.ParseScript(input)
	if err != nil {
		res.Err = err
		res.RC = dberror.InvalidArgument
		return res
	}
	if len(stmts) == 0 {
		res.Err = parser.ErrEmptyStatement
		res.RC = dberror.InvalidArgument
		return res
	}

	var out strings.Builder
	for _, stmt := range stmts {
		response, rc := e.run(stmt)
		out.WriteString(response)
		if !rc.OK() {
			res.RC = rc
		}
	}
	res.Response = out.String()
	return res
}

// run hands stmt to the dispatcher unless the dispatcher has no handler for
// it and the shell can run it against the registry itself.
func (e *Executor) run(stmt statements.Statement) (string, dberror.RC) {
	if create, ok := stmt.(*statements.CreateStatement); ok && !e.dispatcher.Supports(statements.CreateTable) {
		return e.createTable(create)
	}

	ev := session.NewSessionEvent(e.session)
	rc := e.dispatcher.HandleSQL(dispatcher.NewSQLEvent(stmt, ev))
	return ev.Response(), rc
}

// createTable creates the table in the session's current database. With IF
// NOT EXISTS an existing table is success.
func (e *Executor) createTable(stmt *statements.CreateStatement) (string, dberror.RC) {
	dbName := e.session.CurrentDB()
	options := database.StorageOptions{Format: stmt.Format}

	rc := e.registry.CreateTableWithOptions(dbName, stmt.TableName, stmt.Fields, options)
	if rc == dberror.SchemaTableExist && stmt.IfNotExists {
		rc = dberror.Success
	}
	if !rc.OK() {
		return dispatcher.ResponseFailure, rc
	}
	return dispatcher.ResponseSuccess, rc
}

func (e *Executor) executeMeta(input string) Result {
	res := Result{Input: input}
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case `\q`:
		res.Quit = true
	case `\c`:
		if len(args) != 1 {
			return usage(res, `\c NAME`)
		}
		res.RC = e.registry.OpenDB(args[0])
		if res.RC.OK() {
			e.session.SetCurrentDB(args[0])
			res.Response = fmt.Sprintf("now using database %q\n", args[0])
		}
	case `\create`:
		if len(args) != 1 {
			return usage(res, `\create NAME`)
		}
		res.RC = e.registry.CreateDB(args[0])
		if res.RC.OK() {
			res.Response = fmt.Sprintf("created database %q\n", args[0])
		}
	case `\l`:
		res.Columns = []string{"Database", "Current"}
		current := e.session.CurrentDB()
		for _, name := range e.registry.Names() {
			mark := ""
			if name == current {
				mark = "*"
			}
			res.Rows = append(res.Rows, []string{name, mark})
		}
	case `\dt`:
		return e.listTables(res)
	case `\sync`:
		res.Columns = []string{"Database", "Result"}
		results := e.registry.SyncAll()
		for _, name := range e.registry.Names() {
			rc, ok := results[name]
			if !ok {
				continue
			}
			if !rc.OK() {
				res.RC = rc
			}
			res.Rows = append(res.Rows, []string{name, rc.String()})
		}
	default:
		res.Err = fmt.Errorf("unknown command %s", cmd)
		res.RC = dberror.InvalidArgument
	}
	return res
}

type tableLister interface {
	Tables() []string
}

func (e *Executor) listTables(res Result) Result {
	current := e.session.CurrentDB()
	db, ok := e.registry.FindDB(current).Get()
	if !ok {
		res.RC = dberror.SchemaDBNotOpened
		res.Err = fmt.Errorf("database %q is not open", current)
		return res
	}

	res.Columns = []string{"Table"}
	if lister, ok := db.(tableLister); ok {
		for _, name := range lister.Tables() {
			res.Rows = append(res.Rows, []string{name})
		}
	}
	return res
}

func usage(res Result, form string) Result {
	res.Err = fmt.Errorf("usage: %s", form)
	res.RC = dberror.InvalidArgument
	return res
}
