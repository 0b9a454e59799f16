// Package dispatcher routes parsed SQL statements to the database registry
// and writes a short textual status into the caller's session event.
package dispatcher

import (
	dberror "storemy/pkg/error"
	"storemy/pkg/logging"
	"storemy/pkg/parser/statements"
	"storemy/pkg/registry"
	"storemy/pkg/session"
)

// Responses written to the session event. Exactly one is written per call.
const (
	ResponseSuccess     = "SUCCESS\n"
	ResponseFailure     = "FAILURE\n"
	ResponseUnsupported = "Unsupported SQL command.\n"
)

// SQLEvent is one parsed statement travelling through the SQL pipeline.
type SQLEvent struct {
	Stmt         statements.Statement
	SessionEvent *session.SessionEvent
}

// NewSQLEvent pairs a parsed statement with the event that collects its response.
func NewSQLEvent(stmt statements.Statement, ev *session.SessionEvent) *SQLEvent {
	return &SQLEvent{Stmt: stmt, SessionEvent: ev}
}

// handler executes one statement kind and returns the response text and
// result code.
type handler func(d *Dispatcher, ev *SQLEvent) (string, dberror.RC)

// Dispatcher maps statement kinds to handlers. Kinds without a handler get
// the unsupported response.
type Dispatcher struct {
	registry *registry.Registry
	handlers map[statements.StatementType]handler
}

// New returns a dispatcher that runs handlers against reg.
func New(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		handlers: map[statements.StatementType]handler{
			statements.DropTable: handleDropTable,
		},
	}
}

// Supports reports whether kind has a handler.
func (d *Dispatcher) Supports(kind statements.StatementType) bool {
	_, ok := d.handlers[kind]
	return ok
}

// HandleSQL runs the event's statement, sets the response on its session
// event and returns the result code.
func (d *Dispatcher) HandleSQL(ev *SQLEvent) dberror.RC {
	var h handler = handleUnsupported
	if ev.Stmt != nil {
		if found, ok := d.handlers[ev.Stmt.GetType()]; ok {
			h = found
		}
	}

	response, rc := h(d, ev)
	ev.SessionEvent.SetResponse(response)
	return rc
}

func handleDropTable(d *Dispatcher, ev *SQLEvent) (string, dberror.RC) {
	drop, ok := ev.Stmt.(*statements.DropStatement)
	if !ok {
		return handleUnsupported(d, ev)
	}

	dbName := ev.SessionEvent.Session().CurrentDB()
	rc := d.registry.DropTable(dbName, drop.TableName)
	if rc != dberror.Success {
		logging.WithTable(dbName, drop.TableName).Warn("drop table failed", "rc", rc)
		return ResponseFailure, rc
	}
	return ResponseSuccess, rc
}

func handleUnsupported(_ *Dispatcher, ev *SQLEvent) (string, dberror.RC) {
	kind := "nil"
	if ev.Stmt != nil {
		kind = ev.Stmt.GetType().String()
	}
	logging.WithComponent("dispatcher").Debug("unsupported sql command", "kind", kind)
	return ResponseUnsupported, dberror.Unimplemented
}
