package ui

import (
	"strings"
	"testing"
	"time"

	dberror "storemy/pkg/error"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModel_ResultUpdatesHistoryAndTable(t *testing.T) {
	exec, _ := setupExecutor(t)
	m := NewModel(exec)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	m.executing = true
	updated, _ = m.Update(resultMsg{
		result: Result{
			Input:   `\l`,
			Columns: []string{"Database", "Current"},
			Rows:    [][]string{{"sys", "*"}},
		},
		duration: time.Millisecond,
	})
	m = updated.(Model)

	if m.executing {
		t.Error("executing flag should be cleared")
	}
	if len(m.history) != 1 || !strings.Contains(m.history[0], "(1 rows)") {
		t.Errorf("unexpected history %v", m.history)
	}
	if rows := m.resultTable.Rows(); len(rows) != 1 || rows[0][0] != "sys" {
		t.Errorf("unexpected table rows %v", rows)
	}
	if !strings.Contains(m.View(), "StoreMy Shell") {
		t.Error("view should render the header")
	}
}

func TestModel_FailedResultRendersCode(t *testing.T) {
	exec, _ := setupExecutor(t)
	m := NewModel(exec)

	updated, _ := m.Update(resultMsg{result: Result{
		Input:    "drop table ghosts",
		Response: "FAILURE\n",
		RC:       dberror.SchemaTableNotExist,
	}})
	m = updated.(Model)

	if !strings.Contains(m.View(), "SCHEMA_TABLE_NOT_EXIST") {
		t.Error("view should show the failing result code")
	}
}

func TestModel_QuitResult(t *testing.T) {
	exec, _ := setupExecutor(t)
	m := NewModel(exec)

	updated, cmd := m.Update(resultMsg{result: Result{Input: `\q`, Quit: true}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if updated.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestHighlighter(t *testing.T) {
	h := NewSQLHighlighter()

	out := h.Highlight("drop table users")
	if !strings.Contains(out, "users") {
		t.Errorf("identifier lost in %q", out)
	}
	if got := h.Highlight(`\dt`); !strings.Contains(got, `\dt`) {
		t.Errorf("meta command lost in %q", got)
	}
	if !isNumeric("20") || isNumeric("2a") || isNumeric("") {
		t.Error("isNumeric misclassified input")
	}
}
