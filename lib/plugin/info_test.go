package plugin

import (
	"errors"
	"reflect"
	"testing"
)

func TestManager_Help(t *testing.T) {
	m, static := newTestManager(t)
	addPlugin(static, "builtin:sum", func(r Registrar) {
		registerSum(r)
		r.Register("bare", constant(1))
	})
	mustLoad(t, m, "builtin:sum")

	help, err := m.Help("sum")
	if err != nil {
		t.Fatalf("Help failed: %v", err)
	}
	if help != "sum(a, b, ...) adds all arguments" {
		t.Errorf("Unexpected help text: %q", help)
	}

	help, err = m.Help("bare")
	if err != nil || help != "" {
		t.Errorf("Expected empty help for bare, got %q, %v", help, err)
	}

	if _, err := m.Help("missing"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("Expected NotFound, got: %v", err)
	}
}

func TestManager_Functions(t *testing.T) {
	m, static := newTestManager(t)
	addPlugin(static, "builtin:a", func(r Registrar) {
		r.Register("zeta", constant(1))
		r.Register("alpha", NewCallable(sum, "adds"))
	})
	mustLoad(t, m, "builtin:a")

	infos := m.Functions()
	if len(infos) != 2 {
		t.Fatalf("Expected 2 functions, got %d", len(infos))
	}
	if infos[0].Name != "alpha" || infos[1].Name != "zeta" {
		t.Errorf("Functions should be sorted by name, got %s, %s", infos[0].Name, infos[1].Name)
	}
	if infos[0].Help != "adds" {
		t.Errorf("Expected help 'adds', got '%s'", infos[0].Help)
	}
	if infos[0].LibraryPath != "builtin:a" || infos[0].Plugin != "builtin:a" {
		t.Errorf("Unexpected library fields: %+v", infos[0])
	}
	if infos[0].LibraryID != infos[1].LibraryID {
		t.Error("Functions from one load should share a library id")
	}
}

func TestManager_Libraries(t *testing.T) {
	m, static := newTestManager(t)
	addPlugin(static, "builtin:b", func(r Registrar) { r.Register("b", constant(1)) })
	addPlugin(static, "builtin:a", func(r Registrar) {
		r.Register("a2", constant(1))
		r.Register("a1", constant(1))
	})
	mustLoad(t, m, "builtin:b")
	mustLoad(t, m, "builtin:a")

	libs := m.Libraries()
	if len(libs) != 2 {
		t.Fatalf("Expected 2 libraries, got %d", len(libs))
	}
	if libs[0].Path != "builtin:a" || libs[1].Path != "builtin:b" {
		t.Errorf("Libraries should be sorted by path, got %s, %s", libs[0].Path, libs[1].Path)
	}
	if !reflect.DeepEqual(libs[0].Functions, []string{"a1", "a2"}) {
		t.Errorf("Unexpected functions: %v", libs[0].Functions)
	}
	if libs[0].Refs != 2 {
		t.Errorf("Expected 2 references for builtin:a, got %d", libs[0].Refs)
	}
	if libs[0].Version != "v1.0.0" {
		t.Errorf("Expected version v1.0.0, got %s", libs[0].Version)
	}
}

func TestManager_SamePathLoadedTwice(t *testing.T) {
	m, static := newTestManager(t)
	addPlugin(static, "builtin:sum", func(r Registrar) {
		registerSum(r)
		r.Register("other", constant(1))
	})
	mustLoad(t, m, "builtin:sum")
	mustLoad(t, m, "builtin:sum")

	libs := m.Libraries()
	if len(libs) != 1 {
		t.Fatalf("Second load replaces every function of the first, expected 1 library, got %d", len(libs))
	}
	if static.Opens("builtin:sum") != 2 || static.Closes("builtin:sum") != 1 {
		t.Errorf("Expected 2 opens and 1 close, got %d and %d", static.Opens("builtin:sum"), static.Closes("builtin:sum"))
	}
}
