package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/crmarques/connectorctl/api"
	"github.com/crmarques/connectorctl/faults"
	"github.com/spf13/cobra"
)

func TestShouldSuppressStatusMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want bool
	}{
		{name: "default false", args: []string{"apply", "source.yaml"}, want: false},
		{name: "long flag", args: []string{"--no-status", "apply", "source.yaml"}, want: true},
		{name: "short flag", args: []string{"-n", "apply", "source.yaml"}, want: true},
		{name: "flag after positionals", args: []string{"apply", "source.yaml", "--no-status"}, want: true},
		{name: "explicit true", args: []string{"--no-status=true", "apply", "source.yaml"}, want: true},
		{name: "explicit false", args: []string{"--no-status=false", "apply", "source.yaml"}, want: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := shouldSuppressStatusMessage(testCase.args)
			if got != testCase.want {
				t.Fatalf("shouldSuppressStatusMessage(%v) = %t, want %t", testCase.args, got, testCase.want)
			}
		})
	}
}

func TestExecutionStatusWriters(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		buffer := &bytes.Buffer{}
		writeExecutionOKStatus(buffer)
		if got, want := buffer.String(), "[OK] command executed successfully.\n"; got != want {
			t.Fatalf("writeExecutionOKStatus() = %q, want %q", got, want)
		}
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		buffer := &bytes.Buffer{}
		writeExecutionErrorStatus(buffer, errors.New("resource file source.yaml not found"))
		if got, want := buffer.String(), "[ERROR] command execution failed: resource file source.yaml not found.\n"; got != want {
			t.Fatalf("writeExecutionErrorStatus() = %q, want %q", got, want)
		}
	})
}

func TestCommandPathSupportsExecutionStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path string
		want bool
	}{
		{path: "connectorctl apply", want: true},
		{path: "connectorctl context use", want: true},
		{path: "connectorctl diff", want: false},
		{path: "connectorctl check", want: false},
		{path: "connectorctl context list", want: false},
		{path: "connectorctl version", want: false},
	}

	for _, testCase := range testCases {
		if got := commandPathSupportsExecutionStatus(testCase.path); got != testCase.want {
			t.Fatalf("commandPathSupportsExecutionStatus(%q) = %t, want %t", testCase.path, got, testCase.want)
		}
	}
}

func TestShouldSuppressColor(t *testing.T) {
	t.Run("no color env", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		if !shouldSuppressColor([]string{"diff", "source.yaml"}) {
			t.Fatal("expected color suppression when NO_COLOR is set")
		}
	})

	t.Run("flag parsing", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		if !shouldSuppressColor([]string{"diff", "source.yaml", "--no-color"}) {
			t.Fatal("expected color suppression for --no-color")
		}
		if shouldSuppressColor([]string{"diff", "source.yaml", "--no-color=false"}) {
			t.Fatal("expected color enabled when --no-color=false")
		}
	})
}

func TestShouldEmitExecutionStatus(t *testing.T) {
	t.Parallel()

	buildCommandPath := func(names ...string) *cobra.Command {
		root := &cobra.Command{Use: "connectorctl"}
		current := root
		for _, name := range names {
			next := &cobra.Command{Use: name}
			current.AddCommand(next)
			current = next
		}
		return current
	}

	testCases := []struct {
		name string
		args []string
		want bool
	}{
		{name: "mutation command", args: []string{"apply", "source.yaml"}, want: true},
		{name: "mutation command no status", args: []string{"apply", "source.yaml", "--no-status"}, want: false},
		{name: "help invocation", args: []string{"apply", "--help"}, want: false},
		{name: "completion invocation", args: []string{"completion", "bash"}, want: false},
		{name: "read command", args: []string{"diff", "source.yaml"}, want: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			command := buildCommandPath("apply")
			if testCase.name == "read command" {
				command = buildCommandPath("diff")
			}
			got := shouldEmitExecutionStatus(testCase.args, command)
			if got != testCase.want {
				t.Fatalf("shouldEmitExecutionStatus(%v) = %t, want %t", testCase.args, got, testCase.want)
			}
		})
	}
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "untyped", err: errors.New("boom"), want: 1},
		{name: "validation", err: faults.NewTypedError(faults.ValidationError, "bad", nil), want: 2},
		{name: "not found", err: faults.NewTypedError(faults.NotFoundError, "missing", nil), want: 3},
		{name: "auth", err: faults.NewTypedError(faults.AuthError, "denied", nil), want: 4},
		{name: "conflict", err: faults.NewTypedError(faults.ConflictError, "dup", nil), want: 5},
		{name: "transport", err: faults.NewTypedError(faults.TransportError, "down", nil), want: 6},
		{name: "internal", err: faults.NewTypedError(faults.InternalError, "bug", nil), want: 1},
		{name: "wrapped", err: fmt.Errorf("source.yaml: %w", faults.NewTypedError(faults.ConflictError, "dup", nil)), want: 5},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeForError(testCase.err); got != testCase.want {
				t.Fatalf("ExitCodeForError(%v) = %d, want %d", testCase.err, got, testCase.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	apiErr := faults.NewTypedError(faults.TransportError, "", &api.Error{
		Operation:  api.OperationSearchSources,
		StatusCode: 503,
		Body:       "upstream unavailable",
	})
	wrapped := fmt.Errorf("source.yaml: %w", apiErr)
	if got := errorMessage(wrapped); got != wrapped.Error() {
		t.Fatalf("expected full chain for non actionable error, got %q", got)
	}
	if errorMessage(nil) != "" {
		t.Fatal("expected empty message for nil error")
	}
}
