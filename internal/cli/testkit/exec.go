// Package testkit runs connectorctl command trees in tests with captured
// streams.
package testkit

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

var runMu sync.Mutex

// Streams holds what a command wrote.
type Streams struct {
	Stdout string
	Stderr string
}

func ExecuteCommandForTest(command *cobra.Command, stdin string, args ...string) (string, error) {
	streams, err := Run(context.Background(), command, stdin, args...)
	return streams.Stdout, err
}

func ExecuteCommandForTestWithStreams(command *cobra.Command, stdin string, args ...string) (string, string, error) {
	streams, err := Run(context.Background(), command, stdin, args...)
	return streams.Stdout, streams.Stderr, err
}

// Run executes command with args under ctx. stdin is never a terminal, so
// commands that would prompt take their non-interactive path.
func Run(ctx context.Context, command *cobra.Command, stdin string, args ...string) (Streams, error) {
	// cobra mutates annotation maps while serving help and completion.
	runMu.Lock()
	defer runMu.Unlock()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	command.SetOut(stdout)
	command.SetErr(stderr)
	command.SetIn(strings.NewReader(stdin))
	command.SetArgs(args)

	_, err := command.ExecuteContextC(ctx)
	return Streams{Stdout: stdout.String(), Stderr: stderr.String()}, err
}

// RegisteredPaths lists every user-facing command path below command.
func RegisteredPaths(command *cobra.Command, prefix []string) [][]string {
	paths := make([][]string, 0)
	for _, child := range command.Commands() {
		name := child.Name()
		if name == "help" || strings.HasPrefix(name, "__") {
			continue
		}
		current := append(append([]string{}, prefix...), name)
		paths = append(paths, current)
		paths = append(paths, RegisteredPaths(child, current)...)
	}
	return paths
}

func JoinPath(path []string) string {
	if len(path) == 0 {
		return "connectorctl"
	}
	return strings.Join(path, " ")
}
