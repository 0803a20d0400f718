package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/pkg/id"
)

func TestRunRequiresPort(t *testing.T) {
	require.Error(t, Run(context.Background(), Config{Alphabet: bucket.Gojuon()}))
}

func TestRunQuitsOnKey(t *testing.T) {
	store := catalog.NewMemory(catalog.Generate(200, 7, id.NewGenerator())...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{
			Port:     store,
			Alphabet: bucket.Gojuon(),
			Watch: func(ctx context.Context, fn func()) error {
				catalog.Watch(ctx, store, fn)
				return nil
			},
			ProgramOptions: []tea.ProgramOption{
				tea.WithInput(strings.NewReader("q")),
				tea.WithOutput(io.Discard),
			},
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("program did not quit")
	}
}
