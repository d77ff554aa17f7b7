package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
	"github.com/aretw0/qdsl/pkg/registry"
)

func TestRegistry_Execute(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register("echo", func(ctx context.Context, args map[string]any) (any, error) {
		return args["value"], nil
	})

	assert.True(t, reg.Has("echo"))
	assert.False(t, reg.Has("missing"))

	res, err := reg.Execute(context.Background(), "echo", map[string]any{"value": 1.5})
	require.NoError(t, err)
	assert.Equal(t, 1.5, res)

	_, err = reg.Execute(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownCallback)
}

func TestRegistry_Names(t *testing.T) {
	reg := registry.NewRegistry()
	noop := func(context.Context, map[string]any) (any, error) { return nil, nil }
	reg.Register("set_flux", noop)
	reg.Register("reset", noop)
	reg.Register("reset", noop)

	assert.Equal(t, []string{"reset", "set_flux"}, reg.Names())
}

func TestRegistry_RejectsUnknownCalls(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register("set_flux", func(context.Context, map[string]any) (any, error) { return nil, nil })
	exp := experiment.MustNew(experiment.WithCallbacks(reg))

	err := exp.Section(func(*domain.Section) error {
		if err := exp.Call("set_flux", map[string]any{"v": 0.1}); err != nil {
			return err
		}
		return exp.Call("typo", nil)
	})
	assert.ErrorIs(t, err, domain.ErrUnknownCallback)
	assert.Len(t, exp.Operations(), 1)
}

func TestRegistry_ExecuteCalls(t *testing.T) {
	var seen []float64
	reg := registry.NewRegistry()
	reg.Register("set_flux", func(_ context.Context, args map[string]any) (any, error) {
		v := args["v"].(float64)
		seen = append(seen, v)
		return v * 2, nil
	})
	reg.Register("fail", func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("boom")
	})

	exp := experiment.MustNew(experiment.WithSignals("drive"), experiment.WithCallbacks(reg))
	require.NoError(t, exp.Section(func(*domain.Section) error {
		if err := exp.Call("set_flux", map[string]any{"v": 0.1}); err != nil {
			return err
		}
		if err := exp.Reserve("drive"); err != nil {
			return err
		}
		return exp.Call("set_flux", map[string]any{"v": 0.2})
	}))

	results, err := reg.ExecuteCalls(context.Background(), exp.Operations())
	require.NoError(t, err)
	assert.Equal(t, []any{0.2, 0.4}, results)
	assert.Equal(t, []float64{0.1, 0.2}, seen)

	ops := []domain.Operation{domain.Call{FuncName: "fail"}, domain.Call{FuncName: "set_flux"}}
	results, err = reg.ExecuteCalls(context.Background(), ops)
	assert.ErrorContains(t, err, "boom")
	assert.Empty(t, results)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reg.ExecuteCalls(ctx, exp.Operations())
	assert.ErrorIs(t, err, context.Canceled)
}
