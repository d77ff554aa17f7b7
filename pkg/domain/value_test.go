package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	v, err := ValueOf(3)
	require.NoError(t, err)
	assert.Equal(t, Number(3), v)

	v, err = ValueOf(map[string]any{"a": "x", "b": map[string]any{"c": false}})
	require.NoError(t, err)
	assert.Equal(t, Map{"a": Text("x"), "b": Map{"c": Bool(false)}}, v)
	assert.Equal(t, map[string]any{"a": "x", "b": map[string]any{"c": false}}, v.Interface())

	_, err = ValueOf([]string{"x"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ValueOf(map[string]any{"bad": struct{}{}})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestArgsOf(t *testing.T) {
	args, err := ArgsOf(nil)
	require.NoError(t, err)
	assert.Nil(t, args)
	assert.Nil(t, args.Interface())

	args, err = ArgsOf(map[string]any{"b": 1.5, "a": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, args.Keys())
}

func TestCalibrationGet(t *testing.T) {
	var nilCal *Calibration
	assert.Nil(t, nilCal.Get("x"))

	item := &SignalCalibration{Range: Float(5)}
	cal := NewCalibration(map[string]*SignalCalibration{"x": item})
	assert.Same(t, item, cal.Get("x"))
	assert.NotNil(t, NewCalibration(nil).Items)
}
