package tui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/qdsl/internal/presentation/tui"
	"github.com/aretw0/qdsl/pkg/domain"
	"github.com/aretw0/qdsl/pkg/experiment"
)

func TestDescribe(t *testing.T) {
	exp := experiment.MustNew(experiment.WithUID("rabi"), experiment.WithSignals("drive", "acq"))
	require.NoError(t, exp.MapSignal("drive", "/logical_signal_groups/q0/drive_line"))

	pulse := &domain.PulseFunctional{UID: "gauss", Function: "gaussian"}
	err := exp.AcquireLoopRt(100, func(*domain.AcquireLoopRt) error {
		return exp.Section(func(*domain.Section) error {
			if err := exp.Play("drive", pulse); err != nil {
				return err
			}
			return exp.Acquire("acq", "h")
		}, experiment.WithSectionUID("body"))
	}, experiment.WithSectionUID("shots"))
	require.NoError(t, err)

	md := tui.Describe(exp)
	assert.Contains(t, md, "# Experiment `rabi`")
	assert.Contains(t, md, "| `drive` | `/logical_signal_groups/q0/drive_line` | no |")
	assert.Contains(t, md, "| `acq` | - | no |")
	assert.Contains(t, md, "> **Unmapped:** acq")
	assert.Contains(t, md, "- **acquire_loop_rt** `shots` (real_time, 100 shots, integration)")
	assert.Contains(t, md, "  - **section** `body` (real_time)")
	assert.Contains(t, md, "    - play on `drive`")
	assert.Contains(t, md, "    - acquire on `acq`")
}

func TestDescribe_Empty(t *testing.T) {
	md := tui.Describe(experiment.MustNew(experiment.WithUID("empty")))
	assert.Contains(t, md, "_No signals registered._")
	assert.Contains(t, md, "All signals are mapped.")
	assert.Contains(t, md, "_Empty experiment._")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v0.1.0")
	assert.Contains(t, buf.String(), "qdsl v0.1.0")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer()
	require.NoError(t, err)
	out, err := render("# Title")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}
