package install

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archweaver/internal/profile"
	"archweaver/internal/runner"
)

func TestPackages(t *testing.T) {
	p := profile.Minimal()

	pkgs := Packages(p, "amd-ucode")
	assert.Contains(t, pkgs, "base")
	assert.Contains(t, pkgs, "amd-ucode")

	// Без микрокода список совпадает с профильным
	assert.Equal(t, p.BasePackages, Packages(p, ""))
}

func TestStep(t *testing.T) {
	p := profile.Desktop()
	step := Step(p, "intel-ucode")

	assert.Equal(t, "pacstrap", step.Cmd)
	require.GreaterOrEqual(t, len(step.Args), 3)
	assert.Equal(t, []string{"-K", "/mnt"}, step.Args[:2])
	assert.Contains(t, step.Args, "intel-ucode")
	assert.False(t, step.Chroot, "pacstrap runs outside the chroot")
}

func TestRunFailureIsFatal(t *testing.T) {
	rec := runner.NewRecorder()
	rec.FailOn = "pacstrap"

	assert.Error(t, Run(rec, profile.Minimal()))
	assert.Empty(t, rec.Steps)
}
