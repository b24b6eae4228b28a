package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archweaver/internal/profile"
	"archweaver/internal/runner"
)

func TestRunInstallAbortsAfterPacstrapFailure(t *testing.T) {
	rec := runner.NewRecorder()
	rec.FailOn = "pacstrap"

	p := profile.Desktop()
	p.Password = "secret"

	err := runInstall(rec, p, strings.NewReader("y\n"), false)
	require.Error(t, err)

	// Этап конфигурации не начинается: ни genfstab, ни chroot-шагов,
	// ни записанных файлов
	for _, cmd := range rec.Commands() {
		assert.NotEqual(t, "genfstab", cmd)
		assert.NotEqual(t, "arch-chroot", cmd)
	}
	assert.Empty(t, rec.Files)
}

func TestRunInstallDeclinedConfirmation(t *testing.T) {
	rec := runner.NewRecorder()

	err := runInstall(rec, profile.Minimal(), strings.NewReader("n\n"), false)
	require.Error(t, err)
	assert.Empty(t, rec.Steps)
}

func execute(args ...string) error {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestNoCommandIsAnError(t *testing.T) {
	assert.Error(t, execute())
}

func TestUnknownCommandIsAnError(t *testing.T) {
	assert.Error(t, execute("frobnicate"))
}

func TestUnknownProfileIsAnError(t *testing.T) {
	err := execute("install", "server")
	assert.ErrorContains(t, err, "unknown profile")
}

func TestInstallRequiresRoot(t *testing.T) {
	old := geteuid
	geteuid = func() int { return 1000 }
	defer func() { geteuid = old }()

	err := execute("install", "minimal")
	assert.ErrorContains(t, err, "must be run as root")
}

func TestSetupRequiresRoot(t *testing.T) {
	old := geteuid
	geteuid = func() int { return 1000 }
	defer func() { geteuid = old }()

	err := execute("setup")
	assert.ErrorContains(t, err, "must be run as root")
}

func TestResolveProfileDriveOverride(t *testing.T) {
	drive = "/dev/vdb"
	defer func() { drive = "" }()

	p, err := resolveProfile([]string{"minimal"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/vdb", p.Drive)
	assert.Equal(t, "/dev/vdbp1", p.EFIPartition())
	assert.Equal(t, "/dev/vdbp2", p.RootPartition())
}
