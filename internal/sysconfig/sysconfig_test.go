package sysconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archweaver/internal/profile"
	"archweaver/internal/runner"
)

func TestConfigureWritesSystemFiles(t *testing.T) {
	rec := runner.NewRecorder()
	rec.Outputs["genfstab"] = []byte("UUID=abc / btrfs rw 0 0\n")

	p := profile.Desktop()
	p.Password = "secret"
	require.NoError(t, Configure(rec, p))

	assert.Equal(t, "UUID=abc / btrfs rw 0 0\n", string(rec.Files["/mnt/etc/fstab"]))
	assert.Equal(t, "LANG="+p.Locale+"\n", string(rec.Files["/mnt/etc/locale.conf"]))
	assert.Equal(t, p.Hostname+"\n", string(rec.Files["/mnt/etc/hostname"]))

	hosts := string(rec.Files["/mnt/etc/hosts"])
	assert.Contains(t, hosts, "127.0.0.1")
	assert.Contains(t, hosts, "::1")
	assert.Contains(t, hosts, p.Hostname)
}

func TestStepsAllRunInChroot(t *testing.T) {
	for _, step := range Steps(profile.Minimal()) {
		assert.True(t, step.Chroot, "step %q must run inside the target system", step.Desc)
	}
}

func TestPasswordsNeverAppearInArguments(t *testing.T) {
	p := profile.Minimal()
	p.Password = "hunter2"

	for _, step := range Steps(p) {
		for _, arg := range step.Args {
			assert.NotContains(t, arg, "hunter2", "step %q leaks the password into argv", step.Desc)
		}
	}

	// Пароль передается только через stdin
	var viaStdin int
	for _, step := range Steps(p) {
		if step.Cmd == "chpasswd" {
			assert.Contains(t, step.Input, "hunter2")
			viaStdin++
		}
	}
	assert.Equal(t, 2, viaStdin, "root and user passwords")
}

func TestBootloaderSequence(t *testing.T) {
	rec := runner.NewRecorder()
	p := profile.Desktop()
	require.NoError(t, Configure(rec, p))

	installIdx := rec.Index(func(s runner.Step) bool { return s.Cmd == "grub-install" })
	menuIdx := rec.Index(func(s runner.Step) bool { return s.Cmd == "grub-mkconfig" })
	initrdIdx := rec.Index(func(s runner.Step) bool { return s.Cmd == "mkinitcpio" })

	require.NotEqual(t, -1, installIdx)
	require.NotEqual(t, -1, menuIdx)
	require.NotEqual(t, -1, initrdIdx)
	assert.Less(t, installIdx, menuIdx)
	assert.Less(t, menuIdx, initrdIdx)
}

func TestGrubEditsUseProfileValues(t *testing.T) {
	p := profile.Desktop()
	joined := ""
	for _, step := range Steps(p) {
		joined += strings.Join(step.Args, " ") + "\n"
	}
	assert.Contains(t, joined, p.GrubCmdline)
	assert.Contains(t, joined, "GRUB_TIMEOUT=1")
}

func TestHosts(t *testing.T) {
	out := Hosts("mybox")
	assert.Contains(t, out, "127.0.1.1\tmybox.localdomain\tmybox")
}
