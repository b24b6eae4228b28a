package fsys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archweaver/internal/profile"
	"archweaver/internal/runner"
)

func isSubvolCreate(s runner.Step) bool {
	return s.Cmd == "btrfs" && len(s.Args) > 1 && s.Args[0] == "subvolume"
}

func isSubvolMount(s runner.Step) bool {
	return s.Cmd == "mount" && len(s.Args) > 0 && s.Args[0] == "-o"
}

func TestBuildOrdering(t *testing.T) {
	rec := runner.NewRecorder()
	p := profile.Desktop()

	require.NoError(t, Build(rec, p))

	topMount := rec.Index(func(s runner.Step) bool {
		return s.Cmd == "mount" && s.Args[0] == p.RootPartition()
	})
	firstCreate := rec.Index(isSubvolCreate)
	topUnmount := rec.Index(func(s runner.Step) bool { return s.Cmd == "umount" })
	firstSubvolMount := rec.Index(isSubvolMount)

	// Форматирование предшествует первому монтированию
	require.Equal(t, "mkfs.fat", rec.Steps[0].Cmd)
	require.Equal(t, "mkfs.btrfs", rec.Steps[1].Cmd)

	// Базовое монтирование -> создание подтомов -> размонтирование ->
	// монтирование подтомов. Нарушение этого порядка фатально.
	require.NotEqual(t, -1, topMount)
	require.NotEqual(t, -1, firstCreate)
	require.NotEqual(t, -1, topUnmount)
	require.NotEqual(t, -1, firstSubvolMount)
	assert.Less(t, topMount, firstCreate)
	assert.Less(t, firstCreate, topUnmount)
	assert.Less(t, topUnmount, firstSubvolMount)
}

func TestBuildCreatesExactlyProfileSubvolumes(t *testing.T) {
	for _, name := range profile.Names() {
		p, err := profile.ByName(name)
		require.NoError(t, err)

		rec := runner.NewRecorder()
		require.NoError(t, Build(rec, p))

		// Создаются все и только объявленные подтома
		var created []string
		for _, s := range rec.Steps {
			if isSubvolCreate(s) {
				created = append(created, filepath.Base(s.Args[len(s.Args)-1]))
			}
		}
		var declared []string
		for _, sv := range p.Subvolumes {
			declared = append(declared, sv.Name)
		}
		assert.Equal(t, declared, created, "profile %s", name)

		// И каждый из них монтируется с опциями профиля
		var mounted []string
		for _, s := range rec.Steps {
			if isSubvolMount(s) {
				opts := s.Args[1]
				assert.True(t, strings.HasPrefix(opts, p.MountOpts+",subvol="), "opts %q", opts)
				mounted = append(mounted, strings.TrimPrefix(opts, p.MountOpts+",subvol="))
			}
		}
		assert.Equal(t, declared, mounted, "profile %s", name)
	}
}

func TestBuildMkdirPrecedesEveryChildMount(t *testing.T) {
	rec := runner.NewRecorder()
	p := profile.Desktop()

	require.NoError(t, Build(rec, p))

	// Для каждого монтирования с целью глубже /mnt точка монтирования
	// должна быть создана раньше
	for i, s := range rec.Steps {
		if s.Cmd != "mount" {
			continue
		}
		target := s.Args[len(s.Args)-1]
		if target == WorkRoot {
			continue
		}
		mkdirIdx := rec.Index(func(m runner.Step) bool {
			return m.Cmd == "mkdir" && m.Args[len(m.Args)-1] == target
		})
		require.NotEqual(t, -1, mkdirIdx, "no mkdir for %s", target)
		assert.Less(t, mkdirIdx, i, "mkdir for %s must precede its mount", target)
	}
}

func TestBuildMountsEFIAtBoot(t *testing.T) {
	rec := runner.NewRecorder()
	p := profile.Minimal()

	require.NoError(t, Build(rec, p))

	last := rec.Steps[len(rec.Steps)-1]
	assert.Equal(t, "mount", last.Cmd)
	assert.Equal(t, []string{p.EFIPartition(), "/mnt/boot"}, last.Args)
}

func TestUnmountAllReverseDepthOrder(t *testing.T) {
	dir := t.TempDir()
	mounts := filepath.Join(dir, "mounts")
	content := `/dev/nvme0n1p2 /mnt btrfs rw 0 0
/dev/nvme0n1p1 /mnt/boot vfat rw 0 0
/dev/nvme0n1p2 /mnt/var/cache/pacman/pkg btrfs rw 0 0
/dev/nvme0n1p2 /mnt/home btrfs rw 0 0
proc /proc proc rw 0 0
`
	require.NoError(t, os.WriteFile(mounts, []byte(content), 0644))

	old := procMounts
	procMounts = mounts
	defer func() { procMounts = old }()

	rec := runner.NewRecorder()
	require.NoError(t, UnmountAll(rec, "/mnt"))

	var targets []string
	for _, s := range rec.Steps {
		require.Equal(t, "umount", s.Cmd)
		targets = append(targets, s.Args[len(s.Args)-1])
	}
	// От самых вложенных к внешним, /proc не затрагивается
	assert.Equal(t, []string{"/mnt/var/cache/pacman/pkg", "/mnt/boot", "/mnt/home", "/mnt"}, targets)
}

func TestUnmountAllCollectsFailures(t *testing.T) {
	dir := t.TempDir()
	mounts := filepath.Join(dir, "mounts")
	require.NoError(t, os.WriteFile(mounts, []byte("/dev/nvme0n1p2 /mnt btrfs rw 0 0\n"), 0644))

	old := procMounts
	procMounts = mounts
	defer func() { procMounts = old }()

	rec := runner.NewRecorder()
	rec.FailOn = "umount"

	assert.Error(t, UnmountAll(rec, "/mnt"))
}
