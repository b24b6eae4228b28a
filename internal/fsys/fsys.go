package fsys

import (
	"path/filepath"

	"archweaver/internal/profile"
	"archweaver/internal/runner"
)

// WorkRoot — рабочий корень, под которым собирается целевая система.
const WorkRoot = "/mnt"

// FormatSteps форматирует разделы: FAT32 для EFI и btrfs с дублированными
// метаданными для корня.
func FormatSteps(p *profile.Profile) []runner.Step {
	return []runner.Step{
		{
			Desc: "format EFI partition",
			Cmd:  "mkfs.fat",
			Args: []string{"-F32", "-n", "EFI", p.EFIPartition()},
		},
		{
			Desc: "format root partition",
			Cmd:  "mkfs.btrfs",
			Args: []string{"-f", "-m", "dup", "-L", "ROOT", p.RootPartition()},
		},
	}
}

// SubvolumeSteps создает подтома. Порядок жесткий: корневой том монтируется
// один раз, внутри него создаются все подтома, затем том размонтируется.
// Создание подтома до монтирования родителя — нарушение порядка.
func SubvolumeSteps(p *profile.Profile) []runner.Step {
	steps := []runner.Step{
		{
			Desc: "mount btrfs top-level volume",
			Cmd:  "mount",
			Args: []string{p.RootPartition(), WorkRoot},
		},
	}
	for _, sv := range p.Subvolumes {
		steps = append(steps, runner.Step{
			Desc: "create subvolume " + sv.Name,
			Cmd:  "btrfs",
			Args: []string{"subvolume", "create", filepath.Join(WorkRoot, sv.Name)},
		})
	}
	steps = append(steps, runner.Step{
		Desc: "unmount btrfs top-level volume",
		Cmd:  "umount",
		Args: []string{WorkRoot},
	})
	return steps
}

// MountSteps монтирует подтома по фиксированной схеме: сначала корневой
// подтом, затем остальные, каждый — после создания своей точки
// монтирования. EFI-раздел монтируется в /mnt/boot последним.
func MountSteps(p *profile.Profile) []runner.Step {
	var steps []runner.Step
	for _, sv := range p.Subvolumes {
		target := filepath.Join(WorkRoot, sv.Mountpoint)
		if sv.Mountpoint != "/" {
			steps = append(steps, runner.Step{
				Desc: "create mountpoint " + target,
				Cmd:  "mkdir",
				Args: []string{"-p", target},
			})
		}
		steps = append(steps, runner.Step{
			Desc: "mount subvolume " + sv.Name,
			Cmd:  "mount",
			Args: []string{"-o", p.MountOpts + ",subvol=" + sv.Name, p.RootPartition(), target},
		})
	}

	efiTarget := filepath.Join(WorkRoot, "boot")
	steps = append(steps,
		runner.Step{
			Desc: "create mountpoint " + efiTarget,
			Cmd:  "mkdir",
			Args: []string{"-p", efiTarget},
		},
		runner.Step{
			Desc: "mount EFI partition",
			Cmd:  "mount",
			Args: []string{p.EFIPartition(), efiTarget},
		},
	)
	return steps
}

// Build выполняет полный цикл: форматирование, создание подтомов,
// монтирование итоговой иерархии.
func Build(r runner.Runner, p *profile.Profile) error {
	for _, step := range FormatSteps(p) {
		if err := r.Run(step); err != nil {
			return err
		}
	}
	for _, step := range SubvolumeSteps(p) {
		if err := r.Run(step); err != nil {
			return err
		}
	}
	for _, step := range MountSteps(p) {
		if err := r.Run(step); err != nil {
			return err
		}
	}
	return nil
}
