package sysconfig

import (
	"fmt"
	"path/filepath"

	"archweaver/internal/fsys"
	"archweaver/internal/profile"
	"archweaver/internal/runner"
)

// Hosts возвращает содержимое /etc/hosts: loopback плюс выбранное имя хоста.
func Hosts(hostname string) string {
	return fmt.Sprintf(`127.0.0.1	localhost
::1		localhost
127.0.1.1	%s.localdomain	%s
`, hostname, hostname)
}

// Steps возвращает фиксированную последовательность конфигурации внутри
// целевой системы. Каждый шаг выполняется всегда, условной логики нет.
func Steps(p *profile.Profile) []runner.Step {
	return []runner.Step{
		{
			Desc:   "set timezone",
			Cmd:    "ln",
			Args:   []string{"-sf", "/usr/share/zoneinfo/" + p.Timezone, "/etc/localtime"},
			Chroot: true,
		},
		{
			Desc:   "sync hardware clock",
			Cmd:    "hwclock",
			Args:   []string{"--systohc"},
			Chroot: true,
		},
		{
			Desc:   "enable locale in locale.gen",
			Cmd:    "sed",
			Args:   []string{"-i", fmt.Sprintf("s/^#%s/%s/", p.Locale, p.Locale), "/etc/locale.gen"},
			Chroot: true,
		},
		{
			Desc:   "generate locales",
			Cmd:    "locale-gen",
			Chroot: true,
		},
		{
			Desc:   "set root password",
			Cmd:    "chpasswd",
			Input:  "root:" + p.Password + "\n",
			Chroot: true,
		},
		{
			Desc:   "create user " + p.Username,
			Cmd:    "useradd",
			Args:   []string{"-m", "-G", "wheel", "-s", "/bin/bash", p.Username},
			Chroot: true,
		},
		{
			Desc:   "set user password",
			Cmd:    "chpasswd",
			Input:  p.Username + ":" + p.Password + "\n",
			Chroot: true,
		},
		{
			Desc:   "allow wheel group in sudoers",
			Cmd:    "sed",
			Args:   []string{"-i", `s/^# %wheel ALL=(ALL:ALL) ALL/%wheel ALL=(ALL:ALL) ALL/`, "/etc/sudoers"},
			Chroot: true,
		},
		{
			Desc:   "set kernel command line",
			Cmd:    "sed",
			Args:   []string{"-i", fmt.Sprintf(`s/^GRUB_CMDLINE_LINUX_DEFAULT=.*/GRUB_CMDLINE_LINUX_DEFAULT="%s"/`, p.GrubCmdline), "/etc/default/grub"},
			Chroot: true,
		},
		{
			Desc:   "set boot timeout",
			Cmd:    "sed",
			Args:   []string{"-i", fmt.Sprintf("s/^GRUB_TIMEOUT=.*/GRUB_TIMEOUT=%d/", p.GrubTimeout), "/etc/default/grub"},
			Chroot: true,
		},
		{
			Desc:   "install bootloader",
			Cmd:    "grub-install",
			Args:   []string{"--target=x86_64-efi", "--efi-directory=/boot", "--bootloader-id=GRUB"},
			Chroot: true,
		},
		{
			Desc:   "generate boot menu",
			Cmd:    "grub-mkconfig",
			Args:   []string{"-o", "/boot/grub/grub.cfg"},
			Chroot: true,
		},
		{
			Desc:   "regenerate initramfs",
			Cmd:    "mkinitcpio",
			Args:   []string{"-P"},
			Chroot: true,
		},
	}
}

// Configure записывает fstab и выполняет всю последовательность
// конфигурации: локаль, имя хоста, пароли, sudo, загрузчик.
func Configure(r runner.Runner, p *profile.Profile) error {
	// fstab генерируется снаружи chroot по текущим монтированиям
	fstab, err := r.Output(runner.Step{
		Desc: "generate fstab",
		Cmd:  "genfstab",
		Args: []string{"-U", fsys.WorkRoot},
	})
	if err != nil {
		return err
	}
	if err := r.WriteFile(filepath.Join(fsys.WorkRoot, "etc/fstab"), fstab, 0644); err != nil {
		return err
	}

	if err := r.WriteFile(filepath.Join(fsys.WorkRoot, "etc/locale.conf"), []byte("LANG="+p.Locale+"\n"), 0644); err != nil {
		return err
	}
	if err := r.WriteFile(filepath.Join(fsys.WorkRoot, "etc/hostname"), []byte(p.Hostname+"\n"), 0644); err != nil {
		return err
	}
	if err := r.WriteFile(filepath.Join(fsys.WorkRoot, "etc/hosts"), []byte(Hosts(p.Hostname)), 0644); err != nil {
		return err
	}

	for _, step := range Steps(p) {
		if err := r.Run(step); err != nil {
			return err
		}
	}
	return nil
}
