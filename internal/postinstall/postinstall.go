package postinstall

import (
	"fmt"
	"path/filepath"

	"archweaver/internal/profile"
	"archweaver/internal/runner"
	"archweaver/internal/term"
)

const aurHelperRepo = "https://aur.archlinux.org/yay-bin.git"

// asUser оборачивает команду в sudo -u, чтобы выполнить ее от имени
// созданного пользователя (makepkg отказывается работать под root).
func asUser(user string, desc, cmd string, args ...string) runner.Step {
	return runner.Step{
		Desc: desc,
		Cmd:  "sudo",
		Args: append([]string{"-u", user, cmd}, args...),
	}
}

// AURHelperSteps клонирует и собирает AUR-хелпер от имени пользователя.
func AURHelperSteps(p *profile.Profile) []runner.Step {
	buildDir := filepath.Join("/tmp", "yay-bin")
	clone := asUser(p.Username, "clone AUR helper", "git", "clone", aurHelperRepo, buildDir)
	build := asUser(p.Username, "build and install AUR helper", "makepkg", "-si", "--noconfirm")
	build.Dir = buildDir
	return []runner.Step{clone, build}
}

// PackageSteps устанавливает дополнительные пакеты: репозиторные — батчем
// через pacman, AUR-пакеты — от имени пользователя через хелпер.
func PackageSteps(p *profile.Profile) []runner.Step {
	var steps []runner.Step
	if len(p.ExtraPackages) > 0 {
		steps = append(steps, runner.Step{
			Desc: "install extra packages",
			Cmd:  "pacman",
			Args: append([]string{"-S", "--needed", "--noconfirm"}, p.ExtraPackages...),
		})
	}
	if len(p.AURPackages) > 0 {
		steps = append(steps, asUser(p.Username,
			"install AUR packages",
			"yay", append([]string{"-S", "--needed", "--noconfirm"}, p.AURPackages...)...))
	}
	return steps
}

// ServiceSteps включает фиксированный список systemd-сервисов.
func ServiceSteps(p *profile.Profile) []runner.Step {
	var steps []runner.Step
	for _, svc := range p.Services {
		steps = append(steps, runner.Step{
			Desc: "enable service " + svc,
			Cmd:  "systemctl",
			Args: []string{"enable", svc},
		})
	}
	return steps
}

// FirewallSteps настраивает ufw: запрет входящих по умолчанию, разрешение
// исходящих, allow-список портов, логирование и включение.
func FirewallSteps(p *profile.Profile) []runner.Step {
	steps := []runner.Step{
		{Desc: "firewall: deny incoming by default", Cmd: "ufw", Args: []string{"default", "deny", "incoming"}},
		{Desc: "firewall: allow outgoing by default", Cmd: "ufw", Args: []string{"default", "allow", "outgoing"}},
	}
	for _, port := range p.AllowedPorts {
		steps = append(steps, runner.Step{
			Desc: "firewall: allow " + port,
			Cmd:  "ufw",
			Args: []string{"allow", port},
		})
	}
	steps = append(steps,
		runner.Step{Desc: "firewall: enable logging", Cmd: "ufw", Args: []string{"logging", "on"}},
		runner.Step{Desc: "firewall: enable", Cmd: "ufw", Args: []string{"--force", "enable"}},
	)
	return steps
}

// shellExports — строки окружения, дописываемые в rc-файл пользователя.
const shellExports = `export EDITOR=vim
export MANPAGER="less -R"
`

// Run выполняет пост-установочный этап на уже работающей системе:
// AUR-хелпер, дополнительные пакеты, окружение пользователя, сервисы
// и файрвол.
func Run(r runner.Runner, p *profile.Profile) error {
	term.Info("Installing AUR helper as %s", p.Username)
	for _, step := range AURHelperSteps(p) {
		if err := r.Run(step); err != nil {
			return err
		}
	}

	term.Info("Installing additional packages")
	for _, step := range PackageSteps(p) {
		if err := r.Run(step); err != nil {
			return err
		}
	}

	rcPath := fmt.Sprintf("/home/%s/.bashrc", p.Username)
	if err := r.AppendFile(rcPath, []byte(shellExports)); err != nil {
		return err
	}

	term.Info("Enabling services")
	for _, step := range ServiceSteps(p) {
		if err := r.Run(step); err != nil {
			return err
		}
	}

	term.Info("Configuring firewall")
	for _, step := range FirewallSteps(p) {
		if err := r.Run(step); err != nil {
			return err
		}
	}

	return nil
}
