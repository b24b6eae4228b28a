package install

import (
	"archweaver/internal/fsys"
	"archweaver/internal/profile"
	"archweaver/internal/runner"
	"archweaver/internal/term"
)

// Packages возвращает итоговый список пакетов базовой установки:
// список из профиля плюс пакет микрокода, если производитель CPU известен.
func Packages(p *profile.Profile, microcode string) []string {
	pkgs := make([]string, 0, len(p.BasePackages)+1)
	pkgs = append(pkgs, p.BasePackages...)
	if microcode != "" {
		pkgs = append(pkgs, microcode)
	}
	return pkgs
}

// Step возвращает шаг установки базовой системы через pacstrap.
func Step(p *profile.Profile, microcode string) runner.Step {
	args := append([]string{"-K", fsys.WorkRoot}, Packages(p, microcode)...)
	return runner.Step{
		Desc: "install base system",
		Cmd:  "pacstrap",
		Args: args,
	}
}

// Run устанавливает базовую систему. Ненулевой код выхода pacstrap
// фатален: установка прерывается без отката.
func Run(r runner.Runner, p *profile.Profile) error {
	microcode := profile.DetectMicrocode()
	if microcode != "" {
		term.Info("Detected CPU microcode package: %s", microcode)
	}
	return r.Run(Step(p, microcode))
}
