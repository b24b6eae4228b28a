package runner

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Step описывает один вызов внешней команды в пайплайне установки.
// Шаги не выполняются сами по себе — их запускает Runner.
type Step struct {
	Desc   string   // человекочитаемое описание шага
	Cmd    string   // имя команды
	Args   []string // аргументы
	Input  string   // данные для stdin (например, для chpasswd)
	Dir    string   // рабочая директория (пустая — текущая)
	Chroot bool     // выполнять внутри целевой системы через arch-chroot
}

// Runner абстрагирует побочные эффекты установки: запуск команд и запись
// файлов в целевую систему. Реальная реализация вызывает exec, тестовая —
// только записывает шаги.
type Runner interface {
	// Run выполняет шаг и ждет его завершения.
	Run(step Step) error
	// Output выполняет шаг и возвращает его stdout.
	Output(step Step) ([]byte, error)
	// WriteFile записывает файл (создавая родительские директории).
	WriteFile(path string, data []byte, perm fs.FileMode) error
	// AppendFile дописывает данные в конец файла.
	AppendFile(path string, data []byte) error
}

// ExecRunner выполняет шаги через exec.Command. Каждый шаг логируется
// в LogWriter до запуска.
type ExecRunner struct {
	Root      string    // корень целевой системы для chroot-шагов
	LogWriter io.Writer // куда писать ход выполнения
	Verbose   bool      // пробрасывать вывод команд на экран
}

func NewExecRunner(root string, verbose bool) *ExecRunner {
	return &ExecRunner{
		Root:      root,
		LogWriter: os.Stdout,
		Verbose:   verbose,
	}
}

// CommandLine возвращает фактическую команду и аргументы для шага
// с учетом chroot-обертки.
func (r *ExecRunner) CommandLine(step Step) (string, []string) {
	if step.Chroot {
		args := append([]string{r.Root, step.Cmd}, step.Args...)
		return "arch-chroot", args
	}
	return step.Cmd, step.Args
}

func (r *ExecRunner) Run(step Step) error {
	name, args := r.CommandLine(step)
	fmt.Fprintf(r.LogWriter, ">> %s: %s %s\n", step.Desc, name, strings.Join(args, " "))

	cmd := exec.Command(name, args...)
	cmd.Dir = step.Dir
	if step.Input != "" {
		cmd.Stdin = strings.NewReader(step.Input)
	}
	if r.Verbose {
		cmd.Stdout = r.LogWriter
		cmd.Stderr = r.LogWriter
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("step %q failed: %w", step.Desc, err)
		}
		return nil
	}

	// В обычном режиме собираем вывод и показываем его только при ошибке
	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			fmt.Fprintln(r.LogWriter, strings.TrimSpace(string(out)))
		}
		return fmt.Errorf("step %q failed: %w", step.Desc, err)
	}
	return nil
}

func (r *ExecRunner) Output(step Step) ([]byte, error) {
	name, args := r.CommandLine(step)
	fmt.Fprintf(r.LogWriter, ">> %s: %s %s\n", step.Desc, name, strings.Join(args, " "))

	cmd := exec.Command(name, args...)
	cmd.Dir = step.Dir
	if step.Input != "" {
		cmd.Stdin = strings.NewReader(step.Input)
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("step %q failed: %w", step.Desc, err)
	}
	return out, nil
}

func (r *ExecRunner) WriteFile(path string, data []byte, perm fs.FileMode) error {
	fmt.Fprintf(r.LogWriter, ">> write %s\n", path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (r *ExecRunner) AppendFile(path string, data []byte) error {
	fmt.Fprintf(r.LogWriter, ">> append %s\n", path)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}

// DryRunner печатает шаги, не выполняя их. Используется для режима --dry-run.
type DryRunner struct {
	Root      string
	LogWriter io.Writer
}

func NewDryRunner(root string) *DryRunner {
	return &DryRunner{Root: root, LogWriter: os.Stdout}
}

func (r *DryRunner) Run(step Step) error {
	name := step.Cmd
	args := step.Args
	if step.Chroot {
		args = append([]string{r.Root, step.Cmd}, step.Args...)
		name = "arch-chroot"
	}
	fmt.Fprintf(r.LogWriter, "DRY: %s %s\n", name, strings.Join(args, " "))
	return nil
}

func (r *DryRunner) Output(step Step) ([]byte, error) {
	if err := r.Run(step); err != nil {
		return nil, err
	}
	return nil, nil
}

func (r *DryRunner) WriteFile(path string, data []byte, perm fs.FileMode) error {
	fmt.Fprintf(r.LogWriter, "DRY: write %s (%d bytes)\n", path, len(data))
	return nil
}

func (r *DryRunner) AppendFile(path string, data []byte) error {
	fmt.Fprintf(r.LogWriter, "DRY: append %s (%d bytes)\n", path, len(data))
	return nil
}

// CheckPrerequisites проверяет, что все необходимые инструменты доступны
// в PATH, до того как мы начнем что-либо разрушать.
func CheckPrerequisites(tools []string) error {
	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found: %s", strings.Join(missing, ", "))
	}
	return nil
}
