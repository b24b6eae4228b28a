package runner

import (
	"fmt"
	"io/fs"
)

// Recorder записывает шаги вместо их выполнения. Используется в тестах
// для проверки состава и порядка шагов без обращения к реальным дискам.
type Recorder struct {
	Steps   []Step
	Files   map[string][]byte
	Appends map[string][]byte

	// FailOn заставляет Run вернуть ошибку для шага с указанной командой.
	FailOn string
	// Outputs задает stdout для команд, запрашиваемых через Output.
	Outputs map[string][]byte
}

func NewRecorder() *Recorder {
	return &Recorder{
		Files:   make(map[string][]byte),
		Appends: make(map[string][]byte),
		Outputs: make(map[string][]byte),
	}
}

func (r *Recorder) Run(step Step) error {
	if r.FailOn != "" && step.Cmd == r.FailOn {
		return fmt.Errorf("simulated failure of %s", step.Cmd)
	}
	r.Steps = append(r.Steps, step)
	return nil
}

func (r *Recorder) Output(step Step) ([]byte, error) {
	if err := r.Run(step); err != nil {
		return nil, err
	}
	return r.Outputs[step.Cmd], nil
}

func (r *Recorder) WriteFile(path string, data []byte, perm fs.FileMode) error {
	r.Files[path] = data
	return nil
}

func (r *Recorder) AppendFile(path string, data []byte) error {
	r.Appends[path] = append(r.Appends[path], data...)
	return nil
}

// Commands возвращает команды записанных шагов в порядке выполнения.
func (r *Recorder) Commands() []string {
	var cmds []string
	for _, s := range r.Steps {
		cmds = append(cmds, s.Cmd)
	}
	return cmds
}

// Index возвращает позицию первого шага, для которого предикат вернул true,
// либо -1, если такого шага нет.
func (r *Recorder) Index(match func(Step) bool) int {
	for i, s := range r.Steps {
		if match(s) {
			return i
		}
	}
	return -1
}
