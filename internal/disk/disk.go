package disk

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"archweaver/internal/profile"
	"archweaver/internal/runner"
	"archweaver/internal/term"
)

// stat и waitPolicy подменяются в тестах, чтобы не требовать реальных
// устройств и не ждать настоящие интервалы.
var (
	stat       = os.Stat
	waitPolicy = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 10)
	}
)

// Steps возвращает последовательность команд разметки диска:
// очистка таблицы разделов, EFI-раздел, корневой раздел, проверка
// таблицы и уведомление ядра о новой разметке.
func Steps(p *profile.Profile) []runner.Step {
	return []runner.Step{
		{
			Desc: "erase partition table",
			Cmd:  "sgdisk",
			Args: []string{"--zap-all", p.Drive},
		},
		{
			Desc: "create EFI system partition",
			Cmd:  "sgdisk",
			Args: []string{"-n", "1:0:+" + p.EFISize, "-t", "1:ef00", "-c", "1:EFI", p.Drive},
		},
		{
			Desc: "create root partition",
			Cmd:  "sgdisk",
			Args: []string{"-n", "2:0:0", "-t", "2:8300", "-c", "2:ROOT", p.Drive},
		},
		{
			Desc: "verify partition table",
			Cmd:  "sgdisk",
			Args: []string{"--verify", p.Drive},
		},
		{
			Desc: "reread partition table",
			Cmd:  "partprobe",
			Args: []string{p.Drive},
		},
	}
}

// Prepare размечает диск после интерактивного подтверждения. Любой ответ,
// кроме "y"/"Y", отменяет установку до выполнения первой разрушающей
// команды. Ошибка проверки таблицы разделов фатальна.
func Prepare(r runner.Runner, p *profile.Profile, confirm io.Reader) error {
	term.Warn("ALL data on %s will be destroyed!", p.Drive)
	if !term.Confirm(confirm, "Continue? [y/N] ") {
		return fmt.Errorf("installation cancelled by user")
	}

	for _, step := range Steps(p) {
		if err := r.Run(step); err != nil {
			return err
		}
	}
	return nil
}

// WaitForPartitions ждет появления файлов устройств разделов: после
// partprobe ядру нужно время, чтобы создать узлы в /dev. В режиме
// dry-run вызывать не нужно.
func WaitForPartitions(p *profile.Profile) error {
	for _, dev := range []string{p.EFIPartition(), p.RootPartition()} {
		dev := dev
		check := func() error {
			if _, err := stat(dev); err != nil {
				return fmt.Errorf("partition device %s did not appear: %w", dev, err)
			}
			return nil
		}
		if err := backoff.Retry(check, waitPolicy()); err != nil {
			return err
		}
	}
	return nil
}
