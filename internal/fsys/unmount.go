package fsys

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"

	"archweaver/internal/runner"
	"archweaver/internal/term"
)

// procMounts подменяется в тестах.
var procMounts = "/proc/mounts"

// mountsUnder находит все точки монтирования внутри указанного пути.
// Возвращаются от самых вложенных к внешним, чтобы размонтирование
// шло в правильном порядке.
func mountsUnder(root string) ([]string, error) {
	data, err := os.ReadFile(procMounts)
	if err != nil {
		return nil, err
	}

	var mounts []string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		mountPoint := fields[1]
		if mountPoint == root || strings.HasPrefix(mountPoint, root+"/") {
			mounts = append(mounts, mountPoint)
		}
	}

	sort.SliceStable(mounts, func(i, j int) bool {
		return len(mounts[i]) > len(mounts[j])
	})
	return mounts, nil
}

// UnmountAll размонтирует все, что смонтировано под корнем целевой
// системы. Каждая точка размонтируется с несколькими попытками, после
// чего следует lazy-размонтирование. Ошибки собираются, но не прерывают
// обход — попытка делается для каждой точки.
func UnmountAll(r runner.Runner, root string) error {
	mounts, err := mountsUnder(root)
	if err != nil {
		return err
	}

	var result *multierror.Error
	for _, mnt := range mounts {
		umount := func() error {
			return r.Run(runner.Step{
				Desc: "unmount " + mnt,
				Cmd:  "umount",
				Args: []string{mnt},
			})
		}
		policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), 2)
		if err := backoff.Retry(umount, policy); err != nil {
			// Последний шанс — lazy-размонтирование
			lazyErr := r.Run(runner.Step{
				Desc: "lazy unmount " + mnt,
				Cmd:  "umount",
				Args: []string{"-l", mnt},
			})
			if lazyErr != nil {
				term.Warn("Failed to unmount %s", mnt)
				result = multierror.Append(result, lazyErr)
			}
		}
	}
	return result.ErrorOrNil()
}
