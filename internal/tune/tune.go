package tune

import (
	"path/filepath"

	"archweaver/internal/fsys"
	"archweaver/internal/runner"
)

// File — один тюнинг-файл, записываемый в целевую систему.
type File struct {
	Path    string // путь относительно корня целевой системы
	Content string
}

const ioSchedulerRules = `# Выбор I/O-планировщика по типу устройства
ACTION=="add|change", KERNEL=="sd[a-z]*", ATTR{queue/rotational}=="1", ATTR{queue/scheduler}="bfq"
ACTION=="add|change", KERNEL=="sd[a-z]*|mmcblk[0-9]*", ATTR{queue/rotational}=="0", ATTR{queue/scheduler}="mq-deadline"
ACTION=="add|change", KERNEL=="nvme[0-9]*", ATTR{queue/rotational}=="0", ATTR{queue/scheduler}="none"
`

const gpuOptions = `options amdgpu ppfeaturemask=0xffffffff
`

const zramGenerator = `[zram0]
zram-size = min(ram / 2, 8192)
compression-algorithm = zstd
swap-priority = 100
fs-type = swap
`

const zramRecompressRule = `# Рекомпрессия холодных страниц zram вторым алгоритмом
ACTION=="change", KERNEL=="zram0", ATTR{initstate}=="1", ATTR{recomp_algorithm}="algo=lz4 priority=1"
`

const sysctlTuning = `# Виртуальная память
vm.swappiness = 100
vm.vfs_cache_pressure = 50
vm.dirty_bytes = 268435456
vm.dirty_background_bytes = 67108864
vm.page-cluster = 0

# Ядро
kernel.nmi_watchdog = 0
kernel.split_lock_mitigate = 0

# Сеть
net.core.default_qdisc = cake
net.ipv4.tcp_congestion_control = bbr
net.ipv4.tcp_fastopen = 3
net.ipv4.tcp_slow_start_after_idle = 0

# Файловая система
fs.file-max = 2097152
fs.inotify.max_user_watches = 524288
`

const scrubService = `[Unit]
Description=Btrfs scrub on the root filesystem
ConditionPathIsMountPoint=/

[Service]
Type=oneshot
ExecStart=/usr/bin/btrfs scrub start -B /
Nice=19
IOSchedulingClass=idle
`

const scrubTimer = `[Unit]
Description=Monthly btrfs scrub

[Timer]
OnCalendar=monthly
Persistent=true

[Install]
WantedBy=timers.target
`

// Files возвращает фиксированный набор тюнинг-файлов. Значения параметров
// не валидируются — они записываются как есть.
func Files() []File {
	return []File{
		{Path: "etc/udev/rules.d/60-ioschedulers.rules", Content: ioSchedulerRules},
		{Path: "etc/modprobe.d/amdgpu.conf", Content: gpuOptions},
		{Path: "etc/systemd/zram-generator.conf", Content: zramGenerator},
		{Path: "etc/udev/rules.d/99-zram-recompress.rules", Content: zramRecompressRule},
		{Path: "etc/sysctl.d/99-tuning.conf", Content: sysctlTuning},
		{Path: "etc/systemd/system/btrfs-scrub.service", Content: scrubService},
		{Path: "etc/systemd/system/btrfs-scrub.timer", Content: scrubTimer},
	}
}

// Apply записывает все тюнинг-файлы в целевую систему.
func Apply(r runner.Runner) error {
	for _, f := range Files() {
		path := filepath.Join(fsys.WorkRoot, f.Path)
		if err := r.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return err
		}
	}
	return nil
}
