package profile

// Desktop — полный профиль: рабочая станция с btrfs-подтомами для tmp/srv,
// расширенным списком пакетов и пост-установочным этапом (AUR, сервисы, ufw).
func Desktop() *Profile {
	return &Profile{
		Name:     "desktop",
		Drive:    "/dev/nvme0n1",
		Hostname: "archbox",
		Username: "arch",
		Timezone: "Europe/Moscow",
		Locale:   "en_US.UTF-8",

		EFISize:   "2G",
		MountOpts: "noatime,compress=zstd:3,ssd,discard=async,space_cache=v2,commit=120",

		Subvolumes: []Subvolume{
			{Name: "@", Mountpoint: "/"},
			{Name: "@home", Mountpoint: "/home"},
			{Name: "@cache", Mountpoint: "/var/cache"},
			{Name: "@log", Mountpoint: "/var/log"},
			{Name: "@pkg", Mountpoint: "/var/cache/pacman/pkg"},
			{Name: "@tmp", Mountpoint: "/tmp"},
			{Name: "@srv", Mountpoint: "/srv"},
			{Name: "@snapshots", Mountpoint: "/.snapshots"},
		},

		BasePackages: []string{
			"base", "base-devel", "linux", "linux-firmware",
			"btrfs-progs", "grub", "efibootmgr",
			"networkmanager", "sudo", "vim", "git",
			"zram-generator",
		},
		ExtraPackages: []string{
			"pipewire", "pipewire-pulse", "wireplumber",
			"firefox", "htop", "man-db", "man-pages",
			"ufw", "openssh", "zsh", "noto-fonts",
		},
		AURPackages: []string{
			"btrfs-assistant", "informant",
		},
		Services: []string{
			"NetworkManager", "fstrim.timer", "btrfs-scrub.timer",
			"systemd-timesyncd", "sshd",
		},
		AllowedPorts: []string{
			"22/tcp", "443/tcp",
		},

		GrubCmdline: "loglevel=3 quiet nowatchdog zswap.enabled=0",
		GrubTimeout: 1,
	}
}

// Minimal — сокращенный профиль: EFI меньше, подтомов и пакетов меньше,
// пост-установочный этап не предполагается.
func Minimal() *Profile {
	return &Profile{
		Name:     "minimal",
		Drive:    "/dev/nvme0n1",
		Hostname: "archbox",
		Username: "arch",
		Timezone: "Europe/Moscow",
		Locale:   "en_US.UTF-8",

		EFISize:   "1G",
		MountOpts: "noatime,compress=zstd:1,ssd,discard=async,commit=60",

		Subvolumes: []Subvolume{
			{Name: "@", Mountpoint: "/"},
			{Name: "@home", Mountpoint: "/home"},
			{Name: "@cache", Mountpoint: "/var/cache"},
			{Name: "@log", Mountpoint: "/var/log"},
			{Name: "@pkg", Mountpoint: "/var/cache/pacman/pkg"},
			{Name: "@snapshots", Mountpoint: "/.snapshots"},
		},

		BasePackages: []string{
			"base", "linux", "linux-firmware",
			"btrfs-progs", "grub", "efibootmgr",
			"networkmanager", "sudo", "vim",
			"zram-generator",
		},
		Services: []string{
			"NetworkManager", "fstrim.timer", "systemd-timesyncd",
		},

		GrubCmdline: "loglevel=3 quiet nowatchdog",
		GrubTimeout: 1,
	}
}
