package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Subvolume описывает btrfs-подтом и точку его монтирования
// относительно корня целевой системы.
type Subvolume struct {
	Name       string `yaml:"name"`
	Mountpoint string `yaml:"mountpoint"`
}

// Profile содержит все параметры установки. Два встроенных профиля
// ("desktop" и "minimal") соответствуют двум вариантам установки,
// любой из них можно переопределить YAML-файлом.
type Profile struct {
	Name     string `yaml:"name"`
	Drive    string `yaml:"drive"`
	Hostname string `yaml:"hostname"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Timezone string `yaml:"timezone"`
	Locale   string `yaml:"locale"`

	EFISize   string `yaml:"efi_size"`   // размер EFI-раздела, например "2G"
	MountOpts string `yaml:"mount_opts"` // опции монтирования btrfs-подтомов

	// Подтома перечислены в порядке монтирования: родительские точки
	// должны идти раньше вложенных.
	Subvolumes []Subvolume `yaml:"subvolumes"`

	BasePackages  []string `yaml:"base_packages"`
	ExtraPackages []string `yaml:"extra_packages"`
	AURPackages   []string `yaml:"aur_packages"`
	Services      []string `yaml:"services"`
	AllowedPorts  []string `yaml:"allowed_ports"` // правила ufw вида "443/tcp"

	GrubCmdline string `yaml:"grub_cmdline"`
	GrubTimeout int    `yaml:"grub_timeout"`
}

// EFIPartition возвращает путь к EFI-разделу: диск + суффикс "p1".
func (p *Profile) EFIPartition() string {
	return p.Drive + "p1"
}

// RootPartition возвращает путь к корневому разделу: диск + суффикс "p2".
func (p *Profile) RootPartition() string {
	return p.Drive + "p2"
}

// Validate проверяет обязательные поля профиля. Корректность значений
// (существование диска, синтаксис локали) не проверяется — ошибки
// всплывут из внешних инструментов.
func (p *Profile) Validate() error {
	if p.Drive == "" {
		return fmt.Errorf("drive is not specified in profile %q", p.Name)
	}
	if p.Hostname == "" {
		return fmt.Errorf("hostname is not specified in profile %q", p.Name)
	}
	if p.Username == "" {
		return fmt.Errorf("username is not specified in profile %q", p.Name)
	}
	if len(p.Subvolumes) == 0 || p.Subvolumes[0].Mountpoint != "/" {
		return fmt.Errorf("profile %q must list the root subvolume first", p.Name)
	}
	return nil
}

// ByName возвращает встроенный профиль по имени.
func ByName(name string) (*Profile, error) {
	switch name {
	case "desktop":
		return Desktop(), nil
	case "minimal":
		return Minimal(), nil
	default:
		return nil, fmt.Errorf("unknown profile %q (available: desktop, minimal)", name)
	}
}

// Names возвращает имена встроенных профилей.
func Names() []string {
	return []string{"desktop", "minimal"}
}

// Load загружает профиль из YAML-файла поверх значений base.
func Load(path string, base *Profile) (*Profile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("profile file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading profile file: %w", err)
	}

	p := *base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("error parsing profile file: %w", err)
	}
	return &p, nil
}

// cpuinfoPath подменяется в тестах.
var cpuinfoPath = "/proc/cpuinfo"

// DetectMicrocode определяет пакет микрокода по производителю CPU.
// Если производитель неизвестен, возвращается пустая строка.
func DetectMicrocode() string {
	data, err := os.ReadFile(cpuinfoPath)
	if err != nil {
		return ""
	}
	content := string(data)
	switch {
	case strings.Contains(content, "GenuineIntel"):
		return "intel-ucode"
	case strings.Contains(content, "AuthenticAMD"):
		return "amd-ucode"
	default:
		return ""
	}
}
