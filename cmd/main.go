package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"archweaver/internal/disk"
	"archweaver/internal/fsys"
	"archweaver/internal/install"
	"archweaver/internal/postinstall"
	"archweaver/internal/profile"
	"archweaver/internal/runner"
	"archweaver/internal/sysconfig"
	"archweaver/internal/term"
	"archweaver/internal/tune"
)

var (
	// Флаги
	configPath string
	drive      string
	verbose    bool
	dryRun     bool
)

// geteuid подменяется в тестах
var geteuid = os.Geteuid

// installTools — инструменты, необходимые этапу установки.
var installTools = []string{
	"sgdisk", "partprobe", "mkfs.fat", "mkfs.btrfs", "btrfs",
	"mount", "umount", "mkdir", "pacstrap", "genfstab", "arch-chroot",
}

// setupTools — инструменты, необходимые пост-установочному этапу.
var setupTools = []string{
	"git", "sudo", "pacman", "systemctl", "ufw",
}

// rootCmd представляет базовую команду
var rootCmd = &cobra.Command{
	Use:   "archweaver",
	Short: "ArchWeaver - automated Arch Linux installer",
	Long: `ArchWeaver automates installation and post-install configuration of an
Arch Linux system: disk partitioning, btrfs subvolume layout, base package
installation, chroot-based configuration and system tuning.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Запуск без подкоманды — ошибка, а не тихий успех
		cmd.Help()
		return fmt.Errorf("no command specified")
	},
}

// installCmd выполняет полный пайплайн установки
var installCmd = &cobra.Command{
	Use:   "install [profile]",
	Short: "Install Arch Linux onto the configured drive",
	Long: `Run the full installation pipeline: partition the drive, build the
btrfs subvolume layout, install the base system, configure it inside
chroot and write tuning files. The pipeline is strictly sequential and
aborts on the first error without rollback.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProfile(args)
		if err != nil {
			return err
		}

		if !dryRun {
			if geteuid() != 0 {
				return fmt.Errorf("archweaver install must be run as root")
			}
			if err := runner.CheckPrerequisites(installTools); err != nil {
				return err
			}
			if p.Password == "" {
				pass, err := term.ReadPasswordTwice(term.StdinSecretReader("Password: "))
				if err != nil {
					return err
				}
				p.Password = pass
			}
		}

		r := newRunner()
		return runInstall(r, p, os.Stdin, !dryRun)
	},
}

// setupCmd выполняет пост-установочный этап на работающей системе
var setupCmd = &cobra.Command{
	Use:   "setup [profile]",
	Short: "Provision AUR helper, packages, services and firewall",
	Long: `Run the post-install stage on an already installed and booted system:
build an AUR helper as the created user, install additional packages,
extend the user environment, enable services and configure the firewall.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProfile(args)
		if err != nil {
			return err
		}

		if !dryRun {
			if geteuid() != 0 {
				return fmt.Errorf("archweaver setup must be run as root")
			}
			if err := runner.CheckPrerequisites(setupTools); err != nil {
				return err
			}
		}

		r := newRunner()
		if err := postinstall.Run(r, p); err != nil {
			return err
		}
		term.Success("Post-install setup completed")
		return nil
	},
}

// profilesCmd перечисляет встроенные профили
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List built-in installation profiles",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range profile.Names() {
			p, _ := profile.ByName(name)
			fmt.Printf("%-10s EFI %s, %d subvolumes, %d base packages\n",
				name, p.EFISize, len(p.Subvolumes), len(p.BasePackages))
		}
	},
}

// versionCmd отображает версию
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ArchWeaver",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ArchWeaver v0.2.0")
	},
}

// resolveProfile выбирает встроенный профиль по аргументу команды и
// применяет переопределения: YAML-файл и флаг --drive.
func resolveProfile(args []string) (*profile.Profile, error) {
	name := "desktop"
	if len(args) > 0 {
		name = args[0]
	}

	p, err := profile.ByName(name)
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		p, err = profile.Load(configPath, p)
		if err != nil {
			return nil, err
		}
	}
	if drive != "" {
		p.Drive = drive
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func newRunner() runner.Runner {
	if dryRun {
		return runner.NewDryRunner(fsys.WorkRoot)
	}
	return runner.NewExecRunner(fsys.WorkRoot, verbose)
}

// runInstall прогоняет все этапы установки строго по порядку. Первый
// сбой прерывает пайплайн: последующие этапы не выполняются, отката нет.
func runInstall(r runner.Runner, p *profile.Profile, confirmIn io.Reader, wait bool) error {
	term.Info("Installing profile %q to %s", p.Name, p.Drive)

	if err := disk.Prepare(r, p, confirmIn); err != nil {
		return err
	}
	if wait {
		if err := disk.WaitForPartitions(p); err != nil {
			return err
		}
	}
	term.Success("Disk partitioned")

	if err := fsys.Build(r, p); err != nil {
		return err
	}
	term.Success("Filesystems created and mounted")

	if err := install.Run(r, p); err != nil {
		return err
	}
	term.Success("Base system installed")

	if err := sysconfig.Configure(r, p); err != nil {
		return err
	}
	term.Success("System configured")

	if err := tune.Apply(r); err != nil {
		return err
	}
	term.Success("Tuning files written")

	if err := fsys.UnmountAll(r, fsys.WorkRoot); err != nil {
		term.Warn("Some filesystems could not be unmounted: %v", err)
	}

	term.Success("Installation finished, you can reboot now")
	return nil
}

func init() {
	// Глобальные флаги
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Print commands without executing them")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML profile override")
	rootCmd.PersistentFlags().StringVarP(&drive, "drive", "d", "", "Target drive (overrides the profile)")

	// Добавляем подкоманды
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(versionCmd)

	// Отключаем вывод справки при ошибках
	installCmd.SilenceUsage = true
	installCmd.SilenceErrors = true
	setupCmd.SilenceUsage = true
	setupCmd.SilenceErrors = true
	rootCmd.SilenceErrors = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		term.Error("%v", err)
		os.Exit(1)
	}
}
