package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	xterm "golang.org/x/term"
)

var (
	infoTag    = color.New(color.FgCyan, color.Bold).Sprint("[*]")
	warnTag    = color.New(color.FgYellow, color.Bold).Sprint("[!]")
	errorTag   = color.New(color.FgRed, color.Bold).Sprint("[x]")
	successTag = color.New(color.FgGreen, color.Bold).Sprint("[+]")
)

// Info выводит информационное сообщение.
func Info(format string, a ...any) {
	fmt.Fprintf(os.Stdout, "%s %s\n", infoTag, fmt.Sprintf(format, a...))
}

// Warn выводит предупреждение.
func Warn(format string, a ...any) {
	fmt.Fprintf(os.Stdout, "%s %s\n", warnTag, fmt.Sprintf(format, a...))
}

// Error выводит сообщение об ошибке в stderr.
func Error(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorTag, fmt.Sprintf(format, a...))
}

// Success выводит сообщение об успешном завершении.
func Success(format string, a ...any) {
	fmt.Fprintf(os.Stdout, "%s %s\n", successTag, fmt.Sprintf(format, a...))
}

// Confirm задает вопрос и читает одну строку ответа. Подтверждением
// считается только "y" или "Y" — любой другой ввод означает отказ.
func Confirm(in io.Reader, prompt string) bool {
	fmt.Fprint(os.Stdout, prompt)

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.TrimSpace(line)
	return strings.EqualFold(answer, "y")
}

// SecretReader читает один секрет (пароль) без эха.
type SecretReader func() (string, error)

// StdinSecretReader возвращает SecretReader, читающий пароль с терминала
// без отображения вводимых символов.
func StdinSecretReader(prompt string) SecretReader {
	return func() (string, error) {
		fmt.Fprint(os.Stdout, prompt)
		pass, err := xterm.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stdout)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pass), nil
	}
}

// ReadPasswordTwice запрашивает пароль дважды и повторяет запрос до тех пор,
// пока оба ввода не совпадут. Пустой пароль не принимается.
func ReadPasswordTwice(read SecretReader) (string, error) {
	for {
		first, err := read()
		if err != nil {
			return "", err
		}
		second, err := read()
		if err != nil {
			return "", err
		}

		if first != "" && first == second {
			return first, nil
		}
		if first == "" {
			Warn("Password must not be empty, try again")
		} else {
			Warn("Passwords do not match, try again")
		}
	}
}
