package config

import (
	"os/exec"
	"strings"
)

// FindBinOr falls back when which finds nothing, spleeter may be missing until provisioned
func FindBinOr(bin string, fallback string) string {
	output, err := exec.Command("which", bin).Output()
	if err != nil {
		return fallback
	}

	trimmedOutput := strings.TrimSpace(string(output))
	if trimmedOutput == "" {
		return fallback
	}

	return trimmedOutput
}

func SpleeterPath() string {
	return FindBinOr("spleeter", "spleeter")
}

func PythonPath() string {
	return FindBinOr("python3", "python3")
}
