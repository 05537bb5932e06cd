package runner

import "fmt"

// Language represents a supported submission language.
type Language string

const (
	LanguagePython Language = "python"
	LanguageC      Language = "c"
)

// IsValid checks if the language is supported.
func (l Language) IsValid() bool {
	switch l {
	case LanguagePython, LanguageC:
		return true
	default:
		return false
	}
}

// String returns the language as a string.
func (l Language) String() string {
	return string(l)
}

// Compiled reports whether the language needs a compile step before running.
func (l Language) Compiled() bool {
	return l == LanguageC
}

// ParseLanguage converts a string to a Language.
func ParseLanguage(s string) (Language, error) {
	lang := Language(s)
	if !lang.IsValid() {
		return "", fmt.Errorf("unsupported language: %s", s)
	}
	return lang, nil
}

// LanguageConfig contains language-specific execution settings.
type LanguageConfig struct {
	DockerImage string
	SourceFile  string
	BinaryFile  string
}

// DefaultLanguageConfigs returns default configurations for all supported
// languages.
func DefaultLanguageConfigs() map[Language]LanguageConfig {
	return map[Language]LanguageConfig{
		LanguagePython: {
			DockerImage: "python:3.12-alpine",
			SourceFile:  "main.py",
		},
		LanguageC: {
			DockerImage: "gcc:13-alpine",
			SourceFile:  "main.c",
			BinaryFile:  "solution",
		},
	}
}
