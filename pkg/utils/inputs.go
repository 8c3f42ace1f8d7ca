package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"flight-history-collector/internal/domain/entity"
)

// ReadTokenList reads a newline-delimited input list.
// Lines are trimmed and lower-cased and blank lines dropped.
// A missing file is reported as *entity.MissingInputError.
func ReadTokenList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &entity.MissingInputError{Path: path}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseTokenList(string(data)), nil
}

// ReadOptionalTokenList is ReadTokenList for lists that may be absent
func ReadOptionalTokenList(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	tokens, err := ReadTokenList(path)
	var missing *entity.MissingInputError
	if errors.As(err, &missing) {
		return nil, nil
	}
	return tokens, err
}

// ParseTokenList normalizes newline-delimited text into tokens
func ParseTokenList(text string) []string {
	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		token := strings.ToLower(strings.TrimSpace(line))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
