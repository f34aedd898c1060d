package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads variables from a .env file. Blank lines and
// "#" comments are skipped, values may be wrapped in single or
// double quotes, and lines without "=" are ignored.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf(
			"open env file %s: %w", path, err,
		)
	}
	defer file.Close()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove surrounding quotes
		value = strings.Trim(value, `"'`)
		vars[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(
			"read env file %s: %w", path, err,
		)
	}
	return vars, nil
}

// InsertFile returns a copy of the environment extended with
// every variable of a .env file.
func (e Environment) InsertFile(
	path string,
) (Environment, error) {
	vars, err := LoadFile(path)
	if err != nil {
		return Environment{}, err
	}
	return e.InsertMap(vars), nil
}
