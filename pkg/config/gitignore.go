package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// LocalPatterns are the .testgen entries that hold machine-local output and
// should stay out of version control. config.yaml itself is shared.
var LocalPatterns = []string{".testgen/*.log", ".testgen/*.jsonl"}

const ignoreHeader = "# tgv local logs and events"

// EnsureIgnored appends any of patterns that the project's .gitignore does not
// already cover. Projects that are not git repositories are left untouched.
// It returns the patterns that were added.
func EnsureIgnored(projectDir string, patterns []string) ([]string, error) {
	if _, err := os.Stat(filepath.Join(projectDir, ".git")); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	path := filepath.Join(projectDir, ".gitignore")
	existing, err := readIgnoreLines(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	var missing []string
	for _, p := range patterns {
		if !coveredBy(existing, p) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}
	if err := appendIgnore(path, missing); err != nil {
		return nil, err
	}
	return missing, nil
}

func readIgnoreLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, strings.TrimPrefix(line, "/"))
	}
	return lines, scanner.Err()
}

// coveredBy reports whether pattern, or the whole .testgen directory, is
// already listed.
func coveredBy(lines []string, pattern string) bool {
	for _, line := range lines {
		switch line {
		case pattern, Dir, Dir + "/", Dir + "/*", Dir + "/**":
			return true
		}
	}
	return false
}

func appendIgnore(path string, patterns []string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var b strings.Builder
	if len(content) > 0 {
		if content[len(content)-1] != '\n' {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(ignoreHeader + "\n")
	for _, p := range patterns {
		b.WriteString(p + "\n")
	}
	_, err = f.WriteString(b.String())
	return err
}
