package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

// DefaultExportName is the file name used when downloading a prompt
const DefaultExportName = "prompt.txt"

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ExportText writes content to path exactly as given
func ExportText(path, content string) error {
	if path == "" {
		path = DefaultExportName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.ExportError("create directory", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return apperrors.ExportError("write "+path, err)
	}
	return nil
}

// ExportSaved writes p as markdown with YAML frontmatter into dir and returns the path
func ExportSaved(dir string, p models.SavedPrompt) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.ExportError("create directory", err)
	}

	content, err := serializeSavedPrompt(p)
	if err != nil {
		return "", apperrors.ExportError("serialize "+p.Name, err)
	}

	path := filepath.Join(dir, fileNameFor(p))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", apperrors.ExportError("write "+path, err)
	}
	return path, nil
}

// ReadPromptFile returns the prompt text stored at path. Files written by
// ExportSaved have their frontmatter stripped; anything else is returned as is.
func ReadPromptFile(path string) (models.SavedPrompt, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.SavedPrompt{}, fmt.Errorf("failed to read prompt file: %w", err)
	}
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return models.SavedPrompt{Name: filepath.Base(path), Content: string(content)}, nil
	}
	return parseSavedPrompt(content)
}

func fileNameFor(p models.SavedPrompt) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(p.Name), "-"), "-")
	if name == "" {
		name = p.ID
	}
	return name + ".md"
}

func serializeSavedPrompt(p models.SavedPrompt) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n")

	if p.Content != "" {
		buf.WriteString("\n")
		buf.WriteString(p.Content)
		if !strings.HasSuffix(p.Content, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

func parseSavedPrompt(content []byte) (models.SavedPrompt, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	// A single line may be as long as the whole file
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)

	if !scanner.Scan() || scanner.Text() != "---" {
		return models.SavedPrompt{}, fmt.Errorf("missing frontmatter delimiter")
	}

	var frontmatterLines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}
	if err := scanner.Err(); err != nil {
		return models.SavedPrompt{}, fmt.Errorf("failed to read frontmatter: %w", err)
	}

	var p models.SavedPrompt
	if err := yaml.Unmarshal([]byte(strings.Join(frontmatterLines, "\n")), &p); err != nil {
		return models.SavedPrompt{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	var contentLines []string
	for scanner.Scan() {
		contentLines = append(contentLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return models.SavedPrompt{}, fmt.Errorf("failed to read prompt body: %w", err)
	}
	p.Content = strings.TrimLeft(strings.Join(contentLines, "\n"), "\n")

	return p, nil
}
