// Package bookmark finds TODO and FIXME comments in a source tree and turns
// them into tasks.
package bookmark

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"pomodorotasks/internal/core/model"
)

// DefaultExclude lists the patterns skipped unless Scanner.Exclude is set.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/out/**",
	"**/dist/**",
	"**/.git/**",
	"**/*.vsix",
	"**/*.min.js",
}

var commentPattern = regexp.MustCompile(`(?i)\b(TODO|FIXME):\s*(.*)`)

var codeExtensions = map[string]struct{}{}

func init() {
	for _, ext := range strings.Fields(`.ts .js .tsx .jsx .json .py .java .c .cpp .h .hpp .cs .php .rb .go .rs
		.swift .kt .scala .dart .vue .svelte .html .css .scss .less .sass .xml .yaml .yml .toml .ini .sql .sh
		.ps1 .bat .cmd .md .txt .config .conf .dockerfile .gitignore .env`) {
		codeExtensions[ext] = struct{}{}
	}
}

// Comment is one TODO or FIXME line.
type Comment struct {
	Type       string
	Content    string
	FilePath   string
	LineNumber int
	FullLine   string
}

// Scanner walks Root on Fs looking for comments.
type Scanner struct {
	Fs      afero.Fs
	Root    string
	Exclude []string
}

// NewScanner returns a scanner over the OS filesystem with the default excludes.
func NewScanner(root string) *Scanner {
	return &Scanner{Fs: afero.NewOsFs(), Root: root, Exclude: DefaultExclude}
}

// Scan returns every comment under Root in walk order.
func (scanner *Scanner) Scan(ctx context.Context) ([]Comment, error) {
	var comments []Comment
	err := afero.Walk(scanner.Fs, scanner.Root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Printf("bookmark: walk %s: %v", path, err)
			return nil
		}
		if info.IsDir() {
			if path != scanner.Root && scanner.excluded(filepath.Join(path, "x")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isCodeFile(path) || scanner.excluded(path) {
			return nil
		}

		found, err := scanner.scanFile(path)
		if err != nil {
			log.Printf("bookmark: scan %s: %v", path, err)
			return nil
		}
		comments = append(comments, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", scanner.Root, err)
	}
	return comments, nil
}

// Tasks scans and converts every comment to a bookmark task.
func (scanner *Scanner) Tasks(ctx context.Context) ([]model.Task, error) {
	comments, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, len(comments))
	for _, comment := range comments {
		tasks = append(tasks, ToTask(comment, scanner.relative(comment.FilePath)))
	}
	return tasks, nil
}

func (scanner *Scanner) scanFile(path string) ([]Comment, error) {
	data, err := afero.ReadFile(scanner.Fs, path)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(data[:min(len(data), 512)], 0) >= 0 {
		return nil, nil
	}

	var comments []Comment
	lines := bufio.NewScanner(bytes.NewReader(data))
	lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNumber := 1; lines.Scan(); lineNumber++ {
		line := lines.Text()
		match := commentPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		comments = append(comments, Comment{
			Type:       strings.ToUpper(match[1]),
			Content:    strings.TrimSpace(match[2]),
			FilePath:   path,
			LineNumber: lineNumber,
			FullLine:   strings.TrimSpace(line),
		})
	}
	return comments, lines.Err()
}

func (scanner *Scanner) excluded(path string) bool {
	relPath := filepath.ToSlash(scanner.relative(path))
	for _, pattern := range scanner.Exclude {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

func (scanner *Scanner) relative(path string) string {
	relPath, err := filepath.Rel(scanner.Root, path)
	if err != nil {
		return path
	}
	return relPath
}

func isCodeFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return true
	}
	_, ok := codeExtensions[ext]
	return ok
}

var idSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// bookmarkID keeps the key readable and appends its hash, since sanitizing
// alone maps a/b.go and a_b.go to the same id.
func bookmarkID(key string) string {
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(key))
	return fmt.Sprintf("bookmark_%s_%016x", idSanitizer.ReplaceAllString(key, "_"), hash.Sum64())
}

// ToTask converts comment to a one-pomodoro bookmark task. relPath is the
// comment's file relative to the scanned root and keeps ids stable across
// checkouts.
func ToTask(comment Comment, relPath string) model.Task {
	relPath = filepath.ToSlash(relPath)
	name := fmt.Sprintf("%s in %s", comment.Type, filepath.Base(comment.FilePath))
	if comment.Content != "" {
		name = fmt.Sprintf("%s: %s", comment.Type, comment.Content)
	}

	key := fmt.Sprintf("%s:%d:%s", relPath, comment.LineNumber, comment.Type)
	return model.Task{
		ID:                 bookmarkID(key),
		Name:               name,
		Description:        fmt.Sprintf("📄 %s:%d\n💬 %s", relPath, comment.LineNumber, comment.FullLine),
		EstimatedPomodoros: 1,
		IsBookmark:         true,
		FilePath:           comment.FilePath,
		LineNumber:         comment.LineNumber,
	}
}
