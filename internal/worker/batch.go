package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/cimbrief/internal/model"
)

// Runner runs the full pipeline for one input document
type Runner interface {
	RunDocument(ctx context.Context, inputPath, summaryPath, deckPath string) (*model.RunResult, error)
}

// DocumentJob summarizes one document into OutputDir
type DocumentJob struct {
	InputPath string
	OutputDir string
	DeckExt   string
	Runner    Runner
}

// Execute executes the document job
func (j *DocumentJob) Execute(ctx context.Context) Result {
	slug := Slug(j.InputPath)
	ext := j.DeckExt
	if ext == "" {
		ext = ".pptx"
	}
	summaryPath := filepath.Join(j.OutputDir, slug+".md")
	deckPath := filepath.Join(j.OutputDir, slug+ext)

	result, err := j.Runner.RunDocument(ctx, j.InputPath, summaryPath, deckPath)
	return &DocumentResult{
		InputPath: j.InputPath,
		Run:       result,
		Error:     err,
	}
}

// DocumentResult represents the result of a document job
type DocumentResult struct {
	InputPath string
	Run       *model.RunResult
	Error     error
}

// GetError returns the error from the document result
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple documents concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
	outputDir   string
	deckExt     string
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int, outputDir, deckExt string) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
		outputDir:   outputDir,
		deckExt:     deckExt,
	}
}

// ProcessPaths processes documents concurrently; results follow input order
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DocumentResult {
	if len(paths) == 0 {
		return []*DocumentResult{}
	}

	jobs := make([]Job, 0, len(paths))
	for _, path := range paths {
		jobs = append(jobs, &DocumentJob{
			InputPath: path,
			OutputDir: b.outputDir,
			DeckExt:   b.deckExt,
			Runner:    b.runner,
		})
	}

	results := Run(ctx, b.concurrency, jobs...)

	docResults := make([]*DocumentResult, len(results))
	for i, result := range results {
		docResults[i] = result.(*DocumentResult)
	}

	return docResults
}

// ProcessSource expands a directory or list file and processes every document
func (b *BatchProcessor) ProcessSource(ctx context.Context, source string) ([]*DocumentResult, error) {
	paths, err := ExpandSource(source)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ExpandSource returns the documents named by source: the supported files of
// a directory, or the paths listed in a text file (one per line)
func ExpandSource(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", source, err)
	}
	if info.IsDir() {
		return readDir(source)
	}
	return ReadPathsFromFile(source)
}

func readDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !batchExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

var batchExtensions = map[string]bool{
	".pdf": true, ".docx": true, ".odt": true,
	".html": true, ".htm": true, ".txt": true, ".md": true,
}

// ReadPathsFromFile reads document paths from a file (one per line).
// Relative paths resolve against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// Slug turns a document path into a safe output file stem
func Slug(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}

	s := strings.Trim(b.String(), "-")
	if s == "" {
		s = "document"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
