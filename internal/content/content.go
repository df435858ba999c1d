// Package content reads post records from a content directory.
//
// Supported sources:
//   - .md, .mdx: YAML front matter followed by a Markdown body
//   - .yaml, .yml: a manifest listing records under "posts"
//   - .xlsx: a manifest sheet whose first row names the columns
//   - .pdf, .docx: the post body, with metadata in a "<name>.meta.yaml" sidecar
package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/hyperjump/motoblog/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SidecarSuffix marks metadata files that accompany PDF and DOCX posts.
const SidecarSuffix = ".meta.yaml"

// DefaultExtensions are the file extensions read when none are configured.
var DefaultExtensions = []string{".md", ".mdx", ".yaml", ".yml", ".xlsx", ".pdf", ".docx"}

// yamlFormat parses front matter with yaml.v3 so dates stay as written.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Loader reads post records from files.
type Loader struct {
	extensions map[string]bool
	logger     *zap.Logger
}

// NewLoader creates a loader accepting the given extensions (with leading dot).
// An empty list uses DefaultExtensions.
func NewLoader(extensions []string, logger *zap.Logger) *Loader {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	return &Loader{extensions: exts, logger: logger}
}

// Accepts reports whether path is a post source this loader reads. Sidecars are not.
func (l *Loader) Accepts(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, SidecarSuffix) {
		return false
	}
	return l.extensions[filepath.Ext(name)]
}

// IsRelevant reports whether a change to path can affect the loaded records,
// which includes sidecars.
func (l *Loader) IsRelevant(path string) bool {
	return l.Accepts(path) || strings.HasSuffix(strings.ToLower(path), SidecarSuffix)
}

// LoadDir reads every accepted file under dir in lexical path order. Every unreadable
// file is reported; records from the readable ones are returned alongside the error.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]models.PostInput, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if l.Accepts(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	var records []models.PostInput
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := l.LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for i := range recs {
			if rel, err := filepath.Rel(dir, path); err == nil {
				recs[i].Source = strings.Replace(recs[i].Source, path, filepath.ToSlash(rel), 1)
			}
		}
		records = append(records, recs...)
	}
	l.logger.Debug("content loaded",
		zap.String("dir", dir),
		zap.Int("files", len(paths)),
		zap.Int("records", len(records)),
		zap.Int("errors", len(errs)),
	)
	return records, errors.Join(errs...)
}

// LoadFile reads the post records in one file.
func (l *Loader) LoadFile(path string) ([]models.PostInput, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var recs []models.PostInput
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".md", ".mdx":
		var rec models.PostInput
		rec, err = parseMarkdown(path, content)
		recs = []models.PostInput{rec}
	case ".yaml", ".yml":
		recs, err = parseYAMLManifest(path, content)
	case ".xlsx":
		recs, err = parseExcelManifest(path, content)
	case ".pdf", ".docx":
		var rec models.PostInput
		rec, err = parseDocument(path, ext, content)
		recs = []models.PostInput{rec}
	default:
		return nil, fmt.Errorf("%s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

func parseMarkdown(path string, content []byte) (models.PostInput, error) {
	var rec models.PostInput
	body, err := frontmatter.Parse(bytes.NewReader(content), &rec, yamlFormat)
	if err != nil {
		return rec, fmt.Errorf("front matter: %w", err)
	}
	rec.Body = string(body)
	rec.Source = path
	complete(&rec, PlainText(rec.Body), fileStem(path))
	return rec, nil
}

type manifest struct {
	Posts []models.PostInput `yaml:"posts"`
}

func parseYAMLManifest(path string, content []byte) ([]models.PostInput, error) {
	var m manifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	for i := range m.Posts {
		m.Posts[i].Source = fmt.Sprintf("%s[%d]", path, i)
		complete(&m.Posts[i], PlainText(m.Posts[i].Body), "")
	}
	return m.Posts, nil
}

func parseDocument(path, ext string, content []byte) (models.PostInput, error) {
	var rec models.PostInput
	sidecar := strings.TrimSuffix(path, filepath.Ext(path)) + SidecarSuffix
	meta, err := os.ReadFile(sidecar)
	if err != nil {
		return rec, fmt.Errorf("read sidecar: %w", err)
	}
	if err := yaml.Unmarshal(meta, &rec); err != nil {
		return rec, fmt.Errorf("parse sidecar %s: %w", filepath.Base(sidecar), err)
	}

	var body string
	switch ext {
	case ".pdf":
		body, err = extractPDF(content)
	case ".docx":
		body, err = extractDOCX(content)
	}
	if err != nil {
		return rec, err
	}
	if rec.Body == "" {
		rec.Body = body
	}
	rec.Source = path
	complete(&rec, body, fileStem(path))
	return rec, nil
}

// complete fills fields a source left empty: slug from the file name or title,
// excerpt and reading time from the body text, and the default author.
func complete(rec *models.PostInput, plain, stem string) {
	rec.Slug = strings.TrimSpace(rec.Slug)
	if rec.Slug == "" {
		if stem != "" {
			rec.Slug = Slugify(stem)
		} else {
			rec.Slug = Slugify(rec.Title)
		}
	}
	if rec.Excerpt == "" && plain != "" {
		rec.Excerpt = ExtractExcerpt(plain, DefaultExcerptLength)
	}
	if rec.ReadingTime == "" && plain != "" {
		rec.ReadingTime = ReadingTime(plain)
	}
	if strings.TrimSpace(rec.Author) == "" {
		rec.Author = DefaultAuthor
	}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
