package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DocumentMetadata identifies one discovered operation document.
type DocumentMetadata struct {
	Name     string // base name without the .graphql extension
	FilePath string // path used in diagnostics, relative for filesystem roots
}

// Discovery enumerates the operation documents of one compilation unit.
// ListMetadata must return a stable order: compiled operations and
// manifest entries follow it.
type Discovery interface {
	ListMetadata(ctx context.Context) ([]*DocumentMetadata, error)
	ReadDocument(ctx context.Context, filePath string) (string, error)
}

// FileSystemDiscovery implements Discovery over a directory tree of
// .graphql operation documents.
type FileSystemDiscovery struct {
	metas []*DocumentMetadata
	paths map[string]string // FilePath -> absolute path
}

// NewFileSystemDiscovery walks rootDir collecting .graphql files. Paths
// are sorted so compilation order never depends on filesystem order.
func NewFileSystemDiscovery(rootDir string) (*FileSystemDiscovery, error) {
	discovery := &FileSystemDiscovery{paths: make(map[string]string)}

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) != ".graphql" {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %q: %w", path, err)
		}
		discovery.metas = append(discovery.metas, &DocumentMetadata{
			Name:     strings.TrimSuffix(d.Name(), ".graphql"),
			FilePath: relPath,
		})
		discovery.paths[relPath] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk root directory %q: %w", rootDir, err)
	}

	sort.Slice(discovery.metas, func(i, j int) bool {
		return discovery.metas[i].FilePath < discovery.metas[j].FilePath
	})
	return discovery, nil
}

// ListMetadata returns the discovered documents in sorted path order.
func (d *FileSystemDiscovery) ListMetadata(ctx context.Context) ([]*DocumentMetadata, error) {
	return append([]*DocumentMetadata(nil), d.metas...), nil
}

// ReadDocument reads the content of a discovered document.
func (d *FileSystemDiscovery) ReadDocument(ctx context.Context, filePath string) (string, error) {
	fp, ok := d.paths[filePath]
	if !ok {
		return "", fmt.Errorf("document %q not found", filePath)
	}
	content, err := os.ReadFile(fp)
	if err != nil {
		return "", fmt.Errorf("failed to read document %q: %w", filePath, err)
	}
	return string(content), nil
}

// InMemoryDocument is one operation document held in memory.
type InMemoryDocument struct {
	Name    string
	Content string
}

// InMemoryDiscovery is a test implementation of Discovery that stores
// documents in memory, listed in the order given.
type InMemoryDiscovery struct {
	metas    []*DocumentMetadata
	contents map[string]string
}

// NewInMemoryDiscovery creates a new InMemoryDiscovery instance.
func NewInMemoryDiscovery(docs []InMemoryDocument) *InMemoryDiscovery {
	discovery := &InMemoryDiscovery{contents: make(map[string]string)}
	for _, doc := range docs {
		filePath := doc.Name + ".graphql"
		discovery.metas = append(discovery.metas, &DocumentMetadata{
			Name:     doc.Name,
			FilePath: filePath,
		})
		discovery.contents[filePath] = doc.Content
	}
	return discovery
}

// ListMetadata implements Discovery.
func (d *InMemoryDiscovery) ListMetadata(ctx context.Context) ([]*DocumentMetadata, error) {
	return append([]*DocumentMetadata(nil), d.metas...), nil
}

// ReadDocument implements Discovery.
func (d *InMemoryDiscovery) ReadDocument(ctx context.Context, filePath string) (string, error) {
	content, exists := d.contents[filePath]
	if !exists {
		return "", fmt.Errorf("document %q not found", filePath)
	}
	return content, nil
}
