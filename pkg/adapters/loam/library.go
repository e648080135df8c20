// Package loam stores page libraries — named command scripts with
// frontmatter metadata — as Loam document repositories on disk.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// Library reads pages out of a Loam repository. A page is one document:
// frontmatter metadata (id, title, description, tags) and a body holding the
// JSON or YAML command list, or alternatively a `commands` list inline in the
// frontmatter.
type Library struct {
	Repo *loam.TypedRepository[PageMetadata]
}

// Open initializes a read-only library over a directory of page documents.
// Strict mode keeps numeric types consistent across the JSON and YAML
// adapters.
func Open(path string) (*Library, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[PageMetadata](repo)), nil
}

// New creates a library over an existing typed repository.
func New(repo *loam.TypedRepository[PageMetadata]) *Library {
	return &Library{Repo: repo}
}

// Page resolves one page by id, decoding its command script.
func (l *Library) Page(ctx context.Context, id string) (*Page, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	meta := doc.Data
	page := &Page{
		ID:          pageID(doc.ID, meta),
		Title:       meta.Title,
		Description: meta.Description,
		Tags:        meta.Tags,
		Commands:    meta.Commands,
	}

	// Frontmatter commands win; otherwise the body is the script.
	if len(page.Commands) == 0 {
		body := strings.TrimSpace(doc.Content)
		if body == "" {
			return nil, fmt.Errorf("page %s has no commands", page.ID)
		}
		cmds, err := schema.Decode([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", page.ID, err)
		}
		page.Commands = cmds
	}

	return page, nil
}

// Pages lists every page in the library, failing on id collisions between
// documents.
func (l *Library) Pages(ctx context.Context) ([]Summary, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	pages := make([]Summary, 0, len(docs))

	for _, doc := range docs {
		id := pageID(doc.ID, doc.Data)
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision: page id %q is defined in both %q and %q", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		pages = append(pages, Summary{
			ID:          id,
			Title:       doc.Data.Title,
			Description: doc.Data.Description,
			Tags:        doc.Data.Tags,
		})
	}
	return pages, nil
}

// Watch reports the ids of pages whose files change on disk, until the
// context ends.
func (l *Library) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// pageID resolves a page's id: explicit frontmatter id wins over the
// filename-derived document id, both normalized without extension.
func pageID(docID string, meta PageMetadata) string {
	raw := meta.ID
	if raw == "" {
		raw = docID
	}
	return trimExtension(raw)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
