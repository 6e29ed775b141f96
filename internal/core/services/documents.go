package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driven"
	"github.com/harborweb/discontent/internal/core/ports/driving"
	"github.com/harborweb/discontent/internal/parsers/docs"
)

// Ensure Documents implements the interface.
var _ driving.DocumentStore = (*Documents)(nil)

// pageParser is what the documents store needs from a parser: index
// extraction plus per-page parsing against that index. Both the
// documentation and tutorial parsers satisfy it.
type pageParser interface {
	ParseIndex(t *domain.Topic) (*docs.Index, error)
	ParseVersionIndex(idx *docs.Index, v *docs.DocVersion, t *domain.Topic) error
	ParseTopic(t *domain.Topic, idx *docs.Index) (*domain.ParsedDocument, error)
}

// Documents serves documentation or tutorial pages from a cached
// category. The index topic is refreshed at the start of every
// reconciliation round so the navigation tree and URL map stay current.
type Documents struct {
	*Store
	parser pageParser

	idxMu sync.RWMutex
	idx   *docs.Index
}

// NewDocuments creates a documentation store.
func NewDocuments(api driven.ForumAPI, parser *docs.Parser, settings domain.Settings) *Documents {
	d := &Documents{parser: parser}
	d.Store = NewStore(api, settings, d.parseTopic, d.refreshIndex)
	return d
}

// NewTutorials creates a tutorial store: the same page set handling
// with duration-annotated sections.
func NewTutorials(api driven.ForumAPI, parser *docs.TutorialParser, settings domain.Settings) *Documents {
	d := &Documents{parser: parser}
	d.Store = NewStore(api, settings, d.parseTopic, d.refreshIndex)
	return d
}

func (d *Documents) parseTopic(t *domain.Topic) (*domain.ParsedDocument, error) {
	return d.parser.ParseTopic(t, d.index())
}

// refreshIndex refetches and reparses the index topic, then the index
// topics of any versions the version table points elsewhere.
func (d *Documents) refreshIndex(ctx context.Context) error {
	topic, err := d.api.GetTopic(ctx, d.settings.IndexTopicID)
	if err != nil {
		return fmt.Errorf("fetch index topic %d: %w", d.settings.IndexTopicID, err)
	}
	idx, err := d.parser.ParseIndex(topic)
	if err != nil {
		return fmt.Errorf("parse index topic %d: %w", d.settings.IndexTopicID, err)
	}

	for _, v := range idx.Versions {
		if v.Navigation != nil {
			continue
		}
		versionTopic, err := d.api.GetTopic(ctx, v.IndexTopicID)
		if err != nil {
			return fmt.Errorf("fetch version index topic %d: %w", v.IndexTopicID, err)
		}
		if err := d.parser.ParseVersionIndex(idx, v, versionTopic); err != nil {
			return fmt.Errorf("parse version index topic %d: %w", v.IndexTopicID, err)
		}
	}

	d.idxMu.Lock()
	d.idx = idx
	d.idxMu.Unlock()
	return nil
}

func (d *Documents) index() *docs.Index {
	d.idxMu.RLock()
	defer d.idxMu.RUnlock()
	return d.idx
}

// GetTopic resolves a site path to its parsed document. Topics the URL
// map knows but the category cache does not are fetched on demand
// without being cached; they belong to other categories linked from
// the navigation.
func (d *Documents) GetTopic(ctx context.Context, path string) (*domain.ParsedDocument, error) {
	if err := d.ensureFresh(ctx); err != nil {
		return nil, err
	}

	idx := d.index()
	if idx == nil {
		return nil, &domain.PathNotFoundError{Path: path}
	}
	id, err := idx.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	if d.settings.Excluded(id) {
		return nil, &domain.PathNotFoundError{Path: path}
	}

	if entry, ok := d.entry(id); ok {
		return &entry.Doc, nil
	}

	topic, err := d.api.GetTopic(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch topic %d: %w", id, err)
	}
	return d.parser.ParseTopic(topic, idx)
}

// GetIndex pages through the cached documents in category order.
func (d *Documents) GetIndex(ctx context.Context, limit, offset int) ([]domain.ParsedDocument, error) {
	if err := d.checkLimit(limit); err != nil {
		return nil, err
	}
	if err := d.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return d.docs(d.pageIDs(limit, offset)), nil
}

// ResolvePathAllVersions maps a site path to its counterpart in every
// documentation version, falling back to a version's home page when it
// has no equivalent.
func (d *Documents) ResolvePathAllVersions(ctx context.Context, path string) (map[string]string, error) {
	if err := d.ensureFresh(ctx); err != nil {
		return nil, err
	}
	idx := d.index()
	if idx == nil {
		return nil, &domain.PathNotFoundError{Path: path}
	}
	return idx.ResolvePathAllVersions(path), nil
}

// Navigation projects active flags for a request path onto a copy of
// the navigation tree. The cached tree is never touched.
func (d *Documents) Navigation(ctx context.Context, activePath string) (*domain.NavigationNode, error) {
	if err := d.ensureFresh(ctx); err != nil {
		return nil, err
	}
	idx := d.index()
	if idx == nil {
		return nil, nil
	}
	return idx.Activate(activePath), nil
}
