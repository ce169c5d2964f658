package filestore

import (
	"context"
	"sort"
	"strings"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

// bufferedTx is a transaction-scoped domain.UseCaseRepository view over a
// Store: reads fall through to the underlying store overlaid with any
// pending writes recorded so far; writes are only applied to disk once the
// enclosing WithTransaction callback returns successfully.
type bufferedTx struct {
	store *Store

	savedByID map[string]*domain.UseCase
	deleted   map[string]bool
	markdown  []markdownWrite
}

type markdownWrite struct {
	id, suffix, content string
}

func newBufferedTx(store *Store) *bufferedTx {
	return &bufferedTx{
		store:     store,
		savedByID: map[string]*domain.UseCase{},
		deleted:   map[string]bool{},
	}
}

func (t *bufferedTx) Save(ctx context.Context, uc *domain.UseCase) error {
	if err := uc.Validate(); err != nil {
		return err
	}
	t.savedByID[uc.ID] = uc
	delete(t.deleted, uc.ID)
	return nil
}

func (t *bufferedTx) SaveBatch(ctx context.Context, ucs []*domain.UseCase) error {
	for _, uc := range ucs {
		if err := t.Save(ctx, uc); err != nil {
			return err
		}
	}
	return nil
}

func (t *bufferedTx) LoadAll(ctx context.Context) ([]*domain.UseCase, error) {
	base, err := t.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	merged := map[string]*domain.UseCase{}
	for _, uc := range base {
		if !t.deleted[uc.ID] {
			merged[uc.ID] = uc
		}
	}
	for id, uc := range t.savedByID {
		merged[id] = uc
	}
	out := make([]*domain.UseCase, 0, len(merged))
	for _, uc := range merged {
		out = append(out, uc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *bufferedTx) LoadByID(ctx context.Context, id string) (*domain.UseCase, error) {
	if t.deleted[id] {
		return nil, apperr.NotFound("use case", id, nil)
	}
	if uc, ok := t.savedByID[id]; ok {
		return uc, nil
	}
	return t.store.LoadByID(ctx, id)
}

func (t *bufferedTx) Delete(ctx context.Context, id string) error {
	delete(t.savedByID, id)
	t.deleted[id] = true
	return nil
}

func (t *bufferedTx) DeleteBatch(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := t.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (t *bufferedTx) Exists(ctx context.Context, id string) (bool, error) {
	_, err := t.LoadByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if appErr, ok := apperr.As(err); ok && appErr.Kind == apperr.KindNotFound {
		return false, nil
	}
	return false, err
}

func (t *bufferedTx) SaveMarkdown(ctx context.Context, id, suffix, content string) error {
	t.markdown = append(t.markdown, markdownWrite{id: id, suffix: suffix, content: content})
	return nil
}

func (t *bufferedTx) FindByCategory(ctx context.Context, category string) ([]*domain.UseCase, error) {
	return filterLoaded(t, ctx, func(uc *domain.UseCase) bool { return strings.EqualFold(uc.Category, category) })
}

func (t *bufferedTx) FindByPriority(ctx context.Context, priority string) ([]*domain.UseCase, error) {
	return filterLoaded(t, ctx, func(uc *domain.UseCase) bool { return strings.EqualFold(string(uc.Priority), priority) })
}

func (t *bufferedTx) SearchByTitle(ctx context.Context, substring string) ([]*domain.UseCase, error) {
	needle := strings.ToLower(substring)
	return filterLoaded(t, ctx, func(uc *domain.UseCase) bool { return strings.Contains(strings.ToLower(uc.Title), needle) })
}

func filterLoaded(t *bufferedTx, ctx context.Context, pred func(*domain.UseCase) bool) ([]*domain.UseCase, error) {
	all, err := t.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.UseCase
	for _, uc := range all {
		if pred(uc) {
			out = append(out, uc)
		}
	}
	return out, nil
}

// WithTransaction nested inside a transaction is not supported by this
// backend; it runs fn directly against the same buffered view instead of
// nesting, since a flat single-level buffer is all spec §4.1 requires.
func (t *bufferedTx) WithTransaction(ctx context.Context, fn func(tx domain.UseCaseRepository) error) error {
	return fn(t)
}

func (t *bufferedTx) BackendName() string { return t.store.BackendName() }

func (t *bufferedTx) HealthCheck(ctx context.Context) error { return t.store.HealthCheck(ctx) }

// commit applies every buffered write to the underlying store.
func (t *bufferedTx) commit(ctx context.Context) error {
	for id := range t.deleted {
		if err := t.store.Delete(ctx, id); err != nil {
			return err
		}
	}
	for _, uc := range t.savedByID {
		if err := t.store.Save(ctx, uc); err != nil {
			return err
		}
	}
	for _, mw := range t.markdown {
		if err := t.store.SaveMarkdown(ctx, mw.id, mw.suffix, mw.content); err != nil {
			return err
		}
	}
	return nil
}
