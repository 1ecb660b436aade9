// Package view holds list-screen state: filters, the requested page and the
// last applied result. Each reload is numbered and its response is applied
// only if no newer reload was issued meanwhile, so a slow answer to an old
// filter can never overwrite a fresher one.
package view

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	"github.com/Temutjin2k/qglide-admin/pkg/metrics"
)

// ErrStale is returned by a reload whose response was superseded.
var ErrStale = errors.New("response superseded by a newer request")

// Loader fetches one page of a list.
type Loader[T any] func(ctx context.Context, filters models.Filters, page models.Pagination) (models.ListResult[T], error)

// Snapshot is a consistent copy of a List's state.
type Snapshot[T any] struct {
	Filters models.Filters
	Request models.Pagination
	Items   []T
	Page    models.PageState
	Err     error
	Loaded  bool
	Seq     uint64
}

type List[T any] struct {
	name string
	load Loader[T]
	log  logger.Logger

	mu      sync.Mutex
	filters models.Filters
	request models.Pagination
	items   []T
	page    models.PageState
	err     error
	loaded  bool
	issued  uint64
	applied uint64
}

func NewList[T any](name string, load Loader[T], pageSize int, log logger.Logger) *List[T] {
	return &List[T]{
		name:    name,
		load:    load,
		log:     log,
		filters: models.Filters{},
		request: models.NewPagination(1, pageSize),
		items:   []T{},
	}
}

// Reload fetches the current page with the current filters.
func (l *List[T]) Reload(ctx context.Context) (Snapshot[T], error) {
	return l.reload(ctx, nil)
}

// SetFilter changes one filter, goes back to page 1 and reloads.
func (l *List[T]) SetFilter(ctx context.Context, key, value string) (Snapshot[T], error) {
	return l.reload(ctx, func() {
		l.filters = l.filters.With(key, value)
		l.request.Page = 1
	})
}

// Goto loads page, clamped to the known page range.
func (l *List[T]) Goto(ctx context.Context, page int) (Snapshot[T], error) {
	return l.reload(ctx, func() {
		l.request.Page = l.page.Clamp(page)
	})
}

func (l *List[T]) Next(ctx context.Context) (Snapshot[T], error) {
	return l.reload(ctx, func() {
		l.request.Page = l.page.Clamp(l.request.Page + 1)
	})
}

func (l *List[T]) Prev(ctx context.Context) (Snapshot[T], error) {
	return l.reload(ctx, func() {
		l.request.Page = l.page.Clamp(l.request.Page - 1)
	})
}

// Snapshot returns the current state without fetching.
func (l *List[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// reload applies change and takes a sequence number in one step, so the
// request that gets sent always matches the number it carries.
func (l *List[T]) reload(ctx context.Context, change func()) (Snapshot[T], error) {
	l.mu.Lock()
	if change != nil {
		change()
	}
	l.issued++
	seq := l.issued
	filters := maps.Clone(l.filters)
	request := l.request
	l.mu.Unlock()

	res, err := l.load(ctx, filters, request)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.issued {
		metrics.RecordStaleList(l.name)
		l.log.Debug(ctx, "dropped stale list response", "view", l.name, "seq", seq, "latest", l.issued)
		return l.snapshotLocked(), ErrStale
	}

	l.applied = seq
	l.err = err
	if err != nil {
		return l.snapshotLocked(), err
	}

	l.items = res.Items
	l.page = res.Page
	l.loaded = true
	return l.snapshotLocked(), nil
}

func (l *List[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(l.items))
	copy(items, l.items)
	return Snapshot[T]{
		Filters: maps.Clone(l.filters),
		Request: l.request,
		Items:   items,
		Page:    l.page,
		Err:     l.err,
		Loaded:  l.loaded,
		Seq:     l.applied,
	}
}
