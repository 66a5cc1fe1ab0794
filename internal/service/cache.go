package service

import (
	"context"
	"slices"
	"time"

	"github.com/Strob0t/PropDesk/internal/fetchcache"
	"github.com/Strob0t/PropDesk/internal/middleware"
	"github.com/Strob0t/PropDesk/internal/port/cache"
)

// CacheDeps bundles what services need to build their fetchers. Options are
// passed to both the Store and the Fetcher of every resource.
type CacheDeps struct {
	Backend     cache.Cache
	Options     []fetchcache.Option
	Invalidator *Invalidator
}

// fetcherOptions adds the invalidation tracker to Options.
func (d CacheDeps) fetcherOptions() []fetchcache.Option {
	return append(slices.Clip(d.Options), fetchcache.WithGenerations(d.Invalidator.Generations()))
}

// resource serves cached list and item reads for one entity type and knows
// which keys a write to that entity invalidates.
type resource[T any] struct {
	list string // list key resource, e.g. "properties"
	item string // item key resource, e.g. "property"
	ttl  time.Duration

	lists *fetchcache.Fetcher[[]T]
	items *fetchcache.Fetcher[T]
	inv   *Invalidator
}

func newResource[T any](deps CacheDeps, list, item string, ttl time.Duration, validate func(T) error) *resource[T] {
	listStore := fetchcache.NewStore[[]T](deps.Backend, deps.Options...)
	itemStore := fetchcache.NewStore[T](deps.Backend, deps.Options...)
	if validate != nil {
		itemStore.SetValidator(validate)
		listStore.SetValidator(func(items []T) error {
			for _, v := range items {
				if err := validate(v); err != nil {
					return err
				}
			}
			return nil
		})
	}
	fetchOpts := deps.fetcherOptions()
	return &resource[T]{
		list:  list,
		item:  item,
		ttl:   ttl,
		lists: fetchcache.NewFetcher(listStore, fetchOpts...),
		items: fetchcache.NewFetcher(itemStore, fetchOpts...),
		inv:   deps.Invalidator,
	}
}

// listKey scopes the list to the owner in ctx and optional parent parts,
// e.g. units:<owner>:property:<id>.
func (r *resource[T]) listKey(ctx context.Context, scope ...string) string {
	return ownerKey(ctx, r.list, scope...)
}

func (r *resource[T]) itemKey(ctx context.Context, id string) string {
	return ownerKey(ctx, r.item, id)
}

// fetchList returns the cached list under key, loading it on miss.
func (r *resource[T]) fetchList(ctx context.Context, key string, load fetchcache.Loader[[]T]) ([]T, error) {
	res := r.lists.Fetch(ctx, key, load, fetchcache.TTL(r.ttl))
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Data, nil
}

// fetchItem returns the cached item, loading it on miss.
func (r *resource[T]) fetchItem(ctx context.Context, id string, load func(context.Context) (*T, error)) (*T, error) {
	res := r.items.Fetch(ctx, r.itemKey(ctx, id), func(ctx context.Context) (T, error) {
		v, err := load(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		return *v, nil
	}, fetchcache.TTL(r.ttl))
	if res.Err != nil {
		return nil, res.Err
	}
	v := res.Data
	return &v, nil
}

// changed invalidates the item, the owner-wide list, every scoped list in
// scopes, and the owner's dashboard.
func (r *resource[T]) changed(ctx context.Context, id string, scopes ...[]string) {
	keys := make([]string, 0, len(scopes)+3)
	if id != "" {
		keys = append(keys, r.itemKey(ctx, id))
	}
	keys = append(keys, r.listKey(ctx))
	for _, s := range scopes {
		keys = append(keys, r.listKey(ctx, s...))
	}
	keys = append(keys, dashboardKey(ctx))
	r.inv.Invalidate(ctx, r.list, keys...)
}

// ownerKey builds a key for resource scoped to the owner in ctx.
func ownerKey(ctx context.Context, resource string, parts ...string) string {
	return fetchcache.Key(resource, append([]string{middleware.OwnerIDFromContext(ctx)}, parts...)...)
}

func dashboardKey(ctx context.Context) string {
	return ownerKey(ctx, "dashboard")
}
