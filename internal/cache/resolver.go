// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"

	"github.com/pdiddy/place-resolver/internal/places"
	"github.com/pdiddy/place-resolver/pkg/types"
)

// Resolver answers from the Store when it can and falls through to Next
// otherwise, caching what Next returns. Errors from Next are not cached, and
// when Next is a places.Looker neither are refusals such as OVER_QUERY_LIMIT.
type Resolver struct {
	Store  *Store
	Next   places.Resolver
	Region string

	// Hits counts lookups answered from the cache.
	Hits int
}

// FindPlaceID implements places.Resolver.
func (c *Resolver) FindPlaceID(ctx context.Context, r types.PlaceRecord) (string, error) {
	region := c.Region
	if region == "" {
		region = places.DefaultRegion
	}
	query := places.BuildQuery(r, region)

	if id, ok, err := c.Store.Get(ctx, query); err != nil {
		return "", err
	} else if ok {
		c.Hits++
		return id, nil
	}

	res, err := c.lookup(ctx, r)
	if err != nil {
		return "", err
	}
	if !res.Final() {
		return res.PlaceID, nil
	}
	if err := c.Store.Put(ctx, query, res.PlaceID); err != nil {
		return "", err
	}
	return res.PlaceID, nil
}

func (c *Resolver) lookup(ctx context.Context, r types.PlaceRecord) (places.Result, error) {
	if l, ok := c.Next.(places.Looker); ok {
		return l.Lookup(ctx, r)
	}
	id, err := c.Next.FindPlaceID(ctx, r)
	return places.Result{PlaceID: id}, err
}
