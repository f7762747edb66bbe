package entities

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/laterrassa/admin-client/internal/envelope"
	"github.com/laterrassa/admin-client/internal/gateway"
	"github.com/laterrassa/admin-client/internal/snapshot"
	"github.com/laterrassa/admin-client/internal/store"
)

// Options carries the cross-cutting collaborators every store shares.
type Options struct {
	Log       *slog.Logger
	Snapshots *snapshot.DB
}

// NewCategoryStore caches /categories under the immutable policy. The list
// endpoint's envelope varies in the wild, so the full fallback chain applies.
func NewCategoryStore(gw *gateway.Client, opts Options) (*store.Store[Category], error) {
	return store.New(gw, store.Config[Category]{
		Key:  "categories",
		Path: "/categories",
		Unwrap: func(raw json.RawMessage) []Category {
			return envelope.List[Category](raw, "categories")
		},
		UnwrapItem: envelope.Item[Category],
		IDOf:       func(c Category) string { return c.ID },
		Policy:     store.Immutable(),
		Snapshots:  opts.Snapshots,
		Log:        opts.Log,
	})
}

// NewProductStore caches /productes (the server's spelling, not a typo here)
// under the default policy. Product updates trust the client's image over the
// server's echo; see reconcileProductImage.
func NewProductStore(gw *gateway.Client, opts Options) (*store.Store[Product], error) {
	return store.New(gw, store.Config[Product]{
		Key:  "products",
		Path: "/productes",
		Unwrap: func(raw json.RawMessage) []Product {
			return envelope.List[Product](raw, "products")
		},
		UnwrapItem: envelope.Item[Product],
		IDOf:       func(p Product) string { return p.ID },
		Reconcile:  reconcileProductImage,
		Policy:     store.Default(),
		Snapshots:  opts.Snapshots,
		Log:        opts.Log,
	})
}

// NewWaiterStore caches /waiters. Every waiter response is wrapped in
// {data: ...}, so the fallback chain is skipped.
func NewWaiterStore(gw *gateway.Client, opts Options) (*store.Store[Waiter], error) {
	return store.New(gw, store.Config[Waiter]{
		Key:        "waiters",
		Path:       "/waiters",
		Unwrap:     envelope.DataList[Waiter],
		UnwrapItem: envelope.Item[Waiter],
		IDOf:       func(w Waiter) string { return w.ID },
		Policy:     store.Default(),
		Snapshots:  opts.Snapshots,
		Log:        opts.Log,
	})
}

// reconcileProductImage applies the asymmetric-trust rule for image fields:
// when an update sent a fresh base64 data URI and the server echoed back a
// different (stale) URL, keep the client's value until the next full refetch.
func reconcileProductImage(sent any, received Product) Product {
	var sentImage *string
	switch p := sent.(type) {
	case ProductPatch:
		sentImage = p.ImageURL
	case *ProductPatch:
		if p != nil {
			sentImage = p.ImageURL
		}
	}
	if sentImage == nil {
		return received
	}
	if strings.HasPrefix(*sentImage, "data:") && received.ImageURL != *sentImage {
		received.ImageURL = *sentImage
	}
	return received
}
