package entities

import (
	"context"
	"fmt"

	"github.com/laterrassa/admin-client/internal/envelope"
	"github.com/laterrassa/admin-client/internal/gateway"
	"github.com/laterrassa/admin-client/internal/store"
)

// TableStore wraps the generic store with the table-specific endpoints:
// status transitions and the server-side filter reads. Filter reads never
// touch the cached collection; a status transition updates the one row in
// place.
type TableStore struct {
	*store.Store[Table]
	gw *gateway.Client
}

// NewTableStore caches /tables under the realtime policy, since occupancy
// changes out from under the dashboard constantly.
func NewTableStore(gw *gateway.Client, opts Options) (*TableStore, error) {
	base, err := store.New(gw, store.Config[Table]{
		Key:        "tables",
		Path:       "/tables",
		Unwrap:     envelope.DataList[Table],
		UnwrapItem: envelope.Item[Table],
		IDOf:       func(t Table) string { return t.ID },
		Policy:     store.Realtime(),
		Snapshots:  opts.Snapshots,
		Log:        opts.Log,
	})
	if err != nil {
		return nil, err
	}
	return &TableStore{Store: base, gw: gw}, nil
}

// SetStatus transitions one table between libre and atendida and reconciles
// the cached row with the server's confirmation.
func (ts *TableStore) SetStatus(ctx context.Context, id, status string) (Table, error) {
	raw, err := ts.gw.Put(ctx, "/tables/"+id+"/status", map[string]string{"status": status})
	if err != nil {
		return Table{}, err
	}
	updated, err := envelope.Item[Table](raw)
	if err != nil {
		return Table{}, fmt.Errorf("decode table: %w", err)
	}
	ts.Replace(updated)
	return updated, nil
}

func (ts *TableStore) ByStatus(ctx context.Context, status string) ([]Table, error) {
	raw, err := ts.gw.Get(ctx, "/tables/status/"+status, nil)
	if err != nil {
		return nil, err
	}
	return envelope.DataList[Table](raw), nil
}

func (ts *TableStore) ByNumber(ctx context.Context, number int) (Table, error) {
	raw, err := ts.gw.Get(ctx, fmt.Sprintf("/tables/number/%d", number), nil)
	if err != nil {
		return Table{}, err
	}
	return envelope.Item[Table](raw)
}

func (ts *TableStore) Available(ctx context.Context) ([]Table, error) {
	raw, err := ts.gw.Get(ctx, "/tables/available/tables", nil)
	if err != nil {
		return nil, err
	}
	return envelope.DataList[Table](raw), nil
}

func (ts *TableStore) Occupied(ctx context.Context) ([]Table, error) {
	raw, err := ts.gw.Get(ctx, "/tables/occupied/tables", nil)
	if err != nil {
		return nil, err
	}
	return envelope.DataList[Table](raw), nil
}
