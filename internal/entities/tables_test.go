package entities

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laterrassa/admin-client/internal/gateway"
)

func tableFixture(t *testing.T) *TableStore {
	t.Helper()

	tables := []Table{
		{ID: "1", Number: 1, Status: TableStatusFree},
		{ID: "2", Number: 2, Status: TableStatusServed},
		{ID: "3", Number: 3, Status: TableStatusFree},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tables", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": tables})
	})
	mux.HandleFunc("PUT /tables/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		for i, tb := range tables {
			if tb.ID == r.PathValue("id") {
				tables[i].Status = req.Status
				json.NewEncoder(w).Encode(map[string]any{"data": tables[i]})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Table not found"}`)
	})
	mux.HandleFunc("GET /tables/status/{status}", func(w http.ResponseWriter, r *http.Request) {
		out := []Table{}
		for _, tb := range tables {
			if tb.Status == r.PathValue("status") {
				out = append(out, tb)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": out})
	})
	mux.HandleFunc("GET /tables/number/{n}", func(w http.ResponseWriter, r *http.Request) {
		for _, tb := range tables {
			if fmt.Sprint(tb.Number) == r.PathValue("n") {
				json.NewEncoder(w).Encode(map[string]any{"data": tb})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Table not found"}`)
	})
	mux.HandleFunc("GET /tables/available/tables", func(w http.ResponseWriter, r *http.Request) {
		out := []Table{}
		for _, tb := range tables {
			if tb.Status == TableStatusFree {
				out = append(out, tb)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": out})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gw, err := gateway.New(srv.URL, gateway.StaticToken(""), nil)
	require.NoError(t, err)
	ts, err := NewTableStore(gw, Options{})
	require.NoError(t, err)
	return ts
}

func TestTableStore_SetStatusUpdatesExactlyOneRow(t *testing.T) {
	ts := tableFixture(t)
	ctx := context.Background()

	require.NoError(t, ts.FetchAll(ctx))
	require.Len(t, ts.Items(), 3)

	updated, err := ts.SetStatus(ctx, "1", TableStatusServed)
	require.NoError(t, err)
	assert.Equal(t, TableStatusServed, updated.Status)

	items := ts.Items()
	assert.Equal(t, TableStatusServed, items[0].Status)
	assert.Equal(t, TableStatusServed, items[1].Status, "other rows unchanged")
	assert.Equal(t, TableStatusFree, items[2].Status, "other rows unchanged")
}

func TestTableStore_SetStatusUnknownID(t *testing.T) {
	ts := tableFixture(t)
	ctx := context.Background()
	require.NoError(t, ts.FetchAll(ctx))

	_, err := ts.SetStatus(ctx, "404", TableStatusServed)
	require.EqualError(t, err, "Table not found")
	assert.Len(t, ts.Items(), 3)
}

func TestTableStore_FilterReads(t *testing.T) {
	ts := tableFixture(t)
	ctx := context.Background()

	free, err := ts.ByStatus(ctx, TableStatusFree)
	require.NoError(t, err)
	assert.Len(t, free, 2)

	byNum, err := ts.ByNumber(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "2", byNum.ID)

	available, err := ts.Available(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	// Filter reads are request-scoped: the cached collection is untouched.
	require.NoError(t, ts.FetchAll(ctx))
	assert.Len(t, ts.Items(), 3)
}
