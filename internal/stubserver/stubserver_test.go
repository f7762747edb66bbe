package stubserver

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laterrassa/admin-client/internal/entities"
	"github.com/laterrassa/admin-client/internal/gateway"
	"github.com/laterrassa/admin-client/internal/metrics"
	"github.com/laterrassa/admin-client/internal/session"
)

type env struct {
	gw   *gateway.Client
	sess *session.Store
	srv  *Server
}

func newEnv(t *testing.T) *env {
	t.Helper()

	srv := New()
	srv.Seed(
		[]entities.Waiter{{ID: "w1", FirstName: "Marta", LastName: "Puig", UserName: "marta", IsActive: true}},
		[]entities.Product{
			{ID: "p1", Name: "Paella", CategoryID: "c1", Price: 14.5, IsActive: true, ImageURL: "https://cdn/p1.jpg"},
			{ID: "p2", Name: "Fideuà", CategoryID: "c1", Price: 13.0, IsActive: true},
		},
		[]entities.Category{{ID: "c1", Name: "Principals"}},
		[]entities.Table{
			{ID: "t1", Number: 1, Status: entities.TableStatusFree},
			{ID: "t2", Number: 2, Status: entities.TableStatusServed},
		},
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	sess := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	gw, err := gateway.New(ts.URL, sess, nil)
	require.NoError(t, err)
	return &env{gw: gw, sess: sess, srv: srv}
}

func TestIntegration_LoginFlow(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	_, err := e.sess.Login(ctx, e.gw, "admin", "wrong")
	require.EqualError(t, err, "Invalid credentials")
	assert.False(t, e.sess.IsAuthenticated())

	role, err := e.sess.Login(ctx, e.gw, "admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
	assert.True(t, e.sess.IsAuthenticated())
}

func TestIntegration_EnvelopeVariety(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	cats, err := entities.NewCategoryStore(e.gw, entities.Options{})
	require.NoError(t, err)
	require.NoError(t, cats.FetchAll(ctx))
	assert.Len(t, cats.Items(), 1, "categories arrive under the entity key")

	products, err := entities.NewProductStore(e.gw, entities.Options{})
	require.NoError(t, err)
	require.NoError(t, products.FetchAll(ctx))
	assert.Len(t, products.Items(), 2, "products arrive as a bare array")

	waiters, err := entities.NewWaiterStore(e.gw, entities.Options{})
	require.NoError(t, err)
	require.NoError(t, waiters.FetchAll(ctx))
	assert.Len(t, waiters.Items(), 1, "waiters arrive wrapped in data")
}

func TestIntegration_WaiterLifecycle(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	waiters, err := entities.NewWaiterStore(e.gw, entities.Options{})
	require.NoError(t, err)
	require.NoError(t, waiters.FetchAll(ctx))
	require.Len(t, waiters.Items(), 1)

	created, err := waiters.Create(ctx, entities.WaiterDraft{
		FirstName: "Jordi", LastName: "Soler", UserName: "jordi", Password: "molt-secret", IsActive: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "********", created.Password, "password comes back masked")
	assert.Len(t, waiters.Items(), 2)

	// Duplicate user name is a 409 with the server's message and no local
	// change.
	_, err = waiters.Create(ctx, entities.WaiterDraft{UserName: "jordi", Password: "x"})
	require.EqualError(t, err, "Username already exists")
	assert.Len(t, waiters.Items(), 2)

	phone := "600123123"
	updated, err := waiters.Update(ctx, created.ID, entities.WaiterPatch{PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.PhoneNumber)
	assert.Equal(t, "jordi", updated.UserName, "unpatched fields survive")

	require.NoError(t, waiters.Delete(ctx, created.ID))
	assert.Len(t, waiters.Items(), 1)
}

func TestIntegration_ProductImageQuirk(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	products, err := entities.NewProductStore(e.gw, entities.Options{})
	require.NoError(t, err)
	require.NoError(t, products.FetchAll(ctx))

	dataURI := "data:image/png;base64,AAAA"
	updated, err := products.Update(ctx, "p1", entities.ProductPatch{ImageURL: &dataURI})
	require.NoError(t, err)
	assert.Equal(t, dataURI, updated.ImageURL, "client keeps the data URI it sent")

	// After the upload settles a full refetch takes the server's word again.
	products.Invalidate()
	require.NoError(t, products.FetchAll(ctx))
	assert.Equal(t, dataURI, products.Items()[0].ImageURL)
}

func TestIntegration_TableStatusFlow(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	tables, err := entities.NewTableStore(e.gw, entities.Options{})
	require.NoError(t, err)
	require.NoError(t, tables.FetchAll(ctx))
	require.Len(t, tables.Items(), 2)

	updated, err := tables.SetStatus(ctx, "t1", entities.TableStatusServed)
	require.NoError(t, err)
	assert.Equal(t, entities.TableStatusServed, updated.Status)

	occupied, err := tables.Occupied(ctx)
	require.NoError(t, err)
	assert.Len(t, occupied, 2)

	available, err := tables.Available(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)

	_, err = tables.SetStatus(ctx, "t1", "reserved")
	require.EqualError(t, err, "Invalid table status")
}

func TestIntegration_Metrics(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()
	reader := metrics.NewReader(e.gw)

	sum, err := reader.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Free)

	rt, err := reader.Realtime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rt.OccupiedTables)
	assert.Equal(t, 1, rt.ActiveWaiters)

	_, err = reader.Sales(ctx, metrics.Range{}, metrics.PeriodDay)
	require.NoError(t, err, "stub accepts any well-formed range")

	top, err := reader.MostSoldProduct(ctx, metrics.Range{})
	require.NoError(t, err)
	assert.Equal(t, "Paella", top.Name)

	require.NoError(t, reader.Invalidate(ctx))
}
