package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/laterrassa/admin-client/internal/config"
	"github.com/laterrassa/admin-client/internal/entities"
	"github.com/laterrassa/admin-client/internal/gateway"
	"github.com/laterrassa/admin-client/internal/logging"
	"github.com/laterrassa/admin-client/internal/metrics"
	"github.com/laterrassa/admin-client/internal/session"
	"github.com/laterrassa/admin-client/internal/snapshot"
	"github.com/laterrassa/admin-client/internal/store"
)

const usage = `usage: adminctl <command> [flags]

commands:
  login -user <u> -pass <p>   authenticate and persist the session
  logout                      discard the session
  list <waiters|products|categories|tables>
  watch-tables                poll table occupancy until interrupted
  table-status <id> <libre|atendida>
  sales -from <date> -to <date> [-period day|week|month]
  invalidate <entity>         bypass the dedupe window for one collection
`

type app struct {
	gw       *gateway.Client
	sess     *session.Store
	coord    *store.Coordinator
	waiters  *store.Store[entities.Waiter]
	products *store.Store[entities.Product]
	cats     *store.Store[entities.Category]
	tables   *entities.TableStore
	reader   *metrics.Reader
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	sess := session.NewStore(cfg.SessionFile)
	gw, err := gateway.New(cfg.APIBaseURL, sess, logger)
	if err != nil {
		log.Fatalf("gateway: %v", err)
	}

	opts := entities.Options{Log: logger}
	if snaps, err := snapshot.Open(cfg.SnapshotDB); err != nil {
		logger.Warn("snapshots disabled", "error", err)
	} else {
		opts.Snapshots = snaps
	}

	a := &app{gw: gw, sess: sess, reader: metrics.NewReader(gw)}
	if a.waiters, err = entities.NewWaiterStore(gw, opts); err != nil {
		log.Fatal(err)
	}
	if a.products, err = entities.NewProductStore(gw, opts); err != nil {
		log.Fatal(err)
	}
	if a.cats, err = entities.NewCategoryStore(gw, opts); err != nil {
		log.Fatal(err)
	}
	if a.tables, err = entities.NewTableStore(gw, opts); err != nil {
		log.Fatal(err)
	}
	a.coord = store.NewCoordinator(logger)
	a.coord.Register(a.waiters)
	a.coord.Register(a.products)
	a.coord.Register(a.cats)
	a.coord.Register(a.tables)

	ctx := logging.IntoContext(context.Background(), logger)
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.sess.Logout()
	case "list":
		return a.list(ctx, args)
	case "watch-tables":
		return a.watchTables(ctx)
	case "table-status":
		return a.tableStatus(ctx, args)
	case "sales":
		return a.sales(ctx, args)
	case "invalidate":
		return a.invalidate(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("user", "", "user name")
	pass := fs.String("pass", "", "password")
	fs.Parse(args)
	if *user == "" || *pass == "" {
		return fmt.Errorf("login requires -user and -pass")
	}
	role, err := a.sess.Login(ctx, a.gw, *user, *pass)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", *user, role)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("list requires an entity name")
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	switch args[0] {
	case "waiters":
		if err := a.waiters.FetchAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tUSER\tACTIVE")
		for _, wt := range a.waiters.Items() {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%t\n", wt.ID, wt.FirstName, wt.LastName, wt.UserName, wt.IsActive)
		}
	case "products":
		if err := a.products.FetchAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tACTIVE")
		for _, p := range a.products.Items() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%t\n", p.ID, p.Name, p.CategoryID, p.Price, p.IsActive)
		}
	case "categories":
		if err := a.cats.FetchAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, c := range a.cats.Items() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Description)
		}
	case "tables":
		if err := a.tables.FetchAll(ctx); err != nil {
			return err
		}
		printTables(w, a.tables.Items())
	default:
		return fmt.Errorf("unknown entity %q", args[0])
	}
	return nil
}

// watchTables runs the realtime policy for real: the coordinator polls the
// table collection until the process is interrupted.
func (a *app) watchTables(ctx context.Context) error {
	if err := a.tables.FetchAll(ctx); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.coord.Run(ctx)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		printTables(w, a.tables.Items())
		w.Flush()
		fmt.Println("---")
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *app) tableStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("table-status requires an id and a status")
	}
	t, err := a.tables.SetStatus(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("table %d is now %s\n", t.Number, t.Status)
	return nil
}

func (a *app) sales(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sales", flag.ExitOnError)
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date (YYYY-MM-DD)")
	period := fs.String("period", "day", "granularity: day, week or month")
	fs.Parse(args)

	rng, err := parseRange(*from, *to)
	if err != nil {
		return err
	}
	points, err := a.reader.Sales(ctx, rng, metrics.Period(*period))
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "DATE\tORDERS\tTOTAL")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", p.Date, p.Orders, p.Total)
	}
	return nil
}

func (a *app) invalidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("invalidate requires an entity key")
	}
	a.coord.Invalidate(args[0])
	return nil
}

func printTables(w *tabwriter.Writer, tables []entities.Table) {
	fmt.Fprintln(w, "ID\tNUMBER\tSTATUS\tCAPACITY\tLOCATION")
	for _, t := range tables {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", t.ID, t.Number, t.Status, t.Capacity, t.Location)
	}
}

func parseRange(from, to string) (metrics.Range, error) {
	if from == "" || to == "" {
		return metrics.Range{}, fmt.Errorf("sales requires -from and -to")
	}
	f, err := time.Parse("2006-01-02", from)
	if err != nil {
		return metrics.Range{}, fmt.Errorf("parse -from: %w", err)
	}
	t, err := time.Parse("2006-01-02", to)
	if err != nil {
		return metrics.Range{}, fmt.Errorf("parse -to: %w", err)
	}
	return metrics.Range{From: f, To: t}, nil
}
