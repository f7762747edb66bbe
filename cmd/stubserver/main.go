package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/laterrassa/admin-client/internal/config"
	"github.com/laterrassa/admin-client/internal/entities"
	"github.com/laterrassa/admin-client/internal/stubserver"
)

func main() {
	addr := config.EnvDefault("STUB_ADDR", ":8081")

	srv := stubserver.New()
	srv.Seed(
		[]entities.Waiter{
			{ID: "w1", FirstName: "Marta", LastName: "Puig", UserName: "marta", IsActive: true},
			{ID: "w2", FirstName: "Jordi", LastName: "Soler", UserName: "jordi", IsActive: true},
		},
		[]entities.Product{
			{ID: "p1", Name: "Pa amb tomàquet", CategoryID: "c1", Price: 4.5, IsActive: true},
			{ID: "p2", Name: "Crema catalana", CategoryID: "c2", Price: 5.0, IsActive: true},
		},
		[]entities.Category{
			{ID: "c1", Name: "Entrants"},
			{ID: "c2", Name: "Postres"},
		},
		[]entities.Table{
			{ID: "t1", Number: 1, Status: entities.TableStatusFree, Capacity: 4},
			{ID: "t2", Number: 2, Status: entities.TableStatusServed, Capacity: 2},
		},
	)

	server := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	go func() {
		log.Printf("stub server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("stub server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
