package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides PORT)")
	clientDir := flag.String("client", "", "path to static client directory (empty disables)")
	dbPath := flag.String("db", "arena.db", "path to the run-history database (empty disables)")
	flag.Parse()

	listen := *addr
	if listen == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		listen = ":" + port
	}

	var db *DB
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
	}

	hub := NewHub(db)
	go hub.Run()
	go hub.game.Run()

	mux := SetupRoutes(hub, *clientDir)
	server := &http.Server{Addr: listen, Handler: mux}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on %s (tick rate %d)", listen, TickRate)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down...")
	server.Close()
	hub.Shutdown()
}
