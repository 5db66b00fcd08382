package main

import (
	"fmt"
	"log/slog"
	"os"

	"msg-kernel/contract"
	"msg-kernel/domain"
	"msg-kernel/domain/component"
	"msg-kernel/internal"
	"msg-kernel/projection"
	"msg-kernel/repositories"
	"msg-kernel/schema"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run exercises a full local round trip: build a two-party thread,
// save it through the configured backend, load it back and print the
// transcript. No network is involved anywhere.
func run() error {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.ValidateBackend(); err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// Publish the core grammar once, for the other teams.
	if err := schema.EnsureFile(config.SchemaFilepath); err != nil {
		return err
	}

	registry := component.Builtins()
	store, closeStore, err := openStore(config, registry, log)
	if err != nil {
		return err
	}
	defer closeStore()

	alice, bob := "alice@localhost", "bob@localhost"
	thread := domain.NewThread(alice, bob)

	first := domain.NewMessage(alice, bob, "Hey, game tonight?").
		Attach(&component.BinaryQuestion{Question: "Do you have tickets?"})
	if err := thread.Append(first); err != nil {
		return err
	}
	second := domain.NewMessage(bob, alice, "Nope, still looking.")
	if err := thread.Append(second); err != nil {
		return err
	}

	if err := store.SaveThread(thread); err != nil {
		return err
	}
	restored, err := store.LoadThread(thread.ID)
	if err != nil {
		return err
	}

	for _, entry := range projection.Transcript(alice, restored) {
		log.Info("transcript entry",
			"outgoing", entry.Outgoing,
			"author", entry.Author,
			"text", entry.Text,
			"components", entry.Components,
		)
	}
	log.Info("round trip succeeded",
		"backend", config.StorageBackend,
		"thread_id", restored.ID,
		"messages", len(restored.Messages),
	)
	return nil
}

func openStore(config internal.Config, registry *component.Registry, log *slog.Logger) (contract.ThreadStore, func(), error) {
	switch config.StorageBackend {
	case internal.BackendSQLite:
		repo, err := repositories.NewSQLiteRepository(config.SQLiteFilepath, registry, log)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case internal.BackendBadger:
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.ERROR))
		if err != nil {
			return nil, nil, fmt.Errorf("database opening failed: %w", err)
		}
		return repositories.NewBadgerRepository(db, registry, log), func() { _ = db.Close() }, nil
	default:
		repo, err := repositories.NewJSONFileRepository(config.StorageDir, registry, log)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}
