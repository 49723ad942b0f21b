package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"club-hours/internal/config"
	"club-hours/internal/logger"
	"club-hours/internal/records"
	"club-hours/internal/store"
)

func main() {
	configFile := flag.String("config", "", "config file")
	email := flag.String("email", "", "member email to set a password for (empty: only migrate)")
	password := flag.String("password", os.Getenv("CREDINIT_PASSWORD"), "new password (or CREDINIT_PASSWORD)")
	checkMember := flag.Bool("check-member", true, "require the email to exist in the member directory")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	creds, err := store.Open(cfg)
	if err != nil {
		log.Fatal("open credential store: ", err)
	}
	defer creds.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Step 1: schema
	if err := creds.Migrate(ctx); err != nil {
		log.Fatal("migrate failed: ", err)
	}
	logger.Info("credinit.migrated", "driver", cfg.Database.Driver)
	if *email == "" {
		return
	}

	// Step 2: optional directory check
	if *checkMember {
		loc, err := cfg.Location()
		if err != nil {
			log.Fatal(err)
		}
		m, err := records.New(cfg.Records, loc).MemberByEmail(ctx, *email)
		if err != nil {
			log.Fatal("member lookup failed: ", err)
		}
		if m == nil {
			log.Fatalf("%s is not in the member directory", *email)
		}
		logger.Info("credinit.member", "id", m.ID, "name", m.Name())
	}

	// Step 3: password
	if err := setPassword(ctx, creds, *email, *password); err != nil {
		log.Fatal(err)
	}
	logger.Info("credinit.done", "email", *email)
}

func setPassword(ctx context.Context, creds store.Credentials, email, password string) error {
	if len(password) < 6 {
		return errors.New("password must have at least 6 characters")
	}
	hash, err := store.HashPassword(password)
	if err != nil {
		return err
	}
	err = creds.SetPassword(ctx, email, hash)
	if errors.Is(err, store.ErrNotFound) {
		return creds.Create(ctx, email, hash)
	}
	return err
}
