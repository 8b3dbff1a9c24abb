package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// SeedConfig lists users and the items each of them shares.
type SeedConfig struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	models.User `yaml:",inline"`
	Items       []models.Item `yaml:"items"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		seedPath = flag.String("seed", "configs/seed.yaml", "path to seed.yaml")
		dbPath   = flag.String("db", "./data/shareit.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var cfg SeedConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	if len(cfg.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := db.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	byEmail := make(map[string]*models.User, len(existing))
	for _, u := range existing {
		byEmail[u.Email] = u
	}

	var usersCreated, itemsCreated int
	for _, su := range cfg.Users {
		if su.Email == "" {
			continue
		}
		owner, ok := byEmail[su.Email]
		if !ok {
			owner = &models.User{Name: su.Name, Email: su.Email}
			if err = db.CreateUser(ctx, owner); err != nil {
				return fmt.Errorf("create user %s: %w", su.Email, err)
			}
			byEmail[su.Email] = owner
			usersCreated++
		}

		n, err := seedItems(ctx, db, owner.ID, su.Items)
		if err != nil {
			return err
		}
		itemsCreated += n
	}

	fmt.Printf("done: users=%d items=%d\n", usersCreated, itemsCreated)
	return nil
}

// seedItems creates the items the owner does not already have by name.
func seedItems(ctx context.Context, db *database.DB, ownerID int64, items []models.Item) (int, error) {
	owned, err := db.GetItemsByOwner(ctx, ownerID, models.Page{From: 0, Size: 1000})
	if err != nil {
		return 0, fmt.Errorf("list items of %d: %w", ownerID, err)
	}
	names := make(map[string]bool, len(owned))
	for _, it := range owned {
		names[it.Name] = true
	}

	created := 0
	for i := range items {
		it := items[i]
		if it.Name == "" || names[it.Name] {
			continue
		}
		it.ID = 0
		it.OwnerID = ownerID
		it.RequestID = nil
		if err := db.CreateItem(ctx, &it); err != nil {
			return created, fmt.Errorf("create %s: %w", it.Name, err)
		}
		names[it.Name] = true
		created++
	}
	return created, nil
}
