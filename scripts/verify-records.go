//go:build ignore

// verify-records scans a redis store for player records directly, without
// the id index, and reports every key that fails to decode.
//
//	REDIS_URL=redis://localhost:6379 go run scripts/verify-records.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/player"
)

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	defer client.Close()
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning player records...")

	iter := client.Scan(ctx, 0, player.Key("*"), 0).Iterator()

	var bad []string
	var checked int
	for iter.Next(ctx) {
		key := iter.Val()
		if key == player.Key("ids") {
			continue
		}
		checked++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}
		p, err := player.Unmarshal(data)
		if err != nil {
			fmt.Printf("Corrupt record %s: %v\n", key, err)
			bad = append(bad, key)
			continue
		}
		if want := strings.TrimPrefix(key, player.Key("")); p.ID != want {
			fmt.Printf("Record %s holds player %s\n", key, p.ID)
			bad = append(bad, key)
		}
	}
	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d bad records\n", checked, len(bad))
	if len(bad) > 0 {
		os.Exit(1)
	}
}
