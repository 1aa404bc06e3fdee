package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/saturnines/userfeed/pkg/config"
	"github.com/saturnines/userfeed/pkg/core"
	userlog "github.com/saturnines/userfeed/pkg/logger"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not loaded:", err)
	}

	// Load the YAML config
	loader := config.NewDefaultLoader()

	cfg, err := loader.Load("demo/randomuser/randomuser.yaml")
	if err != nil {
		log.Fatal(err)
	}

	logger, closer, err := userlog.New(&cfg.Logger)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	ctrl := core.NewFeed(cfg, logger)

	// Two pages, appended
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := ctrl.FetchNextPage(ctx); err != nil {
			log.Fatal(err)
		}
	}

	state := ctrl.Snapshot()
	fmt.Printf("Fetched %d users\n", len(state.Users))
	if len(state.Users) == 0 {
		return
	}

	// Scrolling onto the last one would load page 3
	last := state.Users[len(state.Users)-1]
	fmt.Printf("Last: %s, should fetch more: %v\n", last.FullName(), ctrl.ShouldFetchMore(last))

	for _, u := range state.Users[:min(3, len(state.Users))] {
		fmt.Printf("User: %s (%d) %s\n", u.FullName(), u.DOB.Age, u.Picture.Thumbnail)
	}
}
