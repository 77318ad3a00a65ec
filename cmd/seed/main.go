package main

// seed wipes and repopulates the database with a known fixture set:
// ten squads, the two batches, fifty seats (1-40 standard, 41-50
// floating) and fifty users sharing one password.  Intended for dev and
// demo environments only; it deletes data without asking.

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/seatflow/seatflow/internal/config"
	"github.com/seatflow/seatflow/internal/database"
	"github.com/seatflow/seatflow/internal/model"
	"github.com/seatflow/seatflow/internal/repository"
	"github.com/seatflow/seatflow/internal/rules"
)

const seedPassword = "Password@123"

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	userRepo := repository.NewUserRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	squadRepo := repository.NewSquadRepo(db)
	batchRepo := repository.NewBatchRepo(db)

	// Users first: bookings cascade away with them.
	wipes := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", userRepo.DeleteAll},
		{"seats", seatRepo.DeleteAll},
		{"squads", squadRepo.DeleteAll},
		{"batches", batchRepo.DeleteAll},
	}
	for _, w := range wipes {
		if err := w.fn(ctx); err != nil {
			log.Fatalf("wipe %s: %v", w.name, err)
		}
	}

	for i := 1; i <= 10; i++ {
		s := model.Squad{Name: fmt.Sprintf("Squad %d", i)}
		if err := squadRepo.Create(ctx, &s); err != nil {
			log.Fatalf("create squad: %v", err)
		}
	}

	batches := []model.Batch{
		{Name: "Batch 1", Days: []int{1, 2, 3}, Week: 1},
		{Name: "Batch 2", Days: []int{4, 5}, Week: 2},
	}
	for i := range batches {
		if err := batchRepo.Create(ctx, &batches[i]); err != nil {
			log.Fatalf("create batch: %v", err)
		}
	}

	seats := make([]model.Seat, 0, 50)
	for n := 1; n <= 50; n++ {
		category := rules.CategoryStandard
		if n > 40 {
			category = rules.CategoryFloating
		}
		seats = append(seats, model.Seat{SeatNumber: uint32(n), Category: category})
	}
	if err := seatRepo.CreateBulk(ctx, seats); err != nil {
		log.Fatalf("create seats: %v", err)
	}

	for n := 1; n <= 50; n++ {
		batchType := rules.BatchOne
		if n > 25 {
			batchType = rules.BatchTwo
		}
		_, err := userRepo.Create(ctx,
			fmt.Sprintf("User %d", n),
			fmt.Sprintf("user%d", n),
			fmt.Sprintf("user%d@seatflow.local", n),
			seedPassword, batchType, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("create user %d: %v", n, err)
		}
	}

	log.Println("seed complete")
}
