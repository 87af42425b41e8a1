package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"railres/internal/catalog"
	"railres/internal/inventory"
	"railres/internal/shared/config"
	"railres/internal/shared/database"
)

type Seeder struct {
	db      *database.DB
	catalog catalog.Service
}

func main() {
	fmt.Println("🌱 Starting Railres Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	pg := db.GetPostgreSQL()
	catalogRepo := catalog.NewRepository(pg)
	inventoryRepo := inventory.NewRepository(pg)
	inventoryService := inventory.NewService(inventoryRepo, nil)
	catalogService := catalog.NewService(catalogRepo, nil, 0, inventoryService)

	seeder := &Seeder{db: db, catalog: catalogService}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"cancellation_records",
		"passenger_lines",
		"tickets",
		"seat_class_inventories",
		"journeys",
		"train_classes",
		"trains",
		"stations",
	}

	pg := s.db.GetPostgreSQL()
	for _, table := range tables {
		if err := pg.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			// Table may not exist on a fresh database
			fmt.Printf("  ⚠️  Skipping %s: %v\n", table, err)
		}
	}
	return nil
}

// SeedAll seeds stations, trains and journeys
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.seedStations(ctx); err != nil {
		return fmt.Errorf("failed to seed stations: %w", err)
	}
	fmt.Println("  ✅ Stations seeded")

	trains, err := s.seedTrains(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed trains: %w", err)
	}
	fmt.Println("  ✅ Trains seeded")

	if err := s.seedJourneys(ctx, trains); err != nil {
		return fmt.Errorf("failed to seed journeys: %w", err)
	}
	fmt.Println("  ✅ Journeys seeded (inventory provisioned)")

	return nil
}

func (s *Seeder) seedStations(ctx context.Context) error {
	stations := []catalog.CreateStationRequest{
		{Code: "NDLS", Name: "New Delhi", City: "New Delhi"},
		{Code: "BCT", Name: "Mumbai Central", City: "Mumbai"},
		{Code: "HWH", Name: "Howrah Junction", City: "Kolkata"},
		{Code: "MAS", Name: "Chennai Central", City: "Chennai"},
		{Code: "SBC", Name: "Bengaluru City", City: "Bengaluru"},
		{Code: "PUNE", Name: "Pune Junction", City: "Pune"},
	}

	for _, st := range stations {
		if _, err := s.catalog.CreateStation(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedTrains(ctx context.Context) ([]*catalog.Train, error) {
	specs := []catalog.CreateTrainRequest{
		{
			Number:      12951,
			Name:        "Mumbai Rajdhani",
			IsSuperfast: true,
			Classes: []catalog.ClassConfig{
				{Code: "1A", RatePerKm: 4.5, TotalSeats: 24, SeatsPerCoach: 24, RacMax: 4, WaitlistMax: 10},
				{Code: "2A", RatePerKm: 2.8, TotalSeats: 48, SeatsPerCoach: 48, RacMax: 8, WaitlistMax: 20},
				{Code: "3A", RatePerKm: 2.0, TotalSeats: 128, SeatsPerCoach: 64, RacMax: 16, WaitlistMax: 40},
			},
		},
		{
			Number:      12841,
			Name:        "Coromandel Express",
			IsSuperfast: true,
			Classes: []catalog.ClassConfig{
				{Code: "SL", RatePerKm: 0.8, TotalSeats: 360, SeatsPerCoach: 72, RacMax: 36, WaitlistMax: 100},
				{Code: "3A", RatePerKm: 2.0, TotalSeats: 128, SeatsPerCoach: 64, RacMax: 16, WaitlistMax: 40},
			},
		},
		{
			Number:      11301,
			Name:        "Udyan Express",
			IsSuperfast: false,
			Classes: []catalog.ClassConfig{
				{Code: "SL", RatePerKm: 0.8, TotalSeats: 288, SeatsPerCoach: 72, RacMax: 28, WaitlistMax: 80},
				{Code: "2A", RatePerKm: 2.8, TotalSeats: 48, SeatsPerCoach: 48, RacMax: 8, WaitlistMax: 20},
			},
		},
	}

	var trains []*catalog.Train
	for _, spec := range specs {
		train, err := s.catalog.CreateTrain(ctx, spec)
		if err != nil {
			return nil, err
		}
		trains = append(trains, train)
	}
	return trains, nil
}

func (s *Seeder) seedJourneys(ctx context.Context, trains []*catalog.Train) error {
	type journeySpec struct {
		trainIdx   int
		source     string
		dest       string
		distanceKm float64
		departIn   time.Duration
	}

	specs := []journeySpec{
		{trainIdx: 0, source: "NDLS", dest: "BCT", distanceKm: 1384, departIn: 48 * time.Hour},
		{trainIdx: 0, source: "BCT", dest: "NDLS", distanceKm: 1384, departIn: 72 * time.Hour},
		{trainIdx: 1, source: "HWH", dest: "MAS", distanceKm: 1659, departIn: 36 * time.Hour},
		{trainIdx: 2, source: "BCT", dest: "SBC", distanceKm: 1134, departIn: 24 * time.Hour},
		{trainIdx: 2, source: "PUNE", dest: "SBC", distanceKm: 942, departIn: 96 * time.Hour},
	}

	now := time.Now().Truncate(time.Hour)
	for _, spec := range specs {
		_, err := s.catalog.CreateJourney(ctx, catalog.CreateJourneyRequest{
			TrainID:     trains[spec.trainIdx].ID,
			SourceCode:  spec.source,
			DestCode:    spec.dest,
			DistanceKm:  spec.distanceKm,
			DepartureAt: now.Add(spec.departIn),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
