package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/booking-backend/internal/config"
	"github.com/railbook/booking-backend/internal/database"
	"github.com/railbook/booking-backend/internal/models"
)

// Seeds a development database with stations, trains and two weeks of trips.
// Discount cards are seeded by the migrations, not here.

var stationNames = map[string]string{
	"Paris Gare de Lyon":    "Paris",
	"Lyon Part-Dieu":        "Lyon",
	"Marseille Saint-Charles": "Marseille",
	"Lille Europe":          "Lille",
	"Bordeaux Saint-Jean":   "Bordeaux",
}

type routeSpec struct {
	from      string
	to        string
	hours     float64
	basePrice float64
}

var routes = []routeSpec{
	{"Paris Gare de Lyon", "Lyon Part-Dieu", 2, 69.0},
	{"Lyon Part-Dieu", "Paris Gare de Lyon", 2, 69.0},
	{"Paris Gare de Lyon", "Marseille Saint-Charles", 3.5, 95.0},
	{"Marseille Saint-Charles", "Paris Gare de Lyon", 3.5, 95.0},
	{"Paris Gare de Lyon", "Lille Europe", 1, 45.0},
	{"Lille Europe", "Paris Gare de Lyon", 1, 45.0},
	{"Paris Gare de Lyon", "Bordeaux Saint-Jean", 2.5, 79.0},
	{"Bordeaux Saint-Jean", "Paris Gare de Lyon", 2.5, 79.0},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	stations, err := seedStations(db.DB)
	if err != nil {
		log.Fatalf("Failed to seed stations: %v", err)
	}
	fmt.Printf("Seeded %d stations\n", len(stations))

	trains, err := seedTrains(db.DB, 4)
	if err != nil {
		log.Fatalf("Failed to seed trains: %v", err)
	}
	fmt.Printf("Seeded %d trains\n", len(trains))

	trips, err := seedTrips(db.DB, stations, trains)
	if err != nil {
		log.Fatalf("Failed to seed trips: %v", err)
	}
	fmt.Printf("Seeded %d trips\n", trips)
}

func seedStations(db *sqlx.DB) (map[string]uuid.UUID, error) {
	stations := make(map[string]uuid.UUID)
	for name, city := range stationNames {
		id := uuid.New()
		err := db.QueryRowx(`
			INSERT INTO stations (id, name, city)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET city = EXCLUDED.city
			RETURNING id
		`, id, name, city).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", name, err)
		}
		stations[name] = id
	}
	return stations, nil
}

// seedTrains creates trains of 6 cars with 20 seats each. Odd seat numbers
// are window seats, even are aisle.
func seedTrains(db *sqlx.DB, count int) ([]uuid.UUID, error) {
	trains := make([]uuid.UUID, 0, count)
	for i := 1; i <= count; i++ {
		trainID := uuid.New()
		if _, err := db.Exec(`INSERT INTO trains (id, name) VALUES ($1, $2)`,
			trainID, fmt.Sprintf("TGV %03d", i)); err != nil {
			return nil, fmt.Errorf("train %d: %w", i, err)
		}

		for carNum := 1; carNum <= 6; carNum++ {
			carID := uuid.New()
			if _, err := db.Exec(`INSERT INTO cars (id, train_id, number) VALUES ($1, $2, $3)`,
				carID, trainID, carNum); err != nil {
				return nil, fmt.Errorf("train %d car %d: %w", i, carNum, err)
			}

			for seatNum := 1; seatNum <= 20; seatNum++ {
				class := models.SeatClassWindow
				if seatNum%2 == 0 {
					class = models.SeatClassAisle
				}
				if _, err := db.Exec(`INSERT INTO seats (id, car_id, number, class) VALUES ($1, $2, $3, $4)`,
					uuid.New(), carID, seatNum, class); err != nil {
					return nil, fmt.Errorf("train %d car %d seat %d: %w", i, carNum, seatNum, err)
				}
			}
		}

		trains = append(trains, trainID)
	}
	return trains, nil
}

func seedTrips(db *sqlx.DB, stations map[string]uuid.UUID, trains []uuid.UUID) (int, error) {
	var totalSeats int
	if err := db.Get(&totalSeats, `
		SELECT COUNT(*) FROM seats s JOIN cars c ON s.car_id = c.id WHERE c.train_id = $1
	`, trains[0]); err != nil {
		return 0, fmt.Errorf("count seats: %w", err)
	}

	departures := []int{7, 10, 14, 18}
	count := 0
	today := time.Now().Truncate(24 * time.Hour)

	for day := 1; day <= 14; day++ {
		date := today.AddDate(0, 0, day)
		for ri, route := range routes {
			for _, hour := range departures {
				departure := date.Add(time.Duration(hour) * time.Hour)
				arrival := departure.Add(time.Duration(route.hours * float64(time.Hour)))
				train := trains[(ri+count)%len(trains)]

				_, err := db.Exec(`
					INSERT INTO trips (id, departure_station_id, arrival_station_id, departure_at, arrival_at, base_price, train_id, seats_remaining)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				`, uuid.New(), stations[route.from], stations[route.to], departure, arrival, route.basePrice, train, totalSeats)
				if err != nil {
					return count, fmt.Errorf("trip %s -> %s: %w", route.from, route.to, err)
				}
				count++
			}
		}
	}

	return count, nil
}
