package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiagoromendes/gobarber-scheduling/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := ensureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	providers, err := seedProviders(ctx, pool, 12)
	if err != nil {
		log.Fatalf("seed providers: %v", err)
	}
	users, err := seedUsers(ctx, pool, 40)
	if err != nil {
		log.Fatalf("seed users: %v", err)
	}
	if err := seedAppointments(ctx, pool, providers, users); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS providers (
			id uuid PRIMARY KEY,
			name text NOT NULL,
			avatar_url text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS users (
			id uuid PRIMARY KEY,
			name text NOT NULL,
			email text,
			avatar_url text,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS appointments (
			id uuid PRIMARY KEY,
			provider_id uuid NOT NULL REFERENCES providers (id),
			user_id uuid NOT NULL REFERENCES users (id),
			starts_at timestamptz NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now(),
			UNIQUE (provider_id, starts_at)
		);

		CREATE TABLE IF NOT EXISTS event_logs (
			id bigserial PRIMARY KEY,
			event_type text NOT NULL,
			appointment_id uuid,
			payload jsonb,
			created_at timestamptz NOT NULL DEFAULT now()
		);
	`)
	return err
}

func seedProviders(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d providers", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		avatar := gofakeit.ImageURL(150, 150)

		_, err := tx.Exec(ctx, `
			INSERT INTO providers (id, name, avatar_url, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, name, avatar)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("providers seeded")
	return ids, nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d users", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		email := gofakeit.Email()
		avatar := gofakeit.ImageURL(150, 150)

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, name, email, avatar_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, name, email, avatar)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("users seeded")
	return ids, nil
}

// seedAppointments pre-books a scatter of hours over the coming week so day
// availability has realistic holes.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, providers, users []uuid.UUID) error {
	if len(providers) == 0 || len(users) == 0 {
		return nil
	}

	log.Println("seeding appointments")

	today := time.Now().UTC().Truncate(24 * time.Hour)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	count := 0
	for _, providerID := range providers {
		for dayOffset := 1; dayOffset <= 7; dayOffset++ {
			// Roughly a third of the working day gets booked.
			for hour := 8; hour <= 17; hour++ {
				if gofakeit.Number(0, 2) != 0 {
					continue
				}
				userID := users[gofakeit.Number(0, len(users)-1)]
				startsAt := today.AddDate(0, 0, dayOffset).Add(time.Duration(hour) * time.Hour)

				_, err := tx.Exec(ctx, `
					INSERT INTO appointments (id, provider_id, user_id, starts_at, created_at, updated_at)
					VALUES ($1, $2, $3, $4, now(), now())
					ON CONFLICT (provider_id, starts_at) DO NOTHING
				`, uuid.New(), providerID, userID, startsAt)
				if err != nil {
					return err
				}
				count++
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("appointments seeded: %d", count)
	return nil
}
