package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tourbook/internal/availability"
	"tourbook/internal/guides"
	"tourbook/internal/schema"
	"tourbook/internal/settings"
	"tourbook/internal/shared/config"
	"tourbook/internal/shared/database"
	"tourbook/internal/tours"
	"tourbook/internal/users"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "qwerty"

type Seeder struct {
	db  *database.DB
	cfg *config.Config
}

func main() {
	fmt.Println("🌱 Starting Tourbook Database Seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := schema.Migrate(db.PostgreSQL); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	seeder := &Seeder{db: db, cfg: cfg}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Printf("\n🎉 Seeding completed! Every account uses the password %q.\n", seedPassword)
}

// CleanDatabase truncates every table, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"processed_payment_events",
		"bookings",
		"commission_payouts",
		"availability_slots",
		"tours",
		"platform_settings",
		"guide_profiles",
		"users",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedGuideProfiles(userIDs); err != nil {
		return fmt.Errorf("failed to seed guide profiles: %w", err)
	}

	settingsService := settings.NewService(settings.NewRepository(s.db.PostgreSQL), s.cfg.Pricing.DefaultCommissionRate)
	if _, err := settingsService.SetCommission(ctx, s.cfg.Pricing.DefaultCommissionRate); err != nil {
		return fmt.Errorf("failed to seed commission rate: %w", err)
	}
	fmt.Printf("  💸 Commission rate set to %.2f%%\n", s.cfg.Pricing.DefaultCommissionRate)

	tourIDs, err := s.SeedTours(userIDs["guide1"])
	if err != nil {
		return fmt.Errorf("failed to seed tours: %w", err)
	}

	if err := s.SeedAvailability(tourIDs, 14); err != nil {
		return fmt.Errorf("failed to seed availability: %w", err)
	}
	return nil
}

// SeedUsers creates an admin, two guides and two travelers
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@tourbook.local", users.RoleAdmin},
		{"guide1", "Ana", "Ferreira", "ana.guide@tourbook.local", users.RoleGuide},
		{"guide2", "Luka", "Horvat", "luka.guide@tourbook.local", users.RoleGuide},
		{"user1", "Maya", "Brooks", "maya@tourbook.local", users.RoleUser},
		{"user2", "Omar", "Haddad", "omar@tourbook.local", users.RoleUser},
	}

	userIDs := make(map[string]uuid.UUID, len(usersData))
	for _, userData := range usersData {
		user := users.User{
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
		}
		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}
		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}
	return userIDs, nil
}

// SeedGuideProfiles approves guide1 and leaves guide2 in the review queue
func (s *Seeder) SeedGuideProfiles(userIDs map[string]uuid.UUID) error {
	fmt.Println("  🧭 Seeding guide profiles...")

	reviewedAt := time.Now().UTC()
	adminID := userIDs["admin"]
	profiles := []guides.GuideProfile{
		{
			UserID:       userIDs["guide1"],
			Status:       guides.StatusApproved,
			BusinessName: "Lisbon On Foot",
			Bio:          "Walking tours through Alfama, Mouraria and Belém.",
			ReviewedBy:   &adminID,
			ReviewedAt:   &reviewedAt,
		},
		{
			UserID:       userIDs["guide2"],
			Status:       guides.StatusPending,
			BusinessName: "Adriatic Paddle",
			Bio:          "Sea kayaking around Split.",
		},
	}
	for i := range profiles {
		if err := s.db.PostgreSQL.Create(&profiles[i]).Error; err != nil {
			return fmt.Errorf("failed to create guide profile: %w", err)
		}
		fmt.Printf("    ✅ %s (%s)\n", profiles[i].BusinessName, profiles[i].Status)
	}
	return nil
}

func (s *Seeder) SeedTours(guideID uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  🗺️  Seeding tours...")

	toursData := []tours.Tour{
		{Title: "Alfama Old Town Walk", Location: "Lisbon", DurationHours: 3, Price: 35, MaxGroupSize: 12, IsFeatured: true,
			Description: "Miradouros, fado houses and the cathedral, ending with a ginjinha."},
		{Title: "Sintra Palaces Day Trip", Location: "Sintra", DurationHours: 8, Price: 89, MaxGroupSize: 8,
			Description: "Pena Palace, Quinta da Regaleira and the Moorish castle."},
		{Title: "Belém Pastry & History", Location: "Lisbon", DurationHours: 2.5, Price: 42.5, MaxGroupSize: 10,
			Description: "Jerónimos Monastery, the tower and a tasting of the original pastéis."},
	}

	ids := make([]uuid.UUID, 0, len(toursData))
	for i := range toursData {
		tour := &toursData[i]
		tour.GuideID = guideID
		tour.IsActive = true
		if err := s.db.PostgreSQL.Create(tour).Error; err != nil {
			return nil, fmt.Errorf("failed to create tour %s: %w", tour.Title, err)
		}
		ids = append(ids, tour.ID)
		fmt.Printf("    ✅ %s (%.2f)\n", tour.Title, tour.Price)
	}
	return ids, nil
}

// SeedAvailability opens one slot per tour per day for the next days
func (s *Seeder) SeedAvailability(tourIDs []uuid.UUID, days int) error {
	fmt.Println("  📅 Seeding availability...")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := "09:30"
	var slots []availability.Slot
	for _, tourID := range tourIDs {
		for d := 1; d <= days; d++ {
			slots = append(slots, availability.Slot{
				TourID:         tourID,
				Date:           today.AddDate(0, 0, d),
				StartTime:      &start,
				AvailableSpots: 8,
			})
		}
	}

	if err := s.db.PostgreSQL.CreateInBatches(slots, 100).Error; err != nil {
		return fmt.Errorf("failed to create slots: %w", err)
	}
	fmt.Printf("    ✅ Created %d slots\n", len(slots))
	return nil
}
