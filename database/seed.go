package database

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/model"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

type sessionSeed struct {
	Title           string
	Description     string
	Order           int
	DurationMinutes int
}

type courseSeed struct {
	Title           string
	Description     string
	DurationMinutes int
	Category        string
	Level           string
	Ambience        string
	Sessions        []sessionSeed
}

// SeedAll populates the demo catalog. Every entity is looked up by name (or title)
// first, so running it again changes nothing.
func (s *Seeder) SeedAll() error {
	log.Info("Starting database seeding...")

	err := s.db.Transaction(func(tx *gorm.DB) error {
		categories := map[string]*model.Category{}
		for _, c := range []model.Category{
			{Name: "Respiration", Description: strPtr("Techniques de respiration")},
			{Name: "Méditation guidée", Description: strPtr("Séances guidées")},
		} {
			category := c
			if err := firstOrCreate(tx, &category, "name = ?", category.Name); err != nil {
				return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
			}
			categories[category.Name] = &category
		}

		levels := map[string]*model.Level{}
		for _, l := range []model.Level{
			{Name: "Débutant", Description: strPtr("Accessible à tous"), Order: intPtr(1)},
			{Name: "Intermédiaire", Description: strPtr("Pour aller plus loin"), Order: intPtr(2)},
		} {
			level := l
			if err := firstOrCreate(tx, &level, "name = ?", level.Name); err != nil {
				return fmt.Errorf("failed to seed level %q: %w", l.Name, err)
			}
			levels[level.Name] = &level
		}

		ambiances := map[string]*model.Ambience{}
		for _, a := range []model.Ambience{
			{Name: "Mer calme", Description: strPtr("Sons marins relaxants"), AudioURL: strPtr("https://cdn.example.com/ambiances/ocean")},
			{Name: "Forêt matinale", Description: strPtr("Ambiance forêt et oiseaux"), AudioURL: strPtr("https://cdn.example.com/ambiances/forest")},
		} {
			ambience := a
			if err := firstOrCreate(tx, &ambience, "name = ?", ambience.Name); err != nil {
				return fmt.Errorf("failed to seed ambience %q: %w", a.Name, err)
			}
			ambiances[ambience.Name] = &ambience
		}

		for _, cs := range demoCourses {
			var existing model.Course
			err := tx.Where("title = ?", cs.Title).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			course := model.Course{
				Title:           cs.Title,
				Description:     strPtr(cs.Description),
				DurationMinutes: intPtr(cs.DurationMinutes),
				CategoryID:      &categories[cs.Category].ID,
				LevelID:         &levels[cs.Level].ID,
				AmbienceID:      &ambiances[cs.Ambience].ID,
			}
			for _, ss := range cs.Sessions {
				course.Sessions = append(course.Sessions, model.CourseSession{
					Title:           ss.Title,
					Description:     strPtr(ss.Description),
					Order:           intPtr(ss.Order),
					DurationMinutes: intPtr(ss.DurationMinutes),
				})
			}
			if err := tx.Create(&course).Error; err != nil {
				return fmt.Errorf("failed to seed course %q: %w", cs.Title, err)
			}
			log.Infof("Seeded course %q with %d sessions", course.Title, len(course.Sessions))
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("Database seeding completed successfully!")
	return nil
}

func firstOrCreate(tx *gorm.DB, dest interface{}, query string, args ...interface{}) error {
	return tx.Where(query, args...).FirstOrCreate(dest).Error
}

var demoCourses = []courseSeed{
	{
		Title:           "Routine Respiration Matinale",
		Description:     "Activez votre énergie avec une routine de respiration consciente.",
		DurationMinutes: 15,
		Category:        "Respiration",
		Level:           "Débutant",
		Ambience:        "Mer calme",
		Sessions: []sessionSeed{
			{Title: "Respiration en carré", Description: "Un cycle de respiration équilibré pour démarrer la journée.", Order: 1, DurationMinutes: 5},
			{Title: "Cohérence cardiaque", Description: "Stabilisez votre rythme cardiaque avant vos activités.", Order: 2, DurationMinutes: 10},
		},
	},
	{
		Title:           "Exploration méditative du soir",
		Description:     "Relâchez les tensions avec une méditation guidée immersive.",
		DurationMinutes: 20,
		Category:        "Méditation guidée",
		Level:           "Intermédiaire",
		Ambience:        "Forêt matinale",
		Sessions: []sessionSeed{
			{Title: "Ancrage corporel", Description: "Reconnectez-vous à vos sensations physiques.", Order: 1, DurationMinutes: 8},
			{Title: "Balayage des pensées", Description: "Laissez passer les pensées en douceur.", Order: 2, DurationMinutes: 12},
		},
	},
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
