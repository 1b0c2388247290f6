package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"videoprofiles/internal/profiles"
)

var (
	firstNames = []string{"Alice", "Bruno", "Chiara", "Dmitri", "Esi", "Farah", "Goran", "Hana", "Ivan", "Jun"}
	lastNames  = []string{"Smith", "Okafor", "Rossi", "Ivanova", "Mensah", "Haddad", "Novak", "Sato", "Petrov", "Lee"}
	locations  = []string{"Lisbon, Portugal", "Lagos, Nigeria", "Austin, TX, USA", "Osaka, Japan", "Toronto, ON, Canada"}
	cameras    = []string{"Sony FX3", "Canon C70", "Blackmagic Pocket 6K", "Panasonic GH6", "DJI Mavic 3"}
	software   = []string{"DaVinci Resolve", "Adobe Premiere Pro", "Final Cut Pro", "Avid Media Composer"}
)

// Summary reports what a seeding run did.
type Summary struct {
	Created    int
	Duplicates int
}

// Seeder fills the profiles table with sample registrations through the Submitter,
// so sample rows follow the same rules as real ones.
type Seeder struct {
	Submitter    *profiles.Submitter
	Logger       *slog.Logger
	ProfileCount int

	rng *rand.Rand
}

// NewSeeder creates a new seeder instance
func NewSeeder(submitter *profiles.Submitter, logger *slog.Logger, profileCount int) *Seeder {
	return NewSeederWithSeed(submitter, logger, profileCount, uint64(time.Now().UnixNano()))
}

// NewSeederWithSeed creates a seeder whose sample data is reproducible for seed.
func NewSeederWithSeed(submitter *profiles.Submitter, logger *slog.Logger, profileCount int, seed uint64) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		Submitter:    submitter,
		Logger:       logger,
		ProfileCount: profileCount,
		rng:          rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// Run submits ProfileCount sample profiles. Usernames that already exist are
// counted and skipped; any other failure stops the run.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	s.Logger.Info("Seeding sample profiles...", slog.Int("profileCount", s.ProfileCount))

	var summary Summary
	for i := 1; i <= s.ProfileCount; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		_, err := s.Submitter.Submit(ctx, s.sampleCandidate(i))
		switch {
		case err == nil:
			summary.Created++
		case errors.Is(err, profiles.ErrDuplicateUsername):
			summary.Duplicates++
		default:
			return summary, fmt.Errorf("seed profile %d: %w", i, err)
		}
	}

	s.Logger.Info("Seeding completed",
		slog.Int("created", summary.Created),
		slog.Int("duplicates", summary.Duplicates),
		slog.Duration("elapsed", time.Since(start)))
	return summary, nil
}

func (s *Seeder) sampleCandidate(n int) profiles.Candidate {
	first := pick(s.rng, firstNames)
	last := pick(s.rng, lastNames)
	username := fmt.Sprintf("videographer%04d", n)

	c := profiles.Candidate{
		FullName:        first + " " + last,
		Username:        username,
		Location:        pick(s.rng, locations),
		Email:           username + "@example.com",
		ExperienceLevel: pick(s.rng, profiles.ExperienceLevels),
		PrivacySettings: pick(s.rng, profiles.PrivacySettings),
		CameraEquipment: pick(s.rng, cameras),
		EditingSoftware: pick(s.rng, software),
		FollowerCount:   fmt.Sprintf("%d", s.rng.IntN(100000)),
	}

	form := profiles.RegistrationForm()
	selections := map[string]*string{
		"specialization":           &c.Specialization,
		"skills":                   &c.Skills,
		"preferred_project_types":  &c.PreferredProjectTypes,
		"preferred_industries":     &c.PreferredIndustries,
		"availability_status":      &c.AvailabilityStatus,
		"compensation":             &c.Compensation,
		"notification_preferences": &c.NotificationPreferences,
	}
	for key, target := range selections {
		field, ok := form.Field(key)
		if !ok {
			continue
		}
		*target = profiles.JoinSelections(pickSome(s.rng, field.Options))
	}

	if s.rng.IntN(2) == 0 {
		picture := username + ".jpg"
		c.ProfilePicture = &picture
	}
	return c
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.IntN(len(options))]
}

// pickSome returns a random, non-empty subset of options in a random order.
func pickSome(rng *rand.Rand, options []string) []string {
	shuffled := append([]string(nil), options...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:1+rng.IntN(len(shuffled))]
}
