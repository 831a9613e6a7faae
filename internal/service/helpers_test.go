package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/athlos-portal-api/internal/models"
	"github.com/noah-isme/athlos-portal-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// userRepoStub is an in-memory UserRepository honouring the version-checked
// upsert contract.
type userRepoStub struct {
	mu      sync.Mutex
	nextID  uint
	users   map[string]*models.User
	failing bool
	upserts int
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]*models.User)}
}

func (s *userRepoStub) FindByID(_ context.Context, id uint) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == id {
			return *user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *userRepoStub) FindByExternalID(_ context.Context, externalID string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[externalID]; ok {
		return *user, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *userRepoStub) UpsertByExternalID(_ context.Context, change repository.UserUpsert) (models.User, repository.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upserts++
	if s.failing {
		return models.User{}, repository.UpsertStale, errors.New("store unavailable")
	}

	existing, ok := s.users[change.ExternalID]
	if !ok {
		role := change.Role
		if role == "" {
			role = models.DefaultRole
		}
		s.nextID++
		created := &models.User{
			ID:          s.nextID,
			ExternalID:  change.ExternalID,
			Email:       change.Email,
			FirstName:   change.FirstName,
			LastName:    change.LastName,
			Role:        role,
			Metadata:    change.Metadata,
			SyncVersion: change.Version,
		}
		s.users[change.ExternalID] = created
		return *created, repository.UpsertCreated, nil
	}

	if change.Version <= existing.SyncVersion {
		return *existing, repository.UpsertStale, nil
	}

	existing.Email = change.Email
	existing.FirstName = change.FirstName
	existing.LastName = change.LastName
	if change.Role != "" {
		existing.Role = change.Role
	}
	if len(change.Metadata) > 0 {
		existing.Metadata = change.Metadata
	}
	existing.SyncVersion = change.Version
	return *existing, repository.UpsertUpdated, nil
}

func (s *userRepoStub) UpdateRole(_ context.Context, id uint, role string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == id {
			user.Role = role
			return *user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *userRepoStub) List(_ context.Context, _ repository.UserFilter) ([]models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, *user)
	}
	return users, int64(len(users)), nil
}

func (s *userRepoStub) seed(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		s.nextID++
		user.ID = s.nextID
	} else if user.ID > s.nextID {
		s.nextID = user.ID
	}
	copied := user
	s.users[user.ExternalID] = &copied
}

// profileRepoStub is an in-memory StudentProfileRepository.
type profileRepoStub struct {
	mu       sync.Mutex
	nextID   uint
	profiles map[uint]*models.StudentProfile
}

func newProfileRepoStub() *profileRepoStub {
	return &profileRepoStub{profiles: make(map[uint]*models.StudentProfile)}
}

func (s *profileRepoStub) Create(_ context.Context, profile *models.StudentProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	profile.ID = s.nextID
	copied := *profile
	s.profiles[profile.UserID] = &copied
	return nil
}

func (s *profileRepoStub) GetByUserID(_ context.Context, userID uint) (models.StudentProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile, ok := s.profiles[userID]; ok {
		return *profile, nil
	}
	return models.StudentProfile{}, gorm.ErrRecordNotFound
}

func (s *profileRepoStub) Update(_ context.Context, userID uint, updates map[string]interface{}) (models.StudentProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return models.StudentProfile{}, gorm.ErrRecordNotFound
	}
	if sport, ok := updates["sport"].(string); ok {
		profile.Sport = sport
	}
	if gpa, ok := updates["gpa"].(float64); ok {
		profile.GPA = &gpa
	}
	if hours, ok := updates["credit_hours"].(int); ok {
		profile.CreditHours = hours
	}
	if status, ok := updates["eligibility_status"].(string); ok {
		profile.EligibilityStatus = status
	}
	return *profile, nil
}
