package memory

import (
	"context"
	"sync"

	profile "vidyutmitra/internal/profile/domain"
)

// ProfileRepository is an in-memory profile store for demo/testing.
type ProfileRepository struct {
	mu   sync.RWMutex
	data map[string]profile.Profile
}

// NewProfileRepository constructs a repository.
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{data: make(map[string]profile.Profile)}
}

// Get loads the profile for a user.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	_ = ctx
	if userID == "" {
		return nil, profile.ErrEmptyUserID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data[userID]
	if !ok {
		return nil, profile.ErrNotFound
	}
	p.UserID = userID
	return &p, nil
}

// Put upserts the profile for a user.
func (r *ProfileRepository) Put(ctx context.Context, userID string, p profile.Profile) error {
	_ = ctx
	if userID == "" {
		return profile.ErrEmptyUserID
	}
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[userID] = p
	return nil
}
