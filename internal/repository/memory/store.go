// Package memory holds process-local repositories backed by maps. They honor
// the same uniqueness and conditional-update contracts as the gorm
// repositories and are used by the service tests and STORAGE_DRIVER=memory.
package memory

import (
	"sync"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

// Store is shared by every repository of one factory. A single mutex makes
// each repository call atomic, which is what the conditional updates rely on.
type Store struct {
	mu sync.Mutex

	users       map[uuid.UUID]*entity.User
	specialists map[uuid.UUID]*entity.SpecialistProfile
	requesters  map[uuid.UUID]*entity.RequesterProfile
	engagements map[uuid.UUID]*entity.Engagement
	channels    map[uuid.UUID]*entity.Channel
	messages    map[uuid.UUID]*entity.Message
	visits      map[uuid.UUID]*entity.Visit
	reports     map[uuid.UUID]*entity.Report
	feedback    map[uuid.UUID]*entity.Feedback
}

func NewStore() *Store {
	return &Store{
		users:       make(map[uuid.UUID]*entity.User),
		specialists: make(map[uuid.UUID]*entity.SpecialistProfile),
		requesters:  make(map[uuid.UUID]*entity.RequesterProfile),
		engagements: make(map[uuid.UUID]*entity.Engagement),
		channels:    make(map[uuid.UUID]*entity.Channel),
		messages:    make(map[uuid.UUID]*entity.Message),
		visits:      make(map[uuid.UUID]*entity.Visit),
		reports:     make(map[uuid.UUID]*entity.Report),
		feedback:    make(map[uuid.UUID]*entity.Feedback),
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
