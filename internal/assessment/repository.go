package assessment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"triage-advisor/internal/pipeline"
)

var ErrNotFound = errors.New("assessment report not found or expired")

// Repository keeps finished reports around long enough to download them.
type Repository interface {
	GetByID(id uuid.UUID) (*pipeline.Report, error)
	Save(r *pipeline.Report)
	Len() int
}

type cacheRepo struct {
	cache *expirable.LRU[uuid.UUID, *pipeline.Report]
}

// NewRepository holds at most size reports, each for ttl.
func NewRepository(size int, ttl time.Duration) Repository {
	return &cacheRepo{cache: expirable.NewLRU[uuid.UUID, *pipeline.Report](size, nil, ttl)}
}

func (r *cacheRepo) GetByID(id uuid.UUID) (*pipeline.Report, error) {
	rep, ok := r.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return rep, nil
}

func (r *cacheRepo) Save(rep *pipeline.Report) {
	r.cache.Add(rep.ID, rep)
}

func (r *cacheRepo) Len() int {
	return r.cache.Len()
}
