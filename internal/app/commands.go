package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"

	"tripsmith/internal/domain"
)

// PlanService is the write side: generate a plan, persist it, delete it.
// Each write targets one record; there are no partial writes to undo.
type PlanService struct {
	gen   domain.ItineraryGenerator
	repo  domain.TripRepository
	cache domain.Cache
	ids   *snowflake.Node
}

func NewPlanService(g domain.ItineraryGenerator, r domain.TripRepository, c domain.Cache, nodeID int64) (*PlanService, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}
	return &PlanService{gen: g, repo: r, cache: c, ids: node}, nil
}

// CreateTrip validates the selection, asks the model for a plan, and stores
// the response text verbatim under a fresh timestamp-derived ID. The text
// is parsed on read, never here.
func (s *PlanService) CreateTrip(ctx context.Context, userEmail string, sel domain.TripSelection) (domain.TripRecord, error) {
	if userEmail == "" {
		return domain.TripRecord{}, &domain.ValidationError{Field: "userEmail", Reason: "must not be empty"}
	}
	if err := sel.Validate(); err != nil {
		return domain.TripRecord{}, err
	}

	text, err := s.gen.GenerateTripPlan(ctx, sel)
	if err != nil {
		return domain.TripRecord{}, err
	}

	rec := domain.TripRecord{
		ID:        s.ids.Generate().String(),
		UserEmail: userEmail,
		CreatedAt: time.Now().UTC(),
		Selection: sel,
		TripData:  text,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return domain.TripRecord{}, err
	}
	return rec, nil
}

// DeleteTrip removes the record and evicts every projection derived from it.
func (s *PlanService) DeleteTrip(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.invalidateTrip(ctx, id)
	}
	return nil
}

func (s *PlanService) invalidateTrip(ctx context.Context, id string) {
	for _, prefix := range []string{"itinerary:", "hotels:", "cover:"} {
		_ = s.cache.Del(ctx, prefix+id)
	}
}
