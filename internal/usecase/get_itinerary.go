package usecase

import (
	"context"
	"errors"
	"fmt"

	"itinerary/internal/domain/itinerary"
)

var ErrItineraryNotFound = errors.New("itinerary not found")

type GetItinerary struct {
	repo itinerary.Repository
}

func NewGetItinerary(repo itinerary.Repository) *GetItinerary {
	return &GetItinerary{repo: repo}
}

func (uc *GetItinerary) Execute(ctx context.Context, id string) (*itinerary.Itinerary, error) {
	it, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get itinerary: %w", err)
	}
	if it == nil {
		return nil, ErrItineraryNotFound
	}
	return it, nil
}

type ListItineraries struct {
	repo itinerary.Repository
}

func NewListItineraries(repo itinerary.Repository) *ListItineraries {
	return &ListItineraries{repo: repo}
}

func (uc *ListItineraries) Execute(ctx context.Context) ([]*itinerary.Itinerary, error) {
	all, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: %w", err)
	}
	if all == nil {
		all = []*itinerary.Itinerary{}
	}
	return all, nil
}

type DeleteItinerary struct {
	repo itinerary.Repository
}

func NewDeleteItinerary(repo itinerary.Repository) *DeleteItinerary {
	return &DeleteItinerary{repo: repo}
}

func (uc *DeleteItinerary) Execute(ctx context.Context, id string) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete itinerary: %w", err)
	}
	if !deleted {
		return ErrItineraryNotFound
	}
	storedItineraries.Dec()
	return nil
}
