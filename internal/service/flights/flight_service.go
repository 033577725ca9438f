package flights

import (
	"context"

	"github.com/avikulin/flightbot/internal/domain"
	"github.com/avikulin/flightbot/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.FlightOffer, error)
	GetByID(ctx context.Context, id int64) (*domain.FlightOffer, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.FlightOffer, error)
	SetFlights(ctx context.Context, flights []domain.FlightOffer) error
}

// FlightService serves the catalog the chat offers at session start.
type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) List(ctx context.Context) ([]domain.FlightOffer, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.FlightOffer, error) {
	return s.repo.GetByID(ctx, id)
}

var _ FlightUseCase = (*FlightService)(nil)
