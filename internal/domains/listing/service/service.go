package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Listing=MockListingService

import (
	"context"
	"fmt"
	"rental/config"
	"rental/infras/otel"
	"rental/internal/domains/listing/availability"
	"rental/internal/domains/listing/model"
	"rental/internal/domains/listing/model/dto"
	"rental/internal/domains/listing/repository"
	reservationRepo "rental/internal/domains/reservation/repository"
	"rental/shared"
	"rental/shared/cache"
	"rental/shared/constant"
	"rental/shared/failure"
	"rental/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Listing interface {
	Get(ctx context.Context, id string) (dto.ListingResponse, error)
	Availability(ctx context.Context, id string) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo            repository.Listing
	reservationRepo reservationRepo.Reservation
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(repo repository.Listing, reservationRepo reservationRepo.Reservation, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Listing {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	generation, cached := shared.CacheGeneration(ctx, s.cache, shared.BuildCacheKey(model.CacheKeyGeneration, id))
	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id, generation)

	if cached && s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	listing, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(listing)

	if cached {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save listing to cache")
			}
		}()
	}

	return res, nil
}

// Availability recomputes availability from the live reservations and reports the stored flag
// beside it. The two can differ until the next locked write on the listing.
func (s *serviceImpl) Availability(ctx context.Context, id string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Availability")
	defer scope.End()
	defer scope.TraceIfError(&err)

	generation, cached := shared.CacheGeneration(ctx, s.cache, shared.BuildCacheKey(model.CacheKeyGeneration, id))
	cacheKey := shared.BuildCacheKey(model.CacheKeyAvailability, id, generation)

	if cached && s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	listing, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	today := timezone.Today()

	active, err := s.reservationRepo.GetActive(ctx, listing.ID, today)
	if err != nil {
		log.Error().Err(err).Str("listing_id", id).Msg("failed to get active reservations")

		return res, fmt.Errorf("failed to get active reservations: %w", err)
	}

	upcoming := availability.Upcoming(active, today)

	res = dto.AvailabilityResponse{
		ListingID: listing.ID,
		Available: len(upcoming) == 0,
		Cached:    listing.Available,
		Upcoming:  make([]dto.BookedInterval, len(upcoming)),
	}

	for i, reservation := range upcoming {
		res.Upcoming[i] = dto.BookedInterval{
			ReservationID: reservation.ID,
			StartDate:     reservation.StartDate.Format(constant.DateOnlyFormat),
			EndDate:       reservation.EndDate.Format(constant.DateOnlyFormat),
			Status:        string(reservation.Status),
		}
	}

	if res.Available != res.Cached {
		log.Warn().Str("listing_id", id).Bool("derived", res.Available).Bool("cached", res.Cached).Msg("listing availability flag is stale")
	}

	if cached {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save listing availability to cache")
			}
		}()
	}

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Listing, error) {
	listing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get listing")

		return listing, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return listing, failure.NotFound("listing not found") // nolint:wrapcheck
	}

	return listing, nil
}
