package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Reservation=MockReservationService

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"rental/config"
	"rental/infras/otel"
	"rental/infras/postgres"
	auditModel "rental/internal/domains/audit/model"
	auditDto "rental/internal/domains/audit/model/dto"
	auditService "rental/internal/domains/audit/service"
	"rental/internal/domains/listing/availability"
	listingModel "rental/internal/domains/listing/model"
	listingRepo "rental/internal/domains/listing/repository"
	notificationDto "rental/internal/domains/notification/model/dto"
	notificationService "rental/internal/domains/notification/service"
	"rental/internal/domains/reservation/event"
	"rental/internal/domains/reservation/model"
	"rental/internal/domains/reservation/model/dto"
	"rental/internal/domains/reservation/overlap"
	"rental/internal/domains/reservation/pricing"
	"rental/internal/domains/reservation/repository"
	userModel "rental/internal/domains/user/model"
	userRepo "rental/internal/domains/user/repository"
	"rental/shared"
	"rental/shared/cache"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"
	gModel "rental/shared/model"
	"rental/shared/timezone"
	"rental/shared/worker"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"

	cacheGeneration     = "reservation:generation"
	cacheListGeneration = "reservation:generation-list"

	systemActor = "system"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Get(ctx context.Context, id string, includeDeleted bool) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ReservationFilter) (dto.GetReservationsResponse, error)
	FindByRequester(ctx context.Context, requesterID string, params gDto.QueryParams, includeDeleted bool) (dto.GetReservationsResponse, error)
	FindByListing(ctx context.Context, listingID string, params gDto.QueryParams, includeDeleted bool) (dto.GetReservationsResponse, error)
	FindByStatus(ctx context.Context, status model.Status, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	Cancel(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.ReservationResponse, error)
	CompleteElapsed(ctx context.Context, today time.Time) (int, error)
}

type serviceImpl struct {
	repo         repository.Reservation
	listingRepo  listingRepo.Listing
	userRepo     userRepo.User
	transactor   postgres.Transactor
	audit        auditService.Audit
	notification notificationService.Notification
	publisher    event.Publisher
	pool         worker.Pool
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Reservation,
	listingRepo listingRepo.Listing,
	userRepo userRepo.User,
	transactor postgres.Transactor,
	audit auditService.Audit,
	notification notificationService.Notification,
	publisher event.Publisher,
	pool worker.Pool,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:         repo,
		listingRepo:  listingRepo,
		userRepo:     userRepo,
		transactor:   transactor,
		audit:        audit,
		notification: notification,
		publisher:    publisher,
		pool:         pool,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == "" {
		return res, failure.Unauthorized("missing requester") // nolint:wrapcheck
	}

	log.Debug().Str("listing_id", req.ListingID).Str("state", "received").Msg("reservation request")

	listing, err := s.listingRepo.Get(ctx, shared.FilterByID(req.ListingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("listing_id", req.ListingID).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return res, failure.Wrap(http.StatusNotFound, model.ErrNotFound, "listing not found") // nolint:wrapcheck
	}

	interval, err := req.Interval()
	if err != nil {
		return res, failure.Wrap(http.StatusBadRequest, model.ErrInvalidRange, err.Error()) // nolint:wrapcheck
	}

	if !listing.IsActive() {
		return res, errUnavailable()
	}

	log.Debug().Str("listing_id", listing.ID).Str("state", "validated").Msg("reservation request")

	var reservation model.Reservation

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.lockListing(ctx, tx, listing.ID)
		if err != nil {
			return err
		}

		if !locked.IsActive() {
			return errUnavailable()
		}

		active, err := s.repo.GetActiveTx(ctx, tx, locked.ID, interval.Start)
		if err != nil {
			log.Error().Err(err).Str("listing_id", locked.ID).Msg("failed to load active reservations")

			return fmt.Errorf("failed to load active reservations: %w", err)
		}

		if conflicts := overlap.Conflicts(locked.ID, interval, active); len(conflicts) > 0 {
			return failure.Wrap(http.StatusConflict, model.ErrConflict, fmt.Sprintf( // nolint:wrapcheck
				"listing is already booked from %s to %s",
				conflicts[0].StartDate.Format(constant.DateOnlyFormat),
				conflicts[0].EndDate.Format(constant.DateOnlyFormat),
			))
		}

		price, err := pricing.Price(locked.DayRate, interval.Start, interval.End)
		if err != nil {
			if errors.Is(err, pricing.ErrInvalidRate) {
				return failure.Wrap(http.StatusUnprocessableEntity, model.ErrUnavailable, "listing has no valid day rate") // nolint:wrapcheck
			}

			return failure.Wrap(http.StatusBadRequest, model.ErrInvalidRange, err.Error()) // nolint:wrapcheck
		}

		log.Debug().Str("listing_id", locked.ID).Str("state", "priced").Str("total", price.StringFixed(2)).Msg("reservation request")

		now := timezone.Now()
		reservation = model.Reservation{
			ID:             uuid.NewString(),
			ListingID:      locked.ID,
			RequesterID:    user,
			StartDate:      interval.Start,
			EndDate:        interval.End,
			TotalPrice:     price,
			Status:         model.StatusPending,
			ListingTitle:   locked.Title,
			ListingOwnerID: locked.OwnerID,
			ListingDayRate: locked.DayRate,
			Metadata:       gModel.NewMetadata(now, user),
		}

		if err := s.repo.InsertTx(ctx, tx, reservation); err != nil {
			log.Error().Err(err).Msg("failed to insert reservation")

			return fmt.Errorf("failed to insert reservation: %w", err)
		}

		if locked.Available {
			return s.setAvailable(ctx, tx, locked.ID, false, user)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	log.Debug().Str("reservation_id", reservation.ID).Str("state", "persisted").Msg("reservation request")

	if email, ok := ctx.Value(constant.ContextKeyUserEmail).(string); ok && email != "" {
		reservation.RequesterEmail = &email
	}

	s.invalidate(ctx, reservation)

	res.FromModel(reservation)

	s.dispatchCreated(ctx, reservation, res)

	log.Debug().Str("reservation_id", reservation.ID).Str("state", "dispatched").Msg("reservation request")

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string, includeDeleted bool) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	generation, cached := shared.CacheGeneration(ctx, s.cache, shared.BuildCacheKey(cacheGeneration, id))
	cacheKey := shared.BuildCacheKey(cacheGetReservation, id, generation)

	if !cached || s.cache.Get(ctx, cacheKey, &res) != nil {
		reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to get reservation")

			return res, fmt.Errorf("failed to get reservation: %w", err)
		}

		if reservation.ID == constant.Empty {
			return res, errNotFound()
		}

		res.FromModel(reservation)

		if cached {
			go func() {
				c := context.WithoutCancel(ctx)

				if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
					log.Error().Err(err).Msg("failed to save reservation to cache")
				}
			}()
		}
	}

	if res.DeletedAt != nil && !includeDeleted {
		return dto.ReservationResponse{}, errNotFound()
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ReservationFilter) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if filter.Status != "" && !model.Status(filter.Status).IsValid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown status %q", filter.Status)) // nolint:wrapcheck
	}

	params = dto.NewestFirst(params)
	group := filter.ToFilterGroup()

	generation, cached := shared.CacheGeneration(ctx, s.cache, cacheListGeneration)
	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllReservation, generation), params, group)

	if cached && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.count(ctx, generation, cached, group)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	if cached {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save reservations to cache")
			}
		}()
	}

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, generation string, cached bool, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheCountReservation, generation), gDto.QueryParams{}, filter)

	if cached && s.cache.Get(ctx, cacheKey, &total) == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	if cached {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save reservation count to cache")
			}
		}()
	}

	return total, nil
}

func (s *serviceImpl) FindByRequester(ctx context.Context, requesterID string, params gDto.QueryParams, includeDeleted bool) (dto.GetReservationsResponse, error) {
	if requesterID == constant.Empty {
		return dto.GetReservationsResponse{}, failure.Unauthorized("missing requester") // nolint:wrapcheck
	}

	return s.GetAll(ctx, params, dto.ReservationFilter{RequesterID: requesterID, IncludeDeleted: includeDeleted})
}

func (s *serviceImpl) FindByListing(ctx context.Context, listingID string, params gDto.QueryParams, includeDeleted bool) (res dto.GetReservationsResponse, err error) {
	exist, err := s.listingRepo.Exist(ctx, shared.FilterByID(listingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID).Msg("failed to check listing")

		return res, fmt.Errorf("failed to check listing: %w", err)
	}

	if !exist {
		return res, failure.Wrap(http.StatusNotFound, model.ErrNotFound, "listing not found") // nolint:wrapcheck
	}

	return s.GetAll(ctx, params, dto.ReservationFilter{ListingID: listingID, IncludeDeleted: includeDeleted})
}

func (s *serviceImpl) FindByStatus(ctx context.Context, status model.Status, params gDto.QueryParams) (dto.GetReservationsResponse, error) {
	if !status.IsValid() {
		return dto.GetReservationsResponse{}, failure.BadRequestFromString(fmt.Sprintf("unknown status %q", status)) // nolint:wrapcheck
	}

	return s.GetAll(ctx, params, dto.ReservationFilter{Status: string(status)})
}

// Cancel tombstones the reservation, releasing its dates. The status column is left as it was.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Cancel")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.getLive(ctx, id)
	if err != nil {
		return err
	}

	var before, after model.Reservation

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.lockListing(ctx, tx, current.ListingID)
		if err != nil {
			return err
		}

		before, err = s.getLiveTx(ctx, tx, id)
		if err != nil {
			return err
		}

		now := timezone.Now()

		affected, err := s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldDeletedAt:     now,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}, liveByID(id))
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to cancel reservation")

			return fmt.Errorf("failed to cancel reservation: %w", err)
		}

		if affected == 0 {
			return errNotFound()
		}

		after = before
		after.DeletedAt = &now
		after.ModifiedAt = now
		after.ModifiedBy = user

		return s.refreshAvailability(ctx, tx, locked, user)
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	s.invalidate(ctx, after)
	s.dispatchChange(ctx, auditModel.ActionReservationCancelled, event.TypeCancelled, before, after)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	next := model.Status(req.Status)

	current, err := s.getLive(ctx, id)
	if err != nil {
		return res, err
	}

	var (
		before, after model.Reservation
		changed       bool
	)

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.lockListing(ctx, tx, current.ListingID)
		if err != nil {
			return err
		}

		before, err = s.getLiveTx(ctx, tx, id)
		if err != nil {
			return err
		}

		changed, err = before.Status.Transition(next)
		if err != nil {
			return failure.Wrap(http.StatusUnprocessableEntity, model.ErrInvalidTransition, err.Error()) // nolint:wrapcheck
		}

		after = before

		if !changed {
			return nil
		}

		now := timezone.Now()

		affected, err := s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        string(next),
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}, liveByID(id))
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to update reservation status")

			return fmt.Errorf("failed to update reservation status: %w", err)
		}

		if affected == 0 {
			return errNotFound()
		}

		after.Status = next
		after.ModifiedAt = now
		after.ModifiedBy = user

		if next.IsTerminal() {
			return s.refreshAvailability(ctx, tx, locked, user)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(after)

	if changed {
		s.invalidate(ctx, after)
		s.dispatchChange(ctx, auditModel.ActionReservationStatusUpdated, event.TypeStatusUpdated, before, after)
	}

	return res, nil
}

// CompleteElapsed marks every live pending or confirmed reservation ending on or before today as
// completed. Each listing is handled in its own locked transaction; a failing listing does not
// stop the others.
func (s *serviceImpl) CompleteElapsed(ctx context.Context, today time.Time) (completed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.CompleteElapsed")
	defer scope.End()
	defer scope.TraceIfError(&err)

	day := pricing.DateOf(today)

	due, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldEndDate, SortDir: gDto.SortDirAsc}, elapsedFilter(day))
	if err != nil {
		log.Error().Err(err).Msg("failed to load elapsed reservations")

		return 0, fmt.Errorf("failed to load elapsed reservations: %w", err)
	}

	byListing := map[string][]model.Reservation{}
	order := []string{}

	for _, reservation := range due {
		if _, ok := byListing[reservation.ListingID]; !ok {
			order = append(order, reservation.ListingID)
		}

		byListing[reservation.ListingID] = append(byListing[reservation.ListingID], reservation)
	}

	var errs []error

	for _, listingID := range order {
		done, err := s.completeListing(ctx, listingID, byListing[listingID], day)
		if err != nil {
			log.Error().Err(err).Str("listing_id", listingID).Msg("failed to complete elapsed reservations")

			errs = append(errs, err)
		}

		completed += done
	}

	if completed > 0 {
		log.Info().Int("completed", completed).Time("today", day).Msg("completed elapsed reservations")
	}

	return completed, errors.Join(errs...)
}

func (s *serviceImpl) completeListing(ctx context.Context, listingID string, due []model.Reservation, day time.Time) (int, error) {
	var changes [][2]model.Reservation

	err := s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		changes = changes[:0]

		locked, err := s.lockListing(ctx, tx, listingID)
		if err != nil {
			return err
		}

		now := timezone.Now()

		for _, reservation := range due {
			filter := elapsedFilter(day)
			filter.Filters = append(filter.Filters, gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    reservation.ID,
				Table:    model.TableName,
			})

			affected, err := s.repo.UpdateTx(ctx, tx, map[string]any{
				model.FieldStatus:        string(model.StatusCompleted),
				constant.FieldModifiedAt: now,
				constant.FieldModifiedBy: systemActor,
			}, filter)
			if err != nil {
				return fmt.Errorf("failed to complete reservation %s: %w", reservation.ID, err)
			}

			if affected == 0 {
				continue
			}

			after := reservation
			after.Status = model.StatusCompleted
			after.ModifiedAt = now
			after.ModifiedBy = systemActor

			changes = append(changes, [2]model.Reservation{reservation, after})
		}

		if len(changes) == 0 {
			return nil
		}

		return s.refreshAvailability(ctx, tx, locked, systemActor)
	})
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	for _, change := range changes {
		s.invalidate(ctx, change[1])
		s.dispatchChange(ctx, auditModel.ActionReservationCompleted, event.TypeCompleted, change[0], change[1])
	}

	return len(changes), nil
}

func (s *serviceImpl) lockListing(ctx context.Context, tx *sqlx.Tx, listingID string) (listingModel.Listing, error) {
	listing, err := s.listingRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(listingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID).Msg("failed to lock listing")

		return listing, fmt.Errorf("failed to lock listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return listing, failure.Wrap(http.StatusNotFound, model.ErrNotFound, "listing not found") // nolint:wrapcheck
	}

	return listing, nil
}

// refreshAvailability recomputes the cached flag from the active set visible inside tx and writes
// it only when it changed.
func (s *serviceImpl) refreshAvailability(ctx context.Context, tx *sqlx.Tx, listing listingModel.Listing, user string) error {
	today := timezone.Today()

	active, err := s.repo.GetActiveTx(ctx, tx, listing.ID, today)
	if err != nil {
		log.Error().Err(err).Str("listing_id", listing.ID).Msg("failed to load active reservations")

		return fmt.Errorf("failed to load active reservations: %w", err)
	}

	available := availability.Derive(active, today)
	if available == listing.Available {
		return nil
	}

	return s.setAvailable(ctx, tx, listing.ID, available, user)
}

func (s *serviceImpl) setAvailable(ctx context.Context, tx *sqlx.Tx, listingID string, available bool, user string) error {
	_, err := s.listingRepo.UpdateTx(ctx, tx, map[string]any{
		listingModel.FieldAvailable: available,
		constant.FieldModifiedAt:    timezone.Now(),
		constant.FieldModifiedBy:    user,
	}, shared.FilterByID(listingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID).Bool("available", available).Msg("failed to update listing availability")

		return fmt.Errorf("failed to update listing availability: %w", err)
	}

	return nil
}

func (s *serviceImpl) getLive(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty || reservation.DeletedAt != nil {
		return reservation, errNotFound()
	}

	return reservation, nil
}

func (s *serviceImpl) getLiveTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Reservation, error) {
	reservation, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty || reservation.DeletedAt != nil {
		return reservation, errNotFound()
	}

	return reservation, nil
}

func (s *serviceImpl) dispatchCreated(ctx context.Context, reservation model.Reservation, snapshot dto.ReservationResponse) {
	actor := actorFromContext(ctx)
	origin, _ := ctx.Value(constant.ContextKeyOriginAddress).(string)

	s.pool.Submit(ctx, "audit."+auditModel.ActionReservationCreated, func(ctx context.Context) error {
		_, err := s.audit.Record(ctx, auditDto.RecordRequest{
			Action:        auditModel.ActionReservationCreated,
			ActorID:       actor,
			EntityType:    auditModel.EntityTypeReservation,
			EntityID:      reservation.ID,
			After:         snapshot,
			OriginAddress: origin,
		})

		return err //nolint:wrapcheck
	})

	s.pool.Submit(ctx, "notify."+auditModel.ActionReservationCreated, func(ctx context.Context) error {
		return s.notifyOwner(ctx, reservation)
	})

	s.pool.Submit(ctx, "event."+string(event.TypeCreated), func(ctx context.Context) error {
		return s.publisher.Publish(ctx, event.FromModel(event.TypeCreated, reservation, timezone.Now())) //nolint:wrapcheck
	})
}

func (s *serviceImpl) dispatchChange(ctx context.Context, action string, eventType event.Type, before, after model.Reservation) {
	actor := actorFromContext(ctx)
	origin, _ := ctx.Value(constant.ContextKeyOriginAddress).(string)

	beforeSnapshot := dto.ReservationResponse{}
	beforeSnapshot.FromModel(before)

	afterSnapshot := dto.ReservationResponse{}
	afterSnapshot.FromModel(after)

	s.pool.Submit(ctx, "audit."+action, func(ctx context.Context) error {
		_, err := s.audit.Record(ctx, auditDto.RecordRequest{
			Action:        action,
			ActorID:       actor,
			EntityType:    auditModel.EntityTypeReservation,
			EntityID:      after.ID,
			Before:        beforeSnapshot,
			After:         afterSnapshot,
			OriginAddress: origin,
		})

		return err //nolint:wrapcheck
	})

	s.pool.Submit(ctx, "event."+string(eventType), func(ctx context.Context) error {
		return s.publisher.Publish(ctx, event.FromModel(eventType, after, timezone.Now())) //nolint:wrapcheck
	})
}

func (s *serviceImpl) notifyOwner(ctx context.Context, reservation model.Reservation) error {
	owner, err := s.userRepo.Get(ctx, shared.FilterByID(reservation.ListingOwnerID, userModel.FieldID, userModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to get listing owner: %w", err)
	}

	if owner.ID == constant.Empty {
		return fmt.Errorf("listing owner %s not found", reservation.ListingOwnerID)
	}

	requesterName := reservation.RequesterID

	requester, err := s.userRepo.Get(ctx, shared.FilterByID(reservation.RequesterID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Warn().Err(err).Str("requester_id", reservation.RequesterID).Msg("failed to get requester, notifying with id only")
	} else if requester.ID != constant.Empty {
		requesterName = requester.DisplayName()
	}

	days, _ := pricing.DayCount(reservation.StartDate, reservation.EndDate)

	notice := notificationDto.ReservationNotice{
		ReservationID: reservation.ID,
		ListingTitle:  reservation.ListingTitle,
		RequesterName: requesterName,
		StartDate:     reservation.StartDate.Format(constant.DateOnlyFormat),
		EndDate:       reservation.EndDate.Format(constant.DateOnlyFormat),
		Days:          days,
		TotalPrice:    reservation.TotalPrice.StringFixed(2),
	}

	if s.cfg.App.PublicURL != "" {
		notice.Link = fmt.Sprintf("%s/v1/reservations/%s", s.cfg.App.PublicURL, reservation.ID)
	}

	return s.notification.Notify(ctx, owner.Email, notice) //nolint:wrapcheck
}

// invalidate runs synchronously once a write has committed. It moves the reservation, the
// reservation lists and the owning listing onto fresh cache generations.
func (s *serviceImpl) invalidate(ctx context.Context, reservation model.Reservation) {
	shared.BumpCacheGeneration(context.WithoutCancel(ctx), s.cache, s.cfg.Cache.TTL,
		shared.BuildCacheKey(cacheGeneration, reservation.ID),
		cacheListGeneration,
		shared.BuildCacheKey(listingModel.CacheKeyGeneration, reservation.ListingID),
	)
}

func actorFromContext(ctx context.Context) *string {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return nil
	}

	return &user
}

func liveByID(id string) gDto.FilterGroup {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	filter.Operator = gDto.FilterGroupOperatorAnd
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldDeletedAt,
		Operator: gDto.FilterIsNull,
		Table:    model.TableName,
	})

	return filter
}

func elapsedFilter(day time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    []string{string(model.StatusPending), string(model.StatusConfirmed)},
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldDeletedAt,
				Operator: gDto.FilterIsNull,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEndDate,
				Operator: gDto.FilterOperatorLessEq,
				Value:    day.Format(constant.DateOnlyFormat),
				Table:    model.TableName,
			},
		},
	}
}

func errNotFound() error {
	return failure.Wrap(http.StatusNotFound, model.ErrNotFound, "") // nolint:wrapcheck
}

func errUnavailable() error {
	return failure.Wrap(http.StatusUnprocessableEntity, model.ErrUnavailable, "listing is not accepting reservations") // nolint:wrapcheck
}
