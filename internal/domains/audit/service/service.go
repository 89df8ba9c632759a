package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Audit=MockAuditService

import (
	"context"
	"encoding/json"
	"fmt"
	"rental/config"
	"rental/infras/otel"
	"rental/infras/s3"
	"rental/internal/domains/audit/model"
	"rental/internal/domains/audit/model/dto"
	"rental/internal/domains/audit/repository"
	"rental/shared"
	"rental/shared/cache"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAudit    = "audit:get"
	cacheGetAllAudit = "audit:gets"

	exportNameLayout = "20060102T150405Z"
)

type Audit interface {
	Record(ctx context.Context, req dto.RecordRequest) (dto.AuditResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.AuditFilter) (dto.GetAuditsResponse, error)
	Get(ctx context.Context, id string) (dto.AuditResponse, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, req dto.ExportRequest) (dto.ExportResponse, error)
}

type serviceImpl struct {
	repo    repository.Audit
	storage s3.S3
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Audit, storage s3.S3, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Audit {
	return &serviceImpl{
		repo:    repo,
		storage: storage,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, req dto.RecordRequest) (res dto.AuditResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Record")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.Action == "" || req.EntityType == "" || req.EntityID == "" {
		return res, failure.BadRequestFromString("audit action, entity type and entity id are required") // nolint:wrapcheck
	}

	entry, err := req.ToModel()
	if err != nil {
		log.Error().Err(err).Str("action", req.Action).Msg("failed to encode audit entry")

		return res, fmt.Errorf("failed to encode audit entry: %w", err)
	}

	if err = s.repo.Insert(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", req.Action).Str("entity_id", req.EntityID).Msg("failed to record audit entry")

		return res, fmt.Errorf("failed to record audit entry: %w", err)
	}

	res.FromModel(entry)

	shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllAudit)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.AuditFilter) (res dto.GetAuditsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	params.SortBy = model.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc
	group := filter.ToFilterGroup()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAudit, params, group)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for audits")

		return res, nil
	}

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audits")

		return res, fmt.Errorf("failed to count audits: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audits")

		return res, fmt.Errorf("failed to get audits: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save audits to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AuditResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetAudit, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	entry, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit")

		return res, fmt.Errorf("failed to get audit: %w", err)
	}

	if entry.ID == constant.Empty {
		return res, failure.NotFound("audit entry not found") // nolint:wrapcheck
	}

	res.FromModel(entry)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save audit to cache")
		}
	}()

	return res, nil
}

// Delete removes an entry; zero affected rows means the id never existed or is already gone.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	affected, err := s.repo.Remove(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete audit")

		return fmt.Errorf("failed to delete audit: %w", err)
	}

	if affected == 0 {
		return failure.NotFound("audit entry not found") // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetAudit, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete audit from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllAudit)
	}()

	return nil
}

// Export writes every entry created in [from, to) to object storage as one JSON array.
func (s *serviceImpl) Export(ctx context.Context, req dto.ExportRequest) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Export")
	defer scope.End()
	defer scope.TraceIfError(&err)

	from, to, err := req.Window()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	window := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCreatedAt,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    from,
				Table:    model.TableName,
				ArgName:  "created_from",
			},
			gDto.Filter{
				Field:    model.FieldCreatedAt,
				Operator: gDto.FilterOperatorLess,
				Value:    to,
				Table:    model.TableName,
				ArgName:  "created_to",
			},
		},
	}

	entries, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirAsc}, window)
	if err != nil {
		log.Error().Err(err).Msg("failed to load audits for export")

		return res, fmt.Errorf("failed to load audits for export: %w", err)
	}

	export := dto.GetAuditsResponse{}
	export.FromModels(entries, len(entries), 0)

	payload, err := json.Marshal(export.Audits)
	if err != nil {
		return res, fmt.Errorf("failed to encode audit export: %w", err)
	}

	fileName := fmt.Sprintf("audit-%s-%s.json", from.UTC().Format(exportNameLayout), to.UTC().Format(exportNameLayout))

	url, err := s.storage.Put(ctx, s3.Object{
		Directory:   s.cfg.External.S3.AuditDirectory,
		Name:        fileName,
		ContentType: constant.ContentTypeJSON,
		Body:        payload,
	})
	if err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("failed to upload audit export")

		return res, fmt.Errorf("failed to upload audit export: %w", err)
	}

	log.Info().Str("url", url).Int("entries", len(entries)).Msg("audit export uploaded")

	return dto.ExportResponse{URL: url, Entries: len(entries)}, nil
}
