package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/demand-analytics/internal/analytics"
	"github.com/spec-kit/demand-analytics/internal/domain"
	"github.com/spec-kit/demand-analytics/internal/events"
	"github.com/spec-kit/demand-analytics/internal/observability"
	"github.com/spec-kit/demand-analytics/internal/repository"
	apperrors "github.com/spec-kit/demand-analytics/pkg/util/errorutil"
)

// ReportService assembles reports by fanning out independent read queries and joining them.
type ReportService struct {
	demands    repository.DemandRepository
	directory  analytics.Directory
	aggregator *analytics.Aggregator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	location   *time.Location
	topLimit   int
	timeout    time.Duration
	now        func() time.Time
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	DemandRepo   repository.DemandRepository
	Directory    analytics.Directory
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Location     *time.Location
	TopLimit     int
	QueryTimeout time.Duration
	Clock        func() time.Time
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	s := &ReportService{
		demands:    deps.DemandRepo,
		directory:  deps.Directory,
		aggregator: analytics.NewAggregator(deps.Directory),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		location:   deps.Location,
		topLimit:   deps.TopLimit,
		timeout:    deps.QueryTimeout,
		now:        deps.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.topLimit <= 0 {
		s.topLimit = analytics.DefaultRankingLimit
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Location returns the timezone used for date-only filters, deadlines and monthly buckets.
func (s *ReportService) Location() *time.Location {
	return s.location
}

// GenerateGeneralReport returns totals, every distribution, average resolution time and compliance.
func (s *ReportService) GenerateGeneralReport(ctx context.Context, filters domain.FilterCriteria) (*analytics.GeneralReport, error) {
	var report *analytics.GeneralReport
	err := s.generate(ctx, events.ReportKindGeneral, filters, nil, func(ctx context.Context, now time.Time) (int, error) {
		r := &analytics.GeneralReport{GeneratedAt: now, Filters: filters}
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			records, err := s.list(gctx, filters)
			if err != nil {
				return err
			}
			r.Totals = analytics.ComputeTotals(records, now)
			return nil
		})
		s.goDistribution(gctx, g, filters, analytics.DimensionStatus, &r.ByStatus)
		s.goDistribution(gctx, g, filters, analytics.DimensionPriority, &r.ByPriority)
		s.goDistribution(gctx, g, filters, analytics.DimensionSource, &r.BySource)
		s.goDistribution(gctx, g, filters, analytics.DimensionOrganizationalUnit, &r.ByUnit)
		s.goDistribution(gctx, g, filters, analytics.DimensionCategory, &r.ByCategory)
		s.goDistribution(gctx, g, filters, analytics.DimensionNeighborhood, &r.ByNeighborhood)
		s.goAverageResolution(gctx, g, filters, &r.AverageResolutionHours)
		g.Go(func() error {
			resolved, err := s.listResolved(gctx, filters, 0)
			if err != nil {
				return err
			}
			r.ComplianceRate = analytics.ComplianceRate(resolved)
			return nil
		})

		if err := g.Wait(); err != nil {
			return 0, err
		}
		report = r
		return r.Totals.Total, nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GenerateUnitReport narrows the filters to one unit and adds its monthly trend and operator ranking.
func (s *ReportService) GenerateUnitReport(ctx context.Context, unitID string, filters domain.FilterCriteria) (*analytics.UnitReport, error) {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return nil, apperrors.NewInvalidArgument("unit id required", nil)
	}
	filters = filters.WithUnit(unitID)

	var report *analytics.UnitReport
	err := s.generate(ctx, events.ReportKindUnit, filters, &unitID, func(ctx context.Context, now time.Time) (int, error) {
		r := &analytics.UnitReport{GeneratedAt: now, Filters: filters, UnitID: unitID}
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			names, err := s.lookup(gctx, s.directory.Units, []string{unitID})
			if err != nil {
				return err
			}
			r.UnitName = analytics.LabelUnknown
			if name, ok := names[unitID]; ok && name != "" {
				r.UnitName = name
			}
			return nil
		})
		g.Go(func() error {
			records, err := s.list(gctx, filters)
			if err != nil {
				return err
			}
			r.Totals = analytics.ComputeTotals(records, now)
			return nil
		})
		s.goDistribution(gctx, g, filters, analytics.DimensionStatus, &r.ByStatus)
		s.goDistribution(gctx, g, filters, analytics.DimensionPriority, &r.ByPriority)
		s.goDistribution(gctx, g, filters, analytics.DimensionCategory, &r.ByCategory)
		s.goAverageResolution(gctx, g, filters, &r.AverageResolutionHours)
		g.Go(func() error {
			resolved, err := s.listResolved(gctx, filters, 0)
			if err != nil {
				return err
			}
			r.ComplianceRate = analytics.ComplianceRate(resolved)
			return nil
		})
		g.Go(func() error {
			recent, err := s.demands.ListCreatedSince(gctx, filters, analytics.TrendWindowStart(now))
			if err != nil {
				return upstream("list created since", err)
			}
			r.MonthlyTrend = analytics.MonthlyTrend(recent, now)
			return nil
		})
		s.goTopOperators(gctx, g, filters, &r.TopOperators)

		if err := g.Wait(); err != nil {
			return 0, err
		}
		report = r
		return r.Totals.Total, nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GeneratePerformanceReport ranks operators and units and summarises resolution time and compliance.
func (s *ReportService) GeneratePerformanceReport(ctx context.Context, filters domain.FilterCriteria) (*analytics.PerformanceReport, error) {
	var report *analytics.PerformanceReport
	err := s.generate(ctx, events.ReportKindPerformance, filters, nil, func(ctx context.Context, now time.Time) (int, error) {
		r := &analytics.PerformanceReport{GeneratedAt: now, Filters: filters}
		var total int
		g, gctx := errgroup.WithContext(ctx)

		s.goTopOperators(gctx, g, filters, &r.TopOperators)
		g.Go(func() error {
			records, err := s.list(gctx, filters)
			if err != nil {
				return err
			}
			total = len(records)
			units, err := s.aggregator.TopOrganizationalUnits(gctx, records, s.topLimit)
			if err != nil {
				return upstream("lookup units", err)
			}
			r.TopUnits = units
			return nil
		})
		g.Go(func() error {
			resolved, err := s.listResolved(gctx, filters, 0)
			if err != nil {
				return err
			}
			r.Histogram = analytics.BucketHistogram(resolved)
			r.Compliance = analytics.ComplianceOf(resolved)
			r.ComplianceByPriority = analytics.ComplianceByPriority(resolved)
			return nil
		})
		s.goAverageResolution(gctx, g, filters, &r.AverageResolutionHours)

		if err := g.Wait(); err != nil {
			return 0, err
		}
		report = r
		return total, nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GenerateNeighborhoodReport returns the neighborhood distribution and, for each of the top
// named neighborhoods, its status and category breakdowns computed concurrently.
func (s *ReportService) GenerateNeighborhoodReport(ctx context.Context, filters domain.FilterCriteria) (*analytics.NeighborhoodReport, error) {
	var report *analytics.NeighborhoodReport
	err := s.generate(ctx, events.ReportKindNeighborhood, filters, nil, func(ctx context.Context, now time.Time) (int, error) {
		records, err := s.list(ctx, filters)
		if err != nil {
			return 0, err
		}
		distribution, err := s.aggregator.Distribution(ctx, records, analytics.DimensionNeighborhood)
		if err != nil {
			return 0, upstream("neighborhood distribution", err)
		}

		named := lo.Filter(distribution, func(e analytics.DistributionEntry, _ int) bool { return e.Key != "" })
		parts := analytics.PartitionByNeighborhood(records)
		details := make([]analytics.NeighborhoodDetail, len(named))

		g, gctx := errgroup.WithContext(ctx)
		for i, entry := range named {
			g.Go(func() error {
				subset := parts[entry.Key]
				byStatus, err := s.aggregator.Distribution(gctx, subset, analytics.DimensionStatus)
				if err != nil {
					return err
				}
				byCategory, err := s.aggregator.Distribution(gctx, subset, analytics.DimensionCategory)
				if err != nil {
					return upstream("lookup categories", err)
				}
				details[i] = analytics.NeighborhoodDetail{
					Neighborhood: entry.Label,
					Total:        len(subset),
					ByStatus:     byStatus,
					ByCategory:   byCategory,
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return 0, err
		}

		report = &analytics.NeighborhoodReport{
			GeneratedAt:   now,
			Filters:       filters,
			Neighborhoods: distribution,
			Details:       details,
		}
		return len(records), nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ExportTabular renders every matching demand as CSV. The whole set is materialized in memory.
func (s *ReportService) ExportTabular(ctx context.Context, filters domain.FilterCriteria) ([]byte, error) {
	var buf bytes.Buffer
	err := s.generate(ctx, events.ReportKindExport, filters, nil, func(ctx context.Context, _ time.Time) (int, error) {
		records, err := s.list(ctx, filters)
		if err != nil {
			return 0, err
		}
		names, err := s.resolveNames(ctx, records)
		if err != nil {
			return 0, err
		}
		if err := analytics.WriteCSV(&buf, analytics.NewTabularRows(records, names)); err != nil {
			return 0, apperrors.NewInternalError(err)
		}
		return len(records), nil
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PreviewDeadline computes the SLA deadline of a demand created at createdAt, in the report timezone.
func (s *ReportService) PreviewDeadline(createdAt time.Time, leadDays int) (time.Time, error) {
	return analytics.Deadline(createdAt.In(s.location), leadDays)
}

// generate wraps a report build with validation, timeout, tracing, metrics and audit events.
func (s *ReportService) generate(
	ctx context.Context,
	kind events.ReportKind,
	filters domain.FilterCriteria,
	unitID *string,
	build func(ctx context.Context, now time.Time) (int, error),
) error {
	if err := analytics.ValidateFilter(filters); err != nil {
		return err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := observability.Tracer().Start(ctx, "report."+string(kind), trace.WithAttributes(
		observability.AttrReportKind.String(string(kind)),
		observability.AttrFilterEmpty.Bool(filters.IsEmpty()),
	))
	defer span.End()
	if unitID != nil {
		span.SetAttributes(observability.AttrReportUnitID.String(*unitID))
	}

	start := time.Now()
	records, err := build(ctx, s.now().In(s.location))
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, domainErr.Message)
		s.metrics.RecordReportFailure(string(kind), domainErr.Code)
		s.publish(ctx, events.EventReportFailed, events.ReportFailedPayload{
			Kind:    kind,
			Filters: filters,
			Code:    domainErr.Code,
			Error:   err.Error(),
		})
		return domainErr
	}

	elapsed := time.Since(start)
	span.SetAttributes(observability.AttrReportRecords.Int(records))
	s.metrics.ObserveReport(string(kind), elapsed)
	s.publish(ctx, events.EventReportGenerated, events.ReportGeneratedPayload{
		Kind:     kind,
		Filters:  filters,
		UnitID:   unitID,
		Records:  records,
		Duration: elapsed,
	})
	return nil
}

func (s *ReportService) goDistribution(ctx context.Context, g *errgroup.Group, filters domain.FilterCriteria, dim analytics.Dimension, dst *[]analytics.DistributionEntry) {
	g.Go(func() error {
		records, err := s.list(ctx, filters)
		if err != nil {
			return err
		}
		entries, err := s.aggregator.Distribution(ctx, records, dim)
		if err != nil {
			return upstream("lookup "+dim.String(), err)
		}
		*dst = entries
		return nil
	})
}

func (s *ReportService) goAverageResolution(ctx context.Context, g *errgroup.Group, filters domain.FilterCriteria, dst *float64) {
	g.Go(func() error {
		sample, err := s.listResolved(ctx, filters, analytics.ResolutionSampleSize)
		if err != nil {
			return err
		}
		*dst = analytics.AverageResolutionHours(sample)
		return nil
	})
}

func (s *ReportService) goTopOperators(ctx context.Context, g *errgroup.Group, filters domain.FilterCriteria, dst *[]analytics.OperatorRanking) {
	g.Go(func() error {
		assigned, err := s.demands.ListAssigned(ctx, filters)
		if err != nil {
			return upstream("list assigned", err)
		}
		ranking, err := s.aggregator.TopOperators(ctx, assigned, s.topLimit)
		if err != nil {
			return upstream("lookup operators", err)
		}
		*dst = ranking
		return nil
	})
}

// resolveNames looks up the units, categories and operators referenced by records concurrently.
func (s *ReportService) resolveNames(ctx context.Context, records []domain.Demand) (analytics.ReferenceNames, error) {
	unitIDs := lo.Map(records, func(d domain.Demand, _ int) string { return d.OrganizationalUnitID })
	categoryIDs := lo.Map(records, func(d domain.Demand, _ int) string { return d.CategoryID })
	operatorIDs := lo.FilterMap(records, func(d domain.Demand, _ int) (string, bool) {
		if d.AssignedOperatorID == nil {
			return "", false
		}
		return *d.AssignedOperatorID, true
	})

	var names analytics.ReferenceNames
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		names.Units, err = s.lookup(gctx, s.directory.Units, unitIDs)
		return err
	})
	g.Go(func() (err error) {
		names.Categories, err = s.lookup(gctx, s.directory.Categories, categoryIDs)
		return err
	})
	g.Go(func() (err error) {
		names.Operators, err = s.lookup(gctx, s.directory.Operators, operatorIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.ReferenceNames{}, err
	}
	return names, nil
}

func (s *ReportService) lookup(ctx context.Context, lookup analytics.NameLookup, ids []string) (map[string]string, error) {
	ids = lo.Uniq(lo.Compact(ids))
	if lookup == nil || len(ids) == 0 {
		return map[string]string{}, nil
	}
	names, err := lookup.LookupNames(ctx, ids)
	if err != nil {
		return nil, upstream("lookup names", err)
	}
	return names, nil
}

func (s *ReportService) list(ctx context.Context, filters domain.FilterCriteria) ([]domain.Demand, error) {
	records, err := s.demands.List(ctx, filters)
	if err != nil {
		return nil, upstream("list demands", err)
	}
	return records, nil
}

func (s *ReportService) listResolved(ctx context.Context, filters domain.FilterCriteria, limit int) ([]domain.Demand, error) {
	records, err := s.demands.ListResolved(ctx, filters, limit)
	if err != nil {
		return nil, upstream("list resolved", err)
	}
	return records, nil
}

func (s *ReportService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: s.now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("publish report event", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// upstream classifies a record-store failure, leaving already classified errors intact.
func upstream(query string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return apperrors.NewUpstreamQueryFailure(query, err)
}
