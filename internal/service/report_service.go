package service

import (
	"context"
	"fmt"
	"time"

	"cdrbot/internal/domain"
	"cdrbot/internal/models"
	"cdrbot/internal/report"

	"github.com/rs/zerolog"
)

// ReportService fetches a day's calls and turns them into chat-ready reports.
type ReportService struct {
	store  domain.CallStore
	opts   report.Options
	logger *zerolog.Logger
	now    func() time.Time
}

func NewReportService(store domain.CallStore, opts report.Options, logger *zerolog.Logger) *ReportService {
	return &ReportService{
		store:  store,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ReportService) options(emptyText string) report.Options {
	opts := s.opts
	opts.EmptyText = emptyText
	return opts
}

// Today returns the current time in the CDR timezone.
func (s *ReportService) Today() time.Time {
	return s.now().In(s.store.Location())
}

func (s *ReportService) Calls(ctx context.Context, daysAgo int, emptyText string) (*report.Report, error) {
	rows, err := s.store.GetAllCalls(ctx, daysAgo)
	if err != nil {
		return nil, fmt.Errorf("load calls %d days ago: %w", daysAgo, err)
	}
	return s.build(ctx, rows, emptyText)
}

func (s *ReportService) CallsOn(ctx context.Context, day time.Time, emptyText string) (*report.Report, error) {
	rows, err := s.store.GetCallsOn(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load calls on %s: %w", day.Format(models.DateLayout), err)
	}
	return s.build(ctx, rows, emptyText)
}

func (s *ReportService) Missed(ctx context.Context, header, emptyText string) (*report.Report, error) {
	rows, err := s.store.GetMissedCalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("load missed calls: %w", err)
	}
	return report.BuildList(rows, header, s.options(emptyText))
}

func (s *ReportService) RowsOn(ctx context.Context, day time.Time) ([]models.CallRecord, error) {
	return s.store.GetCallsOn(ctx, day)
}

// Recording resolves playback metadata for a call id straight from the store.
// It returns nil when the call is unknown or has no recording.
func (s *ReportService) Recording(ctx context.Context, callID string) (*models.Recording, error) {
	rows, err := s.store.FindByID(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("find call %s: %w", callID, err)
	}
	for _, row := range rows {
		if row.HasRecording() {
			rec := row.Recording()
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *ReportService) build(ctx context.Context, rows []models.CallRecord, emptyText string) (*report.Report, error) {
	rep, err := report.Build(rows, s.options(emptyText))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("rows", len(rows)).Msg("failed to build call report")
		return nil, err
	}
	s.logger.Debug().Int("rows", len(rows)).Int("groups", len(rep.Groups)).Int("chunks", len(rep.Chunks)).Msg("call report built")
	return rep, nil
}
