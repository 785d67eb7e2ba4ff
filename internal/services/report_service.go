package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"
	"marketplace-backend/pkg/utils"
)

// ReportService lets customers flag sellers for the admin team. Each filed
// report also goes out as an activity event.
type ReportService struct {
	reports   domain.ReportRepository
	sellers   domain.AccountRepository
	publisher domain.EventPublisher
	log       logger.Logger
}

func NewReportService(reports domain.ReportRepository, sellers domain.AccountRepository,
	publisher domain.EventPublisher, log logger.Logger) *ReportService {
	return &ReportService{
		reports:   reports,
		sellers:   sellers,
		publisher: publisher,
		log:       log,
	}
}

func (s *ReportService) Create(ctx context.Context, sellerID, reporterID, message string) (*domain.SellerReport, error) {
	if _, err := s.sellers.GetByID(ctx, sellerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	report := &domain.SellerReport{
		ID:         utils.GenerateID("rep"),
		SellerID:   sellerID,
		ReporterID: reporterID,
		Message:    message,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishActivity(ctx, &domain.ActivityEvent{
		Type:      domain.ActivitySellerReported,
		ActorID:   reporterID,
		SubjectID: sellerID,
		Timestamp: now,
	}); err != nil {
		s.log.Warn("Failed to publish report activity", "report_id", report.ID, "error", err)
	}

	return report, nil
}

func (s *ReportService) Update(ctx context.Context, id, reporterID, message string) (*domain.SellerReport, error) {
	report, err := s.reports.GetOwned(ctx, id, reporterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.reports.Update(ctx, id, message); err != nil {
		return nil, err
	}
	report.Message = message
	return report, nil
}

func (s *ReportService) Delete(ctx context.Context, id, reporterID string) error {
	if _, err := s.reports.GetOwned(ctx, id, reporterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.reports.Delete(ctx, id)
}
