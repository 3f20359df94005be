package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/attendance"
	"github.com/infinite-track/hris-backend-go/internal/pkg/geo"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
	"github.com/infinite-track/hris-backend-go/internal/service/file"
)

// Options carries the office rules applied to every record.
type Options struct {
	Geofence  geo.Geofence
	WorkHours attendance.WorkHours
	Location  *time.Location
	Now       func() time.Time
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	fileService file.FileService
	geofence    geo.Geofence
	workHours   attendance.WorkHours
	loc         *time.Location
	now         func() time.Time
}

func NewAttendanceService(repo attendance.AttendanceRepository, fileService file.FileService, opts Options) attendance.AttendanceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WorkHours == (attendance.WorkHours{}) {
		opts.WorkHours = attendance.DefaultWorkHours
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: repo,
		fileService:          fileService,
		geofence:             opts.Geofence,
		workHours:            opts.WorkHours,
		loc:                  opts.Location,
		now:                  opts.Now,
	}
}

// localNow returns the office-local time and the calendar date it falls on.
// The date is pinned to UTC midnight so it round-trips through a DATE column.
func (s *AttendanceServiceImpl) localNow() (time.Time, time.Time) {
	local := s.now().In(s.loc)
	y, m, d := local.Date()
	return local, time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *AttendanceServiceImpl) toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	var imageURL *string
	if a.ImagePath != nil {
		url := s.fileService.GetFileURL(*a.ImagePath)
		imageURL = &url
	}
	return a.ToResponse(imageURL)
}

// Record implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Record(ctx context.Context, req attendance.RecordRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	switch req.NormalizedAction() {
	case attendance.ActionCheckIn:
		return s.CheckIn(ctx, req)
	case attendance.ActionCheckOut:
		return s.CheckOut(ctx, req.UserID)
	default:
		return attendance.AttendanceResponse{}, attendance.ErrInvalidAction
	}
}

// checkLocation enforces the category rules. Nothing is persisted before it passes.
func (s *AttendanceServiceImpl) checkLocation(category attendance.Category, req attendance.RecordRequest) error {
	var point *geo.Coordinate
	if req.HasCoordinates() {
		p := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if err := p.Validate(); err != nil {
			return attendance.ErrInvalidCoordinates
		}
		point = &p
	}

	switch category {
	case attendance.CategoryHome:
		if req.Image == nil {
			return attendance.ErrImageRequired
		}
	case attendance.CategoryOffice:
		if point == nil {
			return attendance.ErrCoordinatesRequired
		}
		if !s.geofence.Contains(*point) {
			return attendance.ErrLocationOutOfRange
		}
	default:
		return attendance.ErrInvalidCategory
	}
	return nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.RecordRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	category, ok := attendance.ParseCategory(req.Category)
	if !ok {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidCategory
	}

	if err := s.checkLocation(category, req); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	local, date := s.localNow()

	_, err := s.AttendanceRepository.GetOpenByUserAndDate(ctx, req.UserID, date)
	if err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrNoActiveCheckIn) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to look up open check-in: %w", err)
	}

	record := attendance.Attendance{
		UserID:      req.UserID,
		Date:        date,
		CheckInTime: &local,
		Category:    category,
		Status:      s.workHours.CheckInStatus(local),
		Notes:       req.Notes,
	}
	if req.HasCoordinates() {
		record.Latitude = req.Latitude
		record.Longitude = req.Longitude
	}

	if req.Image != nil {
		path, err := s.fileService.UploadAttendanceImage(ctx, req.UserID, date, req.Image, req.ImageName, string(attendance.ActionCheckIn))
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to store attendance image: %w", err)
		}
		record.ImagePath = &path
	}

	created, err := s.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if record.ImagePath != nil {
			if delErr := s.fileService.DeleteFile(ctx, *record.ImagePath); delErr != nil {
				logger.From(ctx).Warn("failed to remove orphaned attendance image", slog.String("path", *record.ImagePath), slog.Any("error", delErr))
			}
		}
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	logger.From(ctx).Info("check-in recorded",
		slog.Int64("user_id", created.UserID),
		slog.String("category", string(created.Category)),
		slog.String("status", string(created.Status)),
	)

	return s.toResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID int64) (attendance.AttendanceResponse, error) {
	local, date := s.localNow()

	open, err := s.AttendanceRepository.GetOpenByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveCheckIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to look up open check-in: %w", err)
	}

	closed, err := s.AttendanceRepository.CloseCheckOut(ctx, open.ID, local, s.workHours.CheckOutStatus(local))
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveCheckIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	logger.From(ctx).Info("check-out recorded",
		slog.Int64("user_id", closed.UserID),
		slog.String("status", string(closed.Status)),
	)

	return s.toResponse(closed), nil
}

// ListByUser implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByUser(ctx context.Context, userID int64) ([]attendance.AttendanceResponse, error) {
	records, err := s.AttendanceRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, s.toResponse(r))
	}
	return responses, nil
}
