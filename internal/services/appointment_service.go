package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harentsoaR/appointments-api/internal/models"
	"github.com/harentsoaR/appointments-api/internal/validation"
)

// CreatedAtLayout is the UTC, millisecond-precision timestamp stored in
// Appointment.CreatedAt.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// AppointmentRepository is the persistence the service needs.
type AppointmentRepository interface {
	LoadAll(ctx context.Context) ([]models.Appointment, error)
	Append(ctx context.Context, apt models.Appointment) (models.Appointment, error)
	GenerateID() string
}

type AppointmentService struct {
	repo   AppointmentRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewAppointmentService(repo AppointmentRepository, logger *zap.Logger) *AppointmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{
		repo:   repo,
		logger: logger.Named("appointments"),
		now:    time.Now,
	}
}

// List returns every appointment in insertion order.
func (s *AppointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	appointments, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	return appointments, nil
}

// Create validates in and stores a new appointment. Validation failures are
// returned as validation.ValidationError and nothing is written.
func (s *AppointmentService) Create(ctx context.Context, in models.AppointmentInput) (models.Appointment, error) {
	fields, err := validation.ValidateCreate(in)
	if err != nil {
		return models.Appointment{}, err
	}

	apt := models.Appointment{
		ID:          s.repo.GenerateID(),
		PatientName: fields.PatientName,
		DoctorName:  fields.DoctorName,
		DateTime:    fields.DateTime,
		Reason:      fields.Reason,
		CreatedAt:   s.now().UTC().Format(CreatedAtLayout),
	}

	stored, err := s.repo.Append(ctx, apt)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("failed to save appointment: %w", err)
	}

	s.logger.Info("appointment created", zap.String("id", stored.ID))
	return stored, nil
}
