package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harentsoaR/appointments-api/internal/models"
	"github.com/harentsoaR/appointments-api/internal/validation"
)

type fakeRepo struct {
	appointments []models.Appointment
	appendErr    error
	loadErr      error
}

func (r *fakeRepo) LoadAll(context.Context) ([]models.Appointment, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.appointments, nil
}

func (r *fakeRepo) Append(_ context.Context, apt models.Appointment) (models.Appointment, error) {
	if r.appendErr != nil {
		return models.Appointment{}, r.appendErr
	}
	r.appointments = append(r.appointments, apt)
	return apt, nil
}

func (r *fakeRepo) GenerateID() string { return "fixed-id" }

func validInput() models.AppointmentInput {
	return models.AppointmentInput{
		PatientName: " John Doe ",
		DoctorName:  "Dr. Smith",
		DateTime:    "2024-01-01T10:00",
		Reason:      "Routine checkup",
	}
}

func TestCreateAssignsIDAndTimestamp(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewAppointmentService(repo, nil)
	svc.now = func() time.Time {
		return time.Date(2024, 1, 1, 9, 30, 0, 123_000_000, time.FixedZone("CET", 3600))
	}

	apt, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	want := models.Appointment{
		ID:          "fixed-id",
		PatientName: "John Doe",
		DoctorName:  "Dr. Smith",
		DateTime:    "2024-01-01T10:00",
		Reason:      "Routine checkup",
		CreatedAt:   "2024-01-01T08:30:00.123Z",
	}
	if apt != want {
		t.Errorf("Create() = %+v, want %+v", apt, want)
	}
	if len(repo.appointments) != 1 {
		t.Errorf("repository holds %d appointments, want 1", len(repo.appointments))
	}
}

func TestCreateRejectsInvalidInputWithoutWriting(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewAppointmentService(repo, nil)

	in := validInput()
	in.DateTime = "not-a-date"
	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, validation.ErrInvalidDate) {
		t.Fatalf("Create() error = %v, want %v", err, validation.ErrInvalidDate)
	}
	if len(repo.appointments) != 0 {
		t.Errorf("repository holds %d appointments, want 0", len(repo.appointments))
	}
}

func TestCreateWrapsStoreFailure(t *testing.T) {
	diskFull := errors.New("disk full")
	svc := NewAppointmentService(&fakeRepo{appendErr: diskFull}, nil)

	_, err := svc.Create(context.Background(), validInput())
	if !errors.Is(err, diskFull) {
		t.Fatalf("Create() error = %v, want wrapped %v", err, diskFull)
	}
	var vErr validation.ValidationError
	if errors.As(err, &vErr) {
		t.Errorf("store failure reported as validation error %q", vErr)
	}
}

func TestListPropagatesLoadFailure(t *testing.T) {
	corrupt := errors.New("corrupt")
	svc := NewAppointmentService(&fakeRepo{loadErr: corrupt}, nil)

	if _, err := svc.List(context.Background()); !errors.Is(err, corrupt) {
		t.Fatalf("List() error = %v, want wrapped %v", err, corrupt)
	}
}
