package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/harentsoaR/appointments-api/internal/models"
)

const (
	tracerName = "github.com/harentsoaR/appointments-api/internal/storage"

	storeFileMode fs.FileMode = 0o644
)

// CorruptStoreError reports a backing file whose content is not a JSON array
// of appointments.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt appointment store %s: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error { return e.Err }

// AppointmentStore keeps every appointment in a single JSON array on disk.
//
// Appends are read-modify-write cycles over the whole file and are
// serialized by mu. The file is always replaced by rename, so a LoadAll
// running alongside an Append sees either the old or the new array, never
// a partial write.
type AppointmentStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
	tracer trace.Tracer
}

func NewAppointmentStore(path string, logger *zap.Logger) *AppointmentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentStore{
		path:   path,
		logger: logger.Named("storage"),
		tracer: otel.Tracer(tracerName),
	}
}

func (s *AppointmentStore) Path() string {
	return s.path
}

// EnsureExists creates the backing file holding an empty array if it is
// missing. An existing file is never touched.
func (s *AppointmentStore) EnsureExists() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat appointment store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := s.writeTemp([]byte("[]"))
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	// Link fails if another caller created the file first, so a populated
	// store is never reset.
	if err := os.Link(tmp, s.path); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("failed to create appointment store: %w", err)
	}

	s.logger.Info("initialized appointment store", zap.String("path", s.path))
	return nil
}

// LoadAll returns every stored appointment in insertion order.
func (s *AppointmentStore) LoadAll(ctx context.Context) ([]models.Appointment, error) {
	_, span := s.tracer.Start(ctx, "storage.load")
	defer span.End()

	raw, err := s.readRaw()
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	appointments := make([]models.Appointment, 0, len(raw))
	for i, elem := range raw {
		var apt models.Appointment
		if err := json.Unmarshal(elem, &apt); err != nil {
			err = &CorruptStoreError{Path: s.path, Err: fmt.Errorf("element %d: %w", i, err)}
			recordError(span, err)
			return nil, err
		}
		appointments = append(appointments, apt)
	}

	span.SetAttributes(attribute.Int("appointments.count", len(appointments)))
	return appointments, nil
}

// Append adds apt to the end of the stored array and returns it unchanged.
// At most one Append runs at a time.
func (s *AppointmentStore) Append(ctx context.Context, apt models.Appointment) (models.Appointment, error) {
	_, span := s.tracer.Start(ctx, "storage.append", trace.WithAttributes(
		attribute.String("appointment.id", apt.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.readRaw()
	if err != nil {
		recordError(span, err)
		return models.Appointment{}, err
	}

	elem, err := json.Marshal(apt)
	if err != nil {
		recordError(span, err)
		return models.Appointment{}, fmt.Errorf("failed to serialize appointment: %w", err)
	}
	raw = append(raw, elem)

	if err := s.save(raw); err != nil {
		recordError(span, err)
		return models.Appointment{}, err
	}

	span.SetAttributes(attribute.Int("appointments.count", len(raw)))
	s.logger.Debug("appended appointment", zap.String("id", apt.ID), zap.Int("count", len(raw)))
	return apt, nil
}

// GenerateID returns a new random 128-bit identifier.
func (s *AppointmentStore) GenerateID() string {
	return uuid.NewString()
}

// readRaw loads the file as an array of raw object elements. Existing
// elements are kept as-is so fields this service does not know about survive
// a rewrite. LoadAll and Append share its corruption checks.
func (s *AppointmentStore) readRaw() ([]json.RawMessage, error) {
	if err := s.EnsureExists(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read appointment store: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &CorruptStoreError{Path: s.path, Err: errors.New("content is not a JSON array")}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &CorruptStoreError{Path: s.path, Err: err}
	}
	for i, elem := range raw {
		if elem = bytes.TrimSpace(elem); len(elem) == 0 || elem[0] != '{' {
			return nil, &CorruptStoreError{Path: s.path, Err: fmt.Errorf("element %d is not an object", i)}
		}
	}
	if raw == nil {
		raw = []json.RawMessage{}
	}
	return raw, nil
}

func (s *AppointmentStore) save(raw []json.RawMessage) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize appointment store: %w", err)
	}

	tmp, err := s.writeTemp(data)
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			s.logger.Warn("failed to remove temporary file", zap.String("path", tmp), zap.Error(removeErr))
		}
		return fmt.Errorf("failed to write appointment store: %w", err)
	}
	return nil
}

// writeTemp writes data to a new file next to the store and returns its path.
func (s *AppointmentStore) writeTemp(data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	if err := f.Chmod(storeFileMode); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to set temporary file mode: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}
	return f.Name(), nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
