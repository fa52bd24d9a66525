package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

const MaxRecordFileSize = 10 << 20

type HealthRecordService struct {
	records      HealthRecordStore
	appointments AppointmentStore
	files        FileStorage
	cfg          *config.Config
	log          *logger.Logger
	now          func() time.Time
}

func NewHealthRecordService(records HealthRecordStore, appointments AppointmentStore, files FileStorage, cfg *config.Config, log *logger.Logger) *HealthRecordService {
	return &HealthRecordService{
		records:      records,
		appointments: appointments,
		files:        files,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
	}
}

// canAccessPatient reports whether actor may read or write records of patientID.
func (s *HealthRecordService) canAccessPatient(actor Actor, patientID string) (bool, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return true, nil
	case models.RolePatient:
		return actor.UserID == patientID, nil
	case models.RoleDoctor:
		return s.appointments.HasRelationship(actor.UserID, patientID)
	}
	return false, nil
}

func (s *HealthRecordService) Create(ctx context.Context, actor Actor, req models.CreateHealthRecordRequest) (*models.HealthRecord, error) {
	ok, err := s.canAccessPatient(actor, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("check patient access: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no care relationship with this patient", ErrForbidden)
	}

	if req.AppointmentID != nil {
		appt, err := s.appointments.GetByID(*req.AppointmentID)
		if err != nil {
			if isNotFound(err) {
				return nil, fmt.Errorf("appointment %w", ErrNotFound)
			}
			return nil, fmt.Errorf("get appointment: %w", err)
		}
		if appt.PatientID != req.PatientID {
			return nil, fmt.Errorf("%w: appointment belongs to another patient", ErrInvalid)
		}
	}

	recordDate := req.RecordDate
	if recordDate == "" {
		recordDate = s.now().In(s.location()).Format(dateLayout)
	}

	rec := &models.HealthRecord{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		RecordType:    req.RecordType,
		Title:         req.Title,
		Description:   req.Description,
		RecordDate:    recordDate,
	}
	if actor.Role == models.RoleDoctor {
		doctorID := actor.UserID
		rec.DoctorID = &doctorID
	}

	created, err := s.records.Create(rec)
	if err != nil {
		return nil, fmt.Errorf("create health record: %w", err)
	}

	s.log.Audit(actor.UserID, "create", "health_record", true, map[string]interface{}{
		"record_id":  created.ID,
		"patient_id": created.PatientID,
	})
	return created, nil
}

// List returns records visible to actor. Doctors without a patient filter get
// the records they wrote.
func (s *HealthRecordService) List(actor Actor, filter models.HealthRecordFilter) ([]models.HealthRecord, error) {
	authorID := ""
	switch actor.Role {
	case models.RolePatient:
		filter.PatientID = actor.UserID
	case models.RoleDoctor:
		if filter.PatientID == "" {
			authorID = actor.UserID
			break
		}
		ok, err := s.canAccessPatient(actor, filter.PatientID)
		if err != nil {
			return nil, fmt.Errorf("check patient access: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: no care relationship with this patient", ErrForbidden)
		}
	}

	list, err := s.records.List(filter, authorID)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	s.log.Audit(actor.UserID, "list", "health_record", true, map[string]interface{}{"patient_id": filter.PatientID})
	return list, nil
}

func (s *HealthRecordService) Get(actor Actor, id string) (*models.HealthRecord, error) {
	rec, err := s.records.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("health record %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get health record: %w", err)
	}

	ok, err := s.canAccessPatient(actor, rec.PatientID)
	if err != nil {
		return nil, fmt.Errorf("check patient access: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("health record %w", ErrNotFound)
	}

	s.log.Audit(actor.UserID, "read", "health_record", true, map[string]interface{}{"record_id": id})
	return rec, nil
}

// Delete is allowed to the patient the record is about and to its author.
func (s *HealthRecordService) Delete(ctx context.Context, actor Actor, id string) error {
	rec, err := s.Get(actor, id)
	if err != nil {
		return err
	}

	isAuthor := rec.DoctorID != nil && *rec.DoctorID == actor.UserID
	if rec.PatientID != actor.UserID && !isAuthor && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the patient or the author can delete this record", ErrForbidden)
	}

	if err := s.records.Delete(id); err != nil {
		return fmt.Errorf("delete health record: %w", err)
	}

	if rec.FilePath != nil {
		if err := s.files.Remove(s.cfg.Supabase.HealthRecordBucket, *rec.FilePath); err != nil {
			s.log.WithComponent("health_records").WithError(err).Warn("failed to remove record file")
		}
	}

	s.log.Audit(actor.UserID, "delete", "health_record", true, map[string]interface{}{"record_id": id})
	return nil
}

func (s *HealthRecordService) AttachFile(ctx context.Context, actor Actor, id, filename, contentType string, size int64, data io.Reader) (*models.HealthRecord, error) {
	if size > MaxRecordFileSize {
		return nil, fmt.Errorf("%w: file exceeds 10 MiB", ErrInvalid)
	}

	rec, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(filename)
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalid)
	}
	objectPath := path.Join(rec.PatientID, rec.ID, name)

	if err := s.files.Upload(s.cfg.Supabase.HealthRecordBucket, objectPath, data, contentType); err != nil {
		return nil, fmt.Errorf("upload record file: %w", err)
	}

	updated, err := s.records.SetFilePath(rec.ID, objectPath)
	if err != nil {
		return nil, fmt.Errorf("save record file path: %w", err)
	}

	if rec.FilePath != nil && *rec.FilePath != objectPath {
		if err := s.files.Remove(s.cfg.Supabase.HealthRecordBucket, *rec.FilePath); err != nil {
			s.log.WithComponent("health_records").WithError(err).Warn("failed to remove replaced record file")
		}
	}
	return updated, nil
}

// FileURL returns a short-lived signed download link.
func (s *HealthRecordService) FileURL(actor Actor, id string) (string, error) {
	rec, err := s.Get(actor, id)
	if err != nil {
		return "", err
	}
	if rec.FilePath == nil || *rec.FilePath == "" {
		return "", fmt.Errorf("record file %w", ErrNotFound)
	}

	url, err := s.files.SignedURL(s.cfg.Supabase.HealthRecordBucket, *rec.FilePath, s.cfg.Supabase.SignedURLTTLSeconds)
	if err != nil {
		return "", fmt.Errorf("sign record file: %w", err)
	}
	return url, nil
}

func (s *HealthRecordService) location() *time.Location {
	if s.cfg.Location == nil {
		return time.UTC
	}
	return s.cfg.Location
}

// sanitizeFileName keeps the base name and replaces characters that are
// awkward in object keys.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
