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

const MaxAvatarSize = 5 << 20

type ProfileService struct {
	users   UserStore
	doctors DoctorStore
	files   FileStorage
	cfg     *config.Config
	log     *logger.Logger
	now     func() time.Time
}

func NewProfileService(users UserStore, doctors DoctorStore, files FileStorage, cfg *config.Config, log *logger.Logger) *ProfileService {
	return &ProfileService{
		users:   users,
		doctors: doctors,
		files:   files,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

func (s *ProfileService) Get(userID string) (*models.Profile, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.withDoctor(user)
}

func (s *ProfileService) withDoctor(user *models.User) (*models.Profile, error) {
	profile := &models.Profile{User: user.Public()}
	if user.Role != models.RoleDoctor {
		return profile, nil
	}

	doctor, err := s.doctors.GetProfile(user.ID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("get doctor profile: %w", err)
	}
	profile.Doctor = doctor
	return profile, nil
}

// Update writes the editable personal fields only.
func (s *ProfileService) Update(userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	fields := map[string]interface{}{}
	setString(fields, "full_name", req.FullName)
	setString(fields, "phone", req.Phone)
	setString(fields, "date_of_birth", req.DateOfBirth)
	setString(fields, "gender", req.Gender)
	setString(fields, "address", req.Address)
	setString(fields, "blood_type", req.BloodType)

	if name, ok := fields["full_name"]; ok && strings.TrimSpace(name.(string)) == "" {
		return nil, fmt.Errorf("%w: full_name cannot be empty", ErrInvalid)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalid)
	}
	fields["updated_at"] = s.now().UTC()

	user, err := s.users.Update(userID, fields)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: phone already in use", ErrConflict)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Audit(userID, "update", "profile", true, nil)
	return s.withDoctor(user)
}

func (s *ProfileService) UpdateDoctor(doctorID string, req models.UpdateDoctorRequest) (*models.DoctorProfile, error) {
	fields := map[string]interface{}{}
	setString(fields, "specialty", req.Specialty)
	setString(fields, "qualification", req.Qualification)
	setString(fields, "bio", req.Bio)
	setString(fields, "license_number", req.LicenseNumber)
	if req.ExperienceYears != nil {
		if *req.ExperienceYears < 0 {
			return nil, fmt.Errorf("%w: experience_years cannot be negative", ErrInvalid)
		}
		fields["experience_years"] = *req.ExperienceYears
	}
	if req.ConsultationFee != nil {
		if *req.ConsultationFee < 0 {
			return nil, fmt.Errorf("%w: consultation_fee cannot be negative", ErrInvalid)
		}
		fields["consultation_fee"] = *req.ConsultationFee
	}
	if req.IsAvailable != nil {
		fields["is_available"] = *req.IsAvailable
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalid)
	}

	doctor, err := s.doctors.UpdateProfile(doctorID, fields)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("doctor profile %w", ErrNotFound)
		}
		return nil, fmt.Errorf("update doctor profile: %w", err)
	}
	return doctor, nil
}

func (s *ProfileService) UploadAvatar(ctx context.Context, userID, filename, contentType string, size int64, data io.Reader) (*models.Profile, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: avatar must be an image", ErrInvalid)
	}
	if size > MaxAvatarSize {
		return nil, fmt.Errorf("%w: avatar exceeds 5 MiB", ErrInvalid)
	}

	objectPath := fmt.Sprintf("%s/avatar-%d%s", userID, s.now().Unix(), strings.ToLower(path.Ext(sanitizeFileName(filename))))
	if err := s.files.Upload(s.cfg.Supabase.AvatarBucket, objectPath, data, contentType); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	user, err := s.users.Update(userID, map[string]interface{}{
		"avatar_url": s.files.PublicURL(s.cfg.Supabase.AvatarBucket, objectPath),
		"updated_at": s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("save avatar url: %w", err)
	}
	return s.withDoctor(user)
}

func setString(fields map[string]interface{}, key string, value *string) {
	if value != nil {
		fields[key] = strings.TrimSpace(*value)
	}
}

type DoctorService struct {
	doctors DoctorStore
}

func NewDoctorService(doctors DoctorStore) *DoctorService {
	return &DoctorService{doctors: doctors}
}

func (s *DoctorService) List(filter models.DoctorFilter) ([]models.Doctor, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.doctors.List(filter)
}

func (s *DoctorService) Get(id string) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("doctor %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return doctor, nil
}
