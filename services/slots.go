package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

const dateLayout = "2006-01-02"

// parseClock turns "HH:MM" into minutes after midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalid, s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalid, s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// at combines a date and a clock time in loc.
func at(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date or time", ErrInvalid)
	}
	return t, nil
}

// GenerateSlots splits [start, end) into consecutive slots of the given
// length. A trailing remainder shorter than one slot is dropped.
func GenerateSlots(doctorID string, dayOfWeek int, start, end string, slotMinutes int) ([]models.TimeSlot, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, fmt.Errorf("%w: day_of_week must be between 0 and 6", ErrInvalid)
	}
	if slotMinutes < 5 || slotMinutes > 240 {
		return nil, fmt.Errorf("%w: slot_minutes must be between 5 and 240", ErrInvalid)
	}

	from, err := parseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := parseClock(end)
	if err != nil {
		return nil, err
	}
	if to <= from {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrInvalid)
	}
	if to-from < slotMinutes {
		return nil, fmt.Errorf("%w: availability window is shorter than one slot", ErrInvalid)
	}

	var slots []models.TimeSlot
	for t := from; t+slotMinutes <= to; t += slotMinutes {
		slots = append(slots, models.TimeSlot{
			DoctorID:    doctorID,
			DayOfWeek:   dayOfWeek,
			StartTime:   formatClock(t),
			EndTime:     formatClock(t + slotMinutes),
			IsAvailable: true,
		})
	}
	return slots, nil
}

// overlaps reports whether [start, end) intersects any existing slot.
func overlaps(existing []models.TimeSlot, start, end string) bool {
	s, _ := parseClock(start)
	e, _ := parseClock(end)
	for _, slot := range existing {
		es, err1 := parseClock(slot.StartTime)
		ee, err2 := parseClock(slot.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if es < e && ee > s {
			return true
		}
	}
	return false
}

type TimeSlotService struct {
	slots        TimeSlotStore
	appointments AppointmentStore
	cache        AvailabilityCache
	loc          *time.Location
	log          *logger.Logger
	now          func() time.Time
}

func NewTimeSlotService(slots TimeSlotStore, appointments AppointmentStore, cache AvailabilityCache, cfg *config.Config, log *logger.Logger) *TimeSlotService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &TimeSlotService{
		slots:        slots,
		appointments: appointments,
		cache:        cache,
		loc:          loc,
		log:          log,
		now:          time.Now,
	}
}

func (s *TimeSlotService) Generate(ctx context.Context, doctorID string, req models.GenerateSlotsRequest) ([]models.TimeSlot, error) {
	if req.DayOfWeek == nil {
		return nil, fmt.Errorf("%w: day_of_week is required", ErrInvalid)
	}

	slots, err := GenerateSlots(doctorID, *req.DayOfWeek, req.StartTime, req.EndTime, req.SlotMinutes)
	if err != nil {
		return nil, err
	}

	existing, err := s.slots.List(doctorID, *req.DayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	if overlaps(existing, req.StartTime, req.EndTime) {
		return nil, fmt.Errorf("%w: window overlaps existing time slots", ErrConflict)
	}

	created, err := s.slots.CreateMany(slots)
	if err != nil {
		return nil, fmt.Errorf("create slots: %w", err)
	}

	s.cache.Invalidate(ctx, doctorID)
	s.log.WithUserID(doctorID).WithField("count", len(created)).Info("time slots generated")
	return created, nil
}

// List returns the slots of a doctor. dayOfWeek < 0 lists every day.
func (s *TimeSlotService) List(doctorID string, dayOfWeek int) ([]models.TimeSlot, error) {
	if doctorID == "" {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrInvalid)
	}
	if dayOfWeek > 6 {
		return nil, fmt.Errorf("%w: day_of_week must be between 0 and 6", ErrInvalid)
	}
	return s.slots.List(doctorID, dayOfWeek)
}

// Available lists the bookable slots of a doctor on a date.
func (s *TimeSlotService) Available(ctx context.Context, doctorID, date string) ([]models.AvailableSlot, error) {
	if doctorID == "" {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrInvalid)
	}
	day, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	}

	now := s.now().In(s.loc)
	if date < now.Format(dateLayout) {
		return []models.AvailableSlot{}, nil
	}

	free, version, ok := s.cache.Get(ctx, doctorID, date)
	if !ok {
		free, err = s.computeAvailable(doctorID, date, int(day.Weekday()))
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, doctorID, date, version, free)
	}

	return notStarted(free, date, now), nil
}

func (s *TimeSlotService) computeAvailable(doctorID, date string, weekday int) ([]models.AvailableSlot, error) {
	slots, err := s.slots.List(doctorID, weekday)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	booked, err := s.appointments.ListBooked(doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("list booked appointments: %w", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, a := range booked {
		taken[a.TimeSlotID] = true
	}

	free := make([]models.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsAvailable || taken[slot.ID] {
			continue
		}
		free = append(free, models.AvailableSlot{
			TimeSlotID: slot.ID,
			DoctorID:   slot.DoctorID,
			Date:       date,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
		})
	}
	return free, nil
}

// notStarted drops today's slots whose start time has passed.
func notStarted(slots []models.AvailableSlot, date string, now time.Time) []models.AvailableSlot {
	if date != now.Format(dateLayout) {
		return slots
	}
	current := now.Hour()*60 + now.Minute()

	out := make([]models.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		start, err := parseClock(slot.StartTime)
		if err != nil || start <= current {
			continue
		}
		out = append(out, slot)
	}
	return out
}

func (s *TimeSlotService) ownedSlot(doctorID, slotID string) (*models.TimeSlot, error) {
	slot, err := s.slots.GetByID(slotID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("time slot %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot.DoctorID != doctorID {
		return nil, fmt.Errorf("time slot %w", ErrNotFound)
	}
	return slot, nil
}

func (s *TimeSlotService) SetAvailable(ctx context.Context, doctorID, slotID string, available bool) (*models.TimeSlot, error) {
	if _, err := s.ownedSlot(doctorID, slotID); err != nil {
		return nil, err
	}

	slot, err := s.slots.SetAvailable(slotID, available)
	if err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}

	s.cache.Invalidate(ctx, doctorID)
	return slot, nil
}

func (s *TimeSlotService) Delete(ctx context.Context, doctorID, slotID string) error {
	if _, err := s.ownedSlot(doctorID, slotID); err != nil {
		return err
	}

	today := s.now().In(s.loc).Format(dateLayout)
	upcoming, err := s.appointments.ListFutureBySlot(slotID, today)
	if err != nil {
		return fmt.Errorf("check slot bookings: %w", err)
	}
	if len(upcoming) > 0 {
		return fmt.Errorf("%w: time slot has %d upcoming appointment(s)", ErrConflict, len(upcoming))
	}

	if err := s.slots.Delete(slotID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	s.cache.Invalidate(ctx, doctorID)
	return nil
}
