package services

import (
	"fmt"
	"time"

	twiliojwt "github.com/twilio/twilio-go/client/jwt"

	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/models"
)

const (
	videoEarlyJoin = 15 * time.Minute
	videoLateLeave = 30 * time.Minute
)

// VideoTokenIssuer signs room access tokens for the video provider.
type VideoTokenIssuer interface {
	Issue(identity, room string, ttl time.Duration) (string, error)
}

type TwilioVideoIssuer struct {
	accountSID string
	apiKeySID  string
	apiSecret  string
}

func NewTwilioVideoIssuer(accountSID, apiKeySID, apiSecret string) *TwilioVideoIssuer {
	return &TwilioVideoIssuer{accountSID: accountSID, apiKeySID: apiKeySID, apiSecret: apiSecret}
}

func (t *TwilioVideoIssuer) Issue(identity, room string, ttl time.Duration) (string, error) {
	token := twiliojwt.CreateAccessToken(twiliojwt.AccessTokenParams{
		AccountSid:    t.accountSID,
		SigningKeySid: t.apiKeySID,
		Secret:        t.apiSecret,
		Identity:      identity,
		Ttl:           ttl.Seconds(),
	})
	token.AddGrant(&twiliojwt.VideoGrant{Room: room})
	return token.ToJwt()
}

func RoomName(appointmentID string) string {
	return "appointment-" + appointmentID
}

type VideoService struct {
	appointments AppointmentStore
	issuer       VideoTokenIssuer
	ttl          time.Duration
	loc          *time.Location
	now          func() time.Time
}

func NewVideoService(appointments AppointmentStore, issuer VideoTokenIssuer, cfg *config.Config) *VideoService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &VideoService{
		appointments: appointments,
		issuer:       issuer,
		ttl:          cfg.Twilio.VideoTokenTTL,
		loc:          loc,
		now:          time.Now,
	}
}

// Token issues a room token to a participant of a confirmed video
// appointment, from 15 minutes before its start to 30 minutes after its end.
func (s *VideoService) Token(actor Actor, appointmentID string) (*models.VideoToken, error) {
	appt, err := s.appointments.GetByID(appointmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("appointment %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt.PatientID != actor.UserID && appt.DoctorID != actor.UserID {
		return nil, fmt.Errorf("appointment %w", ErrNotFound)
	}
	if appt.ConsultationType != models.ConsultationVideo {
		return nil, fmt.Errorf("%w: appointment is not a video consultation", ErrInvalid)
	}
	if appt.Status != models.StatusConfirmed {
		return nil, fmt.Errorf("%w: appointment is %s, not confirmed", ErrInvalid, appt.Status)
	}

	start, err := at(appt.AppointmentDate, appt.StartTime, s.loc)
	if err != nil {
		return nil, err
	}
	end, err := at(appt.AppointmentDate, appt.EndTime, s.loc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Before(start.Add(-videoEarlyJoin)) {
		return nil, fmt.Errorf("%w: the room opens 15 minutes before the appointment", ErrInvalid)
	}
	if now.After(end.Add(videoLateLeave)) {
		return nil, fmt.Errorf("%w: the appointment has ended", ErrInvalid)
	}

	room := RoomName(appt.ID)
	token, err := s.issuer.Issue(actor.UserID, room, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("issue video token: %w", err)
	}

	return &models.VideoToken{
		Token:     token,
		RoomName:  room,
		Identity:  actor.UserID,
		ExpiresAt: now.Add(s.ttl),
	}, nil
}
