package models

import "time"

type VideoTokenRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required"`
}

type VideoToken struct {
	Token     string    `json:"token"`
	RoomName  string    `json:"room_name"`
	Identity  string    `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}
