package services

import (
	"github.com/arenapulse/esports-system/models"
	"github.com/google/uuid"
)

// RoomNotifier fans room events out to live subscribers. Notifications
// fire after the owning transaction commits, never inside it.
type RoomNotifier interface {
	RoomStatusChanged(roomID uuid.UUID, status models.RoomStatus)
	PayoutsApproved(roomID uuid.UUID, count int)
}
