package response

import (
	"time"

	"stayops/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type NotificationResponse struct {
	ID          uuid.UUID `json:"id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Kind        string    `json:"kind"`
	Body        string    `json:"body"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromNotificationViews(views []*queries.NotificationView) []*NotificationResponse {
	resp := make([]*NotificationResponse, len(views))
	for i, view := range views {
		resp[i] = &NotificationResponse{}
		_ = copier.Copy(resp[i], view)
	}
	return resp
}
