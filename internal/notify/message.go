package notify

import (
	"encoding/json"
	"fmt"

	"github.com/nurpe/collection-calendar/internal/model"
)

const reminderTitle = "Dia do Lixo - Recolha Amanhã"

// Message is the payload pushed to devices on the eve of a collection.
type Message struct {
	NotificationID  string `json:"notification_id"`
	Token           string `json:"token"`
	ZoneID          string `json:"zone_id"`
	GarbageTypeID   string `json:"garbage_type_id"`
	GarbageTypeCode string `json:"garbage_type_code"`
	ScheduledDate   string `json:"scheduled_date"`
	Title           string `json:"title"`
	Body            string `json:"body"`
	Color           string `json:"color,omitempty"`
}

func NewMessage(reminder model.Reminder) Message {
	return Message{
		NotificationID:  reminder.NotificationID.String(),
		Token:           reminder.Token,
		ZoneID:          reminder.ZoneID.String(),
		GarbageTypeID:   reminder.GarbageType.ID.String(),
		GarbageTypeCode: reminder.GarbageType.Code,
		ScheduledDate:   reminder.ScheduledDate,
		Title:           reminderTitle,
		Body:            fmt.Sprintf("Amanhã será recolhido: %s", reminder.GarbageType.DisplayName(model.LanguagePT)),
		Color:           reminder.GarbageType.ColorHex,
	}
}

func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}
