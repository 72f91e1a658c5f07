// Package feeds renders the public iCalendar export of upcoming events.
package feeds

import (
	"fmt"

	ics "github.com/arran4/golang-ical"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

// Calendar builds a VCALENDAR with one VEVENT per event. UIDs reuse the
// canonical event URL so subscribers see updates instead of duplicates.
func Calendar(events []domain.Event, nodeURL string) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//GetTogether//Event Feed//EN")

	for i := range events {
		event := &events[i]
		uid := fmt.Sprintf("%s/events/%d/%s/", nodeURL, event.ID, event.Slug())

		vevent := cal.AddEvent(uid)
		vevent.SetSummary(event.Name)
		vevent.SetStartAt(event.StartTime)
		vevent.SetEndAt(event.EndTime)
		vevent.SetDtStampTime(event.CreatedTime)
		vevent.SetURL(uid)
		if event.Summary != "" {
			vevent.SetDescription(event.Summary)
		}
		if event.Place != nil {
			vevent.SetLocation(event.Place.DisplayName())
		}
	}
	return cal
}
