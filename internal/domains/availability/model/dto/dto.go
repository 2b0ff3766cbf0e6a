package dto

import (
	"time"

	"github.com/google/uuid"

	"scheduleright/internal/domains/availability/model"
	"scheduleright/shared"
	"scheduleright/shared/constant"
	gModel "scheduleright/shared/model"
	"scheduleright/shared/timezone"
)

const (
	RecurrenceNone   = "none"
	RecurrenceDaily  = "daily"
	RecurrenceWeekly = "weekly"

	maxOccurrences = 52
)

type Recurrence struct {
	Frequency string `json:"frequency" validate:"omitempty,oneof=none daily weekly"`
	Count     int    `json:"count"     validate:"omitempty,min=1,max=52"`
}

type CreateSlotRequest struct {
	StartTime       time.Time   `json:"start_time"       validate:"required"`
	EndTime         time.Time   `json:"end_time"         validate:"required"`
	Capacity        int         `json:"capacity"         validate:"required,min=1"`
	DurationMinutes int         `json:"duration_minutes" validate:"omitempty,min=5,max=1440"`
	BufferMinutes   int         `json:"buffer_minutes"   validate:"omitempty,min=0,max=240"`
	Recurrence      *Recurrence `json:"recurrence"       validate:"omitempty"`
}

// ToModels expands the request into concrete slots. A duration carves the
// window into consecutive slots separated by the buffer; a recurrence repeats
// the whole window daily or weekly for the requested number of occurrences.
func (c *CreateSlotRequest) ToModels(siteID, orgID, user string) []model.Slot {
	occurrences := 1
	step := time.Duration(0)

	if c.Recurrence != nil && c.Recurrence.Count > 1 {
		switch c.Recurrence.Frequency {
		case RecurrenceDaily:
			step = 24 * time.Hour
		case RecurrenceWeekly:
			step = 7 * 24 * time.Hour
		}

		if step > 0 {
			occurrences = min(c.Recurrence.Count, maxOccurrences)
		}
	}

	now := timezone.Now().UTC()
	slots := []model.Slot{}

	for i := range occurrences {
		offset := time.Duration(i) * step
		windowStart := c.StartTime.UTC().Truncate(time.Second).Add(offset)
		windowEnd := c.EndTime.UTC().Truncate(time.Second).Add(offset)

		for _, window := range carve(windowStart, windowEnd, c.DurationMinutes, c.BufferMinutes) {
			slots = append(slots, model.Slot{
				ID:        uuid.NewString(),
				Type:      model.DocType,
				SiteID:    siteID,
				OrgID:     orgID,
				StartTime: window[0],
				EndTime:   window[1],
				Capacity:  c.Capacity,
				Status:    model.StatusActive,
				Metadata:  gModel.NewMetadata(now, user),
			})
		}
	}

	return slots
}

func carve(start, end time.Time, durationMinutes, bufferMinutes int) [][2]time.Time {
	if durationMinutes <= 0 {
		return [][2]time.Time{{start, end}}
	}

	duration := time.Duration(durationMinutes) * time.Minute
	buffer := time.Duration(bufferMinutes) * time.Minute

	windows := [][2]time.Time{}
	for cursor := start; !cursor.Add(duration).After(end); cursor = cursor.Add(duration + buffer) {
		windows = append(windows, [2]time.Time{cursor, cursor.Add(duration)})
	}

	return windows
}

type SlotResponse struct {
	ID              string `json:"id"`
	SiteID          string `json:"site_id"`
	OrgID           string `json:"org_id"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Capacity        int    `json:"capacity"`
	CurrentBookings int    `json:"current_bookings"`
	Status          string `json:"status"`
}

func (r *SlotResponse) FromModel(mod model.Slot) {
	r.ID = mod.ID
	r.SiteID = mod.SiteID
	r.OrgID = mod.OrgID
	r.StartTime = timezone.Format(mod.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(mod.EndTime, constant.DateFormat)
	r.Capacity = mod.Capacity
	r.CurrentBookings = mod.CurrentBookings
	r.Status = mod.Status
}

type GetSlotsResponse struct {
	Slots     []SlotResponse `json:"slots"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (g *GetSlotsResponse) FromModels(models []model.Slot, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		g.Slots[i].FromModel(mod)
	}
}
