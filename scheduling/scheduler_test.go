package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookline-app/bookline/models"
)

type fakeStore struct {
	staff     []models.StaffMember
	locations map[uint]models.Location
	variants  map[uint]models.DurationVariant
	rules     []models.WeeklyAvailabilityRule
	overrides []models.DateAvailabilityOverride
	bookings  []models.Booking

	createErr error
}

func (f *fakeStore) ActiveStaff(ctx context.Context) ([]models.StaffMember, error) {
	var active []models.StaffMember
	for _, s := range f.staff {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active, nil
}

func (f *fakeStore) LocationByID(ctx context.Context, id uint) (models.Location, error) {
	loc, ok := f.locations[id]
	if !ok {
		return models.Location{}, gorm.ErrRecordNotFound
	}
	return loc, nil
}

func (f *fakeStore) VariantByID(ctx context.Context, id uint) (models.DurationVariant, error) {
	v, ok := f.variants[id]
	if !ok {
		return models.DurationVariant{}, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeStore) WeeklyRules(ctx context.Context, staffIDs []uint) ([]models.WeeklyAvailabilityRule, error) {
	return f.rules, nil
}

func (f *fakeStore) DateOverrides(ctx context.Context, staffIDs []uint, fromDate, toDate string) ([]models.DateAvailabilityOverride, error) {
	return f.overrides, nil
}

func (f *fakeStore) ActiveBookings(ctx context.Context, staffIDs []uint, from, to time.Time) ([]models.Booking, error) {
	ids := make(map[uint]bool, len(staffIDs))
	for _, id := range staffIDs {
		ids[id] = true
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if !ids[b.StaffID] || b.Status == models.StatusCancelled {
			continue
		}
		if b.ScheduledAt.Before(to) && b.EndsAt().After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, b := range f.bookings {
		if b.StaffID == booking.StaffID && b.Status != models.StatusCancelled &&
			booking.ScheduledAt.Before(b.EndsAt()) && b.ScheduledAt.Before(booking.EndsAt()) {
			return ErrSlotTaken
		}
	}
	booking.ID = uint(len(f.bookings) + 1)
	f.bookings = append(f.bookings, *booking)
	return nil
}

// aliceStore is one active staff member working the given weekdays
// 09:00-17:00 at a New York location, with a 30 and a 60 minute variant.
func aliceStore(weekdays ...string) *fakeStore {
	if len(weekdays) == 0 {
		weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	}
	return &fakeStore{
		staff: []models.StaffMember{
			{Model: gorm.Model{ID: 1}, Name: "Alice", IsActive: true},
		},
		locations: map[uint]models.Location{
			1: {Model: gorm.Model{ID: 1}, Name: "NYC", Timezone: "America/New_York", OffersServices: true},
		},
		variants: map[uint]models.DurationVariant{
			10: {Model: gorm.Model{ID: 10}, ServiceID: 1, Duration: 30, Price: 35},
			11: {Model: gorm.Model{ID: 11}, ServiceID: 1, Duration: 60, Price: 60},
		},
		rules: []models.WeeklyAvailabilityRule{{
			StaffID:     1,
			Weekdays:    weekdays,
			StartTime:   "09:00",
			EndTime:     "17:00",
			IsAvailable: true,
		}},
	}
}

func testScheduler(fs *fakeStore, now time.Time) *Scheduler {
	s := New(fs)
	s.Now = func() time.Time { return now }
	return s
}

func slotTimes(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}

// farBefore is a fixed "now" well before every queried date, so the grace
// period rule stays out of the way unless a test wants it.
var farBefore = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func TestAvailableSlotsExcludesBookedSlot(t *testing.T) {
	fs := aliceStore("monday")
	// 2026-09-07 is a Monday; 10:00 EDT is 14:00 UTC.
	fs.bookings = []models.Booking{{
		StaffID:     1,
		ScheduledAt: time.Date(2026, time.September, 7, 14, 0, 0, 0, time.UTC),
		Duration:    30,
		Status:      models.StatusConfirmed,
	}}
	s := testScheduler(fs, farBefore)

	result, err := s.AvailableSlots(context.Background(), SlotQuery{
		VariantID: 10, LocationID: 1, FromDate: "2026-09-07", ToDate: "2026-09-07",
	})
	require.NoError(t, err)

	times := slotTimes(result["2026-09-07"])
	assert.Len(t, times, 15)
	assert.Contains(t, times, "09:00")
	assert.Contains(t, times, "09:30")
	assert.Contains(t, times, "10:30")
	assert.Contains(t, times, "11:00")
	assert.NotContains(t, times, "10:00")
}

func TestAvailableSlotsDurationMustFitWindow(t *testing.T) {
	s := testScheduler(aliceStore("monday"), farBefore)

	result, err := s.AvailableSlots(context.Background(), SlotQuery{
		VariantID: 11, LocationID: 1, FromDate: "2026-09-07", ToDate: "2026-09-07",
	})
	require.NoError(t, err)

	times := slotTimes(result["2026-09-07"])
	assert.Contains(t, times, "16:00", "60 minutes still fit before 17:00")
	assert.NotContains(t, times, "16:30", "16:30 + 60min would pass the window end")
}

func TestAvailableSlotsClosedOverride(t *testing.T) {
	fs := aliceStore("monday")
	fs.overrides = []models.DateAvailabilityOverride{{
		StaffID: 1, Date: "2026-09-07", IsAvailable: false,
	}}
	s := testScheduler(fs, farBefore)

	result, err := s.AvailableSlots(context.Background(), SlotQuery{
		VariantID: 10, LocationID: 1, FromDate: "2026-09-07", ToDate: "2026-09-07",
	})
	require.NoError(t, err)
	assert.Empty(t, result["2026-09-07"], "forced closure wins over the weekly rule")
}

func TestAvailableSlotsGracePeriod(t *testing.T) {
	fs := aliceStore()

	// 14:10 UTC is 10:10 in New York on 2026-09-07: the 10:00 slot is 10
	// minutes past, inside the 15-minute grace window.
	s := testScheduler(fs, time.Date(2026, time.September, 7, 14, 10, 0, 0, time.UTC))
	result, err := s.AvailableSlots(context.Background(), SlotQuery{
		VariantID: 10, LocationID: 1, FromDate: "2026-09-07", ToDate: "2026-09-07",
	})
	require.NoError(t, err)
	times := slotTimes(result["2026-09-07"])
	assert.Contains(t, times, "10:00", "within the grace window")
	assert.NotContains(t, times, "09:30", "40 minutes past is beyond the grace window")

	// Ten minutes later the 10:00 slot is 20 minutes past and disappears.
	s = testScheduler(fs, time.Date(2026, time.September, 7, 14, 20, 0, 0, time.UTC))
	result, err = s.AvailableSlots(context.Background(), SlotQuery{
		VariantID: 10, LocationID: 1, FromDate: "2026-09-07", ToDate: "2026-09-07",
	})
	require.NoError(t, err)
	times = slotTimes(result["2026-09-07"])
	assert.NotContains(t, times, "10:00")
	assert.Contains(t, times, "10:30")
}

func TestAvailableSlotsDeactivatedStaff(t *testing.T) {
	fs := aliceStore("monday")
	fs.staff[0].IsActive = false
	s := testScheduler(fs, farBefore)

	result, err := s.AvailableSlots(context.Background(), SlotQuery{
		VariantID: 10, LocationID: 1, FromDate: "2026-09-07", ToDate: "2026-09-07",
	})
	require.NoError(t, err, "no qualified staff is no availability, not an error")
	assert.Empty(t, result)
}

func TestAvailableSlotsUnionAcrossStaff(t *testing.T) {
	fs := aliceStore("monday")
	fs.staff = append(fs.staff, models.StaffMember{Model: gorm.Model{ID: 2}, Name: "Bob", IsActive: true})
	fs.rules = append(fs.rules, models.WeeklyAvailabilityRule{
		StaffID: 2, Weekdays: models.WeekdaySet{"monday"},
		StartTime: "09:00", EndTime: "17:00", IsAvailable: true,
	})
	// Alice is booked at 10:00 EDT but Bob is free, so the time stays offered.
	fs.bookings = []models.Booking{{
		StaffID:     1,
		ScheduledAt: time.Date(2026, time.September, 7, 14, 0, 0, 0, time.UTC),
		Duration:    30,
		Status:      models.StatusConfirmed,
	}}
	s := testScheduler(fs, farBefore)

	result, err := s.AvailableSlots(context.Background(), SlotQuery{
		VariantID: 10, LocationID: 1, FromDate: "2026-09-07", ToDate: "2026-09-07",
	})
	require.NoError(t, err)

	var tenOClock *Slot
	for i, slot := range result["2026-09-07"] {
		if slot.Time == "10:00" {
			tenOClock = &result["2026-09-07"][i]
		}
	}
	require.NotNil(t, tenOClock)
	assert.Equal(t, []uint{2}, tenOClock.StaffIDs, "only Bob is free at 10:00")
}

func TestScheduleResolvesDSTCorrectly(t *testing.T) {
	early := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	s := testScheduler(aliceStore(), early)
	summer, err := s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-07-15", Time: "14:00", CustomerName: "Cara",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.July, 15, 18, 0, 0, 0, time.UTC), summer.ScheduledAt,
		"14:00 EDT is 18:00 UTC")

	s = testScheduler(aliceStore(), early)
	winter, err := s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-01-15", Time: "14:00", CustomerName: "Cara",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 15, 19, 0, 0, 0, time.UTC), winter.ScheduledAt,
		"14:00 EST is 19:00 UTC")
}

func TestScheduleRejectsTakenSlot(t *testing.T) {
	fs := aliceStore("monday")
	s := testScheduler(fs, farBefore)

	first, err := s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-09-07", Time: "10:00", CustomerName: "Cara",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, first.Status)

	_, err = s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-09-07", Time: "10:00", CustomerName: "Dan",
	})
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)

	// Touching slots stay fine: [10:00,10:30) then [10:30,11:00).
	_, err = s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-09-07", Time: "10:30", CustomerName: "Dan",
	})
	assert.NoError(t, err)
}

func TestScheduleConcurrentLoserGetsConflict(t *testing.T) {
	// The advisory read sees a free slot, but the store's atomic
	// check-and-insert loses to a concurrent writer.
	fs := aliceStore("monday")
	fs.createErr = ErrSlotTaken
	s := testScheduler(fs, farBefore)

	_, err := s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-09-07", Time: "10:00", CustomerName: "Cara",
	})
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
}

func TestScheduleAssignsFreeStaff(t *testing.T) {
	fs := aliceStore("monday")
	fs.staff = append(fs.staff, models.StaffMember{Model: gorm.Model{ID: 2}, Name: "Bob", IsActive: true})
	fs.rules = append(fs.rules, models.WeeklyAvailabilityRule{
		StaffID: 2, Weekdays: models.WeekdaySet{"monday"},
		StartTime: "09:00", EndTime: "17:00", IsAvailable: true,
	})
	fs.bookings = []models.Booking{{
		StaffID:     1,
		ScheduledAt: time.Date(2026, time.September, 7, 14, 0, 0, 0, time.UTC),
		Duration:    30,
		Status:      models.StatusConfirmed,
	}}
	s := testScheduler(fs, farBefore)

	booking, err := s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1,
		Date: "2026-09-07", Time: "10:00", CustomerName: "Cara",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(2), booking.StaffID, "assigned to the staff member who is free")
}

func TestScheduleInactivePickedStaff(t *testing.T) {
	fs := aliceStore("monday")
	fs.staff[0].IsActive = false
	s := testScheduler(fs, farBefore)

	_, err := s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-09-07", Time: "10:00", CustomerName: "Cara",
	})
	assert.ErrorIs(t, err, ErrNoQualifiedStaff)
}

func TestScheduleRejectsPastSlot(t *testing.T) {
	// Local New York time is 10:20; the 10:00 slot is past grace.
	s := testScheduler(aliceStore(), time.Date(2026, time.September, 7, 14, 20, 0, 0, time.UTC))

	_, err := s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-09-07", Time: "10:00", CustomerName: "Cara",
	})
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)

	_, err = s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-09-06", Time: "10:00", CustomerName: "Cara",
	})
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable, "dates fully in the past are rejected")
}

func TestScheduleOutsideWindow(t *testing.T) {
	s := testScheduler(aliceStore("monday"), farBefore)

	_, err := s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-09-07", Time: "08:00", CustomerName: "Cara",
	})
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)

	// 16:45 + 30min passes the 17:00 window end.
	_, err = s.Schedule(context.Background(), BookingRequest{
		VariantID: 10, LocationID: 1, StaffID: uintPtr(1),
		Date: "2026-09-07", Time: "16:45", CustomerName: "Cara",
	})
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
}

func TestQualifiedStaff(t *testing.T) {
	roster := []models.StaffMember{
		{Model: gorm.Model{ID: 1}, Name: "Alice", IsActive: true},
		{Model: gorm.Model{ID: 2}, Name: "Bob", IsActive: false},
		{Model: gorm.Model{ID: 3}, Name: "Cleo", IsActive: true},
	}

	anyStaff := QualifiedStaff(roster, nil)
	assert.Len(t, anyStaff, 2, "inactive staff never qualify")

	picked := QualifiedStaff(roster, uintPtr(3))
	require.Len(t, picked, 1)
	assert.Equal(t, "Cleo", picked[0].Name)

	assert.Empty(t, QualifiedStaff(roster, uintPtr(2)), "picking inactive staff yields nobody")
	assert.Empty(t, QualifiedStaff(roster, uintPtr(99)))
}
