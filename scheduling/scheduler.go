package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bookline-app/bookline/models"
)

// Store is the persistence surface the scheduler reads current state from
// and writes bookings through. CreateBooking must refuse an overlapping
// booking for the same staff member with ErrSlotTaken; with an atomic
// check-and-insert exactly one of two concurrent writers for the same slot
// succeeds.
type Store interface {
	ActiveStaff(ctx context.Context) ([]models.StaffMember, error)
	LocationByID(ctx context.Context, id uint) (models.Location, error)
	VariantByID(ctx context.Context, id uint) (models.DurationVariant, error)
	WeeklyRules(ctx context.Context, staffIDs []uint) ([]models.WeeklyAvailabilityRule, error)
	DateOverrides(ctx context.Context, staffIDs []uint, fromDate, toDate string) ([]models.DateAvailabilityOverride, error)
	// ActiveBookings returns non-cancelled bookings for the given staff that
	// overlap [from, to), at any location.
	ActiveBookings(ctx context.Context, staffIDs []uint, from, to time.Time) ([]models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
}

// Scheduler is the single scheduling engine behind the storefront widget,
// the POS data endpoint and the admin calendar. The read path is advisory:
// it reflects a snapshot and may race with concurrent bookings, which is
// why Schedule re-checks conflicts against fresh data before persisting.
type Scheduler struct {
	store Store

	// Granularity is the slot step in minutes.
	Granularity int
	// Now is replaceable in tests.
	Now func() time.Time
}

func New(store Store) *Scheduler {
	return &Scheduler{
		store:       store,
		Granularity: DefaultGranularity,
		Now:         time.Now,
	}
}

// SlotQuery asks which start times are bookable for one duration variant at
// one location over an inclusive local date range. StaffID nil means "any
// available staff".
type SlotQuery struct {
	VariantID  uint
	LocationID uint
	StaffID    *uint
	FromDate   string // "YYYY-MM-DD", local to the location
	ToDate     string
}

// Slot is one offered start time and the staff free to take it, kept so a
// later booking can be assigned without recomputing.
type Slot struct {
	Time     string `json:"time"` // "HH:MM" local to the location
	StaffIDs []uint `json:"staff_ids,omitempty"`
}

// BookingRequest is a write-path request for one concrete slot.
type BookingRequest struct {
	VariantID     uint
	LocationID    uint
	StaffID       *uint
	Date          string // "YYYY-MM-DD", local to the location
	Time          string // "HH:MM", local to the location
	CustomerID    *uint
	CustomerName  string
	CustomerEmail string
	Confirm       bool // persist as confirmed instead of pending
}

// AvailableSlots computes, per date in the query range, the sorted offered
// start times: the union over qualified staff of slots that fit the
// variant's duration inside the staff member's window, have no booking
// conflict, and are not past the same-day grace period.
func (s *Scheduler) AvailableSlots(ctx context.Context, q SlotQuery) (map[string][]Slot, error) {
	variant, err := s.store.VariantByID(ctx, q.VariantID)
	if err != nil {
		return nil, err
	}
	location, err := s.store.LocationByID(ctx, q.LocationID)
	if err != nil {
		return nil, err
	}

	roster, err := s.store.ActiveStaff(ctx)
	if err != nil {
		return nil, err
	}
	staff := QualifiedStaff(roster, q.StaffID)
	if len(staff) == 0 {
		// Surfaced as "no availability", not a hard error.
		return map[string][]Slot{}, nil
	}

	dates, err := dateRange(q.FromDate, q.ToDate)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return map[string][]Slot{}, nil
	}

	staffIDs := make([]uint, len(staff))
	for i, m := range staff {
		staffIDs[i] = m.ID
	}

	rules, err := s.store.WeeklyRules(ctx, staffIDs)
	if err != nil {
		return nil, err
	}
	overrides, err := s.store.DateOverrides(ctx, staffIDs, q.FromDate, q.ToDate)
	if err != nil {
		return nil, err
	}

	rangeStart := localMidnightUTC(dates[0], location.Timezone)
	rangeEnd := localMidnightUTC(dates[len(dates)-1], location.Timezone).Add(48 * time.Hour)
	bookings, err := s.store.ActiveBookings(ctx, staffIDs, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	byStaff := make(map[uint][]models.Booking)
	for _, b := range bookings {
		byStaff[b.StaffID] = append(byStaff[b.StaffID], b)
	}

	nowDate, nowMinutes := LocalNow(s.Now(), location.Timezone)

	result := make(map[string][]Slot, len(dates))
	for _, date := range dates {
		if date < nowDate {
			continue
		}
		free := make(map[int][]uint)
		for _, member := range staff {
			s.collectStaffSlots(member, q.LocationID, date, nowDate, nowMinutes,
				variant.Duration, location.Timezone, overrides, rules, byStaff[member.ID], free)
		}
		result[date] = sortedSlots(free)
	}
	return result, nil
}

func (s *Scheduler) collectStaffSlots(
	member models.StaffMember,
	locationID uint,
	date, nowDate string,
	nowMinutes, duration int,
	timezone string,
	overrides []models.DateAvailabilityOverride,
	rules []models.WeeklyAvailabilityRule,
	booked []models.Booking,
	free map[int][]uint,
) {
	year, month, day, err := splitDate(date)
	if err != nil {
		return
	}
	weekday := WeekdayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))

	window, open := ResolveWindow(member.ID, &locationID, date, weekday, overrides, rules)
	if !open {
		return
	}

	for t := range Slots(window, s.Granularity) {
		if t+duration > window.End {
			continue
		}
		if date == nowDate && TooFarPast(nowMinutes, t) {
			continue
		}
		start := LocalWallClockToUTC(year, month, day, t/60, t%60, timezone)
		if HasConflict(start, duration, booked) {
			continue
		}
		free[t] = append(free[t], member.ID)
	}
}

// Schedule validates a booking request against current state and persists
// it. The conflict check here is authoritative: it always re-reads the
// staff member's bookings, because the read path's snapshot may be stale.
func (s *Scheduler) Schedule(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	variant, err := s.store.VariantByID(ctx, req.VariantID)
	if err != nil {
		return nil, err
	}
	location, err := s.store.LocationByID(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	year, month, day, err := splitDate(req.Date)
	if err != nil {
		return nil, err
	}
	minutes, err := ParseClockTime(req.Time)
	if err != nil {
		return nil, err
	}

	roster, err := s.store.ActiveStaff(ctx)
	if err != nil {
		return nil, err
	}
	staff := QualifiedStaff(roster, req.StaffID)
	if len(staff) == 0 {
		return nil, ErrNoQualifiedStaff
	}

	staffIDs := make([]uint, len(staff))
	for i, m := range staff {
		staffIDs[i] = m.ID
	}
	rules, err := s.store.WeeklyRules(ctx, staffIDs)
	if err != nil {
		return nil, err
	}
	overrides, err := s.store.DateOverrides(ctx, staffIDs, req.Date, req.Date)
	if err != nil {
		return nil, err
	}

	scheduledAt := LocalWallClockToUTC(year, month, day, minutes/60, minutes%60, location.Timezone)
	weekday := WeekdayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
	nowDate, nowMinutes := LocalNow(s.Now(), location.Timezone)
	if req.Date < nowDate || (req.Date == nowDate && TooFarPast(nowMinutes, minutes)) {
		return nil, ErrSlotNoLongerAvailable
	}

	assigned, err := s.assignStaff(ctx, staff, req, weekday, minutes, variant.Duration, scheduledAt, overrides, rules)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		StaffID:       assigned,
		LocationID:    req.LocationID,
		VariantID:     req.VariantID,
		ScheduledAt:   scheduledAt,
		Duration:      variant.Duration,
		Status:        models.StatusPending,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}
	if req.Confirm {
		booking.Status = models.StatusConfirmed
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, ErrSlotNoLongerAvailable
		}
		return nil, err
	}
	return booking, nil
}

// assignStaff picks the first qualified staff member whose window admits
// the slot and whose fresh booking list shows no overlap.
func (s *Scheduler) assignStaff(
	ctx context.Context,
	staff []models.StaffMember,
	req BookingRequest,
	weekday string,
	minutes, duration int,
	scheduledAt time.Time,
	overrides []models.DateAvailabilityOverride,
	rules []models.WeeklyAvailabilityRule,
) (uint, error) {
	end := scheduledAt.Add(time.Duration(duration) * time.Minute)
	for _, member := range staff {
		window, open := ResolveWindow(member.ID, &req.LocationID, req.Date, weekday, overrides, rules)
		if !open || minutes < window.Start || minutes+duration > window.End {
			continue
		}
		booked, err := s.store.ActiveBookings(ctx, []uint{member.ID}, scheduledAt.Add(-24*time.Hour), end.Add(24*time.Hour))
		if err != nil {
			return 0, err
		}
		if HasConflict(scheduledAt, duration, booked) {
			continue
		}
		return member.ID, nil
	}
	return 0, ErrSlotNoLongerAvailable
}

func sortedSlots(free map[int][]uint) []Slot {
	offsets := make([]int, 0, len(free))
	for t := range free {
		offsets = append(offsets, t)
	}
	sort.Ints(offsets)

	slots := make([]Slot, 0, len(offsets))
	for _, t := range offsets {
		clock, err := FormatClockTime(t)
		if err != nil {
			continue
		}
		slots = append(slots, Slot{Time: clock, StaffIDs: free[t]})
	}
	return slots
}

func dateRange(from, to string) ([]string, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", from, err)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", to, err)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates, nil
}

func splitDate(date string) (int, time.Month, int, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d.Year(), d.Month(), d.Day(), nil
}

func localMidnightUTC(date, timezone string) time.Time {
	year, month, day, err := splitDate(date)
	if err != nil {
		return time.Time{}
	}
	return LocalWallClockToUTC(year, month, day, 0, 0, timezone)
}
