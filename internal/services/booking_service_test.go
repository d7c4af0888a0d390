package services

import (
	"errors"
	"testing"
	"time"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
)

func TestValidateStatusTransitionMatrix(t *testing.T) {
	cases := []struct {
		current string
		next    string
		wantOK  bool
	}{
		{"pending", "confirmed", true},
		{"pending", "rejected", true},
		{"pending", "completed", false},
		{"confirmed", "completed", true},
		{"confirmed", "rejected", false},
		{"confirmed", "confirmed", false},
		{"rejected", "confirmed", false},
		{"rejected", "completed", false},
		{"completed", "confirmed", false},
		{"completed", "completed", false},
	}

	for _, tc := range cases {
		err := validateStatusTransition(tc.current, tc.next)
		if tc.wantOK && err != nil {
			t.Errorf("%s -> %s: expected allowed, got %v", tc.current, tc.next, err)
		}
		if !tc.wantOK && !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", tc.current, tc.next, err)
		}
	}
}

func TestNormalizeRequestedStatusAcceptsSynonyms(t *testing.T) {
	cases := map[string]string{
		"confirm":    "confirmed",
		"Confirmed":  "confirmed",
		" reject ":   "rejected",
		"rejected":   "rejected",
		"complete":   "completed",
		"COMPLETED":  "completed",
	}
	for raw, want := range cases {
		got, err := normalizeRequestedStatus(raw)
		if err != nil {
			t.Errorf("normalizeRequestedStatus(%q): %v", raw, err)
			continue
		}
		if got != want {
			t.Errorf("normalizeRequestedStatus(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := normalizeRequestedStatus("cancelled"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus for unknown status, got %v", err)
	}
	if _, err := normalizeRequestedStatus("pending"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus for pending, got %v", err)
	}
}

func TestValidateCreateBookingInput(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	valid := CreateBookingInput{
		MentorID:     7,
		SessionDate:  "2026-09-10",
		TimeSlot:     "10:00-11:00",
		SessionType:  "individual",
		StudentName:  "Asha Rao",
		StudentEmail: "asha@example.edu",
	}

	if err := validateCreateBookingInput(valid, now); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	sameDay := valid
	sameDay.SessionDate = "2026-09-01"
	if err := validateCreateBookingInput(sameDay, now); err != nil {
		t.Fatalf("expected same-day booking to be allowed, got %v", err)
	}

	mutations := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"zero mentor", func(in *CreateBookingInput) { in.MentorID = 0 }},
		{"bad date format", func(in *CreateBookingInput) { in.SessionDate = "10-09-2026" }},
		{"past date", func(in *CreateBookingInput) { in.SessionDate = "2026-08-31" }},
		{"unknown slot", func(in *CreateBookingInput) { in.TimeSlot = "12:00-13:00" }},
		{"unknown type", func(in *CreateBookingInput) { in.SessionType = "workshop" }},
		{"blank name", func(in *CreateBookingInput) { in.StudentName = "  " }},
		{"blank email", func(in *CreateBookingInput) { in.StudentEmail = "" }},
	}
	for _, tc := range mutations {
		input := valid
		tc.mutate(&input)
		if err := validateCreateBookingInput(input, now); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestFindSlotConflictIndividualHoldBlocksEverything(t *testing.T) {
	held := []models.Booking{
		{ID: 1, SessionType: "individual", Status: "pending"},
	}

	if conflict := findSlotConflict("individual", held, 8); conflict == nil || conflict.ID != 1 {
		t.Fatalf("expected individual request to conflict, got %+v", conflict)
	}
	if conflict := findSlotConflict("group", held, 8); conflict == nil || conflict.ID != 1 {
		t.Fatalf("expected group request to conflict with individual hold, got %+v", conflict)
	}
}

func TestFindSlotConflictGroupRules(t *testing.T) {
	twoGroups := []models.Booking{
		{ID: 2, SessionType: "group"},
		{ID: 3, SessionType: "group"},
	}

	if conflict := findSlotConflict("individual", twoGroups, 8); conflict == nil {
		t.Fatal("expected individual request to conflict with group holds")
	}
	if conflict := findSlotConflict("group", twoGroups, 8); conflict != nil {
		t.Fatalf("expected group join to be allowed under capacity, got %+v", conflict)
	}
	if conflict := findSlotConflict("group", twoGroups, 2); conflict == nil {
		t.Fatal("expected group request to conflict at capacity")
	}
	if conflict := findSlotConflict("individual", nil, 8); conflict != nil {
		t.Fatalf("expected empty slot to be free, got %+v", conflict)
	}
}

func TestBuildAvailabilityEmptyDayListsEverySlot(t *testing.T) {
	slots := buildAvailability([]int64{7}, "2026-09-10", "individual", nil, 8)

	if len(slots) != len(models.TimeSlots) {
		t.Fatalf("expected %d slots, got %d", len(models.TimeSlots), len(slots))
	}
	for i, slot := range slots {
		if slot.TimeSlot != models.TimeSlots[i] {
			t.Fatalf("expected slots in catalog order, got %q at %d", slot.TimeSlot, i)
		}
		if slot.OpenSpots != 1 {
			t.Fatalf("expected 1 open spot for individual, got %d", slot.OpenSpots)
		}
	}
}

func TestBuildAvailabilityConfirmedIndividualRemovesSlot(t *testing.T) {
	confirmed := []models.Booking{
		{MentorID: 7, TimeSlot: "10:00-11:00", SessionType: "individual", Status: "confirmed"},
	}

	slots := buildAvailability([]int64{7}, "2026-09-10", "individual", confirmed, 8)
	if len(slots) != len(models.TimeSlots)-1 {
		t.Fatalf("expected %d slots, got %d", len(models.TimeSlots)-1, len(slots))
	}
	for _, slot := range slots {
		if slot.TimeSlot == "10:00-11:00" {
			t.Fatal("expected confirmed slot to be omitted")
		}
	}
}

func TestBuildAvailabilityGroupCapacityMath(t *testing.T) {
	confirmed := []models.Booking{
		{MentorID: 7, TimeSlot: "09:00-10:00", SessionType: "group", Status: "confirmed"},
		{MentorID: 7, TimeSlot: "09:00-10:00", SessionType: "group", Status: "confirmed"},
		{MentorID: 7, TimeSlot: "09:00-10:00", SessionType: "group", Status: "confirmed"},
	}

	slots := buildAvailability([]int64{7}, "2026-09-10", "group", confirmed, 8)
	var first *models.SlotAvailability
	for i := range slots {
		if slots[i].TimeSlot == "09:00-10:00" {
			first = &slots[i]
			break
		}
	}
	if first == nil {
		t.Fatal("expected partially filled group slot to remain open")
	}
	if first.OpenSpots != 5 {
		t.Fatalf("expected 5 open spots, got %d", first.OpenSpots)
	}

	// An individual request cannot use a slot with confirmed group sessions.
	individualSlots := buildAvailability([]int64{7}, "2026-09-10", "individual", confirmed, 8)
	for _, slot := range individualSlots {
		if slot.TimeSlot == "09:00-10:00" {
			t.Fatal("expected group-held slot to be closed for individual requests")
		}
	}

	// At capacity the group slot disappears too.
	full := make([]models.Booking, 8)
	for i := range full {
		full[i] = models.Booking{MentorID: 7, TimeSlot: "09:00-10:00", SessionType: "group", Status: "confirmed"}
	}
	fullSlots := buildAvailability([]int64{7}, "2026-09-10", "group", full, 8)
	for _, slot := range fullSlots {
		if slot.TimeSlot == "09:00-10:00" {
			t.Fatal("expected full group slot to be omitted")
		}
	}
}

func TestBuildAvailabilityCoversEveryMentor(t *testing.T) {
	confirmed := []models.Booking{
		{MentorID: 7, TimeSlot: "10:00-11:00", SessionType: "individual", Status: "confirmed"},
	}

	slots := buildAvailability([]int64{7, 8}, "2026-09-10", "individual", confirmed, 8)
	want := 2*len(models.TimeSlots) - 1
	if len(slots) != want {
		t.Fatalf("expected %d slots, got %d", want, len(slots))
	}
	for _, slot := range slots {
		if slot.MentorID == 8 && slot.OpenSpots != 1 {
			t.Fatalf("expected mentor 8 unaffected, got %+v", slot)
		}
	}
}

func TestCanAccessBooking(t *testing.T) {
	booking := &models.Booking{ID: 1, StudentID: 42, MentorID: 7}

	if !canAccessBooking(models.RoleStudent, 42, booking) {
		t.Fatal("expected owning student to have access")
	}
	if canAccessBooking(models.RoleStudent, 43, booking) {
		t.Fatal("expected other students to be denied")
	}
	if !canAccessBooking(models.RoleAdmin, 99, booking) {
		t.Fatal("expected any admin to have access")
	}
	if canAccessBooking(models.RoleVolunteer, 42, booking) {
		t.Fatal("expected volunteers to be denied")
	}
}

func TestTransitionEventKey(t *testing.T) {
	if key := transitionEventKey(models.BookingStatusConfirmed); key == "" {
		t.Fatal("expected event key for confirmed")
	}
	if key := transitionEventKey(models.BookingStatusPending); key != "" {
		t.Fatalf("expected no event key for pending, got %q", key)
	}
}
