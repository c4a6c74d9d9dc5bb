package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/coach-calendar/internal/persistence"
)

func testClient(id, name, phone string) persistence.Client {
	return persistence.Client{
		ID:        id,
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC),
	}
}

func testBooking(id, slot string, anchor time.Time, recurring bool) persistence.Booking {
	return persistence.Booking{
		ID:          id,
		ClientID:    "client-1",
		ClientName:  "Priya Patel",
		ClientPhone: "+91-9876543213",
		CallType:    "follow-up",
		AnchorAt:    anchor,
		SlotTime:    slot,
		IsRecurring: recurring,
		CreatedAt:   anchor,
	}
}

func TestClientCRUD(t *testing.T) {
	ctx := context.Background()
	store := Open()

	if err := store.CreateClient(ctx, testClient("c1", "Priya Patel", "+91-9876543213")); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if err := store.CreateClient(ctx, testClient("c1", "Other", "+91-0000000000")); !errors.Is(err, persistence.ErrDuplicate) {
		t.Errorf("duplicate id: got %v, want ErrDuplicate", err)
	}
	if err := store.CreateClient(ctx, testClient("c2", "Other", "+91-9876543213")); !errors.Is(err, persistence.ErrDuplicate) {
		t.Errorf("duplicate phone: got %v, want ErrDuplicate", err)
	}

	client, err := store.GetClient(ctx, "c1")
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}
	if client.Name != "Priya Patel" {
		t.Errorf("unexpected client: %+v", client)
	}
	if _, err := store.GetClient(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("missing client: got %v, want ErrNotFound", err)
	}
}

func TestListClientsOrderedByName(t *testing.T) {
	ctx := context.Background()
	store := Open()
	for _, c := range []persistence.Client{
		testClient("c1", "Vikram Rao", "+91-1"),
		testClient("c2", "Amit Singh", "+91-2"),
		testClient("c3", "Neha Agarwal", "+91-3"),
	} {
		if err := store.CreateClient(ctx, c); err != nil {
			t.Fatalf("CreateClient: %v", err)
		}
	}

	clients, err := store.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	want := []string{"Amit Singh", "Neha Agarwal", "Vikram Rao"}
	for i, name := range want {
		if clients[i].Name != name {
			t.Errorf("clients[%d] = %s, want %s", i, clients[i].Name, name)
		}
	}
}

func TestSearchClients(t *testing.T) {
	ctx := context.Background()
	store := Open(WithSeedClients(DefaultClients(time.Now())))

	byName, err := store.SearchClients(ctx, "priya")
	if err != nil {
		t.Fatalf("SearchClients: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Priya Patel" {
		t.Errorf("search by name: %+v", byName)
	}

	byPhone, err := store.SearchClients(ctx, "9876543219")
	if err != nil {
		t.Fatalf("SearchClients: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].Name != "Deepika Jain" {
		t.Errorf("search by phone: %+v", byPhone)
	}

	all, err := store.SearchClients(ctx, "")
	if err != nil {
		t.Fatalf("SearchClients: %v", err)
	}
	if len(all) != 20 {
		t.Errorf("blank query should list the whole directory, got %d", len(all))
	}
}

func TestBookingQueries(t *testing.T) {
	ctx := context.Background()
	store := Open()
	wednesday := time.Date(2024, time.June, 5, 0, 0, 0, 0, ist)

	direct := testBooking("b1", "10:30", wednesday, false)
	recurring := testBooking("b2", "13:00", wednesday, true)
	otherDay := testBooking("b3", "10:30", wednesday.AddDate(0, 0, 1), false)
	for _, b := range []persistence.Booking{direct, recurring, otherDay} {
		if err := store.InsertBooking(ctx, b); err != nil {
			t.Fatalf("InsertBooking(%s): %v", b.ID, err)
		}
	}

	byDate, err := store.ListBookingsByDate(ctx, wednesday)
	if err != nil {
		t.Fatalf("ListBookingsByDate: %v", err)
	}
	if len(byDate) != 1 || byDate[0].ID != "b1" {
		t.Errorf("ListBookingsByDate = %+v, want only b1", byDate)
	}

	recurringList, err := store.ListRecurringBookings(ctx)
	if err != nil {
		t.Fatalf("ListRecurringBookings: %v", err)
	}
	if len(recurringList) != 1 || recurringList[0].ID != "b2" {
		t.Errorf("ListRecurringBookings = %+v, want only b2", recurringList)
	}

	all, err := store.ListAllBookings(ctx)
	if err != nil {
		t.Fatalf("ListAllBookings: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAllBookings returned %d bookings, want 3", len(all))
	}
}

func TestInsertBookingSlotBackstop(t *testing.T) {
	ctx := context.Background()
	store := Open()
	wednesday := time.Date(2024, time.June, 5, 0, 0, 0, 0, ist)

	if err := store.InsertBooking(ctx, testBooking("b1", "10:30", wednesday, false)); err != nil {
		t.Fatalf("InsertBooking: %v", err)
	}
	err := store.InsertBooking(ctx, testBooking("b2", "10:30", wednesday, false))
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Errorf("same day and slot: got %v, want ErrDuplicate", err)
	}
	if err := store.InsertBooking(ctx, testBooking("b3", "10:50", wednesday, false)); err != nil {
		t.Errorf("different slot should insert: %v", err)
	}
}

func TestDeleteBooking(t *testing.T) {
	ctx := context.Background()
	store := Open()
	wednesday := time.Date(2024, time.June, 5, 0, 0, 0, 0, ist)

	if err := store.InsertBooking(ctx, testBooking("b1", "10:30", wednesday, false)); err != nil {
		t.Fatalf("InsertBooking: %v", err)
	}
	if err := store.DeleteBooking(ctx, "b1"); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	if err := store.DeleteBooking(ctx, "b1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
	if _, err := store.GetBooking(ctx, "b1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("deleted booking still retrievable: %v", err)
	}
}

func TestUpdateBooking(t *testing.T) {
	ctx := context.Background()
	store := Open()
	wednesday := time.Date(2024, time.June, 5, 0, 0, 0, 0, ist)

	booking := testBooking("b1", "10:30", wednesday, false)
	if err := store.InsertBooking(ctx, booking); err != nil {
		t.Fatalf("InsertBooking: %v", err)
	}

	booking.SlotTime = "11:10"
	if err := store.UpdateBooking(ctx, booking); err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}
	stored, err := store.GetBooking(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if stored.SlotTime != "11:10" {
		t.Errorf("SlotTime = %s, want 11:10", stored.SlotTime)
	}

	if err := store.UpdateBooking(ctx, testBooking("missing", "10:30", wednesday, false)); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("update of missing booking: got %v, want ErrNotFound", err)
	}
}
