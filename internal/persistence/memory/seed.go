package memory

import (
	"time"

	"github.com/example/coach-calendar/internal/persistence"
)

// DefaultClients returns the built-in client directory used when the
// durable store is unreachable and no real directory has been loaded.
func DefaultClients(createdAt time.Time) []persistence.Client {
	entries := []struct {
		name  string
		phone string
		email string
	}{
		{"Sriram Kumar", "+91-9876543210", "sriram@example.com"},
		{"Shilpa Sharma", "+91-9876543211", "shilpa@example.com"},
		{"Rahul Gupta", "+91-9876543212", "rahul@example.com"},
		{"Priya Patel", "+91-9876543213", "priya@example.com"},
		{"Amit Singh", "+91-9876543214", "amit@example.com"},
		{"Neha Agarwal", "+91-9876543215", "neha@example.com"},
		{"Vikram Rao", "+91-9876543216", "vikram@example.com"},
		{"Kavya Reddy", "+91-9876543217", "kavya@example.com"},
		{"Arjun Mehta", "+91-9876543218", "arjun@example.com"},
		{"Deepika Jain", "+91-9876543219", "deepika@example.com"},
		{"Rohit Verma", "+91-9876543220", "rohit@example.com"},
		{"Ananya Das", "+91-9876543221", "ananya@example.com"},
		{"Karthik Nair", "+91-9876543222", "karthik@example.com"},
		{"Pooja Iyer", "+91-9876543223", "pooja@example.com"},
		{"Suresh Pillai", "+91-9876543224", "suresh@example.com"},
		{"Meera Krishnan", "+91-9876543225", "meera@example.com"},
		{"Rajesh Khanna", "+91-9876543226", "rajesh@example.com"},
		{"Sneha Malhotra", "+91-9876543227", "sneha@example.com"},
		{"Manoj Tiwari", "+91-9876543228", "manoj@example.com"},
		{"Ritu Bansal", "+91-9876543229", "ritu@example.com"},
	}

	clients := make([]persistence.Client, 0, len(entries))
	for i, entry := range entries {
		email := entry.email
		clients = append(clients, persistence.Client{
			ID:        seedClientID(i + 1),
			Name:      entry.name,
			Phone:     entry.phone,
			Email:     &email,
			CreatedAt: createdAt,
		})
	}
	return clients
}

func seedClientID(n int) string {
	const digits = "0123456789"
	if n < 10 {
		return "seed-client-0" + string(digits[n])
	}
	return "seed-client-" + string(digits[n/10]) + string(digits[n%10])
}
