package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/coach-calendar/internal/persistence"
)

// ClientRepository captures the persistence interactions needed by the
// client directory service.
type ClientRepository interface {
	CreateClient(ctx context.Context, client Client) (Client, error)
	GetClient(ctx context.Context, id string) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	SearchClients(ctx context.Context, query string) ([]Client, error)
}

// ClientService manages the coach's client directory.
type ClientService struct {
	clients     ClientRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewClientService wires dependencies for client directory operations.
func NewClientService(clients ClientRepository, idGenerator func() string, now func() time.Time) *ClientService {
	return NewClientServiceWithLogger(clients, idGenerator, now, nil)
}

// NewClientServiceWithLogger wires dependencies for client directory
// operations with an explicit base logger.
func NewClientServiceWithLogger(clients ClientRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ClientService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ClientService{
		clients:     clients,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateClient validates the input and persists a new directory entry.
func (s *ClientService) CreateClient(ctx context.Context, input ClientInput) (Client, error) {
	if s == nil || s.clients == nil {
		return Client{}, fmt.Errorf("client repository not configured")
	}

	vErr := &ValidationError{}
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		vErr.add("name", "name is required")
	}
	if phone == "" {
		vErr.add("phone", "phone is required")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			vErr.add("email", "email is invalid")
		}
	}
	if vErr.HasErrors() {
		return Client{}, vErr
	}

	client := Client{
		ID:        s.idGenerator(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: s.now(),
	}

	persisted, err := s.clients.CreateClient(ctx, client)
	if err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			dupErr := &ValidationError{}
			dupErr.add("phone", "phone is already registered")
			return Client{}, dupErr
		}
		return Client{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "clients", "create", "client_id", persisted.ID).
		InfoContext(ctx, "client created")
	return persisted, nil
}

// GetClient retrieves a single directory entry.
func (s *ClientService) GetClient(ctx context.Context, id string) (Client, error) {
	if s == nil || s.clients == nil {
		return Client{}, fmt.Errorf("client repository not configured")
	}
	client, err := s.clients.GetClient(ctx, id)
	if err != nil {
		return Client{}, mapStoreError(err)
	}
	return client, nil
}

// ListClients returns the directory ordered by name.
func (s *ClientService) ListClients(ctx context.Context) ([]Client, error) {
	if s == nil || s.clients == nil {
		return nil, fmt.Errorf("client repository not configured")
	}
	clients, err := s.clients.ListClients(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return clients, nil
}

// SearchClients returns clients whose name or phone matches the query.
func (s *ClientService) SearchClients(ctx context.Context, query string) ([]Client, error) {
	if s == nil || s.clients == nil {
		return nil, fmt.Errorf("client repository not configured")
	}
	clients, err := s.clients.SearchClients(ctx, query)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return clients, nil
}
