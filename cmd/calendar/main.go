package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/coach-calendar/internal/application"
	"github.com/example/coach-calendar/internal/config"
	httptransport "github.com/example/coach-calendar/internal/http"
	"github.com/example/coach-calendar/internal/logging"
	"github.com/example/coach-calendar/internal/persistence"
	"github.com/example/coach-calendar/internal/persistence/memory"
	"github.com/example/coach-calendar/internal/persistence/sqlite"
	"github.com/example/coach-calendar/internal/recurrence"
)

type storage interface {
	persistence.ClientRepository
	persistence.BookingRepository
	Close() error
}

func main() {
	bootstrap := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	store := openStorage(cfg, logger)
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	idGenerator := uuid.NewString
	now := time.Now
	expander := recurrence.NewExpander(cfg.Timezone)

	clientRepo := newClientRepositoryAdapter(store)
	bookingRepo := newBookingRepositoryAdapter(store)

	clientService := application.NewClientServiceWithLogger(clientRepo, idGenerator, now, logger)
	bookingService := application.NewBookingServiceWithLogger(bookingRepo, clientRepo, expander, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Clients:  httptransport.NewClientHandler(clientService, logger),
		Bookings: httptransport.NewBookingHandler(bookingService, cfg.Timezone, logger),
		Calendar: httptransport.NewCalendarHandler(bookingService, cfg.Timezone, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("calendar API listening", "addr", server.Addr, "storage", cfg.Storage)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// openStorage opens the configured backend. When SQLite cannot be opened the
// process falls back to the seeded in-memory store so the calendar stays
// usable for demos and local work.
func openStorage(cfg config.Config, logger *slog.Logger) storage {
	if cfg.Storage == config.StorageSQLite {
		store, err := sqlite.Open(cfg.SQLiteDSN, cfg.Timezone)
		if err == nil {
			if err = store.Migrate(context.Background()); err != nil {
				_ = store.Close()
			}
		}
		if err == nil {
			return store
		}
		logger.Warn("sqlite storage unavailable, falling back to in-memory store", "dsn", cfg.SQLiteDSN, "error", err)
	}

	return memory.Open(
		memory.WithLocation(cfg.Timezone),
		memory.WithSeedClients(memory.DefaultClients(time.Now())),
	)
}

type clientRepositoryAdapter struct {
	repo persistence.ClientRepository
}

func newClientRepositoryAdapter(repo persistence.ClientRepository) *clientRepositoryAdapter {
	return &clientRepositoryAdapter{repo: repo}
}

func (a *clientRepositoryAdapter) CreateClient(ctx context.Context, client application.Client) (application.Client, error) {
	if err := a.repo.CreateClient(ctx, toPersistenceClient(client)); err != nil {
		return application.Client{}, err
	}
	stored, err := a.repo.GetClient(ctx, client.ID)
	if err != nil {
		return application.Client{}, err
	}
	return toApplicationClient(stored), nil
}

func (a *clientRepositoryAdapter) GetClient(ctx context.Context, id string) (application.Client, error) {
	stored, err := a.repo.GetClient(ctx, id)
	if err != nil {
		return application.Client{}, err
	}
	return toApplicationClient(stored), nil
}

func (a *clientRepositoryAdapter) ListClients(ctx context.Context) ([]application.Client, error) {
	stored, err := a.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationClients(stored), nil
}

func (a *clientRepositoryAdapter) SearchClients(ctx context.Context, query string) ([]application.Client, error) {
	stored, err := a.repo.SearchClients(ctx, query)
	if err != nil {
		return nil, err
	}
	return toApplicationClients(stored), nil
}

type bookingRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newBookingRepositoryAdapter(repo persistence.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) InsertBooking(ctx context.Context, booking application.Booking) error {
	return a.repo.InsertBooking(ctx, toPersistenceBooking(booking))
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, id string) (application.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) DeleteBooking(ctx context.Context, id string) error {
	return a.repo.DeleteBooking(ctx, id)
}

func (a *bookingRepositoryAdapter) ListAllBookings(ctx context.Context) ([]application.Booking, error) {
	stored, err := a.repo.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationBookings(stored), nil
}

func (a *bookingRepositoryAdapter) ListBookingsByDate(ctx context.Context, day time.Time) ([]application.Booking, error) {
	stored, err := a.repo.ListBookingsByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	return toApplicationBookings(stored), nil
}

func (a *bookingRepositoryAdapter) ListRecurringBookings(ctx context.Context) ([]application.Booking, error) {
	stored, err := a.repo.ListRecurringBookings(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationBookings(stored), nil
}

func toApplicationClient(client persistence.Client) application.Client {
	email := ""
	if client.Email != nil {
		email = *client.Email
	}
	return application.Client{
		ID:        client.ID,
		Name:      client.Name,
		Phone:     client.Phone,
		Email:     email,
		CreatedAt: client.CreatedAt,
	}
}

func toApplicationClients(clients []persistence.Client) []application.Client {
	out := make([]application.Client, 0, len(clients))
	for _, client := range clients {
		out = append(out, toApplicationClient(client))
	}
	return out
}

func toPersistenceClient(client application.Client) persistence.Client {
	var email *string
	if client.Email != "" {
		value := client.Email
		email = &value
	}
	return persistence.Client{
		ID:        client.ID,
		Name:      client.Name,
		Phone:     client.Phone,
		Email:     email,
		CreatedAt: client.CreatedAt,
	}
}

func toApplicationBooking(booking persistence.Booking) application.Booking {
	return application.Booking{
		ID:          booking.ID,
		ClientID:    booking.ClientID,
		ClientName:  booking.ClientName,
		ClientPhone: booking.ClientPhone,
		CallType:    application.CallType(booking.CallType),
		AnchorAt:    booking.AnchorAt,
		SlotTime:    booking.SlotTime,
		IsRecurring: booking.IsRecurring,
		CreatedAt:   booking.CreatedAt,
	}
}

func toApplicationBookings(bookings []persistence.Booking) []application.Booking {
	out := make([]application.Booking, 0, len(bookings))
	for _, booking := range bookings {
		out = append(out, toApplicationBooking(booking))
	}
	return out
}

func toPersistenceBooking(booking application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:          booking.ID,
		ClientID:    booking.ClientID,
		ClientName:  booking.ClientName,
		ClientPhone: booking.ClientPhone,
		CallType:    string(booking.CallType),
		AnchorAt:    booking.AnchorAt,
		SlotTime:    booking.SlotTime,
		IsRecurring: booking.IsRecurring,
		CreatedAt:   booking.CreatedAt,
	}
}
