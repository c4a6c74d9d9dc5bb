package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/coach-calendar/internal/persistence"
)

// CreateClient inserts a new client row.
func (s *Storage) CreateClient(ctx context.Context, client persistence.Client) error {
	query := `
		INSERT INTO clients (id, name, phone, email, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	var email sql.NullString
	if client.Email != nil {
		email.String = *client.Email
		email.Valid = true
	}

	_, err := s.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Phone,
		email,
		formatTime(client.CreatedAt),
	)
	return mapError(err)
}

// GetClient retrieves a client by ID.
func (s *Storage) GetClient(ctx context.Context, id string) (persistence.Client, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, created_at
		FROM clients WHERE id = ?
	`, id)
	return scanClient(row)
}

// ListClients returns all clients ordered by name.
func (s *Storage) ListClients(ctx context.Context) ([]persistence.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, email, created_at
		FROM clients ORDER BY name, id
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectClients(rows)
}

// SearchClients returns clients whose name or phone contains the query,
// case-insensitively, ordered by name.
func (s *Storage) SearchClients(ctx context.Context, query string) ([]persistence.Client, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, email, created_at
		FROM clients
		WHERE name LIKE ? COLLATE NOCASE OR phone LIKE ?
		ORDER BY name, id
	`, pattern, pattern)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectClients(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (persistence.Client, error) {
	var (
		client    persistence.Client
		email     sql.NullString
		createdAt string
	)
	if err := row.Scan(&client.ID, &client.Name, &client.Phone, &email, &createdAt); err != nil {
		return persistence.Client{}, mapError(err)
	}
	if email.Valid {
		value := email.String
		client.Email = &value
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return persistence.Client{}, err
	}
	client.CreatedAt = created
	return client, nil
}

func collectClients(rows *sql.Rows) ([]persistence.Client, error) {
	clients := make([]persistence.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return clients, nil
}
