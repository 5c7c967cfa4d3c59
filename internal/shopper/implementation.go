// internal/shopper/implementation.go
package shopper

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"costumier/pkg/eventstore"
)

// service implements the Service interface.
type service struct {
	eventStore  *eventstore.EventStore
	db          *sql.DB
	rateLimiter *rate.Limiter
}

// NewService creates a new shopper service instance.
func NewService(es *eventstore.EventStore, db *sql.DB) Service {
	return &service{
		eventStore:  es,
		db:          db,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 requests per minute
	}
}

// RegisterShopper creates a new shopper account.
func (s *service) RegisterShopper(ctx context.Context, email, name, password string) (*Shopper, error) {
	if !s.rateLimiter.Allow() {
		return nil, fmt.Errorf("rate limit exceeded")
	}

	id := uuid.New()
	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	eventData := ShopperRegisteredEvent{
		ID:    id,
		Email: email,
		Name:  name,
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "shopper",
		EventType:     "ShopperRegistered",
		EventData:     jsonData,
		Version:       1,
	}

	if err := s.eventStore.AppendEvents(ctx, id, "shopper", 0, []eventstore.Event{event}); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	shopper := &Shopper{
		ID:     id,
		Email:  email,
		Name:   name,
		Status: "active",
	}
	credential := &Credential{
		ShopperID:    id,
		PasswordHash: passwordHash,
		Salt:         salt,
	}

	if err := s.insertShopperIntoReadModel(ctx, shopper, credential); err != nil {
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}

	return shopper, nil
}

func (s *service) insertShopperIntoReadModel(ctx context.Context, shopper *Shopper, credential *Credential) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	shopperQuery := `
		INSERT INTO shoppers (id, email, name, status)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, shopperQuery, shopper.ID, shopper.Email, shopper.Name, shopper.Status)
	if err != nil {
		return err
	}

	credQuery := `
		INSERT INTO credentials (shopper_id, password_hash, salt)
		VALUES ($1, $2, $3)
	`
	_, err = tx.ExecContext(ctx, credQuery, credential.ShopperID, credential.PasswordHash, credential.Salt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Authenticate verifies a shopper's credentials and returns the shopper if successful.
func (s *service) Authenticate(ctx context.Context, email, password string) (*Shopper, error) {
	if !s.rateLimiter.Allow() {
		return nil, fmt.Errorf("rate limit exceeded")
	}

	shopper, err := s.getShopperByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	credential, err := s.getCredentialByShopperID(ctx, shopper.ID)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	ok, err := verifyPassword(password, credential.Salt, credential.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("authentication failed: invalid credentials")
	}

	return shopper, nil
}

func (s *service) getShopperByEmail(ctx context.Context, email string) (*Shopper, error) {
	query := `
		SELECT id, email, name, preferred_size, status
		FROM shoppers
		WHERE email = $1
	`
	shopper := &Shopper{}
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&shopper.ID,
		&shopper.Email,
		&shopper.Name,
		&shopper.PreferredSize,
		&shopper.Status,
	)
	if err != nil {
		return nil, err
	}
	return shopper, nil
}

func (s *service) getCredentialByShopperID(ctx context.Context, shopperID uuid.UUID) (*Credential, error) {
	query := `
		SELECT shopper_id, password_hash, salt
		FROM credentials
		WHERE shopper_id = $1
	`
	credential := &Credential{}
	err := s.db.QueryRowContext(ctx, query, shopperID).Scan(
		&credential.ShopperID,
		&credential.PasswordHash,
		&credential.Salt,
	)
	if err != nil {
		return nil, err
	}
	return credential, nil
}

// GetShopper retrieves a shopper by their ID.
func (s *service) GetShopper(ctx context.Context, id uuid.UUID) (*Shopper, error) {
	query := `
		SELECT id, email, name, preferred_size, status, version
		FROM shoppers
		WHERE id = $1
	`
	shopper := &Shopper{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&shopper.ID,
		&shopper.Email,
		&shopper.Name,
		&shopper.PreferredSize,
		&shopper.Status,
		&shopper.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("shopper with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get shopper from read model: %w", err)
	}

	return shopper, nil
}

// UpdatePreferredSize updates a shopper's preferred costume size.
func (s *service) UpdatePreferredSize(ctx context.Context, id uuid.UUID, newSize string) error {
	shopper, err := s.GetShopper(ctx, id)
	if err != nil {
		return err
	}

	eventData := ShopperSizeChangedEvent{
		ID:      id,
		NewSize: newSize,
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "shopper",
		EventType:     "ShopperSizeChanged",
		EventData:     jsonData,
		Version:       shopper.Version + 1,
	}

	if err := s.eventStore.AppendEvents(ctx, id, "shopper", shopper.Version, []eventstore.Event{event}); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	query := `
		UPDATE shoppers
		SET preferred_size = $1, version = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err = s.db.ExecContext(ctx, query, newSize, shopper.Version+1, id)
	return err
}
