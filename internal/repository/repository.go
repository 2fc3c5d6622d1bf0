package repository

import (
	"context"
	"database/sql"
	"time"

	"coffee_machine/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type StatusRepo interface {
	Save(ctx context.Context, s models.MachineStatus) error
	Load(ctx context.Context) (models.MachineStatus, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.BrewEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.BrewEvent, error)
}

type Repository struct {
	StatusRepo StatusRepo
	EventRepo  EventRepo
	Auth       Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StatusRepo: NewStatusSQLite(db),
		EventRepo:  NewEventSQLite(db),
		Auth:       NewUserRepository(db),
	}
}
