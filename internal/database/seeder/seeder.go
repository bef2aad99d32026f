package seeder

import (
	"context"

	"skillsync/internal/database"

	"github.com/google/uuid"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// namespace keeps demo row IDs stable across runs so re-seeding is a no-op.
var namespace = uuid.MustParse("5d1c3a7e-8f0b-4c6e-9a2d-7b4e1f0c9a31")

func stableID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(kind+":"+key))
}
