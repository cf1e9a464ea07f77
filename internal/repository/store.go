package repository

import (
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/database"
	"github.com/eupolar/eupolar-server/internal/domain"
)

// PostgresStore bundles the repositories over one pool into a domain.Store.
type PostgresStore struct {
	*QuestionnaireRepository
	*LifeChartRepository
	*JournalRepository
	db *database.DB
}

var _ domain.Store = (*PostgresStore)(nil)

// NewPostgresStore creates the PostgreSQL-backed store
func NewPostgresStore(db *database.DB, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{
		QuestionnaireRepository: NewQuestionnaireRepository(db.Pool, logger),
		LifeChartRepository:     NewLifeChartRepository(db.Pool, logger),
		JournalRepository:       NewJournalRepository(db.Pool, logger),
		db:                      db,
	}
}

// Close closes the underlying pool
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
