package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories bundles all persistence repositories.
type Repositories struct {
	Users    *UserRepository
	Settings *SettingsRepository
	Reports  *ReportRepository
}

// NewRepositories creates all repositories sharing one pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(pool),
		Settings: NewSettingsRepository(pool),
		Reports:  NewReportRepository(pool),
	}
}
