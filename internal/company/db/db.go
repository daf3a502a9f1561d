// Package db implements the Company store on top of GORM. Every call runs in
// its own session bound to the caller's context.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/companies/internal/company/db/migrations"
	"github.com/gartstein/companies/internal/company/db/models"
	e "github.com/gartstein/companies/internal/company/errors"
	domain "github.com/gartstein/companies/internal/company/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// AutoMigrate applies pending schema migrations when the repository opens.
	AutoMigrate bool
	// ConnectRetries bounds the exponential backoff used while the database comes up.
	ConnectRetries uint64
}

// DSN returns the libpq keyword/value connection string used by GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrationURL returns the postgres:// URL understood by the migration runner.
func (c *Config) MigrationURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

func NewRepository(cfg *Config, logger *zap.Logger) (*Repository, error) {
	if cfg.AutoMigrate {
		if err := migrate(cfg.MigrationURL(), logger); err != nil {
			return nil, err
		}
	}

	var db *gorm.DB
	err := backoff.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			TranslateError: true,
			Logger:         newGormLogger(logger),
		})
		if err != nil {
			logger.Warn("database not ready", zap.Error(err))
		}
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.ConnectRetries))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return newRepository(db, logger), nil
}

func newRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger.Named("company_repository"),
		now:    time.Now,
	}
}

func migrate(databaseURL string, logger *zap.Logger) error {
	m, err := migrations.New(databaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("failed to close migrator", zap.Error(err))
		}
	}()
	if err := m.Up(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CreateCompany inserts a new company, stamping both timestamps with the same
// instant. Uniqueness is enforced by the database only.
func (r *Repository) CreateCompany(ctx context.Context, form *domain.CompanyForm) (*domain.Company, error) {
	row := models.FromForm(form, r.now().Unix())
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, constraintError(err)
	}
	return row.ToDomain(), nil
}

// GetCompany returns the company with the given id, or nil if there is none.
func (r *Repository) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	return r.first(ctx, "id = ?", id)
}

// GetCompanyByName returns the company with the given name, or nil if there is none.
func (r *Repository) GetCompanyByName(ctx context.Context, name string) (*domain.Company, error) {
	return r.first(ctx, "name = ?", name)
}

// GetCompanyByNickname returns the oldest company listing nickname among its
// nicknames, or nil if there is none. The serialized column is only used to
// narrow candidates; membership is decided on the decoded list.
func (r *Repository) GetCompanyByNickname(ctx context.Context, nickname string) (*domain.Company, error) {
	needle, err := json.Marshal(nickname)
	if err != nil {
		return nil, err
	}

	var rows []models.Company
	err = r.db.WithContext(ctx).
		Where(`nicknames LIKE ? ESCAPE '\'`, "%"+escapeLike(string(needle))+"%").
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if rows[i].HasNickname(nickname) {
			return rows[i].ToDomain(), nil
		}
	}
	return nil, nil
}

// ListCompanies returns companies newest first. Errors are logged and yield
// an empty result.
func (r *Repository) ListCompanies(ctx context.Context, opts domain.ListOptions) []domain.Company {
	query := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC")
	if opts.Skip != nil {
		query = query.Offset(*opts.Skip)
	}
	if opts.Limit != nil {
		query = query.Limit(*opts.Limit)
	}

	var rows []models.Company
	if err := query.Find(&rows).Error; err != nil {
		r.logger.Error("failed to list companies", zap.Error(err))
		return []domain.Company{}
	}

	companies := make([]domain.Company, 0, len(rows))
	for i := range rows {
		companies = append(companies, *rows[i].ToDomain())
	}
	return companies
}

// UpdateCompany replaces name, nicknames and description and refreshes
// updated_at. It returns nil if the company does not exist.
func (r *Repository) UpdateCompany(ctx context.Context, id string, form *domain.CompanyForm) (*domain.Company, error) {
	var updated *domain.Company
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Company
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		row.Name = form.Name
		row.Nicknames = form.Nicknames
		row.Description = form.Description
		row.UpdatedAt = max(r.now().Unix(), row.UpdatedAt)

		result := tx.Model(&row).
			Select("name", "nicknames", "description", "updated_at").
			Updates(&row)
		if result.Error != nil {
			return constraintError(result.Error)
		}
		updated = row.ToDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCompany removes the company with the given id and reports whether a
// row was removed.
func (r *Repository) DeleteCompany(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Company{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteAllCompanies removes every company.
func (r *Repository) DeleteAllCompanies(ctx context.Context) (bool, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Company{})
	if result.Error != nil {
		return false, result.Error
	}
	r.logger.Info("deleted all companies", zap.Int64("rows", result.RowsAffected))
	return true, nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger, now: r.now})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func (r *Repository) first(ctx context.Context, query string, args ...interface{}) (*domain.Company, error) {
	var row models.Company
	err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// constraintError tags unique violations so transports can map them; the
// persistence error stays in the chain.
func constraintError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", e.ErrDuplicateCompany, err)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
