package city

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/city-management-api/app/observability/metrics"
	"github.com/FACorreiaa/city-management-api/internal/models"
	"github.com/FACorreiaa/city-management-api/internal/types"
)

var _ CityRepository = (*PostgresCityRepository)(nil)

// DBTX is the subset of pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CityRepository interface {
	FindByID(ctx context.Context, id int64) (*models.City, error)
	// FindByNameSubstring matches names containing term, ignoring case,
	// ordered by id.
	FindByNameSubstring(ctx context.Context, term string) ([]models.City, error)
	Insert(ctx context.Context, city models.City) (int64, error)
	// Update changes the mutable fields and returns the stored row.
	Update(ctx context.Context, id int64, params types.UpdateCityRequest) (*models.City, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresCityRepository struct {
	logger *slog.Logger
	db     DBTX
}

func NewCityRepository(db DBTX, logger *slog.Logger) *PostgresCityRepository {
	return &PostgresCityRepository{
		logger: logger,
		db:     db,
	}
}

const cityColumns = `id, name, state, country, tourist_rating, date_established, estimated_population`

func (r *PostgresCityRepository) FindByID(ctx context.Context, id int64) (*models.City, error) {
	start := time.Now()
	query := `SELECT ` + cityColumns + ` FROM cities WHERE id = $1`

	city, err := scanCity(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		observe(ctx, "find_by_id", start, nil)
		return nil, ErrNotFound
	}
	observe(ctx, "find_by_id", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to find city: %w", err)
	}
	return city, nil
}

func (r *PostgresCityRepository) FindByNameSubstring(ctx context.Context, term string) ([]models.City, error) {
	start := time.Now()
	query := `SELECT ` + cityColumns + ` FROM cities WHERE name ILIKE $1 ESCAPE '\' ORDER BY id`

	rows, err := r.db.Query(ctx, query, "%"+escapeLike(term)+"%")
	if err != nil {
		observe(ctx, "find_by_name", start, err)
		return nil, fmt.Errorf("failed to search cities: %w", err)
	}
	defer rows.Close()

	cities := []models.City{}
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			observe(ctx, "find_by_name", start, err)
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		cities = append(cities, *city)
	}
	if err := rows.Err(); err != nil {
		observe(ctx, "find_by_name", start, err)
		return nil, fmt.Errorf("error iterating city rows: %w", err)
	}

	observe(ctx, "find_by_name", start, nil)
	r.logger.DebugContext(ctx, "Cities matched by name", slog.String("term", term), slog.Int("count", len(cities)))
	return cities, nil
}

func (r *PostgresCityRepository) Insert(ctx context.Context, city models.City) (int64, error) {
	start := time.Now()
	query := `
        INSERT INTO cities (
            name, state, country, tourist_rating, date_established, estimated_population
        ) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query,
		city.Name, city.State, city.Country, city.TouristRating, city.DateEstablished, city.EstimatedPopulation,
	).Scan(&id)
	observe(ctx, "insert", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert city: %w", err)
	}
	return id, nil
}

func (r *PostgresCityRepository) Update(ctx context.Context, id int64, params types.UpdateCityRequest) (*models.City, error) {
	start := time.Now()
	query := `
        UPDATE cities
        SET tourist_rating = $2, date_established = $3, estimated_population = $4, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + cityColumns

	city, err := scanCity(r.db.QueryRow(ctx, query, id, params.TouristRating, params.DateEstablished, params.EstimatedPopulation))
	if errors.Is(err, pgx.ErrNoRows) {
		observe(ctx, "update", start, nil)
		return nil, ErrNotFound
	}
	observe(ctx, "update", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update city: %w", err)
	}
	return city, nil
}

func (r *PostgresCityRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id)
	observe(ctx, "delete", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete city: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCity(row pgx.Row) (*models.City, error) {
	var c models.City
	if err := row.Scan(
		&c.ID, &c.Name, &c.State, &c.Country, &c.TouristRating, &c.DateEstablished, &c.EstimatedPopulation,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside an ILIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func observe(ctx context.Context, op string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("operation", op), attribute.String("table", "cities"))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
