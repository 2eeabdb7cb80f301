package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/paltattoo/paltattoo-backend/internal/models"
)

// ErrUserNotFound se devuelve cuando el usuario no existe.
var ErrUserNotFound = errors.New("user not found")

// UserRepository trabaja con las tablas users, profiles y user_sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository crea una instancia del repositorio.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create registra un usuario nuevo.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, role, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail devuelve el usuario por email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, password_hash, role, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// GetByID devuelve el usuario por identificador.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, password_hash, role, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// UpsertProfile crea o actualiza el perfil del usuario.
func (r *UserRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, phone, bio, comuna, region, instagram, avatar_path, studio_name, styles, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			bio = EXCLUDED.bio,
			comuna = EXCLUDED.comuna,
			region = EXCLUDED.region,
			instagram = EXCLUDED.instagram,
			avatar_path = EXCLUDED.avatar_path,
			studio_name = EXCLUDED.studio_name,
			styles = EXCLUDED.styles,
			updated_at = NOW()
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.Phone,
		profile.Bio,
		profile.Comuna,
		profile.Region,
		profile.Instagram,
		profile.AvatarPath,
		profile.StudioName,
		pq.Array([]string(profile.Styles)),
	).Scan(&profile.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: upsert profile %w", err)
	}

	return nil
}

// GetProfile devuelve el perfil del usuario.
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT * FROM profiles WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get profile %w", err)
	}

	return &profile, nil
}

// UpdateAvatarPath guarda la ruta del avatar subido.
func (r *UserRepository) UpdateAvatarPath(ctx context.Context, userID uuid.UUID, path string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET avatar_path = $2, updated_at = NOW() WHERE user_id = $1`, userID, path)
	if err != nil {
		return fmt.Errorf("user repository: update avatar path %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repository: update avatar path rows affected %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreateSession guarda una nueva sesión del usuario.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		session.UserID,
		session.RefreshToken,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}

	return nil
}

// GetSessionByToken devuelve la sesión vigente asociada al refresh token.
func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	query := `
		SELECT id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at
		FROM user_sessions
		WHERE refresh_token = $1 AND expires_at > NOW()
	`
	if err := r.db.GetContext(ctx, &session, query, refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get session by token %w", err)
	}
	return &session, nil
}

// DeleteSession elimina la sesión por refresh token.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}

	return nil
}

// UpdateLastLoginAt actualiza la hora del último ingreso.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("user repository: update last login at %w", err)
	}

	return nil
}

// GetUserStats arma las estadísticas del perfil público. Los contadores
// salen siempre del conjunto completo de filas, nunca de un listado filtrado.
func (r *UserRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (*models.PublicProfileStats, error) {
	stats := &models.PublicProfileStats{}

	// Ofertas completadas donde el usuario participó como cliente o como
	// tatuador con propuesta aceptada.
	completedQuery := `
		SELECT COUNT(DISTINCT o.id)
		FROM offers o
		WHERE o.status = 'completed'
		  AND (o.client_id = $1 OR EXISTS (
			SELECT 1 FROM proposals p
			WHERE p.offer_id = o.id AND p.artist_id = $1 AND p.status = 'accepted'
		  ))
	`
	if err := r.db.GetContext(ctx, &stats.CompletedOffers, completedQuery, userID); err != nil {
		return nil, fmt.Errorf("user repository: completed offers %w", err)
	}

	ratingQuery := `
		SELECT COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_ratings
		FROM ratings
		WHERE rated_id = $1
	`
	if err := r.db.QueryRowContext(ctx, ratingQuery, userID).Scan(&stats.AverageRating, &stats.TotalRatings); err != nil {
		return nil, fmt.Errorf("user repository: rating stats %w", err)
	}

	// Redondeamos el promedio a dos decimales.
	stats.AverageRating = float64(int(stats.AverageRating*100)) / 100

	return stats, nil
}

// ArtistSearchParams parámetros de búsqueda de tatuadores.
type ArtistSearchParams struct {
	Query     string
	Styles    []string
	Comuna    string
	Region    string
	MinRating *float64
	Limit     int
	Offset    int
}

// ArtistSearchResult fila del listado público de tatuadores.
type ArtistSearchResult struct {
	ID          uuid.UUID          `json:"id"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Bio         *string            `json:"bio,omitempty"`
	Comuna      *string            `json:"comuna,omitempty"`
	Region      *string            `json:"region,omitempty"`
	StudioName  *string            `json:"studio_name,omitempty"`
	AvatarPath  *string            `json:"avatar_path,omitempty"`
	Styles      models.StringSlice `json:"styles"`
	AvgRating   float64            `json:"avg_rating"`
	RatingCount int                `json:"rating_count"`
}

// SearchArtists busca tatuadores activos según los filtros.
func (r *UserRepository) SearchArtists(ctx context.Context, params ArtistSearchParams) ([]*ArtistSearchResult, error) {
	query := `
		SELECT
			u.id,
			COALESCE(p.first_name, '') AS first_name,
			COALESCE(p.last_name, '') AS last_name,
			p.bio, p.comuna, p.region, p.studio_name, p.avatar_path, p.styles,
			COALESCE(AVG(rt.rating), 0) AS avg_rating,
			COUNT(rt.id) AS rating_count
		FROM users u
		LEFT JOIN profiles p ON u.id = p.user_id
		LEFT JOIN ratings rt ON u.id = rt.rated_id
		WHERE u.role = 'artist' AND u.is_active = TRUE
	`
	args := []interface{}{}
	argNum := 1

	if params.Query != "" {
		query += fmt.Sprintf(` AND (p.first_name ILIKE $%d OR p.last_name ILIKE $%d OR p.studio_name ILIKE $%d OR p.bio ILIKE $%d)`, argNum, argNum, argNum, argNum)
		args = append(args, "%"+params.Query+"%")
		argNum++
	}
	if len(params.Styles) > 0 {
		query += fmt.Sprintf(` AND p.styles && $%d`, argNum)
		args = append(args, pq.Array(params.Styles))
		argNum++
	}
	if params.Comuna != "" {
		query += fmt.Sprintf(` AND p.comuna ILIKE $%d`, argNum)
		args = append(args, params.Comuna)
		argNum++
	}
	if params.Region != "" {
		query += fmt.Sprintf(` AND p.region ILIKE $%d`, argNum)
		args = append(args, params.Region)
		argNum++
	}

	query += ` GROUP BY u.id, p.first_name, p.last_name, p.bio, p.comuna, p.region, p.studio_name, p.avatar_path, p.styles`

	if params.MinRating != nil {
		query += fmt.Sprintf(` HAVING COALESCE(AVG(rt.rating), 0) >= $%d`, argNum)
		args = append(args, *params.MinRating)
		argNum++
	}

	query += ` ORDER BY avg_rating DESC, rating_count DESC`
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, argNum, argNum+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("user repository: search artists %w", err)
	}
	defer rows.Close()

	var results []*ArtistSearchResult
	for rows.Next() {
		var result ArtistSearchResult
		var styles pq.StringArray
		if err := rows.Scan(
			&result.ID, &result.FirstName, &result.LastName,
			&result.Bio, &result.Comuna, &result.Region, &result.StudioName, &result.AvatarPath, &styles,
			&result.AvgRating, &result.RatingCount,
		); err != nil {
			return nil, fmt.Errorf("user repository: scan artist %w", err)
		}
		result.Styles = models.StringSlice(styles)
		results = append(results, &result)
	}
	return results, rows.Err()
}

// CountArtists devuelve el total de tatuadores activos.
func (r *UserRepository) CountArtists(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE role = 'artist' AND is_active = TRUE`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("user repository: count artists %w", err)
	}
	return count, nil
}
