package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/model"
	"github.com/sakif/kickstart-blog/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, first_name, last_name, name, email, password,
	date_of_birth, mobile_number, avatar_url, avatar_id, role,
	otp, otp_expires_at, created_at, updated_at`

// CreatePending inserts a new user in the pending-verification state.
//
// We do NOT pre-check the email with a SELECT — that would be a read-then-
// write race. Instead the INSERT runs straight into the UNIQUE constraint on
// email, and a constraint failure is translated to a conflict. A verified
// account and an abandoned pending row look the same here: both occupy the
// email, both conflict.
func (db *DB) CreatePending(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = model.RoleAuthor
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, name, email, password,
			date_of_birth, mobile_number, avatar_url, avatar_id, role,
			otp, otp_expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.FirstName, user.LastName, user.Name, user.Email,
		user.PasswordHash, user.DateOfBirth, user.MobileNumber,
		user.AvatarURL, user.AvatarID, user.Role,
		nullString(user.OTP), nullTime(user.OTPExpiresAt),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.Conflict("user already exists")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
// Returns apperror.ErrNotFound if no user exists with that email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return user, nil
}

// ClearOTP nulls the otp columns, transitioning the user to verified.
func (db *DB) ClearOTP(ctx context.Context, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET otp = NULL, otp_expires_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: clearing otp for user %s: %w", userID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}

// SwapAvatar replaces the avatar columns, but only if the stored public ID is
// still what the caller read. The avatar_id predicate makes this a compare-
// and-swap: two concurrent replacements cannot silently overwrite each other —
// the loser gets a conflict and must not delete the winner's asset.
func (db *DB) SwapAvatar(ctx context.Context, userID, oldPublicID, newURL, newPublicID string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET avatar_url = ?, avatar_id = ?, updated_at = ?
		 WHERE id = ? AND avatar_id = ?`,
		newURL, newPublicID, time.Now(), userID, oldPublicID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: swapping avatar for user %s: %w", userID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		// Either the user doesn't exist, or someone changed the avatar
		// between the caller's read and now. Disambiguate with one lookup.
		var exists int
		if err := db.conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&exists); err != nil {
			return fmt.Errorf("sqlite: checking user %s: %w", userID, err)
		}
		if exists == 0 {
			return apperror.NotFound("user", userID)
		}
		return apperror.Conflict("profile picture was changed by a concurrent request")
	}
	return nil
}

// ClearAvatar removes the avatar columns unconditionally.
func (db *DB) ClearAvatar(ctx context.Context, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET avatar_url = '', avatar_id = '', updated_at = ? WHERE id = ?`,
		time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: clearing avatar for user %s: %w", userID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}

// TopAuthors lists all users ordered by how many posts they have published.
// The LEFT JOIN keeps authors with zero published posts in the list, matching
// the sidebar's behavior of showing everyone.
func (db *DB) TopAuthors(ctx context.Context) ([]model.AuthorStat, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.name, u.avatar_url, COUNT(p.id) AS total_posts
		FROM users u
		LEFT JOIN posts p ON p.user_id = u.id AND p.status = 'published'
		GROUP BY u.id
		ORDER BY total_posts DESC, u.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing top authors: %w", err)
	}
	defer rows.Close()

	var authors []model.AuthorStat
	for rows.Next() {
		var a model.AuthorStat
		if err := rows.Scan(&a.ID, &a.Name, &a.AvatarURL, &a.TotalPosts); err != nil {
			return nil, fmt.Errorf("sqlite: scanning author row: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating authors: %w", err)
	}

	return authors, nil
}

// nullString and nullTime map the model's zero-value convention back to SQL
// NULL, keeping the "otp columns are NULL outside the signup window"
// invariant visible in the data itself.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// rowScanner lets scanUser work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads a full user row, translating the nullable otp columns into
// the zero-value convention the model uses.
func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var otp sql.NullString
	var otpExpiry sql.NullTime

	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Name, &u.Email, &u.PasswordHash,
		&u.DateOfBirth, &u.MobileNumber, &u.AvatarURL, &u.AvatarID, &u.Role,
		&otp, &otpExpiry, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if otp.Valid {
		u.OTP = otp.String
	}
	if otpExpiry.Valid {
		u.OTPExpiresAt = otpExpiry.Time
	}

	return &u, nil
}
