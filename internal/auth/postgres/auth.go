package postgres

import (
	"database/sql"
	"errors"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/auth"
	"gorm.io/gorm"
)

// Repository implements auth.Directory with raw row queries; the token
// service only needs credentials and the role name, not the full user model.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(email string) (int64, string, error) {
	var userID int64
	var passwordHash string
	query := `SELECT id, password FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", internal.ErrUserNotFound
		}
		return 0, "", err
	}
	return userID, passwordHash, nil
}

func (r *Repository) GetAuthUser(userID int64) (*auth.User, error) {
	var u auth.User
	query := `SELECT users.id, users.email, roles.name
	          FROM users
	          JOIN roles ON roles.id = users.role_id
	          WHERE users.id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&u.ID, &u.Email, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ auth.Directory = (*Repository)(nil)
