package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/crmkit/lead-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetCredentials loads the password hash plus the activity flags the login path
// checks. Users without an organization (super admins) count as org-active.
func (r *Repository) GetCredentials(email string) (*auth.Credentials, error) {
	var creds auth.Credentials
	var orgActive sql.NullBool

	query := `SELECT u.id, u.password_hash, u.is_active, o.is_active
	          FROM users u
	          LEFT JOIN organizations o ON o.id = u.organization_id AND o.is_deleted = false
	          WHERE u.email = ? AND u.is_deleted = false`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&creds.UserID, &creds.PasswordHash, &creds.UserActive, &orgActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	creds.OrgActive = !orgActive.Valid || orgActive.Bool
	return &creds, nil
}

func (r *Repository) GetPrincipalRecord(userID int64) (*auth.PrincipalRecord, error) {
	var record auth.PrincipalRecord
	var orgID sql.NullInt64

	query := `SELECT u.id, u.email, u.name, u.organization_id, u.is_active, r.name, r.is_system
	          FROM users u
	          JOIN roles r ON r.id = u.role_id
	          WHERE u.id = ? AND u.is_deleted = false`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&record.UserID, &record.Email, &record.Name, &orgID,
		&record.IsActive, &record.RoleName, &record.SystemRole); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	if orgID.Valid {
		record.OrganizationID = &orgID.Int64
	}

	permQuery := `SELECT p.name
	              FROM permissions p
	              JOIN role_permissions rp ON rp.permission_id = p.id
	              JOIN users u ON u.role_id = rp.role_id
	              WHERE u.id = ?`

	rows, err := r.db.Raw(permQuery, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var perm string
		if err := rows.Scan(&perm); err != nil {
			return nil, err
		}
		record.Permissions = append(record.Permissions, perm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &record, nil
}
