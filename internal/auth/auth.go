package auth

import (
	"time"

	"github.com/crmkit/lead-management/internal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Distinguished role names. SuperAdminRole is the system role that bypasses the
// permission gate; the two org-level names map to access levels at resolution.
const (
	SuperAdminRole = "Super Admin"
	OrgOwnerRole   = "Owner"
	OrgAdminRole   = "Admin"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolvePrincipal(userID int64) (*internal.Principal, error)
	HashPassword(password string) (string, error)
}

// RepositoryAPI loads credential and principal data. PrincipalRecord is the flat
// row shape the resolver turns into an internal.Principal.
type RepositoryAPI interface {
	GetCredentials(email string) (*Credentials, error)
	GetPrincipalRecord(userID int64) (*PrincipalRecord, error)
}

type Credentials struct {
	UserID       int64
	PasswordHash string
	UserActive   bool
	OrgActive    bool
}

type PrincipalRecord struct {
	UserID         int64
	Email          string
	Name           string
	OrganizationID *int64
	RoleName       string
	SystemRole     bool
	Permissions    []string
	IsActive       bool
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	RefreshTTL() time.Duration
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

// AccessLevelFor maps a resolved role onto the capability enum services branch
// on, replacing scattered role-name comparisons.
func AccessLevelFor(roleName string, systemRole bool) internal.AccessLevel {
	switch {
	case systemRole && roleName == SuperAdminRole:
		return internal.AccessSuperAdmin
	case roleName == OrgOwnerRole:
		return internal.AccessOrgOwner
	case roleName == OrgAdminRole:
		return internal.AccessOrgAdmin
	default:
		return internal.AccessStandard
	}
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
