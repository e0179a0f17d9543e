package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/crmkit/lead-management/internal/auth"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the permission catalog, system roles and the super admin user",
	Long:  `Seed the database with the permission catalog, the system Super Admin role and a bootstrap super admin account. Safe to re-run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			clearSeedData(db)
		}

		seedPermissions(db)
		superAdminRoleID := seedSuperAdminRole(db)
		seedOrgRoleTemplates(db)
		seedSuperAdminUser(db, superAdminRoleID, cfg.Security.BCryptCost)

		fmt.Println("Seeding completed")
	},
}

func seedPermissions(db *sqlx.DB) {
	for _, p := range auth.AllPermissions() {
		var id int64
		err := db.QueryRow("SELECT id FROM permissions WHERE name = $1", p.Name).Scan(&id)
		if err == nil {
			continue
		}
		if _, err := db.Exec(
			"INSERT INTO permissions (name, resource, method, created_at) VALUES ($1, $2, $3, now())",
			p.Name, p.Resource, p.Method,
		); err != nil {
			log.Fatalf("failed to insert permission %s: %v", p.Name, err)
		}
	}
	fmt.Println("Permission catalog seeded")
}

// seedSuperAdminRole creates the global system role and attaches every
// permission to it, returning its id.
func seedSuperAdminRole(db *sqlx.DB) int64 {
	var roleID int64
	err := db.QueryRow("SELECT id FROM roles WHERE name = 'Super Admin' AND scope = 'global'").Scan(&roleID)
	if err != nil {
		if err := db.QueryRow(
			"INSERT INTO roles (organization_id, name, description, scope, is_system, created_at, updated_at) VALUES (NULL, 'Super Admin', 'Full access across all organizations', 'global', true, now(), now()) RETURNING id",
		).Scan(&roleID); err != nil {
			log.Fatalf("failed to insert Super Admin role: %v", err)
		}
		fmt.Println("Seeded Super Admin role")
	}

	attachAllPermissions(db, roleID)
	return roleID
}

// seedOrgRoleTemplates creates the global Owner and Admin roles, visible to
// every organization alongside their own custom roles.
func seedOrgRoleTemplates(db *sqlx.DB) {
	templates := []struct {
		Name string
		Desc string
	}{
		{"Owner", "Organization owner with full access inside the organization"},
		{"Admin", "Organization administrator"},
	}

	for _, t := range templates {
		var roleID int64
		err := db.QueryRow("SELECT id FROM roles WHERE name = $1 AND scope = 'global' AND organization_id IS NULL", t.Name).Scan(&roleID)
		if err != nil {
			if err := db.QueryRow(
				"INSERT INTO roles (organization_id, name, description, scope, is_system, created_at, updated_at) VALUES (NULL, $1, $2, 'global', true, now(), now()) RETURNING id",
				t.Name, t.Desc,
			).Scan(&roleID); err != nil {
				log.Fatalf("failed to insert %s role: %v", t.Name, err)
			}
			fmt.Printf("Seeded %s role template\n", t.Name)
		}
		attachAllPermissions(db, roleID)
	}
}

func attachAllPermissions(db *sqlx.DB, roleID int64) {
	for _, p := range auth.AllPermissions() {
		var pid int64
		if err := db.QueryRow("SELECT id FROM permissions WHERE name = $1", p.Name).Scan(&pid); err != nil {
			log.Fatalf("permission not found after insert %s: %v", p.Name, err)
		}

		var exists int
		if err := db.QueryRow("SELECT 1 FROM role_permissions WHERE role_id = $1 AND permission_id = $2", roleID, pid).Scan(&exists); err == nil {
			continue
		}
		if _, err := db.Exec(
			"INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)",
			roleID, pid,
		); err != nil {
			log.Fatalf("failed to attach permission %s to role %d: %v", p.Name, roleID, err)
		}
	}
}

func seedSuperAdminUser(db *sqlx.DB, roleID int64, bcryptCost int) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@crmkit.local"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", email).Scan(&exists); err == nil {
		fmt.Println("super admin user already exists:", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	if _, err := db.Exec(
		"INSERT INTO users (organization_id, role_id, email, name, password_hash, is_active, is_deleted, created_at, updated_at) VALUES (NULL, $1, $2, 'Super Admin', $3, true, false, now(), now())",
		roleID, email, string(hash),
	); err != nil {
		log.Fatalf("failed to insert super admin user: %v", err)
	}
	fmt.Println("Seeded super admin user:", email)
}

func clearSeedData(db *sqlx.DB) {
	stmts := []string{
		"DELETE FROM role_permissions WHERE role_id IN (SELECT id FROM roles WHERE is_system = true AND organization_id IS NULL)",
		"DELETE FROM users WHERE role_id IN (SELECT id FROM roles WHERE is_system = true AND organization_id IS NULL)",
		"DELETE FROM roles WHERE is_system = true AND organization_id IS NULL",
		"DELETE FROM permissions",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("failed to clear seed data: %v", err)
		}
	}
	fmt.Println("Cleared previously seeded data")
}
