package persistence

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"partysense/infrastructure/configuration"

	_ "github.com/microsoft/go-mssqldb"
)

// NewMSSQLDB opens the SQL Server connection used by the history store's
// mssql vendor. Encryption is always requested; the server certificate is
// trusted only for loopback hosts, where dev containers run self-signed.
func NewMSSQLDB() (*sql.DB, error) {
	cfg := configuration.C.Database.Mssql

	query := url.Values{}
	if cfg.Name != "" {
		query.Set("database", cfg.Name)
	}
	query.Set("encrypt", "true")
	if cfg.Host == "localhost" || cfg.Host == "127.0.0.1" {
		query.Set("TrustServerCertificate", "true")
	}

	dsn := &url.URL{
		Scheme:   "sqlserver",
		Host:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		RawQuery: query.Encode(),
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			dsn.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			dsn.User = url.User(cfg.User)
		}
	}

	db, err := sql.Open("sqlserver", dsn.String())
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
