// Package mysql provides the MySQL-backed storage.Storage.
//
// The repository dials the server once per operation through a connector
// built from the application config, so there is no long-lived pool. When
// a CA bundle is configured the connection is made over TLS and the server
// certificate is verified against it.
package mysql

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/sqldb"
)

// TLSConfigName is the key the CA-backed tls.Config is registered under.
const TLSConfigName = "students-ca"

// Server error numbers that mean we never got a usable session.
const (
	erTooManyConnections = 1040
	erDBAccessDenied     = 1044
	erAccessDenied       = 1045
	erBadDB              = 1049
)

// New returns a repository that connects to the server described by cfg.
func New(cfg config.Database, log zerolog.Logger) (*sqldb.Repository, error) {
	dc, err := DriverConfig(cfg)
	if err != nil {
		return nil, err
	}
	return sqldb.New(Opener(dc), log, sqldb.WithClassifier(Classify)), nil
}

// DriverConfig translates the application config into a driver config.
func DriverConfig(cfg config.Database) (*mysql.Config, error) {
	dc := mysql.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = cfg.Addr()
	dc.DBName = cfg.Name

	// Report matched rows instead of changed rows, so an update that
	// writes identical values still counts as a hit.
	dc.ClientFoundRows = true

	if cfg.SSLCAPath != "" {
		tlsCfg, err := loadCA(cfg.SSLCAPath, cfg.Host)
		if err != nil {
			return nil, err
		}
		if err := mysql.RegisterTLSConfig(TLSConfigName, tlsCfg); err != nil {
			return nil, fmt.Errorf("mysql: register tls config: %w", err)
		}
		dc.TLSConfig = TLSConfigName
	}

	return dc, nil
}

// Opener returns an Opener that builds a fresh handle from dc each time.
func Opener(dc *mysql.Config) sqldb.Opener {
	return func() (*sql.DB, error) {
		connector, err := mysql.NewConnector(dc)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	}
}

func loadCA(path, host string) (*tls.Config, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mysql: read ca: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("mysql: no certificates found in %s", path)
	}

	return &tls.Config{
		RootCAs:    pool,
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// Classify maps driver errors onto the storage error taxonomy.
func Classify(op string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erTooManyConnections, erDBAccessDenied, erAccessDenied, erBadDB:
			return &storage.ConnectionError{Op: op, Err: err}
		}
		return &storage.StatementError{Op: op, Err: err, Code: myErr.Number}
	}

	var netErr net.Error
	if errors.Is(err, mysql.ErrInvalidConn) || errors.As(err, &netErr) {
		return &storage.ConnectionError{Op: op, Err: err}
	}

	return sqldb.Classify(op, err)
}
