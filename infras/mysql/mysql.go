package mysql

//nolint:revive
import (
	"fmt"
	"net"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"scheduleright/config"
)

const (
	mysqlMaxIdleConnection = 10
	mysqlMaxOpenConnection = 10
)

// New creates the MySQL connection for the relational document store fallback.
func New(cfg *config.Config) *sqlx.DB {
	descriptor := fmt.Sprintf(
		"%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4",
		cfg.DB.MySQL.Username,
		cfg.DB.MySQL.Password,
		net.JoinHostPort(cfg.DB.MySQL.Host, cfg.DB.MySQL.Port),
		cfg.DB.MySQL.Name,
	)

	maxRetry := cfg.DB.MySQL.MaxRetry
	if maxRetry <= 0 {
		maxRetry = 1
	}

	for retry := range maxRetry {
		sqlDB, err := sqlx.Connect("mysql", descriptor)
		if err == nil {
			log.
				Info().
				Str("host", cfg.DB.MySQL.Host).
				Str("port", cfg.DB.MySQL.Port).
				Str("dbName", cfg.DB.MySQL.Name).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(mysqlMaxIdleConnection)
			sqlDB.SetMaxOpenConns(mysqlMaxOpenConnection)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("host", cfg.DB.MySQL.Host).
			Str("port", cfg.DB.MySQL.Port).
			Str("dbName", cfg.DB.MySQL.Name).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(cfg.DB.MySQL.RetryWaitTime) * time.Second)
	}

	return nil
}
