package couch

import (
	"context"
	"net/url"

	kivik "github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"
	"github.com/rs/zerolog/log"

	"scheduleright/config"
)

// New connects to CouchDB and returns a handle to the application database,
// creating the database when it does not exist yet.
func New(cfg *config.Config) *kivik.DB {
	ctx := context.Background()

	dsn, err := url.Parse(cfg.DB.Couch.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid CouchDB URL")
	}

	if cfg.DB.Couch.Username != "" {
		dsn.User = url.UserPassword(cfg.DB.Couch.Username, cfg.DB.Couch.Password)
	}

	client, err := kivik.New("couch", dsn.String())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create CouchDB client")
	}

	exists, err := client.DBExists(ctx, cfg.DB.Couch.Name)
	if err != nil {
		log.Fatal().Err(err).Str("database", cfg.DB.Couch.Name).Msg("Failed to check CouchDB database")
	}

	if !exists {
		if err := client.CreateDB(ctx, cfg.DB.Couch.Name); err != nil {
			log.Fatal().Err(err).Str("database", cfg.DB.Couch.Name).Msg("Failed to create CouchDB database")
		}
	}

	log.Info().
		Str("host", dsn.Host).
		Str("database", cfg.DB.Couch.Name).
		Msg("Connected to CouchDB")

	return client.DB(cfg.DB.Couch.Name)
}
