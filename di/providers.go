package di

import (
	"github.com/rs/zerolog/log"

	"scheduleright/config"
	"scheduleright/infras/couch"
	"scheduleright/infras/mysql"
	"scheduleright/infras/otel"
	"scheduleright/internal/store"
	"scheduleright/internal/store/couchstore"
	"scheduleright/internal/store/memstore"
	"scheduleright/internal/store/sqldoc"
)

// ProvideStore selects the document store backend from configuration.
func ProvideStore(cfg *config.Config, otl otel.Otel) store.Store {
	switch cfg.DB.Driver {
	case config.StoreDriverMySQL:
		return sqldoc.New(mysql.New(cfg), otl)
	case config.StoreDriverMemory:
		log.Warn().Msg("Using the in-memory document store, data will not survive a restart")

		return memstore.New()
	default:
		return couchstore.New(couch.New(cfg), otl)
	}
}
