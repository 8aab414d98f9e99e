package postgresql

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/rocketr/rocketr-ipn/config"
	"github.com/rocketr/rocketr-ipn/pkg/applogger"
)

var (
	once sync.Once
	db   *sql.DB
)

func GetDatabase() *sql.DB {
	once.Do(func() {
		c := config.Get()

		var err error
		db, err = sql.Open("postgres", c.Postgres.DSN)
		if err != nil {
			applogger.GetLogrus().WithError(err).Fatal("unable to open postgresql connection")
		}

		db.SetMaxOpenConns(c.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(c.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(30 * time.Minute)
	})

	return db
}
