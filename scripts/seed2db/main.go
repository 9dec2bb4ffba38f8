package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/orpheus-net/orpheus/internal/storage"
	"github.com/orpheus-net/orpheus/internal/storage/postgres"
)

var opts = struct {
	Seed               string `long:"seed" env:"SEED" default:"scripts/seed2db/seed.json" description:"path to seed file"`
	Postgres           string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMigrations string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`
}{}

type seed struct {
	MemberTypes []struct {
		ID                 string  `json:"id"`
		Discount           float64 `json:"discount"`
		PostsLimitPerMonth int     `json:"postsLimitPerMonth"`
	} `json:"memberTypes"`

	Users []struct {
		Name    string  `json:"name"`
		Balance float64 `json:"balance"`
	} `json:"users"`
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "seed2db"
	parser.LongDescription = "Seed to database importer"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	logrus.Info("seed2db started")
	logrus.Infof("%+v", opts)

	b, err := ioutil.ReadFile(opts.Seed)
	if err != nil {
		logrus.WithError(err).Fatal("failed to read seed file")
	}

	var data seed
	if err := json.Unmarshal(b, &data); err != nil {
		logrus.WithError(err).Fatal("failed to unmarshal seed")
	}

	db := mustGetDB()
	ctx := context.Background()

	ext := sqlx.NewDb(db, "postgres")
	for _, v := range data.MemberTypes {
		if _, err := ext.ExecContext(ctx, `
				INSERT INTO member_type(id, discount, posts_limit_per_month) VALUES($1, $2, $3)
				ON CONFLICT(id) DO UPDATE SET
					discount=excluded.discount, posts_limit_per_month=excluded.posts_limit_per_month
			`, v.ID, v.Discount, v.PostsLimitPerMonth,
		); err != nil {
			logrus.WithError(err).Fatalf("failed to import member type %s", v.ID)
		}
	}
	logrus.Infof("imported %d member types", len(data.MemberTypes))

	s := postgres.New(db)
	for _, v := range data.Users {
		u, err := s.CreateUser(ctx, &storage.CreateUserParams{Name: v.Name, Balance: v.Balance})
		if err != nil {
			logrus.WithError(err).Fatalf("failed to import user %s", v.Name)
		}
		logrus.Infof("imported user %s as %s", u.Name, u.ID)
	}

	logrus.Info("seed2db finished")
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	driver, err := migratep.WithInstance(db, &migratep.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.PostgresMigrations), "postgres", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	switch err := migrator.Up(); err {
	case nil:
		logrus.Info("database was migrated")
	case migrate.ErrNoChange:
		logrus.Info("database is up-to-date")
	default:
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	return db
}
