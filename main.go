// Atrium is the venue booking server.
// It's responsible for handling reservation requests from the internet and
// storing persistent state in sqlite.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/atrium-hq/atrium/engine"
	"github.com/atrium-hq/atrium/engine/db"
	"github.com/atrium-hq/atrium/modules/auth"
	"github.com/atrium-hq/atrium/modules/bookings"
	"github.com/atrium-hq/atrium/modules/suggestions"
	"github.com/atrium-hq/atrium/modules/venues"
)

type Config struct {
	HttpAddr string `envDefault:":8080"`
	Dir      string

	// Venues is the fixed, comma-separated enumeration of bookable spaces.
	Venues      string `envDefault:"101,102,103,104,201,202,203,204,301,302,303,304,STEM Room,Library,Hall"`
	OpenTime    string `envDefault:"08:00"`
	CloseTime   string `envDefault:"22:00"`
	SlotMinutes int    `envDefault:"30"`

	AdminPassword string

	AIEndpoint string        `envDefault:"https://api.deepseek.com/chat/completions"`
	AIKey      string
	AIModel    string        `envDefault:"deepseek-chat"`
	AITimeout  time.Duration `envDefault:"10s"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	conf, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "ATRIUM_", UseFieldNameByDefault: true})
	if err != nil {
		panic(err)
	}

	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		err := engine.CheckHealthProbe("http://localhost:8080/healthz") // assume server is running on the default port
		if err != nil {
			panic(err)
		}
		return
	}

	app, err := newApp(conf)
	if err != nil {
		panic(err)
	}

	app.Run(context.TODO())
}

func newApp(conf Config) (*engine.App, error) {
	database, err := db.Open(filepath.Join(conf.Dir, "atrium.sqlite3"))
	if err != nil {
		return nil, err
	}

	router := engine.NewRouter(nil)
	router.Handle("GET", "/healthz", engine.ServeHealthProbe(database))

	a := engine.NewApp(conf.HttpAddr, router)

	authModule := auth.New(engine.NewTokenIssuer(filepath.Join(conf.Dir, "auth.pem")), conf.AdminPassword)
	a.Add(authModule)
	a.Router.Authenticator = authModule // IMPORTANT

	venuesModule := venues.New(parseVenues(conf.Venues), conf.OpenTime, conf.CloseTime, conf.SlotMinutes)
	a.Add(venuesModule)

	var client *suggestions.Client
	if conf.AIKey != "" {
		client = suggestions.NewClient(conf.AIEndpoint, conf.AIKey, conf.AIModel, conf.OpenTime, conf.CloseTime, conf.AITimeout)
	} else {
		slog.Info("AI suggestions disabled because no API key was configured, falling back to generated suggestions")
	}
	suggester := suggestions.NewService(client, &suggestions.Generator{
		OpenTime:    conf.OpenTime,
		CloseTime:   conf.CloseTime,
		SlotMinutes: conf.SlotMinutes,
	})

	a.Add(bookings.New(database, venuesModule, suggester))
	return a, nil
}

func parseVenues(csv string) []string {
	var venues []string
	for _, v := range strings.Split(csv, ",") {
		if v = strings.TrimSpace(v); v != "" {
			venues = append(venues, v)
		}
	}
	return venues
}
