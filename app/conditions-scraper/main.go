package main

import (
	"errors"
	"fmt"
	"io/fs"
	logger "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OpenTransitTools/ferrycast/app/conditions-scraper/scraper"
	"github.com/OpenTransitTools/ferrycast/foundation/database"
	"github.com/ardanlabs/conf"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "FERRY_SCRAPER : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	var cfg struct {
		conf.Version
		Args conf.Args
		DB   struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
			TimeZone   string `conf:"default:utc"`
		}
		NATS struct {
			Url     string `conf:"default:nats://localhost:4222"`
			Subject string `conf:"default:sailing-conditions"`
		}
		Conditions struct {
			Url              string        `conf:"default:https://www.bcferries.com/current-conditions"`
			Routes           []string      // every catalogued route when empty
			LoadEverySeconds int           `conf:"default:300"`
			FetchTimeout     time.Duration `conf:"default:30s"`
			FetchInterval    time.Duration `conf:"default:2s"`
			UserAgent        string        `conf:"default:ferrycast-scraper"`
			RecordToDatabase bool          `conf:"default:true"`
			PublishOverNats  bool          `conf:"default:true"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Record current ferry sailing conditions"
	const prefix = "FERRY_SCRAPER"

	// values in a .env file are added to the environment when one is present
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env file: %w", err)
	}

	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			printUsage(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	// =========================================================================
	// Start Database

	var db *sqlx.DB
	if cfg.Conditions.RecordToDatabase {
		log.Println("main: Initializing database support")

		db, err = database.Open(database.Config{
			User:       cfg.DB.User,
			Password:   cfg.DB.Password,
			Host:       cfg.DB.Host,
			Name:       cfg.DB.Name,
			DisableTLS: cfg.DB.DisableTLS,
			TimeZone:   cfg.DB.TimeZone,
		})
		if err != nil {
			return fmt.Errorf("connecting to db: %w", err)
		}
		defer func() {
			log.Printf("main: Database Stopping : %s", cfg.DB.Host)
			err = db.Close()
			if err != nil {
				log.Printf("main: error closing database: %v", err)
			}
		}()
	}

	// =========================================================================
	// Start NATS

	var natsConn *nats.Conn
	if cfg.Conditions.PublishOverNats {
		log.Printf("main: Connecting to nats at %s", cfg.NATS.Url)
		natsConn, err = nats.Connect(cfg.NATS.Url, nats.Name("ferrycast conditions scraper"))
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer natsConn.Close()
	}

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	return scraper.RunScraperLoop(log, db, natsConn, scraper.Config{
		ConditionsUrl:    cfg.Conditions.Url,
		Routes:           cfg.Conditions.Routes,
		LoopEverySeconds: cfg.Conditions.LoadEverySeconds,
		FetchTimeout:     cfg.Conditions.FetchTimeout,
		FetchInterval:    cfg.Conditions.FetchInterval,
		UserAgent:        cfg.Conditions.UserAgent,
		NatsSubject:      cfg.NATS.Subject,
		RecordToDatabase: cfg.Conditions.RecordToDatabase,
		PublishOverNats:  cfg.Conditions.PublishOverNats,
	}, shutdown)
}

func printUsage(confUsage string) {
	fmt.Println(confUsage)
}
