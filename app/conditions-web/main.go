package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	logger "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OpenTransitTools/ferrycast/app/conditions-web/web"
	"github.com/OpenTransitTools/ferrycast/business/canonical"
	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/OpenTransitTools/ferrycast/foundation/database"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "FERRY_WEB : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	var cfg struct {
		conf.Version
		Args conf.Args
		Web  struct {
			Port           int      `conf:"default:8080"`
			BaseURL        string   `conf:"default:https://bcferries-conditions.tweeres.ca"`
			AllowedOrigins []string `conf:"default:*"`
		}
		DB struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
			TimeZone   string `conf:"default:America/Vancouver"`
		}
		NATS struct {
			Url     string `conf:"default:nats://localhost:4222"`
			Subject string `conf:"default:sailing-conditions"`
			Enabled bool   `conf:"default:true"`
		}
		Redis struct {
			Addr         string
			Password     string `conf:"noprint"`
			DB           int    `conf:"default:0"`
			CacheSeconds int    `conf:"default:900"`
		}
		ExpireConditionsSeconds int `conf:"default:3600"`
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Serve ferry sailing capacity pages"
	const prefix = "FERRY_WEB"

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

	if len(cfg.Web.BaseURL) == 0 {
		cfg.Web.BaseURL = canonical.DefaultBaseURL
	}

	// =========================================================================
	// Start Database

	log.Println("main: Initializing database support")

	db, err := database.Open(database.Config{
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

	var store web.CapacityStore = capacity.NewStore(db)

	// =========================================================================
	// Start Redis

	if len(cfg.Redis.Addr) > 0 {
		log.Printf("main: Initializing cache at %s", cfg.Redis.Addr)
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			err := redisClient.Close()
			if err != nil {
				log.Printf("main: error closing redis: %v", err)
			}
		}()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		store = capacity.NewCachedStore(log, capacity.NewStore(db), redisClient,
			time.Duration(cfg.Redis.CacheSeconds)*time.Second)
	}

	// =========================================================================
	// Start NATS

	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		log.Printf("main: Connecting to nats at %s", cfg.NATS.Url)
		natsConn, err = nats.Connect(cfg.NATS.Url, nats.Name("ferrycast conditions web"))
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer natsConn.Close()
	}

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	web.StartServices(log, web.Config{
		HttpPort:                cfg.Web.Port,
		BaseURL:                 cfg.Web.BaseURL,
		ConditionsSubject:       cfg.NATS.Subject,
		ExpireConditionsSeconds: cfg.ExpireConditionsSeconds,
		AllowedOrigins:          cfg.Web.AllowedOrigins,
	}, natsConn, store, shutdown)
	return nil
}

func printUsage(confUsage string) {
	fmt.Println(confUsage)
}
