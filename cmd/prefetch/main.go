package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travel_planner/internal/adapters/memcache"
	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/adapters/places"
	redisad "travel_planner/internal/adapters/redis"
	"travel_planner/internal/app"
	"travel_planner/internal/domain"
	"travel_planner/internal/shared"
	mysqlrepo "travel_planner/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	regions := app.KnownRegions()
	log.Info().
		Str("base", cfg.PlacesBase).
		Int("workers", cfg.PrefetchWorkers).
		Int("regions", len(regions)).
		Msg("prefetch starting")

	if cfg.RedisAddr == "" {
		// an in-process cache dies with this process; run anyway so misses still get recorded
		log.Warn().Msg("REDIS_ADDR empty; warmed results will not outlive the run")
	}
	var cache domain.Cache = memcache.New(cfg.CacheTTL, cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("redis ping failed")
		}
		cache = rc
	}

	var (
		repo   *mysqlrepo.Repo
		misses domain.MissLog
	)
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("db ping ok")
		repo = mysqlrepo.New(db)
		misses = repo
	}

	client, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}
	svc := app.NewPrefetchService(app.NewCachedProvider(client, cache, cfg.CacheTTL), misses)

	workers := cfg.PrefetchWorkers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)
	for _, name := range regions {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(region string) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := svc.WarmRegion(ctx, region)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("region", region).Err(err).Msg("warm failed")
				return
			}
			log.Info().Str("region", region).Int("results", n).Msg("warm ok")
		}(name)
	}
	wg.Wait()

	if repo != nil {
		recent, err := repo.RecentMisses(ctx, 20)
		if err != nil {
			log.Warn().Err(err).Msg("could not read recent misses")
		}
		for _, m := range recent {
			log.Info().Str("query", m.Query).Int("status", m.Status).Str("reason", m.Reason).Int("hits", m.Hits).Msg("provider miss")
		}
	}
	log.Info().Int32("failed", failed.Load()).Msg("prefetch completed")
}
