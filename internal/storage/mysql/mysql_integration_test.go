//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"travel_planner/internal/domain"
	mysqlrepo "travel_planner/internal/storage/mysql"
)

// migrationsDir defaults to the repository's migrations/ folder.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=travel",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/travel?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_GeocodeAndMisses(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	if _, ok, err := repo.GetGeocode(ctx, "제주특별자치도 제주시 문연로 6"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := domain.Coordinate{Lat: 33.4890, Lon: 126.4983}
	if err := repo.PutGeocode(ctx, "제주특별자치도 제주시 문연로 6", want); err != nil {
		t.Fatalf("PutGeocode: %v", err)
	}
	// whitespace and case differences share a row
	got, ok, err := repo.GetGeocode(ctx, "  제주특별자치도  제주시 문연로 6 ")
	if err != nil || !ok || got != want {
		t.Fatalf("GetGeocode = %+v ok=%v err=%v", got, ok, err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.LogMiss(ctx, "Atlantis museum", 404, "not_found"); err != nil {
			t.Fatalf("LogMiss: %v", err)
		}
	}
	if err := repo.LogMiss(ctx, "Atlantis cafe", 0, "timeout"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}

	misses, err := repo.RecentMisses(ctx, 10)
	if err != nil {
		t.Fatalf("RecentMisses: %v", err)
	}
	if len(misses) != 2 || misses[0].Query != "Atlantis museum" || misses[0].Hits != 3 || misses[0].Status != 404 {
		t.Fatalf("unexpected misses: %+v", misses)
	}
}
