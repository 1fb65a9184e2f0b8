//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"rateadmin/internal/domain"
	mysqlrepo "rateadmin/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }
func pint(i int) *int       { return &i }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
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
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_CatalogAndPlanCodes(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=rateadmin",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "rateadmin")

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

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange
	h := domain.Hotel{
		SabreID:     "100123",
		ParagonID:   pstr("P-7"),
		Name:        pstr("Hôtel Test"),
		City:        pstr("Istanbul"),
		Country:     pstr("TR"),
		Stars:       pint(5),
		Description: pstr("Desc"),
	}
	if err := repo.UpsertHotel(ctx, h); err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}

	// Upsert again with changed fields; must update, not duplicate.
	h.City = pstr("İstanbul")
	if err := repo.UpsertHotel(ctx, h); err != nil {
		t.Fatalf("UpsertHotel (2nd): %v", err)
	}

	got, err := repo.GetHotel(ctx, "100123")
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if got.Name == nil || *got.Name != "Hôtel Test" || *got.City != "İstanbul" {
		t.Fatalf("unexpected hotel: %+v", got)
	}

	if _, err := repo.GetHotel(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// SEO update survives a later catalog upsert.
	seo := domain.SEOFields{Title: pstr("T"), Description: pstr("D"), Keywords: pstr("K")}
	if err := repo.UpdateSEO(ctx, "100123", seo); err != nil {
		t.Fatalf("UpdateSEO: %v", err)
	}
	if err := repo.UpsertHotel(ctx, h); err != nil {
		t.Fatalf("UpsertHotel (3rd): %v", err)
	}
	got, err = repo.GetHotel(ctx, "100123")
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if got.SEO.Title == nil || *got.SEO.Title != "T" {
		t.Fatalf("seo clobbered by upsert: %+v", got.SEO)
	}
	if err := repo.UpdateSEO(ctx, "missing", seo); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateSEO on missing hotel: %v", err)
	}

	// Plan codes: empty before first write, round-trips after.
	entity := got.Entity()
	codes, err := repo.ReadPlanCodes(ctx, entity)
	if err != nil {
		t.Fatalf("ReadPlanCodes: %v", err)
	}
	if len(codes) != 0 {
		t.Fatalf("expected empty selection, got %v", codes)
	}

	want := []string{"AAA", "BBB", "CCC"}
	if err := repo.WritePlanCodes(ctx, entity, want); err != nil {
		t.Fatalf("WritePlanCodes: %v", err)
	}
	codes, err = repo.ReadPlanCodes(ctx, entity)
	if err != nil {
		t.Fatalf("ReadPlanCodes (2nd): %v", err)
	}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("round trip: %v", codes)
	}

	// Overwrite, including down to the empty set.
	if err := repo.WritePlanCodes(ctx, entity, nil); err != nil {
		t.Fatalf("WritePlanCodes (empty): %v", err)
	}
	codes, _ = repo.ReadPlanCodes(ctx, entity)
	if len(codes) != 0 {
		t.Fatalf("empty overwrite: %v", codes)
	}

	list, err := repo.ListHotels(ctx, 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListHotels: %v %d", err, len(list))
	}
}
