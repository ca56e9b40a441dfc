// test/e2e/e2e_test.go
//
// End-to-end tests against a live stack (Zeebe, PostgreSQL, Redis,
// Elasticsearch). Skipped unless E2E=1 is set; run via docker compose.
package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-match-workers/internal/common/camunda"
	"internship-match-workers/internal/common/config"
	"internship-match-workers/internal/common/database"
	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"
	"internship-match-workers/internal/stores/internships"
	"internship-match-workers/internal/stores/profiles"

	queryinternships "internship-match-workers/internal/workers/data-access/query-internships"
	generaterecommendations "internship-match-workers/internal/workers/recommendation/generate-recommendations"
	validateprofile "internship-match-workers/internal/workers/recommendation/validate-profile"
)

var camundaClient *camunda.Client

func TestMain(m *testing.M) {
	if os.Getenv("E2E") != "1" {
		fmt.Println("E2E tests skipped, set E2E=1 to run")
		os.Exit(0)
	}

	var err error
	camundaClient, err = camunda.NewClient("localhost:26500")
	if err != nil {
		panic(fmt.Sprintf("failed to connect to Zeebe: %v", err))
	}

	code := m.Run()

	camundaClient.Close()
	os.Exit(code)
}

func loadE2EConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	// The compose stack publishes everything on localhost.
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.URL = "http://localhost:9200"
	return cfg
}

func TestServiceConnectivity(t *testing.T) {
	cfg := loadE2EConfig(t)
	ctx := context.Background()

	db, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	assert.NoError(t, db.Ping(ctx))
	db.Close()

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	assert.NoError(t, rdb.Ping(ctx))
	rdb.Close()

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	assert.NoError(t, es.Ping())

	assert.NoError(t, camundaClient.HealthCheck(ctx))

	_, err = camundaClient.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return camundaClient.GetClient().NewTopologyCommand().Send(ctx)
	}, "topology")
	assert.NoError(t, err)
}

func TestRecommendationPipeline(t *testing.T) {
	cfg := loadE2EConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log := logger.NewTestLogger(t)

	db, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer db.Close()

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdb.Close()

	seedTestData(t, ctx, db)

	profileStore := profiles.NewStore(db.DB, rdb.Client, time.Minute, log)
	listingStore := internships.NewStore(db.DB, log)

	// 1. Validate the raw profile the way the workflow would.
	vpHandler := validateprofile.NewHandler(validateprofile.LoadConfig(), log)
	vpOut, err := vpHandler.Execute(ctx, &validateprofile.Input{
		Profile: []byte(`{
			"id": "e2e-cand-1",
			"name": "E2E Candidate",
			"educationLevel": "UNDERGRADUATE",
			"skills": ["Python", "SQL"],
			"sectorInterests": ["analytics"]
		}`),
	})
	require.NoError(t, err)
	require.True(t, vpOut.Valid)

	// 2. Generate recommendations from the stored pool.
	grHandler := generaterecommendations.NewHandler(
		generaterecommendations.LoadConfig(),
		profileStore, listingStore, nil, log,
	)
	grOut, err := grHandler.Execute(ctx, &generaterecommendations.Input{
		Profile: vpOut.Profile,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, grOut.BatchID)
	assert.Equal(t, len(grOut.Recommendations), grOut.Count)
	for _, rec := range grOut.Recommendations {
		assert.GreaterOrEqual(t, rec.Score, 0.0)
		assert.LessOrEqual(t, rec.Score, 100.0)
		assert.NotEmpty(t, rec.MatchReasons)
	}

	// 3. Query the pool directly through the data-access worker.
	qiHandler := queryinternships.NewHandler(
		queryinternships.LoadConfig(),
		listingStore, nil, log,
	)
	qiOut, err := qiHandler.Execute(ctx, &queryinternships.Input{
		Source: queryinternships.SourcePostgres,
	})
	require.NoError(t, err)
	assert.Equal(t, queryinternships.SourcePostgres, qiOut.Source)
	assert.GreaterOrEqual(t, qiOut.Count, 1)
}

func seedTestData(t *testing.T, ctx context.Context, db *database.PostgresClient) {
	t.Helper()

	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS internships (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			sector TEXT NOT NULL DEFAULT '',
			org_name TEXT NOT NULL DEFAULT '',
			description TEXT,
			stipend_min INTEGER,
			stipend_max INTEGER,
			city TEXT,
			state TEXT,
			pin TEXT,
			remote BOOLEAN NOT NULL DEFAULT FALSE,
			min_education TEXT NOT NULL DEFAULT 'TENTH_PLUS_TWO',
			application_url TEXT NOT NULL DEFAULT '',
			deadline TIMESTAMPTZ NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			required_skills TEXT NOT NULL DEFAULT '[]'
		)`)
	require.NoError(t, err)

	deadline := time.Now().Add(30 * 24 * time.Hour)
	id := "e2e-listing-" + uuid.New().String()
	_, err = db.Exec(ctx, `
		INSERT INTO internships
			(id, title, sector, description, required_skills, min_education, remote, deadline, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		id, "Data Analyst Intern", "analytics",
		"Work with dashboards and SQL reporting",
		`["Python","SQL"]`, string(models.EducationUndergraduate),
		true, deadline, true,
	)
	require.NoError(t, err)
}
