package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dom/blog-website/internal/api"
	"github.com/dom/blog-website/internal/config"
	"github.com/dom/blog-website/internal/logging"
	"github.com/dom/blog-website/internal/mail"
	"github.com/dom/blog-website/internal/repository"
	repoPostgres "github.com/dom/blog-website/internal/repository/postgres"
	"github.com/dom/blog-website/internal/service"
	"github.com/dom/blog-website/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	SQL       *sql.DB
	DB        *gorm.DB
	DSN       string
}

// NewTestDB starts a PostgreSQL container and applies the goose migrations to it.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_blog"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	testDB := &TestDB{Container: container}
	t.Cleanup(func() {
		testDB.Cleanup()
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	testDB.DSN = dsn

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	testDB.SQL = sqlDB

	if err := repoPostgres.Migrate(ctx, sqlDB); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db, err := repoPostgres.Open(sqlDB, nil)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	testDB.DB = db

	return testDB
}

// Cleanup closes the pool and terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.SQL != nil {
		tdb.SQL.Close()
	}
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"mail_deliveries",
		"posts",
		"user_sessions",
		"users",
	}

	if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))).Error; err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                 "0",
		Environment:          "test",
		LogLevel:             "error",
		CORSOrigin:           "http://localhost:3000",
		AccessTokenSecret:    "test-access-secret-for-testing-only",
		RefreshTokenSecret:   "test-refresh-secret-for-testing-only",
		AccessTokenTTL:       10 * time.Minute,
		RefreshTokenTTL:      24 * time.Hour,
		BcryptCost:           4,
		VerificationCodeTTL:  15 * time.Minute,
		SessionPurgeInterval: time.Hour,
		MailProvider:         "log",
		MailFrom:             "Blog App <test@example.com>",
	}
}

// MailRecorder is a mail.Sender that keeps every message and can be told to fail.
type MailRecorder struct {
	mu       sync.Mutex
	messages []mail.Message
	err      error
}

func NewMailRecorder() *MailRecorder {
	return &MailRecorder{}
}

func (m *MailRecorder) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *MailRecorder) Name() string {
	return "recorder"
}

// FailWith makes every following Send return err. A nil err restores delivery.
func (m *MailRecorder) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MailRecorder) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.messages...)
}

// Last returns the most recent message sent to addr.
func (m *MailRecorder) Last(addr string) (mail.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].To == addr {
			return m.messages[i], true
		}
	}
	return mail.Message{}, false
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Mail     *MailRecorder
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()
	log := logging.Discard()

	repos := repoPostgres.NewRepositories(testDB.DB)
	hub := websocket.NewHub(log)
	go hub.Run()

	recorder := NewMailRecorder()
	mailer := mail.NewDispatcher(recorder, repos.MailDelivery, log)
	services := service.NewServices(repos, cfg, mailer, hub, log)
	router := api.NewRouter(services, hub, cfg, log)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Mail:     recorder,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// PostsWebSocketURL returns the URL of the live post feed.
func (ts *TestServer) PostsWebSocketURL() string {
	return "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/api/v1/ws/posts"
}
