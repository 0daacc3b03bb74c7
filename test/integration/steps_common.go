package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zappay/zappay-backend/pkg/config"
	"github.com/zappay/zappay-backend/pkg/db"
	"github.com/zappay/zappay-backend/pkg/model"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	env          map[string]string
	handle       *db.Handle
	manager      *db.Manager
	err          error
	logs         *observer.ObservedLogs
	logger       *zap.Logger
	server       *ServerInstance
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	core, logs := observer.New(zap.DebugLevel)
	return &StepsContext{
		tc:     tc,
		env:    make(map[string]string),
		logs:   logs,
		logger: zap.New(core),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.ResetSchema()
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if s.server != nil {
			_ = s.server.Stop()
		}
		if s.handle != nil && !s.handle.Closed() {
			_ = db.Disconnect(s.handle)
		}
		return ctx, nil
	})

	// Environment steps
	sc.Step(`^a PostgreSQL database is running$`, s.aPostgreSQLDatabaseIsRunning)
	sc.Step(`^the execution mode is "([^"]*)"$`, s.theExecutionModeIs)
	sc.Step(`^DB_URL points at the database$`, s.dbURLPointsAtTheDatabase)
	sc.Step(`^the discrete variables point at the database$`, s.theDiscreteVariablesPointAtTheDatabase)
	sc.Step(`^the environment variable "([^"]*)" is "([^"]*)"$`, s.theEnvironmentVariableIs)

	// Lifecycle steps
	sc.Step(`^I connect$`, s.iConnect)
	sc.Step(`^I synchronize the schema$`, s.iSynchronizeTheSchema)
	sc.Step(`^I disconnect$`, s.iDisconnect)
	sc.Step(`^the connection succeeds$`, s.theConnectionSucceeds)
	sc.Step(`^the connection fails with reason "([^"]*)"$`, s.theConnectionFailsWithReason)
	sc.Step(`^the error mentions "([^"]*)"$`, s.theErrorMentions)
	sc.Step(`^the error does not mention "([^"]*)"$`, s.theErrorDoesNotMention)
	sc.Step(`^disconnecting again fails$`, s.disconnectingAgainFails)
	sc.Step(`^the log contains "([^"]*)"$`, s.theLogContains)

	// Schema steps
	sc.Step(`^the table "([^"]*)" exists$`, s.theTableExists)
	sc.Step(`^the table "([^"]*)" does not exist$`, s.theTableDoesNotExist)
	sc.Step(`^I create a user with email "([^"]*)"$`, s.iCreateAUserWithEmail)
	sc.Step(`^the user "([^"]*)" can be found$`, s.theUserCanBeFound)

	// Status server steps
	sc.Step(`^the status server is running$`, s.theStatusServerIsRunning)
	sc.Step(`^I request "([^"]*)"$`, s.iRequest)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
}

// Environment steps

func (s *StepsContext) aPostgreSQLDatabaseIsRunning() error {
	// Container is already running via TestContext
	return nil
}

func (s *StepsContext) theExecutionModeIs(mode string) error {
	s.env[config.EnvMode] = mode
	return nil
}

func (s *StepsContext) dbURLPointsAtTheDatabase() error {
	s.env[config.EnvDatabaseURL] = s.tc.DatabaseURL()
	return nil
}

func (s *StepsContext) theDiscreteVariablesPointAtTheDatabase() error {
	s.env[config.EnvHost] = s.tc.Host
	s.env[config.EnvPort] = s.tc.Port
	s.env[config.EnvName] = testDatabase
	s.env[config.EnvUser] = testUser
	s.env[config.EnvPassword] = testPassword
	return nil
}

func (s *StepsContext) theEnvironmentVariableIs(name, value string) error {
	s.env[name] = value
	return nil
}

// Lifecycle steps

func (s *StepsContext) iConnect() error {
	s.handle, s.err = db.Connect(context.Background(), config.MapEnv(s.env), db.WithLogger(s.logger))
	return nil
}

func (s *StepsContext) iSynchronizeTheSchema() error {
	s.manager = db.NewManager(db.WithLogger(s.logger))
	h, err := s.manager.Open(context.Background(), config.Resolve(config.MapEnv(s.env)))
	if err != nil {
		return err
	}
	s.handle = h
	return s.manager.SyncSchema(context.Background(), h)
}

func (s *StepsContext) iDisconnect() error {
	if s.handle == nil {
		return fmt.Errorf("not connected")
	}
	return db.Disconnect(s.handle)
}

func (s *StepsContext) theConnectionSucceeds() error {
	if s.err != nil {
		return fmt.Errorf("expected connection to succeed, got: %w", s.err)
	}
	if s.handle == nil {
		return fmt.Errorf("expected a handle")
	}
	return s.handle.Ping(context.Background())
}

func (s *StepsContext) theConnectionFailsWithReason(reason string) error {
	if s.handle != nil {
		return fmt.Errorf("expected no handle after a failed connection")
	}
	var connErr *db.ConnectivityError
	if !errors.As(s.err, &connErr) {
		return fmt.Errorf("expected a connectivity error, got: %v", s.err)
	}
	if string(connErr.Reason) != reason {
		return fmt.Errorf("expected reason %q, got %q: %v", reason, connErr.Reason, s.err)
	}
	return nil
}

func (s *StepsContext) theErrorMentions(text string) error {
	if s.err == nil || !strings.Contains(s.err.Error(), text) {
		return fmt.Errorf("expected error mentioning %q, got: %v", text, s.err)
	}
	return nil
}

func (s *StepsContext) theErrorDoesNotMention(text string) error {
	if s.err != nil && strings.Contains(s.err.Error(), text) {
		return fmt.Errorf("error unexpectedly mentions %q: %v", text, s.err)
	}
	return nil
}

func (s *StepsContext) disconnectingAgainFails() error {
	err := db.Disconnect(s.handle)
	var shutdownErr *db.ShutdownError
	if !errors.As(err, &shutdownErr) || !errors.Is(err, db.ErrHandleClosed) {
		return fmt.Errorf("expected shutdown error for a closed handle, got: %v", err)
	}
	return nil
}

func (s *StepsContext) theLogContains(message string) error {
	if s.logs.FilterMessage(message).Len() == 0 {
		return fmt.Errorf("no log entry %q", message)
	}
	return nil
}

// Schema steps

func (s *StepsContext) theTableExists(name string) error {
	exists, err := s.tc.TableExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("table %q does not exist", name)
	}
	return nil
}

func (s *StepsContext) theTableDoesNotExist(name string) error {
	exists, err := s.tc.TableExists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("table %q exists", name)
	}
	return nil
}

func (s *StepsContext) iCreateAUserWithEmail(email string) error {
	q, err := model.Users(s.handle.Registry()).Query(context.Background())
	if err != nil {
		return err
	}
	return q.Create(&model.User{
		Email:        email,
		FullName:     "Integration User",
		PasswordHash: "not-a-real-hash",
	}).Error
}

func (s *StepsContext) theUserCanBeFound(email string) error {
	q, err := model.Users(s.handle.Registry()).Query(context.Background())
	if err != nil {
		return err
	}
	var user model.User
	if err := q.Where("email = ?", email).First(&user).Error; err != nil {
		return fmt.Errorf("user %q not found: %w", email, err)
	}
	return nil
}

// Status server steps

func (s *StepsContext) theStatusServerIsRunning() error {
	instance, err := StartServer(s.handle)
	if err != nil {
		return err
	}
	s.server = instance
	return nil
}

func (s *StepsContext) iRequest(path string) error {
	resp, err := s.tc.HTTPClient.Get(s.server.ServerURL + path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected response to contain %q, got: %s", text, string(s.responseBody))
	}
	return nil
}
