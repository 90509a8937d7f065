package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/signullgame/signull/internal/dependencies/mocks"
	"github.com/signullgame/signull/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

// CreateGuestAccount tests

func (s *ServiceSuite) TestCreateGuestAccountSucceeds() {
	session, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Account.DisplayName)
	s.True(session.Account.IsGuest)
	s.NotEmpty(session.PlayerID)
}

func (s *ServiceSuite) TestCreateGuestAccountPersistsAccount() {
	session, _ := s.service.CreateGuestAccount(s.ctx, "Alice")

	account, err := s.storage.GetAccount(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("Alice", account.DisplayName)
}

func (s *ServiceSuite) TestCreateGuestAccountSessionIsValid() {
	session, _ := s.service.CreateGuestAccount(s.ctx, "Alice")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, validated.PlayerID)
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	session, err := s.service.Register(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Account.DisplayName)
	s.False(session.Account.IsGuest)
}

func (s *ServiceSuite) TestRegisterPersistsRegistration() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	ra, err := s.storage.GetRegisteredAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", ra.Username)
	s.NotEmpty(ra.PasswordHash)
	s.NotEqual("password123", ra.PasswordHash) // Should be hashed
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameExists() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.Register(s.ctx, "alice", "different", "Alice2")
	s.ErrorIs(err, ErrUsernameExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Account.DisplayName)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.CreateGuestAccount(s.ctx, "Alice")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session, _ := s.service.CreateGuestAccount(s.ctx, "Alice")

	// Advance time past expiration
	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	session, _ := s.service.CreateGuestAccount(s.ctx, "Alice")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownToken() {
	// Should not panic
	s.service.InvalidateSession("unknown_token")
}

// GetAccount tests

func (s *ServiceSuite) TestGetAccountSucceeds() {
	session, _ := s.service.CreateGuestAccount(s.ctx, "Alice")

	account, err := s.service.GetAccount(session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", account.DisplayName)
}

func (s *ServiceSuite) TestGetAccountFailsWithInvalidToken() {
	_, err := s.service.GetAccount("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	session1, _ := s.service.CreateGuestAccount(s.ctx, "Alice")

	// Advance time so session1 expires
	s.clock.Advance(25 * time.Hour)

	// Create a new session (not expired)
	session2, _ := s.service.CreateGuestAccount(s.ctx, "Bob")

	s.service.CleanExpiredSessions()

	// session1 should be gone
	_, err := s.service.ValidateSession(session1.Token)
	s.ErrorIs(err, ErrInvalidSession)

	// session2 should still be valid
	_, err = s.service.ValidateSession(session2.Token)
	s.NoError(err)
}
