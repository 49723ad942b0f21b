package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"club-hours/internal/logger"
	"club-hours/internal/store"
	"club-hours/internal/tokenstore"
	"club-hours/internal/workhours"
)

var (
	ErrConflict     = errors.New("already registered")
	ErrUnknownEmail = errors.New("email not known to the member directory")
	ErrInvalidReset = errors.New("invalid or expired reset token")
)

// MemberDirectory is the part of the records client that auth needs.
type MemberDirectory interface {
	MemberByID(ctx context.Context, id string) (*workhours.Member, error)
	MemberByEmail(ctx context.Context, email string) (*workhours.Member, error)
	MembersByEmail(ctx context.Context, email string) ([]workhours.Member, error)
}

type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, token, userID string) error
}

// LoginResult carries either a session token for a single member, or the
// candidate members plus a selection token when the email is shared.
type LoginResult struct {
	Token          string
	Member         *workhours.Member
	Candidates     []workhours.Member
	SelectionToken string
}

type AuthService struct {
	creds  store.Credentials
	dir    MemberDirectory
	tokens *TokenService
	resets *tokenstore.Store
	mailer ResetMailer
}

func NewAuthService(creds store.Credentials, dir MemberDirectory, tokens *TokenService, resets *tokenstore.Store, mailer ResetMailer) *AuthService {
	return &AuthService{creds: creds, dir: dir, tokens: tokens, resets: resets, mailer: mailer}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	cred, err := s.creds.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !store.CheckPassword(cred, password) {
		return nil, fmt.Errorf("%w: wrong email or password", ErrUnauthorized)
	}

	members, err := s.dir.MembersByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	switch len(members) {
	case 0:
		return nil, fmt.Errorf("%w: no member for %s", ErrUnauthorized, email)
	case 1:
		token, err := s.tokens.IssueSession(members[0].ID)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, Member: &members[0]}, nil
	}

	sel, err := s.tokens.IssueSelection(email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Candidates: members, SelectionToken: sel}, nil
}

// SelectMember finishes a shared-email login for one of the candidates.
func (s *AuthService) SelectMember(ctx context.Context, memberID, selectionToken string) (string, *workhours.Member, error) {
	email, err := s.tokens.VerifySelection(selectionToken)
	if err != nil {
		return "", nil, err
	}
	m, err := s.dir.MemberByID(ctx, memberID)
	if err != nil {
		return "", nil, err
	}
	if m == nil || !strings.EqualFold(strings.TrimSpace(m.Email), email) {
		return "", nil, fmt.Errorf("%w: member %s does not belong to %s", ErrUnauthorized, memberID, email)
	}
	token, err := s.tokens.IssueSession(m.ID)
	if err != nil {
		return "", nil, err
	}
	return token, m, nil
}

// Register creates a credential for an email the directory knows.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	m, err := s.dir.MemberByEmail(ctx, email)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrUnknownEmail
	}
	hash, err := store.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.creds.Create(ctx, email, hash); err != nil {
		if errors.Is(err, store.ErrExists) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	m, err := s.dir.MemberByEmail(ctx, email)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrUnknownEmail
	}
	t := s.resets.Issue(m.ID)
	if err := s.mailer.SendPasswordReset(ctx, m.Email, t.Token, m.ID); err != nil {
		s.resets.DeleteByKey(t.Token)
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes token and stores password for the token's member,
// creating the credential when the member never registered. A token offered
// with another member's id stays valid.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, memberID string) error {
	t, ok := s.resets.Get(token)
	if !ok || (memberID != "" && memberID != t.UserID) {
		return ErrInvalidReset
	}
	if _, ok := s.resets.Consume(token); !ok {
		return ErrInvalidReset
	}
	m, err := s.dir.MemberByID(ctx, t.UserID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("member %s: %w", t.UserID, workhours.ErrNotFound)
	}

	hash, err := store.HashPassword(password)
	if err != nil {
		return err
	}
	err = s.creds.SetPassword(ctx, m.Email, hash)
	if errors.Is(err, store.ErrNotFound) {
		if err = s.creds.Create(ctx, m.Email, hash); err == nil {
			logger.Info("auth.credential_created", "member", m.ID)
		}
	}
	return err
}

func (s *AuthService) CurrentUser(ctx context.Context, memberID string) (*workhours.Member, error) {
	m, err := s.dir.MemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("member %s: %w", memberID, workhours.ErrNotFound)
	}
	return m, nil
}
