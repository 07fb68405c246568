package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/go-commerce-api/internal/domain"
	"github.com/go-commerce-api/internal/kvstore"
)

// Purpose tags what a code unlocks once verified.
type Purpose string

const (
	PurposeUserActivation   Purpose = "user-activation"
	PurposeSellerActivation Purpose = "seller-activation"
	PurposeForgotPassword   Purpose = "forgot-password"
)

// Lifecycle tuning. A code lives five minutes; resending inside that window
// replaces it, so at most one code is ever valid per email. Two sends per
// trailing hour are allowed before the spam lock engages, two mismatched
// verifies before the failure lock does.
const (
	codeDigits         = 4
	codeTTL            = 5 * time.Minute
	resendCooldown     = time.Minute
	maxSendsPerWindow  = 2
	sendWindow         = time.Hour
	maxFailedAttempts  = 2
	attemptWindow      = 5 * time.Minute
	failedAttemptsLock = 30 * time.Minute
	spamLock           = time.Hour
)

// Store keys, all per-email. A live lock key refuses both sends and verifies.
const (
	keyCode     = "otp:"
	keyCooldown = "otp_cooldown:"
	keyRequests = "otp_requests:"
	keyAttempts = "otp_attempts:"
	keyLock     = "otp_lock:"
	keySpamLock = "otp_spam_lock:"
)

type Mailer interface {
	SendEmail(to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Request asks for a code to be generated and dispatched out-of-band.
// Phone is only consulted when a SMS sender is wired; email remains the
// identity key either way.
type Request struct {
	Name    string
	Email   string
	Phone   string
	Purpose Purpose
}

type Service interface {
	// Request gates issuance on the lock windows and the hourly send cap,
	// then generates, stores, and dispatches a fresh code, invalidating any
	// code still live for the email.
	Request(ctx context.Context, req Request) error
	// Verify consumes the live code for email. A verified code is deleted
	// before the caller acts on it, so replay always fails NotFound.
	Verify(ctx context.Context, email, submitted string) error
}

type service struct {
	store  kvstore.Store
	mailer Mailer
	sms    SMSSender
}

type ServiceDeps struct {
	Store     kvstore.Store
	Mailer    Mailer
	SMSSender SMSSender
}

func NewService(deps ServiceDeps) Service {
	return &service{store: deps.Store, mailer: deps.Mailer, sms: deps.SMSSender}
}

func (s *service) Request(ctx context.Context, req Request) error {
	if err := s.checkRestrictions(ctx, req.Email); err != nil {
		return err
	}
	if err := s.trackRequest(ctx, req.Email); err != nil {
		return err
	}

	code, err := generateCode(codeDigits)
	if err != nil {
		return err
	}
	// Unconditional Set: a still-live prior code is replaced, never kept
	// alongside the new one.
	if err := s.store.Set(ctx, keyCode+req.Email, code, codeTTL); err != nil {
		return err
	}
	if err := s.store.Set(ctx, keyCooldown+req.Email, "1", resendCooldown); err != nil {
		return err
	}

	return s.dispatch(ctx, req, code)
}

func (s *service) Verify(ctx context.Context, email, submitted string) error {
	if locked, err := s.anyLockActive(ctx, email); err != nil {
		return err
	} else if locked {
		return fmt.Errorf("account locked due to repeated failed attempts, try again later: %w", domain.ErrRateLimited)
	}

	stored, ok, err := s.store.Get(ctx, keyCode+email)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("OTP expired or was never requested: %w", domain.ErrNotFound)
	}

	if stored != submitted {
		attempts, err := s.store.Incr(ctx, keyAttempts+email, attemptWindow)
		if err != nil {
			return err
		}
		if attempts >= maxFailedAttempts {
			// SetNX: a concurrent verifier crossing the threshold at the same
			// time must not push out a lock that is already ticking.
			if _, err := s.store.SetNX(ctx, keyLock+email, "locked", failedAttemptsLock); err != nil {
				return err
			}
			if err := s.store.Delete(ctx, keyCode+email); err != nil {
				slog.Warn("failed to delete OTP after lockout", "email", email, "err", err)
			}
			return fmt.Errorf("too many incorrect attempts, account locked for 30 minutes: %w", domain.ErrRateLimited)
		}
		return fmt.Errorf("incorrect OTP: %w", domain.ErrUnauthorized)
	}

	// Consume before the caller completes registration or a password change;
	// deletion is what makes the code single-use.
	if err := s.store.Delete(ctx, keyCode+email); err != nil {
		return err
	}
	for _, key := range []string{keyAttempts + email, keyCooldown + email} {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Warn("failed to clear OTP state after verify", "key", key, "err", err)
		}
	}
	return nil
}

// checkRestrictions refuses issuance while any lock or the resend cooldown is
// live. Locks and live codes are mutually exclusive in effect: a locked email
// cannot mint a code that would outlast the lock's intent.
func (s *service) checkRestrictions(ctx context.Context, email string) error {
	if locked, err := s.anyLockActive(ctx, email); err != nil {
		return err
	} else if locked {
		return fmt.Errorf("account locked due to repeated attempts, try again later: %w", domain.ErrRateLimited)
	}
	if _, ok, err := s.store.Get(ctx, keyCooldown+email); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("please wait a minute before requesting a new OTP: %w", domain.ErrRateLimited)
	}
	return nil
}

// trackRequest counts sends in the trailing window; exceeding the cap
// installs the spam lock so the refusal outlives the counter itself.
func (s *service) trackRequest(ctx context.Context, email string) error {
	n, err := s.store.Incr(ctx, keyRequests+email, sendWindow)
	if err != nil {
		return err
	}
	if n > maxSendsPerWindow {
		if _, err := s.store.SetNX(ctx, keySpamLock+email, "locked", spamLock); err != nil {
			return err
		}
		return fmt.Errorf("too many OTP requests, please wait an hour before requesting again: %w", domain.ErrRateLimited)
	}
	return nil
}

func (s *service) anyLockActive(ctx context.Context, email string) (bool, error) {
	for _, key := range []string{keyLock + email, keySpamLock + email} {
		if _, ok, err := s.store.Get(ctx, key); err != nil {
			return false, err
		} else if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) dispatch(ctx context.Context, req Request, code string) error {
	if req.Phone != "" && s.sms != nil {
		return s.sms.SendSMS(ctx, req.Phone, "Your verification code: "+code)
	}
	subject := "Verify your account"
	if req.Purpose == PurposeForgotPassword {
		subject = "Reset your password"
	}
	greeting := "Hello"
	if req.Name != "" {
		greeting = "Hello " + req.Name
	}
	// The mailer sends text/html.
	body := fmt.Sprintf("<p>%s,</p><p>Your verification code is <strong>%s</strong>. It expires in 5 minutes.</p>", greeting, code)
	return s.mailer.SendEmail(req.Email, subject, body)
}

func generateCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
