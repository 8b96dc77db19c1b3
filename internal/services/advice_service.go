package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kidwell/api-backend/internal/models"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// AdviceRequester sends a composed prompt to the advice backend
type AdviceRequester interface {
	RequestAdvice(ctx context.Context, systemDirective, userPrompt string) (string, error)
}

// AdviceService runs the advice pipeline: normalize, compose, request.
// It holds no per-request state and is safe for concurrent use.
type AdviceService struct {
	gateway    AdviceRequester
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
}

// AdviceServiceConfig holds the retry policy of the advice pipeline
type AdviceServiceConfig struct {
	// MaxRetries is the number of extra attempts after the first; 0 disables retries
	MaxRetries int
	// RetryBaseDelay is the first backoff interval
	RetryBaseDelay time.Duration
}

// NewAdviceService creates a new advice service instance
func NewAdviceService(gateway AdviceRequester, cfg *AdviceServiceConfig, logger *zap.Logger) (*AdviceService, error) {
	if gateway == nil {
		return nil, fmt.Errorf("advice gateway is required")
	}
	if cfg == nil {
		cfg = &AdviceServiceConfig{}
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries cannot be negative")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}

	return &AdviceService{
		gateway:    gateway,
		maxRetries: cfg.MaxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}, nil
}

// Advise normalizes a raw submission and requests advice for it
func (s *AdviceService) Advise(ctx context.Context, fields map[string]any, images map[models.MealSlot]string) (string, error) {
	return s.AdviseRecord(ctx, NormalizeSubmission(fields, images))
}

// AdviseRecord requests advice for an already normalized record.
// On failure the returned error is always an *AdviceError.
func (s *AdviceService) AdviseRecord(ctx context.Context, rec models.HealthRecord) (string, error) {
	systemDirective, userPrompt := ComposePrompt(rec)

	backoff := retry.NewExponential(s.baseDelay)
	backoff = retry.WithJitterPercent(10, backoff)
	backoff = retry.WithMaxRetries(uint64(s.maxRetries), backoff)

	start := time.Now()
	attempts := 0
	var advice string

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		reply, err := s.gateway.RequestAdvice(ctx, systemDirective, userPrompt)
		if err != nil {
			// unauthorized and rate_limited will not clear up within a request
			if CategoryOf(err).Retryable() {
				s.logger.Debug("advice attempt failed", zap.Int("attempt", attempts), zap.Error(err))
				return retry.RetryableError(err)
			}
			return err
		}
		advice = reply
		return nil
	})

	if err != nil {
		var adviceErr *AdviceError
		if !errors.As(err, &adviceErr) {
			// context cancellation between attempts
			adviceErr = newAdviceError(CategoryInternal, err)
		}

		s.logger.Error("advice request failed",
			zap.String("category", string(adviceErr.Category)),
			zap.Int("attempts", attempts),
			zap.Duration("duration", time.Since(start)),
			zap.Error(adviceErr.Cause),
		)
		return "", adviceErr
	}

	s.logger.Info("advice generated",
		zap.Int("attempts", attempts),
		zap.Duration("duration", time.Since(start)),
		zap.Int("advice_length", len(advice)),
	)

	return advice, nil
}
