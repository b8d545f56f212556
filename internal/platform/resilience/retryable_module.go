// internal/platform/resilience/retryable_module.go
package resilience

import (
	"context"
	"fmt"
	"math"
	"time"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/logx"
)

// RetryableModule envuelve un Module con lógica de retry y circuit breaker.
// Start no se reintenta (es barato y su fallo suele ser de configuración);
// Fetch se reintenta con backoff exponencial.
type RetryableModule struct {
	module            ports.Module
	maxRetries        int
	backoffBase       time.Duration
	backoffMultiplier float64
	circuitBreaker    *CircuitBreaker
	logger            logx.Logger
}

// NewRetryableModule crea un nuevo RetryableModule.
func NewRetryableModule(
	module ports.Module,
	maxRetries int,
	backoffBase time.Duration,
	backoffMultiplier float64,
	cb *CircuitBreaker,
	logger logx.Logger,
) *RetryableModule {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoffBase <= 0 {
		backoffBase = 1 * time.Second
	}
	if backoffMultiplier < 1.0 {
		backoffMultiplier = 2.0
	}

	return &RetryableModule{
		module:            module,
		maxRetries:        maxRetries,
		backoffBase:       backoffBase,
		backoffMultiplier: backoffMultiplier,
		circuitBreaker:    cb,
		logger:            logger.With("component", "retryable-module", "module", module.Name()),
	}
}

// Name retorna el nombre del módulo subyacente.
func (r *RetryableModule) Name() string {
	return r.module.Name()
}

// Start inicia la recolección en el módulo subyacente.
// Respeta el circuit breaker pero no reintenta.
func (r *RetryableModule) Start(ctx context.Context, target domain.Target) (ports.Handle, error) {
	if r.circuitBreaker != nil && !r.circuitBreaker.Allow() {
		r.logger.Warn("circuit breaker open, skipping module")
		return "", fmt.Errorf("circuit breaker open for module %s: %w", r.module.Name(), ErrCircuitOpen)
	}

	handle, err := r.module.Start(ctx, target)
	if err != nil && r.circuitBreaker != nil {
		r.circuitBreaker.RecordFailure()
	}
	return handle, err
}

// Fetch recupera los datos del módulo con retry y circuit breaker.
func (r *RetryableModule) Fetch(ctx context.Context, handle ports.Handle) (domain.RawData, error) {
	if r.circuitBreaker != nil && !r.circuitBreaker.Allow() {
		r.logger.Warn("circuit breaker open, skipping module")
		return domain.RawData{}, fmt.Errorf("circuit breaker open for module %s: %w", r.module.Name(), ErrCircuitOpen)
	}

	var lastErr error
	attempt := 0

	for attempt <= r.maxRetries {
		if attempt > 0 {
			r.logger.Info("retrying module fetch",
				"attempt", attempt,
				"max_retries", r.maxRetries,
			)
		}

		raw, err := r.module.Fetch(ctx, handle)

		if err == nil {
			if r.circuitBreaker != nil {
				r.circuitBreaker.RecordSuccess()
			}
			if attempt > 0 {
				r.logger.Info("module fetch succeeded after retry",
					"attempts", attempt+1,
				)
			}
			return raw, nil
		}

		lastErr = err
		r.logger.Warn("module fetch failed",
			"attempt", attempt+1,
			"error", err.Error(),
		)

		if attempt >= r.maxRetries {
			break
		}

		if ctx.Err() != nil {
			r.logger.Warn("context cancelled, aborting retries")
			if r.circuitBreaker != nil {
				r.circuitBreaker.RecordFailure()
			}
			return domain.RawData{}, fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, ctx.Err())
		}

		backoff := r.calculateBackoff(attempt)
		r.logger.Debug("backing off before retry",
			"delay_ms", backoff.Milliseconds(),
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			r.logger.Warn("context cancelled during backoff")
			if r.circuitBreaker != nil {
				r.circuitBreaker.RecordFailure()
			}
			return domain.RawData{}, fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
		}

		attempt++
	}

	if r.circuitBreaker != nil {
		r.circuitBreaker.RecordFailure()
	}

	r.logger.Warn("module fetch failed after all retries",
		"attempts", attempt+1,
		"last_error", lastErr.Error(),
	)

	return domain.RawData{}, fmt.Errorf("module %s failed after %d attempts: %w", r.module.Name(), attempt+1, lastErr)
}

// Close cierra el módulo subyacente.
func (r *RetryableModule) Close() error {
	return r.module.Close()
}

// calculateBackoff calcula el delay de backoff exponencial.
func (r *RetryableModule) calculateBackoff(attempt int) time.Duration {
	multiplier := math.Pow(r.backoffMultiplier, float64(attempt))
	backoff := time.Duration(float64(r.backoffBase) * multiplier)

	// Cap at reasonable maximum (1 minute)
	maxBackoff := 60 * time.Second
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	return backoff
}

// GetCircuitBreaker retorna el circuit breaker (útil para testing/monitoring).
func (r *RetryableModule) GetCircuitBreaker() *CircuitBreaker {
	return r.circuitBreaker
}
