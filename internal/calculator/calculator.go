// Package calculator turns a loan Request into base and prepayment
// schedules, their comparison and an optional target payoff solve.
package calculator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/iwvelando/loan-payoff/internal/cache"
	"github.com/iwvelando/loan-payoff/internal/optimizer"
	"github.com/iwvelando/loan-payoff/pkg/datetime"
	"github.com/iwvelando/loan-payoff/pkg/loans"
	"github.com/sanity-io/litter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/singleflight"
)

// Calculator is safe for concurrent use.
type Calculator struct {
	logger    *zap.Logger
	generator *loans.Generator
	solver    *optimizer.Solver
	cache     cache.Cache[*Result]
	group     singleflight.Group
}

// New builds a Calculator with the given limits. A nil store disables
// caching.
func New(logger *zap.Logger, limits loans.Limits, store cache.Cache[*Result]) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = cache.Nop[*Result]{}
	}
	generator := loans.NewGenerator(logger, limits)
	solver, err := optimizer.NewSolver(logger, generator)
	if err != nil {
		return nil, err
	}
	return &Calculator{
		logger:    logger,
		generator: generator,
		solver:    solver,
		cache:     store,
	}, nil
}

// Limits returns the engine limits the calculator runs with.
func (c *Calculator) Limits() loans.Limits {
	return c.generator.Limits()
}

// Calculate returns the analysis of req. Results may be shared between
// callers and must not be modified.
func (c *Calculator) Calculate(ctx context.Context, req Request) (*Result, error) {
	if c.logger.Core().Enabled(zapcore.DebugLevel) {
		c.logger.Debug("calculation requested",
			zap.String("op", "calculator.Calculate"),
			zap.String("request", litter.Sdump(req)),
		)
	}

	key, err := c.Key(req)
	if err != nil {
		return nil, err
	}

	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("cache lookup failed",
			zap.String("op", "calculator.Calculate"),
			zap.String("key", key),
			zap.Error(err),
		)
	} else if ok {
		c.logger.Debug("cache hit",
			zap.String("op", "calculator.Calculate"),
			zap.String("key", key),
		)
		return cached, nil
	}

	value, err, shared := c.group.Do(key, func() (interface{}, error) {
		result, err := c.calculate(req)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, key, result); err != nil {
			c.logger.Warn("cache store failed",
				zap.String("op", "calculator.Calculate"),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("shared in-flight calculation",
			zap.String("op", "calculator.Calculate"),
			zap.String("key", key),
		)
	}
	return value.(*Result), nil
}

// Key returns the cache key of req: an xxhash digest of the request and the
// engine limits.
func (c *Calculator) Key(req Request) (string, error) {
	digest := xxhash.New()
	encoder := json.NewEncoder(digest)
	if err := encoder.Encode(req); err != nil {
		return "", fmt.Errorf("encoding request for cache key: %w", err)
	}
	if err := encoder.Encode(c.generator.Limits()); err != nil {
		return "", fmt.Errorf("encoding limits for cache key: %w", err)
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

func (c *Calculator) calculate(req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.StartDate != "" {
		if err := datetime.ValidateStartDate(req.StartDate); err != nil {
			return nil, fmt.Errorf("%w: %w", loans.ErrInvalidInput, err)
		}
	}

	terms := req.Terms()
	payment, err := c.generator.ResolvePayment(terms, loans.Plan{Payment: req.Payment})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Name:      req.Name,
		StartDate: req.StartDate,
		Payment:   payment,
	}

	if req.Resumes() {
		var resumption *loans.Resumption
		if req.ElapsedMonths != 0 {
			resumption, err = c.generator.ResumeFromElapsed(terms, payment, req.ElapsedMonths)
		} else {
			resumption, err = c.generator.ResumeFromBalance(terms, payment, req.CurrentBalance)
		}
		if err != nil {
			return nil, err
		}
		result.Resumption = resumption
		terms = resumption.RemainingTerms()
		if result.StartDate != "" {
			// Label the resumed rows from the month after the last paid one.
			if result.StartDate, err = datetime.OffsetDate(req.StartDate, datetime.DateTimeLayout, resumption.ElapsedMonths); err != nil {
				return nil, err
			}
		}
	}

	result.Base, err = c.generator.Generate(terms, loans.Plan{Payment: payment})
	if err != nil {
		return nil, fmt.Errorf("base schedule: %w", err)
	}
	result.BaseSummary = loans.Summarize(result.Base)
	if result.BasePayoff, err = payoffDate(result.StartDate, result.Base); err != nil {
		return nil, err
	}

	if plan := req.Plan(payment); plan.HasExtra() {
		result.Prepayment, err = c.generator.Generate(terms, plan)
		if err != nil {
			return nil, fmt.Errorf("prepayment schedule: %w", err)
		}
		summary := loans.Summarize(result.Prepayment)
		result.PrepaymentSummary = &summary
		if result.PrepaymentPayoff, err = payoffDate(result.StartDate, result.Prepayment); err != nil {
			return nil, err
		}
		result.Comparison, err = loans.Compare(result.Base, result.Prepayment)
		if err != nil {
			return nil, err
		}
	}

	if req.TargetMonths > 0 {
		target, err := c.solver.TargetExtraPayment(terms, payment, req.TargetMonths)
		if err != nil {
			return nil, fmt.Errorf("target payoff: %w", err)
		}
		result.Target = &target
	}

	c.logger.Debug("calculation complete",
		zap.String("op", "calculator.Calculate"),
		zap.String("name", req.Name),
		zap.Int("baseMonths", result.Base.Periods()),
		zap.Bool("prepayment", result.Prepayment != nil),
	)
	return result, nil
}

func payoffDate(start string, schedule *loans.Schedule) (string, error) {
	if start == "" || schedule.Periods() == 0 {
		return "", nil
	}
	return datetime.PeriodDate(start, schedule.Periods())
}
