package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop_backend/internal/repository"
)

// RateFetcher returns the current USD to UZS exchange rate from an
// external source.
type RateFetcher interface {
	USDRate() (decimal.Decimal, error)
}

// RateCache keeps the last fetched rate for quick reads.
type RateCache interface {
	SetUSDRate(rate string) error
}

// CurrencyService refreshes the stored exchange rate once a day at
// midnight UTC, and once at startup so a fresh deployment does not wait
// a full day for its first rate.
type CurrencyService struct {
	settingsRepo repository.SettingsRepository
	fetcher      RateFetcher
	cache        RateCache
	logger       *zap.Logger
	stopCh       chan struct{}
}

func NewCurrencyService(
	settingsRepo repository.SettingsRepository,
	fetcher RateFetcher,
	cache RateCache,
	logger *zap.Logger,
) *CurrencyService {
	return &CurrencyService{
		settingsRepo: settingsRepo,
		fetcher:      fetcher,
		cache:        cache,
		logger:       logger,
		stopCh:       make(chan struct{}),
	}
}

// RefreshRate fetches the current rate and writes it to settings and the
// cache. A fetch failure leaves the previous rate in place.
func (s *CurrencyService) RefreshRate() error {
	rate, err := s.fetcher.USDRate()
	if err != nil {
		return err
	}

	if err := s.settingsRepo.UpdateUSDRate(rate); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.SetUSDRate(rate.String()); err != nil {
			s.logger.Warn("failed to cache exchange rate", zap.Error(err))
		}
	}

	s.logger.Info("exchange rate updated", zap.String("usd_uzs", rate.String()))
	return nil
}

// Start launches the daily refresh loop. It returns immediately.
func (s *CurrencyService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *CurrencyService) run(ctx context.Context) {
	if err := s.RefreshRate(); err != nil {
		s.logger.Warn("initial exchange rate refresh failed", zap.Error(err))
	}

	for {
		timer := time.NewTimer(untilNextMidnightUTC(time.Now()))
		select {
		case <-timer.C:
			if err := s.RefreshRate(); err != nil {
				s.logger.Warn("exchange rate refresh failed", zap.Error(err))
			}
		case <-s.stopCh:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *CurrencyService) Stop() {
	close(s.stopCh)
}

func untilNextMidnightUTC(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return next.Sub(now)
}
