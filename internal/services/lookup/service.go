// Package lookup resolves company records for CIFs, caching registry
// responses locally to stay inside the registry's rate budget.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/anaf"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/database"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/validation"
)

// Service fronts the registry client with a database cache
type Service struct {
	db              *database.DB
	client          *anaf.Client
	cacheTTL        time.Duration
	includeInactive bool
	logger          *zap.SugaredLogger
}

// NewService creates a new lookup service
func NewService(db *database.DB, client *anaf.Client, cacheTTL time.Duration, includeInactive bool, logger *zap.SugaredLogger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Service{
		db:              db,
		client:          client,
		cacheTTL:        cacheTTL,
		includeInactive: includeInactive,
		logger:          logger,
	}
}

// LookupFunc returns the function the validation workflow calls
func (s *Service) LookupFunc() validation.LookupFunc {
	return s.LookupCompany
}

// LookupCompany resolves a canonical CIF, serving fresh cache hits locally
// and falling through to the registry otherwise. Registry failures are not
// cached; a stale cache entry is better than a stored error.
func (s *Service) LookupCompany(ctx context.Context, cif string) (*models.Company, error) {
	var cached models.CompanyLookup
	err := s.db.Where("cif = ?", cif).First(&cached).Error
	if err == nil && time.Since(cached.FetchedAt) < s.cacheTTL {
		var company models.Company
		if jsonErr := json.Unmarshal(cached.RawResponse, &company); jsonErr == nil {
			return &company, nil
		}
		s.logger.Warnw("corrupt cached company record, refetching", "cif", cif)
	}

	company, lookupErr := s.client.LookupCompany(ctx, cif, s.includeInactive)
	if lookupErr != nil {
		return nil, lookupErr
	}

	raw, jsonErr := json.Marshal(company)
	if jsonErr != nil {
		return nil, fmt.Errorf("failed to encode company record: %w", jsonErr)
	}

	entry := models.CompanyLookup{
		CIF:         cif,
		Name:        company.Name,
		IsActive:    company.IsActive,
		RawResponse: raw,
		FetchedAt:   time.Now(),
	}
	if err == nil {
		entry.ID = cached.ID
		entry.CreatedAt = cached.CreatedAt
	}
	if saveErr := s.db.Save(&entry).Error; saveErr != nil {
		s.logger.Warnw("failed to cache company record", "cif", cif, "error", saveErr)
	}

	return company, nil
}
