// Package lookup resolves reference figures for a single named crop. Yields
// come from a static table of national averages when the crop is listed;
// prices, and yields for unlisted crops, come from the LLM.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
	"github.com/mamadbah2/agriadvisor/pkg/clients/anthropic"
)

// HectaresToAcres is the number of acres in one hectare.
const HectaresToAcres = 2.47105

var (
	// ErrEmptyCrop is returned for a blank crop name.
	ErrEmptyCrop = errors.New("crop name is required")
	// ErrLookupFailed wraps failures to obtain figures from the AI provider.
	ErrLookupFailed = errors.New("could not determine yield or price")
	// ErrAIUnavailable is returned when a lookup needs the AI provider and none is configured.
	ErrAIUnavailable = errors.New("ai price lookup is not configured")
)

// nationalYieldsPerHectare holds average Indian yields in kg/hectare.
var nationalYieldsPerHectare = map[string]float64{
	"rice":                 2873,
	"wheat":                3615,
	"jowar":                1175,
	"bajra":                1449,
	"maize":                3321,
	"tur":                  831,
	"gram":                 1224,
	"groundnut":            2179,
	"rapeseed and mustard": 1443,
	"sugarcane":            79000,
	"cotton":               436,
	"jute":                 2795,
	"mesta":                2056,
	"potato":               24000,
	"tea":                  2042,
	"coffee":               780,
	"rubber":               973,
}

// StaticYieldPerAcre returns the national average yield for crop in kg/acre.
func StaticYieldPerAcre(crop string) (float64, bool) {
	perHectare, ok := nationalYieldsPerHectare[normalize(crop)]
	if !ok {
		return 0, false
	}
	return perHectare / HectaresToAcres, true
}

// KnownCrops lists the crops covered by the static table, sorted.
func KnownCrops() []string {
	crops := make([]string, 0, len(nationalYieldsPerHectare))
	for crop := range nationalYieldsPerHectare {
		crops = append(crops, crop)
	}
	sort.Strings(crops)
	return crops
}

// Service resolves a ReferenceYieldRecord for one crop.
type Service struct {
	ai     anthropic.Client
	logger *zap.Logger
}

// NewService wires the lookup service. ai may be nil, in which case every
// lookup fails with ErrAIUnavailable since prices always come from the model.
func NewService(ai anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ai: ai, logger: logger}
}

// Lookup returns the reference record for crop. The crop name is normalised
// to lower case.
func (s *Service) Lookup(ctx context.Context, crop string) (models.ReferenceYieldRecord, error) {
	name := normalize(crop)
	if name == "" {
		return models.ReferenceYieldRecord{}, ErrEmptyCrop
	}
	if s.ai == nil {
		return models.ReferenceYieldRecord{}, ErrAIUnavailable
	}

	if yieldPerAcre, ok := StaticYieldPerAcre(name); ok {
		price, err := s.ai.EstimatePrice(ctx, name)
		if err != nil {
			s.logger.Warn("price lookup failed", zap.String("crop", name), zap.Error(err))
			return models.ReferenceYieldRecord{}, fmt.Errorf("%w: price for %s: %v", ErrLookupFailed, name, err)
		}
		return models.ReferenceYieldRecord{Crop: name, YieldPerAcre: yieldPerAcre, PricePerKg: price}, nil
	}

	yieldPerAcre, price, err := s.ai.EstimateYieldAndPrice(ctx, name)
	if err != nil {
		s.logger.Warn("yield and price lookup failed", zap.String("crop", name), zap.Error(err))
		return models.ReferenceYieldRecord{}, fmt.Errorf("%w: %s: %v", ErrLookupFailed, name, err)
	}

	s.logger.Debug("crop resolved via ai", zap.String("crop", name), zap.Float64("yield_per_acre", yieldPerAcre), zap.Float64("price_per_kg", price))
	return models.ReferenceYieldRecord{Crop: name, YieldPerAcre: yieldPerAcre, PricePerKg: price}, nil
}

func normalize(crop string) string {
	return strings.ToLower(strings.TrimSpace(crop))
}
