package services

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/hammametrides/transfer_booking_app/internal/apperrors"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
)

// defaultRoutes is the fixed price table: one-way base fares in the
// reference currency. One entry serves both directions.
var defaultRoutes = []models.RoutePrice{
	{Pickup: "Enfidha Airport", Dropoff: "Hammamet", BaseFare: decimal.NewFromInt(35)},
	{Pickup: "Enfidha Airport", Dropoff: "Nabeul", BaseFare: decimal.NewFromInt(40)},
	{Pickup: "Enfidha Airport", Dropoff: "Sousse", BaseFare: decimal.NewFromInt(45)},
	{Pickup: "Enfidha Airport", Dropoff: "Monastir", BaseFare: decimal.NewFromInt(55)},
	{Pickup: "Enfidha Airport", Dropoff: "Mahdia", BaseFare: decimal.NewFromInt(65)},
	{Pickup: "Enfidha Airport", Dropoff: "Tunis", BaseFare: decimal.NewFromInt(60)},
	{Pickup: "Tunis Carthage Airport", Dropoff: "Tunis", BaseFare: decimal.NewFromInt(15)},
	{Pickup: "Tunis Carthage Airport", Dropoff: "Hammamet", BaseFare: decimal.NewFromInt(45)},
	{Pickup: "Tunis Carthage Airport", Dropoff: "Nabeul", BaseFare: decimal.NewFromInt(50)},
	{Pickup: "Tunis Carthage Airport", Dropoff: "Sousse", BaseFare: decimal.NewFromInt(70)},
	{Pickup: "Monastir Airport", Dropoff: "Sousse", BaseFare: decimal.NewFromInt(25)},
	{Pickup: "Monastir Airport", Dropoff: "Monastir", BaseFare: decimal.NewFromInt(15)},
	{Pickup: "Monastir Airport", Dropoff: "Mahdia", BaseFare: decimal.NewFromInt(35)},
	{Pickup: "Monastir Airport", Dropoff: "Hammamet", BaseFare: decimal.NewFromInt(50)},
	{Pickup: "Monastir Airport", Dropoff: "Kairouan", BaseFare: decimal.NewFromInt(45)},
	{Pickup: "Djerba Airport", Dropoff: "Djerba Midoun", BaseFare: decimal.NewFromInt(20)},
	{Pickup: "Djerba Airport", Dropoff: "Zarzis", BaseFare: decimal.NewFromInt(35)},
}

// qualifierWords are stripped from location names before comparison so that
// "Enfidha Airport" and "enfidha" resolve to the same key.
var qualifierWords = map[string]struct{}{
	"airport":       {},
	"aeroport":      {},
	"aéroport":      {},
	"international": {},
	"terminal":      {},
	"intl":          {},
}

// normalizeLocation case-folds a location, strips qualifier words and
// removes whitespace, hyphens and apostrophes.
func normalizeLocation(raw string) string {
	lowered := strings.ToLower(raw)
	lowered = strings.NewReplacer("-", " ", "'", " ", "’", " ").Replace(lowered)
	var kept []string
	for _, word := range strings.Fields(lowered) {
		if _, skip := qualifierWords[word]; skip {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, "")
}

type routeEntry struct {
	pickup  string // normalized
	dropoff string // normalized
	route   models.RoutePrice
}

// PricingService resolves fixed route prices from the static table.
type PricingService struct {
	routes  []models.RoutePrice
	entries []routeEntry
	logger  *slog.Logger
}

// NewPricingService creates a PricingService over the given table; a nil
// table uses the built-in one. Entries are kept sorted by their normalized
// keys so partial-match resolution is deterministic.
func NewPricingService(routes []models.RoutePrice, logger *slog.Logger) *PricingService {
	if routes == nil {
		routes = defaultRoutes
	}
	if logger == nil {
		logger = slog.Default()
	}
	entries := make([]routeEntry, 0, len(routes))
	for _, r := range routes {
		entries = append(entries, routeEntry{
			pickup:  normalizeLocation(r.Pickup),
			dropoff: normalizeLocation(r.Dropoff),
			route:   r,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pickup != entries[j].pickup {
			return entries[i].pickup < entries[j].pickup
		}
		return entries[i].dropoff < entries[j].dropoff
	})
	return &PricingService{routes: routes, entries: entries, logger: logger}
}

// LookupPrice resolves a (pickup, dropoff) pair: exact forward match, exact
// reverse match, then partial containment. Among multiple partial matches
// the entry with the longest combined normalized key wins; remaining ties
// fall to the sort order of the table, so resolution never depends on map
// iteration. A miss returns apperrors.ErrNoFixedPrice.
func (s *PricingService) LookupPrice(pickup, dropoff string) (*models.RoutePrice, error) {
	from := normalizeLocation(pickup)
	to := normalizeLocation(dropoff)
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: pickup and dropoff are required", apperrors.ErrValidation)
	}
	if from == to {
		return nil, fmt.Errorf("%w: pickup and dropoff are the same", apperrors.ErrValidation)
	}

	for i := range s.entries {
		e := &s.entries[i]
		if e.pickup == from && e.dropoff == to {
			return &e.route, nil
		}
	}
	for i := range s.entries {
		e := &s.entries[i]
		if e.pickup == to && e.dropoff == from {
			return &e.route, nil
		}
	}

	var best *routeEntry
	bestLen := -1
	for i := range s.entries {
		e := &s.entries[i]
		if !(partialMatch(e.pickup, from) && partialMatch(e.dropoff, to)) &&
			!(partialMatch(e.pickup, to) && partialMatch(e.dropoff, from)) {
			continue
		}
		if l := len(e.pickup) + len(e.dropoff); l > bestLen {
			best = e
			bestLen = l
		}
	}
	if best != nil {
		return &best.route, nil
	}

	return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrNoFixedPrice, pickup, dropoff)
}

func partialMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Quote returns the fare for the pair and trip type in the reference
// currency. Return trips are priced at twice the one-way base fare.
func (s *PricingService) Quote(pickup, dropoff string, trip models.TripType) (models.Money, error) {
	if !trip.IsValid() {
		return models.Money{}, fmt.Errorf("%w: invalid trip type '%s'", apperrors.ErrValidation, trip)
	}
	route, err := s.LookupPrice(pickup, dropoff)
	if err != nil {
		return models.Money{}, err
	}
	fare := route.BaseFare
	if trip == models.TripReturn {
		fare = fare.Mul(decimal.NewFromInt(2))
	}
	return models.NewMoney(fare, models.ReferenceCurrency), nil
}

// Routes returns the full price table for listing.
func (s *PricingService) Routes() []models.RoutePrice {
	out := make([]models.RoutePrice, len(s.routes))
	copy(out, s.routes)
	return out
}
