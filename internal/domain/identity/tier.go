package identity

import "strings"

// VendorTier represents a vendor's subscription level. It controls both the
// product quota and the listing priority.
type VendorTier string

const (
	TierFree     VendorTier = "free"
	TierBasic    VendorTier = "basic"
	TierPremium  VendorTier = "premium"
	TierFeatured VendorTier = "featured"
)

// tierLimits is the single source of truth for per-tier product quotas.
// A nil entry means unlimited. Both quota enforcement and the vendor-stats
// "remaining" calculation read from here.
var tierLimits = map[VendorTier]*int{
	TierFree:     intPtr(10),
	TierBasic:    intPtr(50),
	TierPremium:  intPtr(150),
	TierFeatured: nil,
}

func intPtr(v int) *int { return &v }

// ParseVendorTier parses a tier string, returning false for unknown values
func ParseVendorTier(s string) (VendorTier, bool) {
	switch VendorTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierFree:
		return TierFree, true
	case TierBasic:
		return TierBasic, true
	case TierPremium:
		return TierPremium, true
	case TierFeatured:
		return TierFeatured, true
	default:
		return "", false
	}
}

// IsValid returns true for a known tier
func (t VendorTier) IsValid() bool {
	_, ok := ParseVendorTier(string(t))
	return ok
}

// ProductLimit returns the maximum number of products the tier may hold.
// Nil means unlimited.
func (t VendorTier) ProductLimit() *int {
	limit, ok := tierLimits[t]
	if !ok {
		return tierLimits[TierFree]
	}
	if limit == nil {
		return nil
	}
	v := *limit
	return &v
}

// Priority returns the listing rank of the tier. Higher ranks list first.
// Vendors without a profile rank 0, below every known tier.
func (t VendorTier) Priority() int {
	switch t {
	case TierFeatured:
		return 4
	case TierPremium:
		return 3
	case TierBasic:
		return 2
	case TierFree:
		return 1
	default:
		return 0
	}
}
