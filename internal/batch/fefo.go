// Package batch decides which batches of a product can be sold and in what
// order they are offered (first-expire-first-out).
package batch

import (
	"math"
	"sort"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/model"
)

const (
	// ExpiringWindow is the default number of days a batch counts as expiring.
	ExpiringWindow = 7
	// WarningWindow is the wider band some screens warn on.
	WarningWindow = 30
)

type Status string

const (
	StatusExpired  Status = "expired"
	StatusExpiring Status = "expiring"
	StatusNormal   Status = "normal"
)

// Selectable returns the batches with shelf stock, earliest expiry first.
// Batches without an expiry date go last. Equal dates keep their input order.
// The input slice is not modified.
func Selectable(batches []model.Batch) []model.Batch {
	out := make([]model.Batch, 0, len(batches))
	for _, b := range batches {
		if b.QuantityOnShelf > 0 {
			out = append(out, b)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return expiresBefore(out[i].ExpiryDate, out[j].ExpiryDate)
	})
	return out
}

func expiresBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// DaysUntilExpiry is ceil((expiry - now) / 24h). A batch expiring later today is day 0.
func DaysUntilExpiry(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// Classify buckets a batch against a window given in days.
func Classify(b model.Batch, now time.Time, windowDays int) Status {
	if b.ExpiryDate == nil {
		return StatusNormal
	}
	days := DaysUntilExpiry(*b.ExpiryDate, now)
	switch {
	case days < 0:
		return StatusExpired
	case days <= windowDays:
		return StatusExpiring
	default:
		return StatusNormal
	}
}

type Buckets struct {
	Expired  []model.Batch `json:"expired"`
	Expiring []model.Batch `json:"expiring"`
	Normal   []model.Batch `json:"normal"`
}

// Bucket groups batches by Classify, keeping their relative order.
func Bucket(batches []model.Batch, now time.Time, windowDays int) Buckets {
	var out Buckets
	for _, b := range batches {
		switch Classify(b, now, windowDays) {
		case StatusExpired:
			out.Expired = append(out.Expired, b)
		case StatusExpiring:
			out.Expiring = append(out.Expiring, b)
		default:
			out.Normal = append(out.Normal, b)
		}
	}
	return out
}
