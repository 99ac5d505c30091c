package domain

import "context"

// Stats are the front-desk counters. All counts are scoped to active
// members; payments by soft-deleted members do not show up anywhere.
type Stats struct {
	TotalMembers   int64 `json:"total_members"`
	CurrentMembers int64 `json:"current_members"`
	ExpiredMembers int64 `json:"expired_members"`
	PaidThisMonth  int64 `json:"paid_this_month"`
}

type Service interface {
	Stats(context.Context) (Stats, error)
}
