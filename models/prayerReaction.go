package models

import "time"

// PrayerReaction marks that a user prayed for a request. Its existence is the
// whole signal; reactions are created and deleted, never updated.
type PrayerReaction struct {
	Prayer_Reaction_ID string    `json:"id"`
	Account_ID         string    `json:"userId"`
	Prayer_Request_ID  string    `json:"requestId"`
	Datetime_Create    time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}

type ReactionResult struct {
	UserPrayed  bool `json:"userPrayed"`
	PrayerCount int  `json:"prayerCount"`
}

type PrayerStats struct {
	TotalRequests int64 `json:"totalRequests"`
	TotalPrayers  int64 `json:"totalPrayers"`
	UserRequests  int64 `json:"userRequests"`
	UserPrayers   int64 `json:"userPrayers"`
}
