package entity

import "time"

// TimeRange is a closed [From, To] window over sale timestamps. For a
// whole-day dashboard selection From is 00:00:00 of the first day and To is
// 23:59:59 of the last one, so a sale at 23:59:59 on the end date is still
// counted and one at midnight of the next day is not.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// FilterContext carries the normalized dashboard filters for one request.
// Empty ID slices mean "no filtering" (select all), never "match nothing".
type FilterContext struct {
	Range      TimeRange
	StoreIDs   []int
	ChannelIDs []int
}

func (fc FilterContext) HasStoreFilter() bool {
	return len(fc.StoreIDs) > 0
}

func (fc FilterContext) HasChannelFilter() bool {
	return len(fc.ChannelIDs) > 0
}

// RankKey selects the ordering column for product rankings.
type RankKey string

const (
	RankByQuantity RankKey = "quantity"
	RankByRevenue  RankKey = "revenue"
)

var validRankKeys = map[RankKey]bool{
	RankByQuantity: true,
	RankByRevenue:  true,
}

func IsValidRankKey(k string) bool {
	return validRankKeys[RankKey(k)]
}
