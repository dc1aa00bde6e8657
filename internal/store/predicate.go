package store

import (
	"strings"

	"github.com/salesboard/sales-dashboard/internal/entity"
)

// salePredicate renders the conditional store/channel membership predicates
// for a filter context. alias qualifies the sales table columns ("s" for
// joined queries, "" for queries against the bare table), which lets one
// request carry both a join-qualified predicate and an unqualified one for
// the joinless scalar query. The returned fragment is either empty or starts
// with " AND " so it composes after a WHERE clause without a dangling
// operator; matching ID lists are written into params for binding, never
// interpolated into the SQL text.
func salePredicate(fc entity.FilterContext, alias string, params map[string]any) string {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	var clauses []string
	if fc.HasStoreFilter() {
		clauses = append(clauses, prefix+"store_id IN (:storeIds)")
		params["storeIds"] = fc.StoreIDs
	}
	if fc.HasChannelFilter() {
		clauses = append(clauses, prefix+"channel_id IN (:channelIds)")
		params["channelIds"] = fc.ChannelIDs
	}
	if len(clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(clauses, " AND ")
}

// rangeParams seeds the bound parameter map every report query starts from.
func rangeParams(fc entity.FilterContext) map[string]any {
	return map[string]any{
		"from": fc.Range.From,
		"to":   fc.Range.To,
	}
}
