// Package filter normalizes raw dashboard inputs (calendar dates and
// "label - id" selections) into the canonical FilterContext every report
// operation consumes.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/salesboard/sales-dashboard/internal/entity"
)

// FormatError reports a filter selection that could not be parsed into an
// identifier. Callers may recover by dropping the selection list and
// querying unfiltered.
type FormatError struct {
	Raw string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed filter selection %q", e.Raw)
}

// Normalize converts user-picked dates and selection strings into a
// FilterContext. startDate and endDate are treated as whole calendar days
// in their own location: the window runs from 00:00:00 of startDate through
// 23:59:59 of endDate inclusive. Empty selection lists normalize to "no
// filter", never to "no results". A start after the end is allowed and
// simply matches nothing.
func Normalize(startDate, endDate time.Time, storeSelections, channelSelections []string) (entity.FilterContext, error) {
	storeIDs, err := ParseSelections(storeSelections)
	if err != nil {
		return entity.FilterContext{}, err
	}
	channelIDs, err := ParseSelections(channelSelections)
	if err != nil {
		return entity.FilterContext{}, err
	}
	from, _ := DayBounds(startDate)
	_, to := DayBounds(endDate)
	return entity.FilterContext{
		Range:      entity.TimeRange{From: from, To: to},
		StoreIDs:   storeIDs,
		ChannelIDs: channelIDs,
	}, nil
}

// DayBounds returns 00:00:00 and 23:59:59 of d's calendar day, in d's
// location.
func DayBounds(d time.Time) (time.Time, time.Time) {
	y, m, day := d.Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, d.Location())
	end := time.Date(y, m, day, 23, 59, 59, 0, d.Location())
	return start, end
}

// ParseSelections turns widget selections into bare integer identifiers.
// Both "12 - Store Name" and plain "12" forms are accepted; the label part
// after the separator is ignored. A nil or empty list yields nil (no
// filter). Any unparsable entry fails the whole list with a FormatError.
func ParseSelections(selections []string) ([]int, error) {
	if len(selections) == 0 {
		return nil, nil
	}
	ids := make([]int, 0, len(selections))
	for _, s := range selections {
		raw, _, _ := strings.Cut(s, " - ")
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &FormatError{Raw: s}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
