package affinity

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"costumier/internal/engine"
)

// sessionGap is the largest gap between a session's running end date and the
// next rental's start date for the rental to join the session.
const sessionGap = 7 * 24 * time.Hour

// Pair is a frequently co-rented costume pair with its support over all
// sessions.
type Pair struct {
	Items   [2]uuid.UUID
	Support float64
	Count   int
}

// FrequentPairs mines costume pairs that co-occur within rental sessions,
// keeping pairs whose support meets minSupport and sorting by support
// descending. This is an Apriori-style frequent-itemset pass restricted to
// pairs, which is all the combo-suggestion surface needs.
func FrequentPairs(rentals []engine.Rental, minSupport float64) []Pair {
	sessions := groupSessions(rentals)
	if len(sessions) == 0 {
		return nil
	}

	counts := make(map[[2]uuid.UUID]int)
	for _, session := range sessions {
		if len(session) < 2 {
			continue
		}
		for i := 0; i < len(session); i++ {
			for j := i + 1; j < len(session); j++ {
				counts[orderedPair(session[i], session[j])]++
			}
		}
	}

	total := float64(len(sessions))
	var pairs []Pair
	for key, count := range counts {
		support := float64(count) / total
		if support >= minSupport {
			pairs = append(pairs, Pair{Items: key, Support: support, Count: count})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Support > pairs[j].Support
	})
	return pairs
}

// groupSessions splits each shopper's rentals into sessions: consecutive
// rentals whose start date falls within sessionGap of the running session's
// end date share a session.
func groupSessions(rentals []engine.Rental) [][]uuid.UUID {
	byShopper := make(map[uuid.UUID][]engine.Rental)
	for _, r := range rentals {
		byShopper[r.ShopperID] = append(byShopper[r.ShopperID], r)
	}

	var sessions [][]uuid.UUID
	for _, shopperRentals := range byShopper {
		sort.SliceStable(shopperRentals, func(i, j int) bool {
			return shopperRentals[i].StartDate.Before(shopperRentals[j].StartDate)
		})

		var current []uuid.UUID
		var sessionEnd time.Time

		for _, r := range shopperRentals {
			if len(current) > 0 && !r.StartDate.After(sessionEnd.Add(sessionGap)) {
				current = append(current, r.CostumeID)
				if r.EndDate.After(sessionEnd) {
					sessionEnd = r.EndDate
				}
			} else {
				if len(current) > 0 {
					sessions = append(sessions, current)
				}
				current = []uuid.UUID{r.CostumeID}
				sessionEnd = r.EndDate
			}
		}
		if len(current) > 0 {
			sessions = append(sessions, current)
		}
	}

	return sessions
}

func orderedPair(a, b uuid.UUID) [2]uuid.UUID {
	if a.String() > b.String() {
		a, b = b, a
	}
	return [2]uuid.UUID{a, b}
}
