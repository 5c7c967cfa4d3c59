package affinity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"costumier/internal/engine"
)

func TestContentSimilarityFullMatch(t *testing.T) {
	a := engine.Costume{
		ID:          uuid.New(),
		Category:    "Fantasy",
		Size:        "M",
		Price:       40,
		Condition:   engine.ConditionGood,
		Description: "blue sparkling gown",
	}
	b := a
	b.ID = uuid.New()

	assert.InDelta(t, 1.0, ContentSimilarity(a, b), 1e-9)
}

func TestContentSimilarityPartial(t *testing.T) {
	a := engine.Costume{Category: "Fantasy", Size: "M", Price: 40, Condition: engine.ConditionGood}
	b := engine.Costume{Category: "Fantasy", Size: "L", Price: 100, Condition: engine.ConditionFair}

	// Only the category matches: 0.4. Prices differ by far more than the
	// closeness band, sizes and conditions differ, descriptions are empty.
	assert.InDelta(t, 0.4, ContentSimilarity(a, b), 1e-9)
}

func TestContentSimilarityPriceBand(t *testing.T) {
	a := engine.Costume{Price: 100}
	b := engine.Costume{Price: 110}
	c := engine.Costume{Price: 200}

	// 100 vs 110: relative gap under 20%, so the price weight applies.
	assert.InDelta(t, 0.2+0.4+0.2+0.1, ContentSimilarity(a, b), 1e-9,
		"equal empty category/size/condition also match")
	withFar := ContentSimilarity(a, c)
	assert.InDelta(t, 0.4+0.2+0.1, withFar, 1e-9)
}

func TestContentBasedRecommendationsExcludesTarget(t *testing.T) {
	target := engine.Costume{ID: uuid.New(), Category: "Fantasy", Size: "M", Condition: engine.ConditionGood}
	twin := engine.Costume{ID: uuid.New(), Category: "Fantasy", Size: "M", Condition: engine.ConditionGood}
	far := engine.Costume{ID: uuid.New(), Category: "Horror", Size: "XL", Condition: engine.ConditionFair}

	recs := ContentBasedRecommendations(target, []engine.Costume{target, far, twin}, 2)

	require.Len(t, recs, 2)
	assert.Equal(t, twin.ID, recs[0].ID, "closest costume first")
	assert.Equal(t, far.ID, recs[1].ID)
	for _, r := range recs {
		assert.NotEqual(t, target.ID, r.ID)
	}
}

func TestJaccardFloorOnDisjointHistories(t *testing.T) {
	shopper := uuid.New()
	stranger := uuid.New()

	mine := engine.Costume{ID: uuid.New(), Name: "Mine"}
	theirs := engine.Costume{ID: uuid.New(), Name: "Theirs"}

	rentals := []engine.Rental{
		{ID: uuid.New(), ShopperID: shopper, CostumeID: mine.ID},
		{ID: uuid.New(), ShopperID: stranger, CostumeID: theirs.ID},
	}

	history := map[uuid.UUID]struct{}{mine.ID: {}}
	neighbors := similarShoppers(shopper, history, rentals)

	assert.Empty(t, neighbors, "disjoint histories score 0 and fall below the floor")
}

func TestSimilarShoppersFloorIsStrict(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		shopper := uuid.New()

		shared := rapid.IntRange(0, 5).Draw(t, "shared")
		mineOnly := rapid.IntRange(0, 5).Draw(t, "mineOnly")
		theirsOnly := rapid.IntRange(0, 5).Draw(t, "theirsOnly")
		if shared+mineOnly == 0 || shared+theirsOnly == 0 {
			t.Skip("both shoppers need at least one rental")
		}

		other := uuid.New()
		history := make(map[uuid.UUID]struct{})
		var rentals []engine.Rental

		for i := 0; i < shared; i++ {
			id := uuid.New()
			history[id] = struct{}{}
			rentals = append(rentals, engine.Rental{ID: uuid.New(), ShopperID: other, CostumeID: id})
		}
		for i := 0; i < mineOnly; i++ {
			history[uuid.New()] = struct{}{}
		}
		for i := 0; i < theirsOnly; i++ {
			rentals = append(rentals, engine.Rental{ID: uuid.New(), ShopperID: other, CostumeID: uuid.New()})
		}

		neighbors := similarShoppers(shopper, history, rentals)

		union := shared + mineOnly + theirsOnly
		similarity := float64(shared) / float64(union)
		if similarity > similarityFloor {
			require.Len(t, neighbors, 1)
			require.InDelta(t, similarity, neighbors[0].similarity, 1e-9)
		} else {
			require.Empty(t, neighbors)
		}
	})
}

func TestCollaborativeRecommendations(t *testing.T) {
	me := uuid.New()
	peer := uuid.New()

	seen := engine.Costume{ID: uuid.New(), Name: "Seen"}
	suggested := engine.Costume{ID: uuid.New(), Name: "Suggested"}
	costumes := []engine.Costume{seen, suggested}

	rentals := []engine.Rental{
		{ID: uuid.New(), ShopperID: me, CostumeID: seen.ID},
		{ID: uuid.New(), ShopperID: peer, CostumeID: seen.ID},
		{ID: uuid.New(), ShopperID: peer, CostumeID: suggested.ID},
	}

	recs := CollaborativeRecommendations(me, rentals, costumes, 5)

	require.Len(t, recs, 1)
	assert.Equal(t, suggested.ID, recs[0].ID, "already-rented costumes are excluded")
}

func TestCollaborativeFallsBackToPopularity(t *testing.T) {
	newcomer := uuid.New()

	hot := engine.Costume{ID: uuid.New(), Name: "Hot"}
	cold := engine.Costume{ID: uuid.New(), Name: "Cold"}
	costumes := []engine.Costume{cold, hot}

	someone := uuid.New()
	rentals := []engine.Rental{
		{ID: uuid.New(), ShopperID: someone, CostumeID: hot.ID},
		{ID: uuid.New(), ShopperID: someone, CostumeID: hot.ID},
		{ID: uuid.New(), ShopperID: someone, CostumeID: cold.ID},
	}

	recs := CollaborativeRecommendations(newcomer, rentals, costumes, 5)

	require.Len(t, recs, 2)
	assert.Equal(t, hot.ID, recs[0].ID)
	assert.Equal(t, cold.ID, recs[1].ID)
}

func TestFrequentPairsSessionGrouping(t *testing.T) {
	shopper := uuid.New()
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	rental := func(costumeID uuid.UUID, startDay, endDay int) engine.Rental {
		return engine.Rental{
			ID:        uuid.New(),
			ShopperID: shopper,
			CostumeID: costumeID,
			StartDate: base.AddDate(0, 0, startDay),
			EndDate:   base.AddDate(0, 0, endDay),
			Status:    engine.RentalActive,
		}
	}

	rentals := []engine.Rental{
		// Session one: b starts within seven days of a's end.
		rental(a, 0, 2),
		rental(b, 5, 7),
		// c starts more than seven days after the session end, so it opens a
		// new single-item session and pairs with nothing.
		rental(c, 20, 22),
	}

	pairs := FrequentPairs(rentals, 0.1)

	require.Len(t, pairs, 1)
	assert.Equal(t, orderedPair(a, b), pairs[0].Items)
	assert.Equal(t, 1, pairs[0].Count)
	// Two sessions total, the pair occurs in one of them.
	assert.InDelta(t, 0.5, pairs[0].Support, 1e-9)
}

func TestFrequentPairsMinSupportCutoff(t *testing.T) {
	shopperA := uuid.New()
	shopperB := uuid.New()
	x := uuid.New()
	y := uuid.New()

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	rentals := []engine.Rental{
		{ID: uuid.New(), ShopperID: shopperA, CostumeID: x, StartDate: base, EndDate: base.AddDate(0, 0, 2)},
		{ID: uuid.New(), ShopperID: shopperA, CostumeID: y, StartDate: base.AddDate(0, 0, 3), EndDate: base.AddDate(0, 0, 5)},
		{ID: uuid.New(), ShopperID: shopperB, CostumeID: x, StartDate: base, EndDate: base.AddDate(0, 0, 2)},
	}

	// One pair occurrence over two sessions: support 0.5.
	assert.Len(t, FrequentPairs(rentals, 0.5), 1)
	assert.Empty(t, FrequentPairs(rentals, 0.6))
}

func TestFrequentPairsEmptyInput(t *testing.T) {
	assert.Empty(t, FrequentPairs(nil, 0.1))
}
