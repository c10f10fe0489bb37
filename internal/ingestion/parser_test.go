package ingestion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shoppulse/internal/domain/models"
)

func TestParse_EconomyShopGUI(t *testing.T) {
	text := "[2024-01-01 10:00:00] - Alice bought 10 x Diamond Sword for $100.00\n" +
		"[2024-01-01 11:00:00] - Bob sold 5 x Diamond Sword for $60.00\n"

	buckets, st := Parse(text, models.FormatEconomyShopGUI)

	assert.Equal(t, Stats{Lines: 2, Matched: 2, Skipped: 0}, st)
	require.Equal(t, []string{"2024-01-01"}, buckets.Days())

	txs, ok := buckets.Day("2024-01-01")
	require.True(t, ok)
	require.Len(t, txs, 2)

	assert.Equal(t, "Alice", txs[0].Player)
	assert.Equal(t, models.ActionBought, txs[0].Action)
	assert.Equal(t, int64(10), txs[0].Quantity)
	assert.Equal(t, "Diamond Sword", txs[0].Item)
	assert.True(t, txs[0].Price.Equal(decimal.NewFromInt(100)))

	assert.Equal(t, "Bob", txs[1].Player)
	assert.Equal(t, models.ActionSold, txs[1].Action)
	assert.InDelta(t, 12.0, txs[1].UnitPrice(), 1e-9)
}

func TestParse_ShopGUIPlus(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		day    string
		player string
		action models.Action
		qty    int64
		item   string
		price  string
	}{
		{
			name:   "all, command and shop suffix",
			line:   "2024/03/15 09:30:00 Steve bought all 3 x Cobblestone command for $6.00 from Block shop",
			day:    "2024-03-15",
			player: "Steve",
			action: models.ActionBought,
			qty:    3,
			item:   "Cobblestone",
			price:  "6",
		},
		{
			name:   "colour codes and thousands separators",
			line:   "2024/03/16 18:04:59 Alex sold 64 x §a§lEmerald Block§r for $1,234,567.50 to Ores shop",
			day:    "2024-03-16",
			player: "Alex",
			action: models.ActionSold,
			qty:    64,
			item:   "Emerald Block",
			price:  "1234567.5",
		},
		{
			name:   "parenthetical suffix kept in key",
			line:   "2024/03/17 07:00:00 Steve bought 1 x Potion (Healing II) for $25",
			day:    "2024-03-17",
			player: "Steve",
			action: models.ActionBought,
			qty:    1,
			item:   "Potion (Healing II)",
			price:  "25",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buckets, st := Parse(tc.line, models.FormatShopGUIPlus)
			require.Equal(t, 1, st.Matched, "line should match")

			txs, ok := buckets.Day(tc.day)
			require.True(t, ok, "day %s missing, have %v", tc.day, buckets.Days())
			require.Len(t, txs, 1)

			tx := txs[0]
			assert.Equal(t, tc.player, tx.Player)
			assert.Equal(t, tc.action, tx.Action)
			assert.Equal(t, tc.qty, tx.Quantity)
			assert.Equal(t, tc.item, tx.Item)
			assert.True(t, tx.Price.Equal(decimal.RequireFromString(tc.price)), "price %s", tx.Price)
		})
	}
}

func TestParse_SkipsNoise(t *testing.T) {
	text := "[Server thread/INFO]: Done (3.2s)!\n" +
		"\n" +
		"[2024-01-01 10:00:00] - Alice bought 0 x Dirt for $0\n" +
		"[2024-13-01 10:00:00] - Alice bought 1 x Dirt for $1\n" +
		"[2024-02-30 10:00:00] - Alice bought 1 x Dirt for $1\n" +
		"[2024-01-01 25:00:00] - Alice bought 1 x Dirt for $1\n" +
		"[2024-01-01 10:00:00] - Alice bought 1 x §a§l for $1\n" +
		"[2024-01-01 10:00:00] - Alice bought 1 x Dirt for $1.2.3\n" +
		"[2024-01-01 10:00:00] - Alice traded 1 x Dirt for $1\n" +
		"[2024-01-01 10:00:00] - Alice bought 2 x Dirt for $4\r\n" +
		"\r\n"

	buckets, st := Parse(text, models.FormatEconomyShopGUI)

	assert.Equal(t, 9, st.Lines, "blank lines are not counted")
	assert.Equal(t, 1, st.Matched)
	assert.Equal(t, 8, st.Skipped, "grammar matches with an impossible date, time or amount are skipped too")
	assert.Equal(t, 1, buckets.Count())
}

func TestParse_FormatMismatch(t *testing.T) {
	_, st := Parse("2024/03/15 09:30:00 Steve bought 3 x Cobblestone for $6.00", models.FormatEconomyShopGUI)
	assert.Zero(t, st.Matched)

	_, st = Parse("[2024-01-01 10:00:00] - Alice bought 10 x Diamond for $100", models.FormatShopGUIPlus)
	assert.Zero(t, st.Matched)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n\n", "nothing to see here"} {
		buckets, st := Parse(text, models.FormatEconomyShopGUI)
		assert.Zero(t, buckets.Len())
		assert.Zero(t, buckets.Count())
		assert.Zero(t, st.Matched)
	}
}

func TestParse_OrderAndRoundTrip(t *testing.T) {
	text := "[2024-01-02 09:00:00] - A bought 1 x X for $1\n" +
		"[2024-01-01 09:00:00] - B bought 1 x X for $1\n" +
		"[2024-01-02 10:00:00] - C sold 1 x X for $1\n" +
		"garbage\n" +
		"[2024-01-01 08:00:00] - D sold 1 x Y for $1\n"

	buckets, st := Parse(text, models.FormatEconomyShopGUI)

	// Days in first-seen order, transactions in log order within a day.
	assert.Equal(t, []string{"2024-01-02", "2024-01-01"}, buckets.Days())
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, buckets.SortedDays())

	var players []string
	total := 0
	for _, txs := range buckets.All() {
		total += len(txs)
		for _, tx := range txs {
			players = append(players, tx.Player)
		}
	}
	assert.Equal(t, []string{"A", "C", "B", "D"}, players)
	assert.Equal(t, st.Matched, total)
	assert.Equal(t, st.Lines, st.Matched+st.Skipped)
}

func TestCanonicalItem(t *testing.T) {
	cases := map[string]string{
		"  Diamond  ":       "Diamond",
		"§6Gold §lIngot":    "Gold Ingot",
		"§AUpper§R":         "Upper",
		"§a Stone":          "Stone",
		"§AStone":           "Stone",
		"Sword (Sharpness)": "Sword (Sharpness)",
		"§x not a code":     "§x not a code",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalItem(in), "input %q", in)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "100", want: "100"},
		{in: "1,234.56", want: "1234.56"},
		{in: "1,234,567", want: "1234567"},
		{in: "0.10", want: "0.1"},
		{in: "1.2.3", wantErr: true},
		{in: ",", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "input %q got %s", tc.in, got)
	}
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-03-15", NormalizeDate("2024/03/15"))
	assert.Equal(t, "2024-03-15", NormalizeDate("2024-03-15"))
}
