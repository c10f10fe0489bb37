package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/shoppulse/internal/domain/models"
	"github.com/guttosm/shoppulse/internal/view"
)

// AnalyticsQuery holds the query parameters shared by the analytics endpoints.
// Dates are canonical YYYY-MM-DD day keys; a missing bound defaults to the
// first/last day of the loaded log.
type AnalyticsQuery struct {
	Start        string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End          string `form:"end" binding:"omitempty,datetime=2006-01-02"`
	Top          int    `form:"top" binding:"omitempty,min=1,max=100"`
	ProfitOrder  string `form:"profit_order" binding:"omitempty,oneof=asc ascending desc descending"`
	OnlyNegative *bool  `form:"only_negative"`
}

// SeriesQuery adds the moving average window to AnalyticsQuery.
type SeriesQuery struct {
	AnalyticsQuery
	Window int `form:"window" binding:"omitempty,min=1,max=365"`
}

// PlayerDetail is the per-player entry of AnalyticsResponse.Players.
type PlayerDetail struct {
	Bought      int64           `json:"bought"`
	Sold        int64           `json:"sold"`
	TotalSpent  decimal.Decimal `json:"total_spent" swaggertype:"string" example:"100.00"`
	TotalEarned decimal.Decimal `json:"total_earned" swaggertype:"string" example:"60.00"`
}

// AnalyticsResponse is the JSON contract between the aggregator and the UI.
type AnalyticsResponse struct {
	FileName string           `json:"file_name" example:"transactions.txt"`
	Format   string           `json:"format" example:"EconomyShopGUI"`
	Range    models.DateRange `json:"range"`

	TotalTransactions int `json:"total_transactions" example:"2"`
	TotalEarners      int `json:"total_earners" example:"1"`
	TotalSpenders     int `json:"total_spenders" example:"1"`

	PopularItems       []models.ItemRank     `json:"popular_items"`
	LeastPopularItems  []models.ItemRank     `json:"least_popular_items"`
	MostImpactfulItems []models.ItemMargin   `json:"most_impactful_items"`
	ItemMargins        []models.ItemMargin   `json:"item_margins"`
	TopSpenders        []models.PlayerAmount `json:"top_spenders"`
	TopEarners         []models.PlayerAmount `json:"top_earners"`
	MostActiveTraders  []models.PlayerStats  `json:"most_active_traders"`

	AveragePrices     map[string]models.PriceAverages `json:"average_prices"`
	Players           map[string]PlayerDetail         `json:"players"`
	TransactionsByDay []models.DayCount               `json:"transactions_by_day"`
}

// NewAnalyticsResponse maps a bundle onto the response shape.
func NewAnalyticsResponse(fileName string, format models.Format, r models.DateRange, b *models.Bundle) AnalyticsResponse {
	players := make(map[string]PlayerDetail, len(b.Players))
	for _, p := range b.Players {
		players[p.Player] = PlayerDetail{
			Bought:      p.Bought,
			Sold:        p.Sold,
			TotalSpent:  p.TotalSpent,
			TotalEarned: p.TotalEarned,
		}
	}

	return AnalyticsResponse{
		FileName:           fileName,
		Format:             string(format),
		Range:              r,
		TotalTransactions:  b.TotalTransactions,
		TotalEarners:       b.TotalEarners,
		TotalSpenders:      b.TotalSpenders,
		PopularItems:       b.PopularItems,
		LeastPopularItems:  b.LeastPopularItems,
		MostImpactfulItems: b.MostImpactfulItems,
		ItemMargins:        b.ItemMargins,
		TopSpenders:        b.TopSpenders,
		TopEarners:         b.TopEarners,
		MostActiveTraders:  b.MostActiveTraders,
		AveragePrices:      b.AveragePrices(),
		Players:            players,
		TransactionsByDay:  b.TransactionsByDay,
	}
}

// PlayerResponse is returned by the player lookup endpoint.
type PlayerResponse struct {
	Player string `json:"player" example:"Alice"`
	PlayerDetail
}

// UploadResponse describes the log currently held by the session.
type UploadResponse struct {
	ID           string    `json:"id" example:"2f1c3b1e-8d7a-4a43-9d0e-5b7f4a2f6c11"`
	FileName     string    `json:"file_name" example:"transactions.txt"`
	Format       string    `json:"format" example:"EconomyShopGUI"`
	LoadedAt     time.Time `json:"loaded_at"`
	Lines        int       `json:"lines" example:"120"`
	Skipped      int       `json:"skipped" example:"4"`
	Transactions int       `json:"transactions" example:"116"`
	Days         []string  `json:"days"`
}

// SeriesResponse is the transactions-per-day chart with its moving average.
type SeriesResponse struct {
	Window int                `json:"window" example:"7"`
	Points []view.SeriesPoint `json:"points"`
}
