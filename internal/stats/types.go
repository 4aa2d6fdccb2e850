package stats

import "go.mongodb.org/mongo-driver/bson/primitive"

// Формы ответов дашборда. Имена JSON-полей зафиксированы фронтендом,
// менять нельзя.

type PercentChange struct {
	Revenue  int `json:"revenue"`
	Products int `json:"products"`
	Users    int `json:"users"`
	Orders   int `json:"orders"`
}

type Counts struct {
	Revenue  float64 `json:"revenue"`
	Products int64   `json:"products"`
	Users    int64   `json:"users"`
	Orders   int     `json:"orders"`
}

type OrderChart struct {
	Order   []float64 `json:"order"`
	Revenue []float64 `json:"revenue"`
}

type UserRatio struct {
	Male   int64 `json:"male"`
	Female int64 `json:"female"`
}

type Transaction struct {
	ID       primitive.ObjectID `json:"_id"`
	Discount float64            `json:"discount"`
	Amount   float64            `json:"amount"`
	Quantity int                `json:"quantity"`
	Status   string             `json:"status"`
}

type DashboardStats struct {
	PercentChange     PercentChange    `json:"percentChange"`
	Counts            Counts           `json:"counts"`
	Chart             OrderChart       `json:"chart"`
	CategoryCount     []map[string]int `json:"categoryCount"`
	UserRatio         UserRatio        `json:"userRatio"`
	LatestTransaction []Transaction    `json:"latestTransaction"`
}

type Fulfillment struct {
	Processing int64 `json:"processing"`
	Shipped    int64 `json:"shipped"`
	Delivered  int64 `json:"delivered"`
}

type StockAvailability struct {
	OutOfStock int64 `json:"outOfStock"`
	InStock    int64 `json:"inStock"`
}

type RevenueDistribution struct {
	NetMargin     float64 `json:"netMargin"`
	Discount      float64 `json:"discount"`
	ShippingCost  float64 `json:"shippingCost"`
	Tax           float64 `json:"tax"`
	MarketingCost float64 `json:"marketingCost"`
}

type AdminCustomer struct {
	Admin    int64 `json:"admin"`
	Customer int64 `json:"customer"`
}

type AgeGroups struct {
	Teen  int `json:"teen"`
	Adult int `json:"adult"`
	Old   int `json:"old"`
}

type PieCharts struct {
	OrderFullFillment   Fulfillment         `json:"orderFullFillment"`
	CategoryCount       []map[string]int    `json:"categoryCount"`
	StockAvailability   StockAvailability   `json:"stockAvailability"`
	RevenueDistribution RevenueDistribution `json:"revenueDistribution"`
	AdminCustomer       AdminCustomer       `json:"adminCustomer"`
	UsersAgeGroup       AgeGroups           `json:"usersAgeGroup"`
}

type BarChart struct {
	Users    []float64 `json:"users"`
	Products []float64 `json:"products"`
	Orders   []float64 `json:"orders"`
}

type LineChart struct {
	Users    []float64 `json:"users"`
	Products []float64 `json:"products"`
	Discount []float64 `json:"discount"`
	Revenue  []float64 `json:"revenue"`
}
