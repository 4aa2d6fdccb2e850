package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecommerce-service/internal/cache"
	"ecommerce-service/internal/mocks"
	"ecommerce-service/models"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// фиксированный момент "сейчас", чтобы месячные окна были детерминированы
var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestAggregator(db *mocks.MockDatabase) (*Aggregator, *cache.Cache) {
	c := cache.New()
	a := New(db, c)
	a.now = func() time.Time { return testNow }
	return a, c
}

func orderWith(createdAt time.Time, total, discount float64) models.Order {
	return models.Order{
		ID:        primitive.NewObjectID(),
		Total:     total,
		Discount:  discount,
		CreatedAt: createdAt,
	}
}

func TestDashboardStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	a, c := newTestAggregator(mockDB)

	currentStart := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	prevStart := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	prevEnd := time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
	sixMonthsAgo := testNow.AddDate(0, -6, 0)

	currentOrder := orderWith(testNow.AddDate(0, 0, -1), 150, 0)
	prevOrder := orderWith(prevStart.AddDate(0, 0, 5), 100, 0)
	oldOrder := orderWith(testNow.AddDate(0, -4, 0), 50, 0)

	latest := orderWith(testNow, 150, 10)
	latest.Status = models.StatusProcessing
	latest.OrderedItems = []models.OrderItem{{Quantity: 1}, {Quantity: 2}}

	mockDB.EXPECT().ProductsCreatedBetween(gomock.Any(), currentStart, testNow).
		Return(make([]models.Product, 3), nil)
	mockDB.EXPECT().ProductsCreatedBetween(gomock.Any(), prevStart, prevEnd).
		Return(make([]models.Product, 2), nil)
	mockDB.EXPECT().UsersCreatedBetween(gomock.Any(), currentStart, testNow).
		Return(make([]models.User, 2), nil)
	mockDB.EXPECT().UsersCreatedBetween(gomock.Any(), prevStart, prevEnd).
		Return(make([]models.User, 1), nil)
	mockDB.EXPECT().OrdersCreatedBetween(gomock.Any(), currentStart, testNow).
		Return([]models.Order{currentOrder}, nil)
	mockDB.EXPECT().OrdersCreatedBetween(gomock.Any(), prevStart, prevEnd).
		Return([]models.Order{prevOrder}, nil)
	mockDB.EXPECT().AllOrders(gomock.Any()).
		Return([]models.Order{currentOrder, prevOrder, oldOrder}, nil)
	mockDB.EXPECT().OrdersCreatedBetween(gomock.Any(), sixMonthsAgo, testNow).
		Return([]models.Order{currentOrder, prevOrder}, nil)
	mockDB.EXPECT().LatestOrders(gomock.Any(), int64(4)).
		Return([]models.Order{latest}, nil)
	mockDB.EXPECT().CountProducts(gomock.Any()).Return(int64(10), nil)
	mockDB.EXPECT().CountUsers(gomock.Any()).Return(int64(5), nil)
	mockDB.EXPECT().CountUsersByGender(gomock.Any(), models.GenderFemale).Return(int64(2), nil)
	mockDB.EXPECT().DistinctCategories(gomock.Any()).Return([]string{"shoes", "hats"}, nil)
	mockDB.EXPECT().CountProductsInCategory(gomock.Any(), "shoes").Return(int64(6), nil)
	mockDB.EXPECT().CountProductsInCategory(gomock.Any(), "hats").Return(int64(4), nil)

	s, err := a.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PercentChange{Revenue: 50, Products: 50, Users: 100, Orders: 0}, s.PercentChange)
	assert.Equal(t, Counts{Revenue: 300, Products: 10, Users: 5, Orders: 3}, s.Counts)
	assert.Equal(t, []map[string]int{{"shoes": 60}, {"hats": 40}}, s.CategoryCount)
	assert.Equal(t, UserRatio{Male: 3, Female: 2}, s.UserRatio)

	assert.Equal(t, []float64{0, 0, 0, 0, 1, 1}, s.Chart.Order)
	assert.Equal(t, []float64{0, 0, 0, 0, 100, 150}, s.Chart.Revenue)

	require.Len(t, s.LatestTransaction, 1)
	assert.Equal(t, float64(150), s.LatestTransaction[0].Amount)
	assert.Equal(t, 2, s.LatestTransaction[0].Quantity)
	assert.Equal(t, models.StatusProcessing, s.LatestTransaction[0].Status)

	// второй вызов обслуживается из кэша, новых походов в БД нет
	assert.True(t, c.Has(cache.KeyAdminStats))
	cached, err := a.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s, cached)
}

func TestDashboardStats_QueryErrorNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	a, c := newTestAggregator(mockDB)

	dbErr := errors.New("соединение потеряно")
	mockDB.EXPECT().AllOrders(gomock.Any()).Return(nil, dbErr)
	mockDB.EXPECT().ProductsCreatedBetween(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()
	mockDB.EXPECT().UsersCreatedBetween(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()
	mockDB.EXPECT().OrdersCreatedBetween(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()
	mockDB.EXPECT().LatestOrders(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	mockDB.EXPECT().CountProducts(gomock.Any()).Return(int64(0), nil).AnyTimes()
	mockDB.EXPECT().CountUsers(gomock.Any()).Return(int64(0), nil).AnyTimes()
	mockDB.EXPECT().CountUsersByGender(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()
	mockDB.EXPECT().DistinctCategories(gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := a.DashboardStats(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)

	// частичный результат в кэш не попадает
	assert.False(t, c.Has(cache.KeyAdminStats))
}

func TestPieCharts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	a, c := newTestAggregator(mockDB)

	users := []models.User{
		{DOB: time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)}, // 15 лет
		{DOB: time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC)}, // 30 лет
		{DOB: time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)}, // 45 лет
	}

	mockDB.EXPECT().CountOrdersByStatus(gomock.Any(), models.StatusProcessing).Return(int64(3), nil)
	mockDB.EXPECT().CountOrdersByStatus(gomock.Any(), models.StatusShipped).Return(int64(4), nil)
	mockDB.EXPECT().CountOrdersByStatus(gomock.Any(), models.StatusDelivered).Return(int64(5), nil)
	mockDB.EXPECT().DistinctCategories(gomock.Any()).Return([]string{"shoes"}, nil)
	mockDB.EXPECT().CountProducts(gomock.Any()).Return(int64(10), nil)
	mockDB.EXPECT().CountProductsInCategory(gomock.Any(), "shoes").Return(int64(10), nil)
	mockDB.EXPECT().CountProductsOutOfStock(gomock.Any()).Return(int64(4), nil)
	mockDB.EXPECT().AllOrders(gomock.Any()).Return([]models.Order{
		orderWith(testNow, 120, 15),
		orderWith(testNow, 80, 5),
	}, nil)
	mockDB.EXPECT().AllUsers(gomock.Any()).Return(users, nil)
	mockDB.EXPECT().CountUsersByRole(gomock.Any(), models.RoleAdmin).Return(int64(1), nil)
	mockDB.EXPECT().CountUsersByRole(gomock.Any(), models.RoleUser).Return(int64(2), nil)

	p, err := a.PieCharts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Fulfillment{Processing: 3, Shipped: 4, Delivered: 5}, p.OrderFullFillment)
	assert.Equal(t, []map[string]int{{"shoes": 100}}, p.CategoryCount)
	assert.Equal(t, StockAvailability{OutOfStock: 4, InStock: 6}, p.StockAvailability)

	// выручка 200, скидки 20, маркетинг 30% от выручки
	assert.Equal(t, RevenueDistribution{
		NetMargin:     120,
		Discount:      20,
		ShippingCost:  0,
		Tax:           0,
		MarketingCost: 60,
	}, p.RevenueDistribution)

	assert.Equal(t, AdminCustomer{Admin: 1, Customer: 2}, p.AdminCustomer)
	assert.Equal(t, AgeGroups{Teen: 1, Adult: 1, Old: 1}, p.UsersAgeGroup)

	assert.True(t, c.Has(cache.KeyAdminPieCharts))
}

func TestBarChart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	a, c := newTestAggregator(mockDB)

	sixMonthsAgo := testNow.AddDate(0, -6, 0)
	twelveMonthsAgo := testNow.AddDate(0, -12, 0)

	mockDB.EXPECT().ProductsCreatedBetween(gomock.Any(), sixMonthsAgo, testNow).
		Return([]models.Product{{CreatedAt: time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC)}}, nil)
	mockDB.EXPECT().UsersCreatedBetween(gomock.Any(), sixMonthsAgo, testNow).
		Return([]models.User{{CreatedAt: testNow}}, nil)
	mockDB.EXPECT().OrdersCreatedBetween(gomock.Any(), twelveMonthsAgo, testNow).
		Return([]models.Order{
			orderWith(time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC), 10, 0),
			orderWith(testNow, 20, 0),
		}, nil)

	b, err := a.BarChart(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0, 0, 0, 1, 0}, b.Products)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 1}, b.Users)
	assert.Equal(t, []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, b.Orders)

	assert.True(t, c.Has(cache.KeyAdminBarCharts))
}

func TestLineChart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	a, c := newTestAggregator(mockDB)

	twelveMonthsAgo := testNow.AddDate(0, -12, 0)

	mockDB.EXPECT().ProductsCreatedBetween(gomock.Any(), twelveMonthsAgo, testNow).
		Return(nil, nil)
	mockDB.EXPECT().UsersCreatedBetween(gomock.Any(), twelveMonthsAgo, testNow).
		Return([]models.User{{CreatedAt: testNow}}, nil)
	mockDB.EXPECT().OrdersCreatedBetween(gomock.Any(), twelveMonthsAgo, testNow).
		Return([]models.Order{orderWith(testNow, 200, 20)}, nil)

	l, err := a.LineChart(context.Background())
	require.NoError(t, err)

	assert.Len(t, l.Products, 12)
	assert.Equal(t, float64(1), l.Users[11])
	assert.Equal(t, float64(200), l.Revenue[11])
	assert.Equal(t, float64(20), l.Discount[11])

	assert.True(t, c.Has(cache.KeyAdminLineCharts))
}
