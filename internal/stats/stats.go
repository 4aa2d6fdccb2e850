package stats

import (
	"context"
	"math"
	"time"

	"ecommerce-service/internal/cache"
	"ecommerce-service/internal/interfaces"
	"ecommerce-service/internal/metrics"
	"ecommerce-service/models"

	"golang.org/x/sync/errgroup"
)

const latestTransactionsLimit = 4

// Aggregator считает статистику дашборда поверх кэша: промах по
// фиксированному ключу запускает пересчет, все независимые выборки одного
// пересчета уходят в БД параллельно. Любая ошибка выборки прерывает весь
// пересчет, частичный результат в кэш не пишется.
type Aggregator struct {
	db    interfaces.Database
	cache interfaces.Cache
	now   func() time.Time
}

func New(db interfaces.Database, c interfaces.Cache) *Aggregator {
	return &Aggregator{db: db, cache: c, now: time.Now}
}

func (a *Aggregator) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s, ok := cache.Lookup[*DashboardStats](a.cache, cache.KeyAdminStats); ok {
		return s, nil
	}

	start := time.Now()
	defer func() {
		metrics.StatsComputeTime.WithLabelValues("stats").Observe(time.Since(start).Seconds())
	}()

	now := a.now()
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
	prevEnd := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location())
	sixMonthsAgo := now.AddDate(0, -6, 0)

	var (
		currentProducts, prevProducts []models.Product
		currentUsers, prevUsers       []models.User
		currentOrders, prevOrders     []models.Order
		allOrders, sixMonthOrders     []models.Order
		latestOrders                  []models.Order
		productsCount, usersCount     int64
		femaleCount                   int64
		categories                    []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		currentProducts, err = a.db.ProductsCreatedBetween(gctx, currentStart, now)
		return err
	})
	g.Go(func() (err error) {
		prevProducts, err = a.db.ProductsCreatedBetween(gctx, prevStart, prevEnd)
		return err
	})
	g.Go(func() (err error) {
		currentUsers, err = a.db.UsersCreatedBetween(gctx, currentStart, now)
		return err
	})
	g.Go(func() (err error) {
		prevUsers, err = a.db.UsersCreatedBetween(gctx, prevStart, prevEnd)
		return err
	})
	g.Go(func() (err error) {
		currentOrders, err = a.db.OrdersCreatedBetween(gctx, currentStart, now)
		return err
	})
	g.Go(func() (err error) {
		prevOrders, err = a.db.OrdersCreatedBetween(gctx, prevStart, prevEnd)
		return err
	})
	g.Go(func() (err error) {
		allOrders, err = a.db.AllOrders(gctx)
		return err
	})
	g.Go(func() (err error) {
		sixMonthOrders, err = a.db.OrdersCreatedBetween(gctx, sixMonthsAgo, now)
		return err
	})
	g.Go(func() (err error) {
		latestOrders, err = a.db.LatestOrders(gctx, latestTransactionsLimit)
		return err
	})
	g.Go(func() (err error) {
		productsCount, err = a.db.CountProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		usersCount, err = a.db.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		femaleCount, err = a.db.CountUsersByGender(gctx, models.GenderFemale)
		return err
	})
	g.Go(func() (err error) {
		categories, err = a.db.DistinctCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	categoryCount, err := a.categoryShares(ctx, categories, productsCount)
	if err != nil {
		return nil, err
	}

	orderPoints := make([]ChartPoint, len(sixMonthOrders))
	for i, o := range sixMonthOrders {
		orderPoints[i] = ChartPoint{CreatedAt: o.CreatedAt, Value: o.Total}
	}

	transactions := make([]Transaction, 0, len(latestOrders))
	for _, o := range latestOrders {
		transactions = append(transactions, Transaction{
			ID:       o.ID,
			Discount: o.Discount,
			Amount:   o.Total,
			Quantity: len(o.OrderedItems),
			Status:   o.Status,
		})
	}

	s := &DashboardStats{
		PercentChange: PercentChange{
			Revenue:  CalculatePercentage(sumTotals(currentOrders), sumTotals(prevOrders)),
			Products: CalculatePercentage(float64(len(currentProducts)), float64(len(prevProducts))),
			Users:    CalculatePercentage(float64(len(currentUsers)), float64(len(prevUsers))),
			Orders:   CalculatePercentage(float64(len(currentOrders)), float64(len(prevOrders))),
		},
		Counts: Counts{
			Revenue:  sumTotals(allOrders),
			Products: productsCount,
			Users:    usersCount,
			Orders:   len(allOrders),
		},
		Chart: OrderChart{
			Order:   ChartData(6, now, countOrderPoints(sixMonthOrders)),
			Revenue: ChartData(6, now, orderPoints),
		},
		CategoryCount: categoryCount,
		UserRatio: UserRatio{
			Male:   usersCount - femaleCount,
			Female: femaleCount,
		},
		LatestTransaction: transactions,
	}

	if err := cache.Store(a.cache, cache.KeyAdminStats, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *Aggregator) PieCharts(ctx context.Context) (*PieCharts, error) {
	if p, ok := cache.Lookup[*PieCharts](a.cache, cache.KeyAdminPieCharts); ok {
		return p, nil
	}

	start := time.Now()
	defer func() {
		metrics.StatsComputeTime.WithLabelValues("pie").Observe(time.Since(start).Seconds())
	}()

	var (
		processing, shipped, delivered int64
		productsCount, outOfStock      int64
		adminCount, customerCount      int64
		categories                     []string
		allOrders                      []models.Order
		allUsers                       []models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		processing, err = a.db.CountOrdersByStatus(gctx, models.StatusProcessing)
		return err
	})
	g.Go(func() (err error) {
		shipped, err = a.db.CountOrdersByStatus(gctx, models.StatusShipped)
		return err
	})
	g.Go(func() (err error) {
		delivered, err = a.db.CountOrdersByStatus(gctx, models.StatusDelivered)
		return err
	})
	g.Go(func() (err error) {
		categories, err = a.db.DistinctCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		productsCount, err = a.db.CountProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		outOfStock, err = a.db.CountProductsOutOfStock(gctx)
		return err
	})
	g.Go(func() (err error) {
		allOrders, err = a.db.AllOrders(gctx)
		return err
	})
	g.Go(func() (err error) {
		allUsers, err = a.db.AllUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		adminCount, err = a.db.CountUsersByRole(gctx, models.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		customerCount, err = a.db.CountUsersByRole(gctx, models.RoleUser)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	categoryCount, err := a.categoryShares(ctx, categories, productsCount)
	if err != nil {
		return nil, err
	}

	var grossMargin, discount float64
	for _, o := range allOrders {
		grossMargin += o.Total
		discount += o.Discount
	}
	marketingCost := math.Round(grossMargin * 0.3)
	// Доставка и налог в заказах есть, но в распределение выручки пока не
	// суммируются: поведение зафиксировано до решения владельцев продукта.
	var shippingCost, tax float64

	now := a.now()
	var ages AgeGroups
	for i := range allUsers {
		switch age := allUsers[i].Age(now); {
		case age < 20:
			ages.Teen++
		case age < 40:
			ages.Adult++
		default:
			ages.Old++
		}
	}

	p := &PieCharts{
		OrderFullFillment: Fulfillment{
			Processing: processing,
			Shipped:    shipped,
			Delivered:  delivered,
		},
		CategoryCount: categoryCount,
		StockAvailability: StockAvailability{
			OutOfStock: outOfStock,
			InStock:    productsCount - outOfStock,
		},
		RevenueDistribution: RevenueDistribution{
			NetMargin:     grossMargin - discount - shippingCost - tax - marketingCost,
			Discount:      discount,
			ShippingCost:  shippingCost,
			Tax:           tax,
			MarketingCost: marketingCost,
		},
		AdminCustomer: AdminCustomer{
			Admin:    adminCount,
			Customer: customerCount,
		},
		UsersAgeGroup: ages,
	}

	if err := cache.Store(a.cache, cache.KeyAdminPieCharts, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (a *Aggregator) BarChart(ctx context.Context) (*BarChart, error) {
	if b, ok := cache.Lookup[*BarChart](a.cache, cache.KeyAdminBarCharts); ok {
		return b, nil
	}

	start := time.Now()
	defer func() {
		metrics.StatsComputeTime.WithLabelValues("bar").Observe(time.Since(start).Seconds())
	}()

	now := a.now()
	sixMonthsAgo := now.AddDate(0, -6, 0)
	twelveMonthsAgo := now.AddDate(0, -12, 0)

	var (
		products []models.Product
		users    []models.User
		orders   []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = a.db.ProductsCreatedBetween(gctx, sixMonthsAgo, now)
		return err
	})
	g.Go(func() (err error) {
		users, err = a.db.UsersCreatedBetween(gctx, sixMonthsAgo, now)
		return err
	})
	g.Go(func() (err error) {
		orders, err = a.db.OrdersCreatedBetween(gctx, twelveMonthsAgo, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &BarChart{
		Users:    ChartData(6, now, countUserPoints(users)),
		Products: ChartData(6, now, countProductPoints(products)),
		Orders:   ChartData(12, now, countOrderPoints(orders)),
	}

	if err := cache.Store(a.cache, cache.KeyAdminBarCharts, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (a *Aggregator) LineChart(ctx context.Context) (*LineChart, error) {
	if l, ok := cache.Lookup[*LineChart](a.cache, cache.KeyAdminLineCharts); ok {
		return l, nil
	}

	start := time.Now()
	defer func() {
		metrics.StatsComputeTime.WithLabelValues("line").Observe(time.Since(start).Seconds())
	}()

	now := a.now()
	twelveMonthsAgo := now.AddDate(0, -12, 0)

	var (
		products []models.Product
		users    []models.User
		orders   []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = a.db.ProductsCreatedBetween(gctx, twelveMonthsAgo, now)
		return err
	})
	g.Go(func() (err error) {
		users, err = a.db.UsersCreatedBetween(gctx, twelveMonthsAgo, now)
		return err
	})
	g.Go(func() (err error) {
		orders, err = a.db.OrdersCreatedBetween(gctx, twelveMonthsAgo, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	revenuePoints := make([]ChartPoint, len(orders))
	discountPoints := make([]ChartPoint, len(orders))
	for i, o := range orders {
		revenuePoints[i] = ChartPoint{CreatedAt: o.CreatedAt, Value: o.Total}
		discountPoints[i] = ChartPoint{CreatedAt: o.CreatedAt, Value: o.Discount}
	}

	l := &LineChart{
		Users:    ChartData(12, now, countUserPoints(users)),
		Products: ChartData(12, now, countProductPoints(products)),
		Discount: ChartData(12, now, discountPoints),
		Revenue:  ChartData(12, now, revenuePoints),
	}

	if err := cache.Store(a.cache, cache.KeyAdminLineCharts, l); err != nil {
		return nil, err
	}
	return l, nil
}

// categoryShares считает долю каждой категории в каталоге, проценты
// округляются до целых. Подсчеты по категориям независимы и идут параллельно.
// При пустом каталоге доля каждой категории равна нулю.
func (a *Aggregator) categoryShares(ctx context.Context, categories []string, productsCount int64) ([]map[string]int, error) {
	counts := make([]int64, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() (err error) {
			counts[i], err = a.db.CountProductsInCategory(gctx, category)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shares := make([]map[string]int, 0, len(categories))
	for i, category := range categories {
		share := 0
		if productsCount > 0 {
			share = int(math.Round(float64(counts[i]) / float64(productsCount) * 100))
		}
		shares = append(shares, map[string]int{category: share})
	}
	return shares, nil
}

func sumTotals(orders []models.Order) float64 {
	var total float64
	for _, o := range orders {
		total += o.Total
	}
	return total
}

func countOrderPoints(orders []models.Order) []ChartPoint {
	times := make([]time.Time, len(orders))
	for i, o := range orders {
		times[i] = o.CreatedAt
	}
	return countPoints(times)
}

func countProductPoints(products []models.Product) []ChartPoint {
	times := make([]time.Time, len(products))
	for i, p := range products {
		times[i] = p.CreatedAt
	}
	return countPoints(times)
}

func countUserPoints(users []models.User) []ChartPoint {
	times := make([]time.Time, len(users))
	for i, u := range users {
		times[i] = u.CreatedAt
	}
	return countPoints(times)
}
