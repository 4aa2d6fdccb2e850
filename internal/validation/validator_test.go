package validation

import (
	"testing"
	"time"

	"ecommerce-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func createValidOrder() *models.Order {
	return &models.Order{
		ShippingInfo: models.ShippingInfo{
			Address: "Ploshad Mira 15",
			City:    "Kiryat Mozkin",
			State:   "Kraiot",
			Country: "Israel",
			Zipcode: 2639809,
		},
		User:            "user-123",
		Subtotal:        100,
		Tax:             18,
		ShippingCharges: 10,
		Discount:        8,
		Total:           120,
		Status:          models.StatusProcessing,
		OrderedItems: []models.OrderItem{
			{
				Name:      "Кроссовки",
				Price:     50,
				Quantity:  2,
				ProductID: primitive.NewObjectID(),
			},
		},
	}
}

func TestValidateOrder(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(o *models.Order)
		wantErr bool
	}{
		{
			name:    "valid order",
			mutate:  func(o *models.Order) {},
			wantErr: false,
		},
		{
			name:    "empty user",
			mutate:  func(o *models.Order) { o.User = "" },
			wantErr: true,
		},
		{
			name:    "no items",
			mutate:  func(o *models.Order) { o.OrderedItems = nil },
			wantErr: true,
		},
		{
			name:    "zero item quantity",
			mutate:  func(o *models.Order) { o.OrderedItems[0].Quantity = 0 },
			wantErr: true,
		},
		{
			name:    "zero item price",
			mutate:  func(o *models.Order) { o.OrderedItems[0].Price = 0 },
			wantErr: true,
		},
		{
			name:    "missing product id",
			mutate:  func(o *models.Order) { o.OrderedItems[0].ProductID = primitive.NilObjectID },
			wantErr: true,
		},
		{
			name:    "totals mismatch",
			mutate:  func(o *models.Order) { o.Total = 500 },
			wantErr: true,
		},
		{
			name:    "negative discount",
			mutate:  func(o *models.Order) { o.Discount = -5 },
			wantErr: true,
		},
		{
			name:    "unknown status",
			mutate:  func(o *models.Order) { o.Status = "Cancelled" },
			wantErr: true,
		},
		{
			name:    "missing shipping city",
			mutate:  func(o *models.Order) { o.ShippingInfo.City = "" },
			wantErr: true,
		},
		{
			// статус пустой у только что принятого заказа, его выставит хранилище
			name:    "empty status allowed",
			mutate:  func(o *models.Order) { o.Status = "" },
			wantErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order := createValidOrder()
			tc.mutate(order)

			err := ValidateOrder(order)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateOrder() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateOrder_Nil(t *testing.T) {
	if err := ValidateOrder(nil); err == nil {
		t.Error("Expected error but got nil")
	}
}

func createValidUser() *models.User {
	return &models.User{
		ID:     "user-123",
		Name:   "Test Testov",
		Email:  "test@gmail.com",
		Photo:  "https://example.com/photo.jpg",
		Role:   models.RoleUser,
		Gender: models.GenderMale,
		DOB:    time.Date(1995, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateUser(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(u *models.User)
		wantErr bool
	}{
		{
			name:    "valid user",
			mutate:  func(u *models.User) {},
			wantErr: false,
		},
		{
			name:    "empty id",
			mutate:  func(u *models.User) { u.ID = "" },
			wantErr: true,
		},
		{
			name:    "invalid email",
			mutate:  func(u *models.User) { u.Email = "invalid-email" },
			wantErr: true,
		},
		{
			name:    "unknown gender",
			mutate:  func(u *models.User) { u.Gender = "other" },
			wantErr: true,
		},
		{
			name:    "unknown role",
			mutate:  func(u *models.User) { u.Role = "root" },
			wantErr: true,
		},
		{
			name:    "future dob",
			mutate:  func(u *models.User) { u.DOB = time.Now().AddDate(1, 0, 0) },
			wantErr: true,
		},
		{
			name:    "dob older than 120 years",
			mutate:  func(u *models.User) { u.DOB = time.Now().AddDate(-130, 0, 0) },
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user := createValidUser()
			tc.mutate(user)

			err := ValidateUser(user)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateUser() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateProduct(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(p *models.Product)
		wantErr bool
	}{
		{
			name:    "valid product",
			mutate:  func(p *models.Product) {},
			wantErr: false,
		},
		{
			name:    "empty name",
			mutate:  func(p *models.Product) { p.Name = "" },
			wantErr: true,
		},
		{
			name:    "zero price",
			mutate:  func(p *models.Product) { p.Price = 0 },
			wantErr: true,
		},
		{
			name:    "negative stock",
			mutate:  func(p *models.Product) { p.Stock = -1 },
			wantErr: true,
		},
		{
			name:    "uppercase category",
			mutate:  func(p *models.Product) { p.Category = "Shoes" },
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			product := &models.Product{
				Name:     "Кроссовки",
				Price:    4999,
				Stock:    3,
				Category: "shoes",
			}
			tc.mutate(product)

			err := ValidateProduct(product)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateProduct() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateCoupon(t *testing.T) {
	testCases := []struct {
		name    string
		coupon  *models.Coupon
		wantErr bool
	}{
		{
			name:    "valid coupon",
			coupon:  &models.Coupon{CouponCode: "summer25", Amount: 250},
			wantErr: false,
		},
		{
			name:    "code too short",
			coupon:  &models.Coupon{CouponCode: "ab", Amount: 250},
			wantErr: true,
		},
		{
			name:    "zero amount",
			coupon:  &models.Coupon{CouponCode: "summer25", Amount: 0},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCoupon(tc.coupon)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateCoupon() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func BenchmarkValidateOrder(b *testing.B) {
	order := createValidOrder()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ValidateOrder(order)
	}
}
