package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Статусы заказа. Переход только вперед: Processing -> Shipped -> Delivered.
const (
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	GenderMale   = "male"
	GenderFemale = "female"
)

type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required,max=200"`
	Description string             `json:"description" bson:"description"`
	Photo       string             `json:"photo" bson:"photo"`
	Price       float64            `json:"price" bson:"price" validate:"required,gt=0"`
	Stock       int                `json:"stock" bson:"stock" validate:"gte=0"`
	Category    string             `json:"category" bson:"category" validate:"required,lowercase"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ShippingInfo struct {
	Address string `json:"address" bson:"address" validate:"required"`
	City    string `json:"city" bson:"city" validate:"required"`
	State   string `json:"state" bson:"state" validate:"required"`
	Country string `json:"country" bson:"country" validate:"required"`
	Zipcode int    `json:"zipcode" bson:"zipcode" validate:"required,gt=0"`
}

type OrderItem struct {
	Name      string             `json:"name" bson:"name" validate:"required"`
	Photo     string             `json:"photo" bson:"photo"`
	Price     float64            `json:"price" bson:"price" validate:"required,gt=0"`
	Quantity  int                `json:"quantity" bson:"quantity" validate:"required,gt=0"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId" validate:"required"`
}

type Order struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ShippingInfo    ShippingInfo       `json:"shippingInfo" bson:"shippingInfo" validate:"required"`
	User            string             `json:"user" bson:"user" validate:"required"`
	Subtotal        float64            `json:"subtotal" bson:"subtotal" validate:"required,gt=0"`
	Tax             float64            `json:"tax" bson:"tax" validate:"gte=0"`
	ShippingCharges float64            `json:"shippingCharges" bson:"shippingCharges" validate:"gte=0"`
	Discount        float64            `json:"discount" bson:"discount" validate:"gte=0"`
	Total           float64            `json:"total" bson:"total" validate:"required,gt=0"`
	Status          string             `json:"status" bson:"status" validate:"omitempty,oneof=Processing Shipped Delivered"`
	OrderedItems    []OrderItem        `json:"orderedItems" bson:"orderedItems" validate:"required,min=1,dive"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NextStatus возвращает следующий статус заказа. После Delivered заказ
// дальше не двигается.
func (o *Order) NextStatus() string {
	switch o.Status {
	case StatusProcessing:
		return StatusShipped
	case StatusShipped:
		return StatusDelivered
	default:
		return StatusDelivered
	}
}

// User хранится с внешним строковым _id (идентификатор из провайдера аутентификации).
type User struct {
	ID        string    `json:"_id" bson:"_id" validate:"required"`
	Name      string    `json:"name" bson:"name" validate:"required"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Photo     string    `json:"photo" bson:"photo" validate:"required"`
	Role      string    `json:"role" bson:"role" validate:"omitempty,oneof=admin user"`
	Gender    string    `json:"gender" bson:"gender" validate:"required,oneof=male female"`
	DOB       time.Time `json:"dob" bson:"dob" validate:"required"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Age считает полные годы на момент now: если день рождения в этом году
// еще не наступил, вычитаем год.
func (u *User) Age(now time.Time) int {
	age := now.Year() - u.DOB.Year()
	if now.Month() < u.DOB.Month() ||
		(now.Month() == u.DOB.Month() && now.Day() < u.DOB.Day()) {
		age--
	}
	return age
}

type Coupon struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CouponCode string             `json:"couponCode" bson:"couponCode" validate:"required,min=3,max=30"`
	Amount     float64            `json:"amount" bson:"amount" validate:"required,gt=0"`
}
