package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"ecommerce-service/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("not_future", validateNotFuture)
}

func ValidateProduct(p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}
	if err := validate.Struct(p); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func ValidateOrder(o *models.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}
	if err := validate.Struct(o); err != nil {
		return formatValidationError(err)
	}
	if err := validateTotals(o); err != nil {
		return err
	}
	return nil
}

func ValidateUser(u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	if err := validate.Struct(u); err != nil {
		return formatValidationError(err)
	}
	if err := validateDOB(u.DOB); err != nil {
		return err
	}
	return nil
}

func ValidateCoupon(c *models.Coupon) error {
	if c == nil {
		return fmt.Errorf("coupon is nil")
	}
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// суммы заказа должны сходиться: total = subtotal + tax + shipping - discount
func validateTotals(o *models.Order) error {
	expected := o.Subtotal + o.Tax + o.ShippingCharges - o.Discount
	if math.Abs(o.Total-expected) > 0.01 {
		return fmt.Errorf("total (%.2f) не сходится с суммами заказа (%.2f)", o.Total, expected)
	}
	for i, item := range o.OrderedItems {
		if item.ProductID.IsZero() {
			return fmt.Errorf("orderedItems[%d]: не указан productId", i)
		}
	}
	return nil
}

func validateDOB(dob time.Time) error {
	now := time.Now()
	if dob.After(now) {
		return fmt.Errorf("dob не может быть в будущем")
	}
	if dob.Before(now.AddDate(-120, 0, 0)) {
		return fmt.Errorf("dob не может быть старше 120 лет")
	}
	return nil
}

func validateNotFuture(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !date.After(time.Now().Add(24 * time.Hour))
}

// свои текста ошибок
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	errorMessages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		var message string

		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%s: поле обязательно для заполнения", e.Field())
		case "min":
			message = fmt.Sprintf("%s: минимум %s", e.Field(), e.Param())
		case "max":
			message = fmt.Sprintf("%s: максимум %s", e.Field(), e.Param())
		case "email":
			message = fmt.Sprintf("%s: неверный формат электронной почты", e.Field())
		case "gt":
			message = fmt.Sprintf("%s: должно быть больше %s", e.Field(), e.Param())
		case "gte":
			message = fmt.Sprintf("%s: должно быть больше или равно %s", e.Field(), e.Param())
		case "oneof":
			message = fmt.Sprintf("%s: допустимые значения: %s", e.Field(), e.Param())
		case "lowercase":
			message = fmt.Sprintf("%s: должно быть в нижнем регистре", e.Field())
		default:
			message = fmt.Sprintf("%s: нарушено правило '%s'", e.Field(), e.Tag())
		}

		errorMessages = append(errorMessages, message)
	}

	return fmt.Errorf("ошибки валидации: %s", strings.Join(errorMessages, "; "))
}
