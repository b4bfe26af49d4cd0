// Package subscription defines the subscription record and its form rules.
package subscription

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/louisbranch/subtrack/internal/platform/errors"
	"github.com/louisbranch/subtrack/internal/platform/money"
	"github.com/shopspring/decimal"
)

const (
	// DefaultColor is used when the form leaves color blank.
	DefaultColor = "#3b82f6"
	// MaxServiceNameRunes bounds the service name.
	MaxServiceNameRunes = 100
	// MaxCategoryRunes bounds the category.
	MaxCategoryRunes = 50
	// MinBillingDay is the first accepted day of month.
	MinBillingDay = 1
	// MaxBillingDay is the last accepted day of month.
	MaxBillingDay = 31
)

var (
	ErrEmptyID     = errors.New("subscription id is required")
	ErrEmptyUserID = errors.New("user id is required")

	ErrServiceNameRequired = apperrors.New(apperrors.CodeSubscriptionServiceNameRequired, "service name is required")
	ErrMonthlyCostRequired = apperrors.New(apperrors.CodeSubscriptionMonthlyCostRequired, "monthly cost is required")
	ErrBillingDayRequired  = apperrors.New(apperrors.CodeSubscriptionBillingDayRequired, "billing day is required")
	ErrCategoryRequired    = apperrors.New(apperrors.CodeSubscriptionCategoryRequired, "category is required")
	ErrBillingDayRange     = apperrors.New(apperrors.CodeSubscriptionBillingDayRange, "billing day must be between 1 and 31")
	ErrMonthlyCostPositive = apperrors.New(apperrors.CodeSubscriptionMonthlyCostPositive, "monthly cost must be a positive number")
	ErrMonthlyCostCents    = apperrors.New(apperrors.CodeSubscriptionMonthlyCostCents, "monthly cost has more than two decimal places")
	ErrColorInvalid        = apperrors.New(apperrors.CodeSubscriptionColorInvalid, "color must be a hex value")
	ErrServiceNameTooLong  = apperrors.New(apperrors.CodeSubscriptionServiceNameTooLong, "service name is too long")
	ErrCategoryTooLong     = apperrors.New(apperrors.CodeSubscriptionCategoryTooLong, "category is too long")
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Subscription is one recurring charge owned by a user.
type Subscription struct {
	ID          string
	UserID      string
	ServiceName string
	MonthlyCost decimal.Decimal
	BillingDay  int
	Category    string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input is the raw form payload for creating or editing a subscription.
type Input struct {
	ServiceName string
	MonthlyCost string
	BillingDay  string
	Category    string
	Color       string
}

// Fields are the validated, typed values of an Input.
type Fields struct {
	ServiceName string
	MonthlyCost decimal.Decimal
	BillingDay  int
	Category    string
	Color       string
}

// InputFrom renders a stored subscription back into form values.
func InputFrom(s Subscription) Input {
	return Input{
		ServiceName: s.ServiceName,
		MonthlyCost: money.Input(s.MonthlyCost),
		BillingDay:  strconv.Itoa(s.BillingDay),
		Category:    s.Category,
		Color:       s.Color,
	}
}

// Normalize trims and validates input. Required fields are checked before
// ranges so the first missing field is reported first.
func Normalize(input Input) (Fields, error) {
	serviceName := strings.TrimSpace(input.ServiceName)
	rawCost := strings.TrimSpace(input.MonthlyCost)
	rawDay := strings.TrimSpace(input.BillingDay)
	category := strings.TrimSpace(input.Category)
	color := strings.TrimSpace(input.Color)

	switch {
	case serviceName == "":
		return Fields{}, ErrServiceNameRequired
	case rawCost == "":
		return Fields{}, ErrMonthlyCostRequired
	case rawDay == "":
		return Fields{}, ErrBillingDayRequired
	case category == "":
		return Fields{}, ErrCategoryRequired
	}

	day, err := strconv.Atoi(rawDay)
	if err != nil || day < MinBillingDay || day > MaxBillingDay {
		return Fields{}, ErrBillingDayRange
	}
	cost, err := money.Parse(rawCost)
	if err != nil || !cost.IsPositive() {
		return Fields{}, ErrMonthlyCostPositive
	}
	if !cost.Equal(cost.Round(money.Places)) {
		return Fields{}, ErrMonthlyCostCents
	}

	if utf8.RuneCountInString(serviceName) > MaxServiceNameRunes {
		return Fields{}, ErrServiceNameTooLong
	}
	if utf8.RuneCountInString(category) > MaxCategoryRunes {
		return Fields{}, ErrCategoryTooLong
	}
	if color == "" {
		color = DefaultColor
	} else if !colorPattern.MatchString(color) {
		return Fields{}, ErrColorInvalid
	}

	return Fields{
		ServiceName: serviceName,
		MonthlyCost: cost,
		BillingDay:  day,
		Category:    category,
		Color:       strings.ToLower(color),
	}, nil
}

// New builds a subscription for userID from validated fields.
func New(userID string, fields Fields, now time.Time, idGen func() (string, error)) (Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Subscription{}, ErrEmptyUserID
	}
	id, err := idGen()
	if err != nil {
		return Subscription{}, err
	}
	now = now.UTC()
	s := Subscription{ID: id, UserID: userID, CreatedAt: now}
	s.Apply(fields, now)
	return s, nil
}

// Apply copies fields onto s and stamps UpdatedAt.
func (s *Subscription) Apply(fields Fields, now time.Time) {
	s.ServiceName = fields.ServiceName
	s.MonthlyCost = fields.MonthlyCost
	s.BillingDay = fields.BillingDay
	s.Category = fields.Category
	s.Color = fields.Color
	s.UpdatedAt = now.UTC()
}
