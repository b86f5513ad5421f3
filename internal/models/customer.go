// Package models defines the data structures for the churn retention engine.
package models

import (
	"strings"
)

// Contract represents the contract tier of a customer. Tiers are ordered:
// month-to-month < one year < two year.
type Contract string

const (
	ContractMonthToMonth Contract = "month-to-month"
	ContractOneYear      Contract = "one year"
	ContractTwoYear      Contract = "two year"
)

// ValidContracts returns all valid contract values in rank order.
func ValidContracts() []Contract {
	return []Contract{ContractMonthToMonth, ContractOneYear, ContractTwoYear}
}

// IsValid checks if the contract value is valid.
func (c Contract) IsValid() bool {
	for _, valid := range ValidContracts() {
		if c == valid {
			return true
		}
	}
	return false
}

// Offer represents the promotional offer tier a customer signed up under.
// Tiers are ordered: none < offer a < ... < offer e.
type Offer string

const (
	OfferNone Offer = "none"
	OfferA    Offer = "offer a"
	OfferB    Offer = "offer b"
	OfferC    Offer = "offer c"
	OfferD    Offer = "offer d"
	OfferE    Offer = "offer e"
)

// ValidOffers returns all valid offer values in rank order.
func ValidOffers() []Offer {
	return []Offer{OfferNone, OfferA, OfferB, OfferC, OfferD, OfferE}
}

// IsValid checks if the offer value is valid.
func (o Offer) IsValid() bool {
	for _, valid := range ValidOffers() {
		if o == valid {
			return true
		}
	}
	return false
}

// CustomerRecord is a single customer as submitted for evaluation. It is
// constructed per request and immutable once validated.
//
// Categorical fields hold free-form text; Normalize lower-cases and trims
// them before validation or encoding. Numeric fields are already coerced by
// the ingestion layer (CSV parser or JSON decoding).
type CustomerRecord struct {
	// Demographics
	Gender             string `json:"gender" validate:"required"`
	Age                int    `json:"age" validate:"gte=18,lte=120"`
	Married            string `json:"married" validate:"required"`
	NumberOfDependents int    `json:"number_of_dependents" validate:"gte=0"`
	NumberOfReferrals  int    `json:"number_of_referrals" validate:"gte=0"`

	// Account
	TenureInMonths   int    `json:"tenure_in_months" validate:"gte=0"`
	Contract         string `json:"contract" validate:"required"`
	Offer            string `json:"offer" validate:"required"`
	PaperlessBilling string `json:"paperless_billing" validate:"required"`
	PaymentMethod    string `json:"payment_method" validate:"required"`

	// Phone
	PhoneService                  string  `json:"phone_service" validate:"required"`
	MultipleLines                 string  `json:"multiple_lines" validate:"required"`
	AvgMonthlyLongDistanceCharges float64 `json:"avg_monthly_long_distance_charges" validate:"gte=0"`

	// Internet
	InternetService      string  `json:"internet_service" validate:"required"`
	InternetType         string  `json:"internet_type" validate:"required"`
	AvgMonthlyGBDownload float64 `json:"avg_monthly_gb_download" validate:"gte=0"`
	OnlineSecurity       string  `json:"online_security" validate:"required"`
	OnlineBackup         string  `json:"online_backup" validate:"required"`
	DeviceProtectionPlan string  `json:"device_protection_plan" validate:"required"`
	PremiumTechSupport   string  `json:"premium_tech_support" validate:"required"`
	StreamingTV          string  `json:"streaming_tv" validate:"required"`
	StreamingMovies      string  `json:"streaming_movies" validate:"required"`
	StreamingMusic       string  `json:"streaming_music" validate:"required"`
	UnlimitedData        string  `json:"unlimited_data" validate:"required"`

	// Billing
	MonthlyCharge            float64 `json:"monthly_charge" validate:"gte=0"`
	TotalRefunds             float64 `json:"total_refunds" validate:"gte=0"`
	TotalExtraDataCharges    float64 `json:"total_extra_data_charges" validate:"gte=0"`
	TotalLongDistanceCharges float64 `json:"total_long_distance_charges" validate:"gte=0"`
	TotalRevenue             float64 `json:"total_revenue" validate:"gte=0"`
}

// CategoricalFieldNames lists the categorical fields in canonical column
// order. The encoder iterates this list, so the order is part of the
// schema contract with the trained models.
var CategoricalFieldNames = []string{
	"gender", "married", "offer", "phone_service", "multiple_lines",
	"internet_service", "internet_type", "online_security", "online_backup",
	"device_protection_plan", "premium_tech_support", "streaming_tv",
	"streaming_movies", "streaming_music", "unlimited_data", "contract",
	"paperless_billing", "payment_method",
}

// NumericFieldNames lists the numeric fields in canonical column order.
// These are the columns the standard scaler was fit on.
var NumericFieldNames = []string{
	"age", "number_of_dependents", "number_of_referrals", "tenure_in_months",
	"avg_monthly_long_distance_charges", "avg_monthly_gb_download",
	"monthly_charge", "total_refunds", "total_extra_data_charges",
	"total_long_distance_charges", "total_revenue",
}

// NormalizeCategory lower-cases and trims a categorical value. Every text
// comparison in the engine happens after this normalization.
func NormalizeCategory(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Normalize returns a copy of the record with all categorical fields
// normalized. The original record is not modified.
func (c CustomerRecord) Normalize() CustomerRecord {
	c.Gender = NormalizeCategory(c.Gender)
	c.Married = NormalizeCategory(c.Married)
	c.Offer = NormalizeCategory(c.Offer)
	c.PhoneService = NormalizeCategory(c.PhoneService)
	c.MultipleLines = NormalizeCategory(c.MultipleLines)
	c.InternetService = NormalizeCategory(c.InternetService)
	c.InternetType = NormalizeCategory(c.InternetType)
	c.OnlineSecurity = NormalizeCategory(c.OnlineSecurity)
	c.OnlineBackup = NormalizeCategory(c.OnlineBackup)
	c.DeviceProtectionPlan = NormalizeCategory(c.DeviceProtectionPlan)
	c.PremiumTechSupport = NormalizeCategory(c.PremiumTechSupport)
	c.StreamingTV = NormalizeCategory(c.StreamingTV)
	c.StreamingMovies = NormalizeCategory(c.StreamingMovies)
	c.StreamingMusic = NormalizeCategory(c.StreamingMusic)
	c.UnlimitedData = NormalizeCategory(c.UnlimitedData)
	c.Contract = NormalizeCategory(c.Contract)
	c.PaperlessBilling = NormalizeCategory(c.PaperlessBilling)
	c.PaymentMethod = NormalizeCategory(c.PaymentMethod)
	return c
}

// CategoricalValue returns the normalized value of a categorical field by
// its canonical column name.
func (c *CustomerRecord) CategoricalValue(field string) (string, bool) {
	switch field {
	case "gender":
		return NormalizeCategory(c.Gender), true
	case "married":
		return NormalizeCategory(c.Married), true
	case "offer":
		return NormalizeCategory(c.Offer), true
	case "phone_service":
		return NormalizeCategory(c.PhoneService), true
	case "multiple_lines":
		return NormalizeCategory(c.MultipleLines), true
	case "internet_service":
		return NormalizeCategory(c.InternetService), true
	case "internet_type":
		return NormalizeCategory(c.InternetType), true
	case "online_security":
		return NormalizeCategory(c.OnlineSecurity), true
	case "online_backup":
		return NormalizeCategory(c.OnlineBackup), true
	case "device_protection_plan":
		return NormalizeCategory(c.DeviceProtectionPlan), true
	case "premium_tech_support":
		return NormalizeCategory(c.PremiumTechSupport), true
	case "streaming_tv":
		return NormalizeCategory(c.StreamingTV), true
	case "streaming_movies":
		return NormalizeCategory(c.StreamingMovies), true
	case "streaming_music":
		return NormalizeCategory(c.StreamingMusic), true
	case "unlimited_data":
		return NormalizeCategory(c.UnlimitedData), true
	case "contract":
		return NormalizeCategory(c.Contract), true
	case "paperless_billing":
		return NormalizeCategory(c.PaperlessBilling), true
	case "payment_method":
		return NormalizeCategory(c.PaymentMethod), true
	}
	return "", false
}

// NumericValue returns the value of a numeric field by its canonical
// column name.
func (c *CustomerRecord) NumericValue(field string) (float64, bool) {
	switch field {
	case "age":
		return float64(c.Age), true
	case "number_of_dependents":
		return float64(c.NumberOfDependents), true
	case "number_of_referrals":
		return float64(c.NumberOfReferrals), true
	case "tenure_in_months":
		return float64(c.TenureInMonths), true
	case "avg_monthly_long_distance_charges":
		return c.AvgMonthlyLongDistanceCharges, true
	case "avg_monthly_gb_download":
		return c.AvgMonthlyGBDownload, true
	case "monthly_charge":
		return c.MonthlyCharge, true
	case "total_refunds":
		return c.TotalRefunds, true
	case "total_extra_data_charges":
		return c.TotalExtraDataCharges, true
	case "total_long_distance_charges":
		return c.TotalLongDistanceCharges, true
	case "total_revenue":
		return c.TotalRevenue, true
	}
	return 0, false
}
