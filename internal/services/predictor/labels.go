package predictor

import (
	"strings"
)

// displayLabels maps encoded column names to the labels shown to retention
// agents. Columns not listed fall back to a title-cased version of the name.
var displayLabels = map[string]string{
	"age":                               "Customer Age",
	"number_of_dependents":              "Number of Dependents",
	"number_of_referrals":               "Referrals Made",
	"tenure_in_months":                  "Tenure (Months)",
	"avg_monthly_long_distance_charges": "Avg Long Distance Charges",
	"avg_monthly_gb_download":           "Avg Monthly Data (GB)",
	"monthly_charge":                    "Monthly Charge",
	"total_refunds":                     "Total Refunds",
	"total_extra_data_charges":          "Extra Data Charges",
	"total_long_distance_charges":       "Total Long Distance Charges",
	"total_revenue":                     "Total Revenue",
	"contract":                          "Contract Type",
	"offer":                             "Promotional Offer",

	"gender_female":                    "Gender: Female",
	"gender_male":                      "Gender: Male",
	"married_yes":                      "Married",
	"married_no":                       "Not Married",
	"phone_service_yes":                "Has Phone Service",
	"phone_service_no":                 "No Phone Service",
	"internet_service_yes":             "Has Internet Service",
	"internet_service_no":              "No Internet Service",
	"internet_type_fiber optic":        "Fiber Optic Internet",
	"internet_type_dsl":                "DSL Internet",
	"internet_type_cable":              "Cable Internet",
	"internet_type_none":               "No Internet",
	"unlimited_data_yes":               "Unlimited Data Plan",
	"unlimited_data_no":                "Metered Data Plan",
	"paperless_billing_yes":            "Paperless Billing",
	"paperless_billing_no":             "Paper Billing",
	"payment_method_bank withdrawal":   "Pays by Bank Withdrawal",
	"payment_method_credit card":       "Pays by Credit Card",
	"payment_method_mailed check":      "Pays by Mailed Check",
	"multiple_lines_yes":               "Multiple Phone Lines",
	"multiple_lines_no":                "Single Phone Line",
	"online_security_no":               "No Online Security",
	"online_security_yes":              "Has Online Security",
	"online_backup_no":                 "No Online Backup",
	"online_backup_yes":                "Has Online Backup",
	"device_protection_plan_no":        "No Device Protection",
	"device_protection_plan_yes":       "Has Device Protection",
	"premium_tech_support_no":          "No Premium Tech Support",
	"premium_tech_support_yes":         "Has Premium Tech Support",
	"streaming_tv_yes":                 "Streams TV",
	"streaming_movies_yes":             "Streams Movies",
	"streaming_music_yes":              "Streams Music",
}

// DisplayLabel returns the human-readable label for an encoded column name.
func DisplayLabel(column string) string {
	if label, ok := displayLabels[column]; ok {
		return label
	}
	if column == "" {
		return ""
	}

	words := strings.FieldsFunc(column, func(r rune) bool {
		return r == '_' || r == ' '
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
