package domain

// Category groups games by security topic. The set is closed: persistence
// reconciles stored progress against exactly these values.
type Category string

const (
	CategoryPhishing          Category = "phishing"
	CategoryPasswords         Category = "passwords"
	CategoryPrivacy           Category = "privacy"
	CategorySocialEngineering Category = "social-engineering"
	CategoryNetwork           Category = "network"
	CategoryURLs              Category = "urls"
	CategoryBanking           Category = "banking"
	CategoryMalware           Category = "malware"
)

// Categories returns the fixed category set in its canonical order.
func Categories() []Category {
	return []Category{
		CategoryPhishing,
		CategoryPasswords,
		CategoryPrivacy,
		CategorySocialEngineering,
		CategoryNetwork,
		CategoryURLs,
		CategoryBanking,
		CategoryMalware,
	}
}

// CategoryLabel returns the display label for a category; unknown categories
// fall back to their raw tag.
func CategoryLabel(c Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

var categoryLabels = map[Category]string{
	CategoryPhishing:          "Phishing & Email",
	CategoryPasswords:         "Passwords & Auth",
	CategoryPrivacy:           "Privacy & Data",
	CategorySocialEngineering: "Social Engineering",
	CategoryNetwork:           "Secure Wi-Fi & Network",
	CategoryURLs:              "URLs & Links",
	CategoryBanking:           "Banking & Fraud",
	CategoryMalware:           "Malware & Downloads",
}
