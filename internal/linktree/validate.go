package linktree

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var suffixPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateNewSuffix checks the suffix rules applied when a linktree is created:
// 3-20 characters, lowercase letters, digits, and hyphens only.
func ValidateNewSuffix(suffix string) error {
	return validation.Validate(suffix,
		validation.Required.Error("Suffix is required"),
		validation.Length(3, 20).Error("Suffix must be between 3 and 20 characters"),
		validation.Match(suffixPattern).Error("Suffix can only contain lowercase letters, numbers, and hyphens"),
	)
}

// ValidateSuffix checks the relaxed rule applied to suffix path parameters on
// the read paths: any non-empty string. Lookups compare suffixes verbatim, so
// no normalization happens here.
func ValidateSuffix(suffix string) error {
	return validation.Validate(suffix,
		validation.Required.Error("Suffix is required"),
	)
}

// NormalizeURL prepends https:// to URLs that start with www. but carry no
// scheme. Any other input is returned trimmed and otherwise untouched.
func NormalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)

	if strings.HasPrefix(trimmed, "www.") {
		return "https://" + trimmed
	}

	return trimmed
}

// ValidateLink checks the link body rules. The URL is expected to already be
// normalized via NormalizeURL.
func ValidateLink(text, url string) error {
	if err := validation.Validate(text,
		validation.Required.Error("Link name is required"),
	); err != nil {
		return err
	}

	return validation.Validate(url,
		validation.Required.Error("Link URL is required"),
		is.URL.Error("Invalid URL format"),
	)
}
