// Package validation contains input validation rules for the entry domain.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"heritage/internal/models"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugSpacesRe   = regexp.MustCompile(`\s+`)
	slugHyphenRuns = regexp.MustCompile(`-+`)
)

// DeriveSlug normalizes a title into its URL-safe slug: lower-case, strip
// everything that is not a word character, whitespace or hyphen, collapse
// whitespace runs into a single hyphen, collapse hyphen runs, and trim
// leading/trailing hyphens. Deterministic: equal titles yield equal slugs.
func DeriveSlug(title string) string {
	s := strings.ToLower(title)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpacesRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidateCategory checks that the category belongs to the closed set.
func ValidateCategory(category models.EntryCategory) error {
	if !category.Valid() {
		return fmt.Errorf("category must be one of: %s", joinCategories())
	}
	return nil
}

// ValidateNewEntry checks all required fields of an entry about to be created.
func ValidateNewEntry(title string, category models.EntryCategory, imageURLs []string, content, location string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if err := ValidateCategory(category); err != nil {
		return err
	}
	if len(imageURLs) == 0 {
		return fmt.Errorf("at least one image URL is required")
	}
	for _, u := range imageURLs {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("image URLs must be non-empty")
		}
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("location is required")
	}
	return nil
}

func joinCategories() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
