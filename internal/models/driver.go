package models

import "strings"

// Driver represents a Cup Series driver as stored in the drivers table
type Driver struct {
	ID           string `db:"id" json:"id" validate:"required"`
	Name         string `db:"name" json:"name" validate:"required"`
	Number       string `db:"number" json:"number"`
	Team         string `db:"team" json:"team"`
	Manufacturer string `db:"manufacturer" json:"manufacturer"`
	IsActive     bool   `db:"is_active" json:"is_active"`
}

// FirstName returns the first word of the driver's name
func (d *Driver) FirstName() string {
	first, _, _ := strings.Cut(strings.TrimSpace(d.Name), " ")
	return first
}

// LastName returns everything after the first word of the driver's name
func (d *Driver) LastName() string {
	_, rest, _ := strings.Cut(strings.TrimSpace(d.Name), " ")
	return rest
}

// Slug returns the URL slug used by the profile page
func (d *Driver) Slug() string {
	return Slugify(d.Name)
}

// Slugify lowercases a name and joins its words with dashes.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// NameFromSlug converts "kyle-larson" back to "Kyle Larson".
func NameFromSlug(slug string) string {
	words := strings.Split(strings.Trim(slug, "-"), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// MatchesSearch reports whether the driver's name, number or team contains the query.
func (d *Driver) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(d.Name), q) ||
		strings.Contains(d.Number, q) ||
		strings.Contains(strings.ToLower(d.Team), q)
}
