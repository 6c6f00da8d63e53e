package domain

import "strings"

type Customer struct {
	ID          string
	Name        string
	Industry    string
	Description string
}

// StableID implements cachekey.StableID
func (c Customer) StableID() string {
	return c.ID
}

// MatchText returns the textual projection used for local similarity scoring.
func (c Customer) MatchText() string {
	return strings.TrimSpace(strings.Join([]string{c.Name, c.Industry, c.Description}, " "))
}

type Employee struct {
	ID         string
	Name       string
	Role       string
	Department string
	Skills     []string
	Bio        string
}

// StableID implements cachekey.StableID
func (e Employee) StableID() string {
	return e.ID
}

// MatchText returns the textual projection used for local similarity scoring.
func (e Employee) MatchText() string {
	parts := []string{e.Role, e.Department}
	parts = append(parts, e.Skills...)
	parts = append(parts, e.Bio)
	return strings.TrimSpace(strings.Join(parts, " "))
}

type Source string

const (
	SourceRemote   Source = "remote"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// MatchResult relates one employee to one customer.
// It references the employee record supplied by the caller, and is never
// mutated after creation - merging replaces results wholesale.
type MatchResult struct {
	Employee   Employee
	Score      float64
	Confidence Confidence
	Source     Source
}
