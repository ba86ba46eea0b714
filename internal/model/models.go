// internal/model/models.go
package model

import "time"

// UserProfile holds the fields of GET /users/{username} that the stats need.
type UserProfile struct {
	Login       string `json:"login"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

// Repository represents one element of a user's repository list.
type Repository struct {
	Name       string  `json:"name"`
	Language   *string `json:"language"`
	StarsCount int     `json:"stargazers_count"`
	ForksCount int     `json:"forks_count"`
}

// ProfileSnapshot is the cached result of the profile and repository fetches.
type ProfileSnapshot struct {
	Profile      UserProfile
	Repositories []Repository
}

// UserStats is an immutable snapshot of a user's public counters.
type UserStats struct {
	PublicRepoCount int `json:"publicRepos"`
	FollowerCount   int `json:"followers"`
	TotalStars      int `json:"totalStars"`
	TotalForks      int `json:"totalForks"`
}

// LanguageCount is one entry of a LanguageDistribution.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// LanguageDistribution is ordered by descending repository count.
type LanguageDistribution []LanguageCount

type ContributionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

type ContributionWeek struct {
	Days []ContributionDay `json:"days"`
}

// ContributionCalendar is ordered chronologically, oldest week first.
type ContributionCalendar []ContributionWeek

// Days flattens the calendar into a single chronological list.
func (c ContributionCalendar) Days() []ContributionDay {
	n := 0
	for _, w := range c {
		n += len(w.Days)
	}
	days := make([]ContributionDay, 0, n)
	for _, w := range c {
		days = append(days, w.Days...)
	}
	return days
}

// Day looks up a single day by its YYYY-MM-DD date.
func (c ContributionCalendar) Day(date string) (ContributionDay, bool) {
	for _, w := range c {
		for _, d := range w.Days {
			if d.Date == date {
				return d, true
			}
		}
	}
	return ContributionDay{}, false
}

// ContributionKind tags a ContributionDetail.
type ContributionKind string

const (
	KindCommit      ContributionKind = "commit"
	KindPullRequest ContributionKind = "pullRequest"
	KindIssue       ContributionKind = "issue"
	KindReview      ContributionKind = "review"
)

// ContributionDetail is one event attributable to a single calendar day.
// CommitCount is only set for commits and counts the commits of that push.
type ContributionDetail struct {
	Kind        ContributionKind `json:"type"`
	Repo        string           `json:"repo"`
	Title       string           `json:"title,omitempty"`
	URL         string           `json:"url,omitempty"`
	CommitCount int              `json:"commitCount,omitempty"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

// Weight is the number of contributions this event accounts for.
func (d ContributionDetail) Weight() int {
	if d.Kind == KindCommit {
		return d.CommitCount
	}
	return 1
}

type MonthTotal struct {
	Label string    `json:"label"`
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

type WeekdayTotal struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// DerivedStats is computed on demand from a ContributionCalendar and never cached.
type DerivedStats struct {
	TotalContributions int            `json:"totalContributions"`
	CurrentStreak      int            `json:"currentStreak"`
	LongestStreak      int            `json:"longestStreak"`
	AveragePerDay      float64        `json:"averagePerDay"`
	Months             []MonthTotal   `json:"months"`
	BusiestMonth       MonthTotal     `json:"busiestMonth"`
	MostActiveWeekday  string         `json:"mostActiveWeekday"`
	DayOfWeekTotals    []WeekdayTotal `json:"dayOfWeekTotals"`
}

// Activity is the combined payload returned by the aggregation facade.
type Activity struct {
	Stats         UserStats            `json:"stats"`
	Languages     LanguageDistribution `json:"languages"`
	Contributions ContributionCalendar `json:"contributions"`
	Warnings      []string             `json:"warnings,omitempty"`
}

// Reconciliation compares a day's calendar count with its detail-derived count.
// Both numbers are always kept; HiddenCount attributes the gap to private activity.
type Reconciliation struct {
	CalendarCount int  `json:"calendarCount"`
	DetailCount   int  `json:"detailCount"`
	HiddenCount   int  `json:"hiddenCount"`
	Diverges      bool `json:"diverges"`
}

// RateLimit is the core REST rate-limit status.
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}
