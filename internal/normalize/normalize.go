// internal/normalize/normalize.go

// Package normalize converts raw GitHub payloads into the internal data model.
// Every function here is pure.
package normalize

import (
	"sort"

	"github-activity/internal/github"
	"github-activity/internal/model"
)

// DefaultLanguageLimit is the number of languages kept when no limit is configured.
const DefaultLanguageLimit = 6

// ToUserStats copies the profile counters and sums stars and forks across repos.
func ToUserStats(profile model.UserProfile, repos []model.Repository) model.UserStats {
	stats := model.UserStats{
		PublicRepoCount: profile.PublicRepos,
		FollowerCount:   profile.Followers,
	}
	for _, r := range repos {
		stats.TotalStars += r.StarsCount
		stats.TotalForks += r.ForksCount
	}
	return stats
}

// ToLanguageDistribution counts each repository's primary language, sorts by
// descending count and keeps the top limit entries. Equal counts keep the
// order in which the languages were first seen.
func ToLanguageDistribution(repos []model.Repository, limit int) model.LanguageDistribution {
	if limit <= 0 {
		limit = DefaultLanguageLimit
	}

	index := make(map[string]int)
	dist := model.LanguageDistribution{}
	for _, r := range repos {
		if r.Language == nil || *r.Language == "" {
			continue
		}
		if i, ok := index[*r.Language]; ok {
			dist[i].Count++
			continue
		}
		index[*r.Language] = len(dist)
		dist = append(dist, model.LanguageCount{Language: *r.Language, Count: 1})
	}

	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})

	if len(dist) > limit {
		dist = dist[:limit]
	}
	return dist
}

// ToContributionCalendar keeps the raw week/day shape 1:1 and classifies each day.
func ToContributionCalendar(weeks []github.RawWeek) model.ContributionCalendar {
	cal := make(model.ContributionCalendar, 0, len(weeks))
	for _, w := range weeks {
		days := make([]model.ContributionDay, 0, len(w.ContributionDays))
		for _, d := range w.ContributionDays {
			days = append(days, model.ContributionDay{
				Date:  d.Date,
				Count: d.ContributionCount,
				Level: model.ContributionLevel(d.ContributionCount),
			})
		}
		cal = append(cal, model.ContributionWeek{Days: days})
	}
	return cal
}
