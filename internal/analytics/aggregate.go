// Package analytics reduces already-fetched engagement rows into the
// figures the dashboard shows. Everything here is pure: no I/O, inputs
// are never mutated, and results do not depend on input ordering.
package analytics

import (
	"sort"
	"time"
)

// Sample mirrors one analytics row for a post.
type Sample struct {
	PostID         int64
	Impressions    int64
	Clicks         int64
	Likes          int64
	Comments       int64
	Shares         int64
	EngagementRate float64
	Reach          int64
	CollectedAt    time.Time
}

// PostEngagement carries the post fields the aggregations need together
// with the post's samples.
type PostEngagement struct {
	PostID      int64
	Hashtags    []string
	PublishedAt time.Time
	Samples     []Sample
}

// Latest returns the most recently collected sample, false when there is
// none.
func (p PostEngagement) Latest() (Sample, bool) {
	if len(p.Samples) == 0 {
		return Sample{}, false
	}
	latest := p.Samples[0]
	for _, s := range p.Samples[1:] {
		if s.CollectedAt.After(latest.CollectedAt) {
			latest = s
		}
	}
	return latest, true
}

type EngagementStats struct {
	TotalImpressions      int64   `json:"total_impressions"`
	TotalClicks           int64   `json:"total_clicks"`
	TotalLikes            int64   `json:"total_likes"`
	TotalComments         int64   `json:"total_comments"`
	TotalShares           int64   `json:"total_shares"`
	TotalReach            int64   `json:"total_reach"`
	PostCount             int     `json:"post_count"`
	AvgEngagementRate     float64 `json:"avg_engagement_rate"`
	AvgImpressionsPerPost float64 `json:"avg_impressions_per_post"`
	ClickThroughRate      float64 `json:"click_through_rate"`
}

// Summarize totals the latest sample of each post. Posts without samples
// contribute nothing. All derived rates are zero on empty input, never
// NaN or Inf.
func Summarize(posts []PostEngagement) EngagementStats {
	var out EngagementStats
	for _, p := range posts {
		s, ok := p.Latest()
		if !ok {
			continue
		}
		out.TotalImpressions += s.Impressions
		out.TotalClicks += s.Clicks
		out.TotalLikes += s.Likes
		out.TotalComments += s.Comments
		out.TotalShares += s.Shares
		out.TotalReach += s.Reach
		out.PostCount++
	}

	if out.TotalImpressions > 0 {
		engagement := out.TotalLikes + out.TotalComments + out.TotalShares
		out.AvgEngagementRate = float64(engagement) / float64(out.TotalImpressions) * 100
		out.ClickThroughRate = float64(out.TotalClicks) / float64(out.TotalImpressions) * 100
	}
	if out.PostCount > 0 {
		out.AvgImpressionsPerPost = float64(out.TotalImpressions) / float64(out.PostCount)
	}
	return out
}

type DailyTrend struct {
	Date           string  `json:"date"` // YYYY-MM-DD in the requested location
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	Shares         int64   `json:"shares"`
	EngagementRate float64 `json:"engagement_rate"`
	SampleCount    int     `json:"sample_count"`
}

// TrendsByDay buckets samples by the calendar date of their collection
// time in loc. Counters are summed per day; the engagement rate is the
// arithmetic mean of that day's samples. Output is chronological.
func TrendsByDay(samples []Sample, loc *time.Location) []DailyTrend {
	if loc == nil {
		loc = time.UTC
	}

	byDate := make(map[string]*DailyTrend)
	for _, s := range samples {
		date := s.CollectedAt.In(loc).Format("2006-01-02")
		t, ok := byDate[date]
		if !ok {
			t = &DailyTrend{Date: date}
			byDate[date] = t
		}
		t.Impressions += s.Impressions
		t.Clicks += s.Clicks
		t.Likes += s.Likes
		t.Comments += s.Comments
		t.Shares += s.Shares
		t.EngagementRate += s.EngagementRate
		t.SampleCount++
	}

	trends := make([]DailyTrend, 0, len(byDate))
	for _, t := range byDate {
		t.EngagementRate /= float64(t.SampleCount)
		trends = append(trends, *t)
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Date < trends[j].Date })
	return trends
}

type HashtagStats struct {
	Hashtag           string  `json:"hashtag"`
	TotalImpressions  int64   `json:"total_impressions"`
	TotalLikes        int64   `json:"total_likes"`
	TotalComments     int64   `json:"total_comments"`
	TotalShares       int64   `json:"total_shares"`
	PostCount         int     `json:"post_count"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

// HashtagLeaderboard accumulates the latest sample of every post carrying
// each hashtag and returns the top limit tags by engagement rate.
// Ties break by impressions, then lexicographically.
func HashtagLeaderboard(posts []PostEngagement, limit int) []HashtagStats {
	byTag := make(map[string]*HashtagStats)
	for _, p := range posts {
		s, ok := p.Latest()
		if !ok {
			continue
		}
		for _, tag := range p.Hashtags {
			st, ok := byTag[tag]
			if !ok {
				st = &HashtagStats{Hashtag: tag}
				byTag[tag] = st
			}
			st.TotalImpressions += s.Impressions
			st.TotalLikes += s.Likes
			st.TotalComments += s.Comments
			st.TotalShares += s.Shares
			st.PostCount++
		}
	}

	board := make([]HashtagStats, 0, len(byTag))
	for _, st := range byTag {
		if st.TotalImpressions > 0 {
			engagement := st.TotalLikes + st.TotalComments + st.TotalShares
			st.AvgEngagementRate = float64(engagement) / float64(st.TotalImpressions) * 100
		}
		board = append(board, *st)
	}

	sort.Slice(board, func(i, j int) bool {
		if board[i].AvgEngagementRate != board[j].AvgEngagementRate {
			return board[i].AvgEngagementRate > board[j].AvgEngagementRate
		}
		if board[i].TotalImpressions != board[j].TotalImpressions {
			return board[i].TotalImpressions > board[j].TotalImpressions
		}
		return board[i].Hashtag < board[j].Hashtag
	})

	if limit > 0 && len(board) > limit {
		board = board[:limit]
	}
	return board
}

// MinSlotPosts is the smallest bucket worth ranking; a single data point
// says nothing about a recurring time slot.
const MinSlotPosts = 2

const maxSlots = 10

type TimeSlot struct {
	DayOfWeek         time.Weekday `json:"day_of_week"`
	Hour              int          `json:"hour"`
	PostCount         int          `json:"post_count"`
	AvgEngagementRate float64      `json:"avg_engagement_rate"`
}

// OptimalPostingSlots buckets posts by weekday and hour of their publish
// time and ranks buckets by mean engagement rate of the posts' latest
// samples. Buckets with fewer than MinSlotPosts posts are dropped; the
// top ten remain.
func OptimalPostingSlots(posts []PostEngagement) []TimeSlot {
	type key struct {
		day  time.Weekday
		hour int
	}
	buckets := make(map[key]*TimeSlot)
	for _, p := range posts {
		s, ok := p.Latest()
		if !ok || p.PublishedAt.IsZero() {
			continue
		}
		k := key{day: p.PublishedAt.Weekday(), hour: p.PublishedAt.Hour()}
		slot, ok := buckets[k]
		if !ok {
			slot = &TimeSlot{DayOfWeek: k.day, Hour: k.hour}
			buckets[k] = slot
		}
		slot.AvgEngagementRate += s.EngagementRate
		slot.PostCount++
	}

	slots := make([]TimeSlot, 0, len(buckets))
	for _, slot := range buckets {
		if slot.PostCount < MinSlotPosts {
			continue
		}
		slot.AvgEngagementRate /= float64(slot.PostCount)
		slots = append(slots, *slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].AvgEngagementRate != slots[j].AvgEngagementRate {
			return slots[i].AvgEngagementRate > slots[j].AvgEngagementRate
		}
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		return slots[i].Hour < slots[j].Hour
	})

	if len(slots) > maxSlots {
		slots = slots[:maxSlots]
	}
	return slots
}
