package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(day, hour int) time.Time {
	return time.Date(2026, 6, day, hour, 0, 0, 0, time.UTC)
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)

	assert.Zero(t, stats.TotalImpressions)
	assert.Zero(t, stats.PostCount)
	assert.Zero(t, stats.AvgEngagementRate, "guarded division, never NaN")
	assert.Zero(t, stats.AvgImpressionsPerPost)
	assert.Zero(t, stats.ClickThroughRate)
}

func TestSummarizeUsesLatestSamplePerPost(t *testing.T) {
	posts := []PostEngagement{
		{
			PostID: 1,
			Samples: []Sample{
				{Impressions: 100, Likes: 1, CollectedAt: ts(1, 0)},
				{Impressions: 1000, Clicks: 50, Likes: 80, Comments: 10, Shares: 10, Reach: 800, CollectedAt: ts(2, 0)},
			},
		},
		{
			PostID:  2,
			Samples: []Sample{{Impressions: 1000, Clicks: 10, Likes: 30, Comments: 5, Shares: 15, Reach: 700, CollectedAt: ts(1, 0)}},
		},
		{PostID: 3}, // never measured, contributes nothing
	}

	stats := Summarize(posts)

	assert.Equal(t, int64(2000), stats.TotalImpressions)
	assert.Equal(t, int64(60), stats.TotalClicks)
	assert.Equal(t, 2, stats.PostCount)
	// (80+10+10 + 30+5+15) / 2000 * 100
	assert.InDelta(t, 7.5, stats.AvgEngagementRate, 1e-9)
	assert.InDelta(t, 1000, stats.AvgImpressionsPerPost, 1e-9)
	assert.InDelta(t, 3.0, stats.ClickThroughRate, 1e-9)
}

func TestSummarizeOrderIndependent(t *testing.T) {
	a := PostEngagement{PostID: 1, Samples: []Sample{{Impressions: 500, Likes: 20, CollectedAt: ts(1, 0)}}}
	b := PostEngagement{PostID: 2, Samples: []Sample{{Impressions: 300, Likes: 9, CollectedAt: ts(1, 0)}}}

	assert.Equal(t, Summarize([]PostEngagement{a, b}), Summarize([]PostEngagement{b, a}))
}

func TestTrendsByDayAveragesSameDay(t *testing.T) {
	samples := []Sample{
		{EngagementRate: 4.0, Impressions: 100, CollectedAt: ts(10, 9)},
		{EngagementRate: 6.0, Impressions: 200, CollectedAt: ts(10, 17)},
	}

	trends := TrendsByDay(samples, time.UTC)

	require.Len(t, trends, 1)
	assert.Equal(t, "2026-06-10", trends[0].Date)
	assert.InDelta(t, 5.0, trends[0].EngagementRate, 1e-9, "mean, not impression-weighted")
	assert.Equal(t, int64(300), trends[0].Impressions)
	assert.Equal(t, 2, trends[0].SampleCount)
}

func TestTrendsByDayChronological(t *testing.T) {
	samples := []Sample{
		{CollectedAt: ts(12, 0)},
		{CollectedAt: ts(3, 0)},
		{CollectedAt: ts(7, 0)},
	}

	trends := TrendsByDay(samples, time.UTC)

	require.Len(t, trends, 3)
	assert.Equal(t, "2026-06-03", trends[0].Date)
	assert.Equal(t, "2026-06-07", trends[1].Date)
	assert.Equal(t, "2026-06-12", trends[2].Date)
}

func TestTrendsByDayRespectsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC on June 10 is still June 9 in New York.
	samples := []Sample{{CollectedAt: time.Date(2026, 6, 10, 2, 0, 0, 0, time.UTC)}}

	assert.Equal(t, "2026-06-10", TrendsByDay(samples, time.UTC)[0].Date)
	assert.Equal(t, "2026-06-09", TrendsByDay(samples, loc)[0].Date)
}

func TestTrendsByDayDoesNotMutateInput(t *testing.T) {
	samples := []Sample{{EngagementRate: 4.0, CollectedAt: ts(1, 0)}}
	TrendsByDay(samples, time.UTC)
	assert.InDelta(t, 4.0, samples[0].EngagementRate, 1e-9)
}

func TestHashtagLeaderboardRanking(t *testing.T) {
	posts := []PostEngagement{
		{
			PostID:   1,
			Hashtags: []string{"#a"},
			Samples:  []Sample{{Impressions: 1000, Likes: 100, CollectedAt: ts(1, 0)}},
		},
		{
			PostID:   2,
			Hashtags: []string{"#b"},
			Samples:  []Sample{{Impressions: 1000, Likes: 50, CollectedAt: ts(1, 0)}},
		},
	}

	board := HashtagLeaderboard(posts, 10)

	require.Len(t, board, 2)
	assert.Equal(t, "#a", board[0].Hashtag)
	assert.InDelta(t, 10.0, board[0].AvgEngagementRate, 1e-9)
	assert.Equal(t, "#b", board[1].Hashtag)
	assert.InDelta(t, 5.0, board[1].AvgEngagementRate, 1e-9)
}

func TestHashtagLeaderboardTieBreaks(t *testing.T) {
	posts := []PostEngagement{
		// #a and #b both at 10%, #b with more impressions.
		{PostID: 1, Hashtags: []string{"#a"}, Samples: []Sample{{Impressions: 100, Likes: 10, CollectedAt: ts(1, 0)}}},
		{PostID: 2, Hashtags: []string{"#b"}, Samples: []Sample{{Impressions: 200, Likes: 20, CollectedAt: ts(1, 0)}}},
		// #c and #d identical; lexicographic order decides.
		{PostID: 3, Hashtags: []string{"#d", "#c"}, Samples: []Sample{{Impressions: 100, Likes: 1, CollectedAt: ts(1, 0)}}},
	}

	board := HashtagLeaderboard(posts, 10)

	require.Len(t, board, 4)
	assert.Equal(t, "#b", board[0].Hashtag, "impressions break the rate tie")
	assert.Equal(t, "#a", board[1].Hashtag)
	assert.Equal(t, "#c", board[2].Hashtag, "lexicographic last resort")
	assert.Equal(t, "#d", board[3].Hashtag)
}

func TestHashtagLeaderboardLimit(t *testing.T) {
	posts := []PostEngagement{
		{PostID: 1, Hashtags: []string{"#a", "#b", "#c"}, Samples: []Sample{{Impressions: 100, Likes: 10, CollectedAt: ts(1, 0)}}},
	}

	assert.Len(t, HashtagLeaderboard(posts, 2), 2)
}

func TestHashtagLeaderboardSkipsUnsampledPosts(t *testing.T) {
	posts := []PostEngagement{{PostID: 1, Hashtags: []string{"#a"}}}
	assert.Empty(t, HashtagLeaderboard(posts, 10))
}

func slotPost(id int64, published time.Time, rate float64) PostEngagement {
	return PostEngagement{
		PostID:      id,
		PublishedAt: published,
		Samples:     []Sample{{EngagementRate: rate, Impressions: 100, CollectedAt: published.Add(24 * time.Hour)}},
	}
}

func TestOptimalPostingSlotsExcludesSmallBuckets(t *testing.T) {
	// Tuesday 09:00 has two posts, Wednesday 14:00 only one with a much
	// higher rate.
	tue := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)
	wed := time.Date(2026, 6, 3, 14, 0, 0, 0, time.UTC)
	posts := []PostEngagement{
		slotPost(1, tue, 4.0),
		slotPost(2, tue.Add(7*24*time.Hour), 6.0),
		slotPost(3, wed, 99.0),
	}

	slots := OptimalPostingSlots(posts)

	require.Len(t, slots, 1, "a single-post bucket is excluded even at the top rate")
	assert.Equal(t, time.Tuesday, slots[0].DayOfWeek)
	assert.Equal(t, 9, slots[0].Hour)
	assert.Equal(t, 2, slots[0].PostCount)
	assert.InDelta(t, 5.0, slots[0].AvgEngagementRate, 1e-9)
}

func TestOptimalPostingSlotsTopTen(t *testing.T) {
	var posts []PostEngagement
	id := int64(1)
	for hour := 0; hour < 12; hour++ {
		at := time.Date(2026, 6, 1, hour, 0, 0, 0, time.UTC) // a Monday
		posts = append(posts,
			slotPost(id, at, float64(hour)),
			slotPost(id+1, at.Add(7*24*time.Hour), float64(hour)),
		)
		id += 2
	}

	slots := OptimalPostingSlots(posts)

	require.Len(t, slots, 10)
	assert.InDelta(t, 11.0, slots[0].AvgEngagementRate, 1e-9, "ranked descending")
	assert.InDelta(t, 2.0, slots[9].AvgEngagementRate, 1e-9)
}
