package platform

import (
	"time"

	"github.com/IshaanNene/engagerank/internal/types"
)

// DefaultWait is the per-counter locator wait when a spec does not set one.
const DefaultWait = 10 * time.Second

// Platforms change their markup often; these locators are the first thing
// to update when a counter starts reading 0.

// XSpec reads tweets. The engagement buttons carry data-testid attributes.
func XSpec() Spec {
	return Spec{
		Platform: X,
		Name:     "X/Twitter",
		Domains:  []string{"x.com", "twitter.com"},
		Counters: []CounterSpec{
			{Counter: types.Likes, Locator: types.CSS(`article [data-testid="like"], article [data-testid="unlike"]`), Supported: true},
			{Counter: types.Shares, Locator: types.CSS(`article [data-testid="retweet"], article [data-testid="unretweet"]`), Supported: true},
			{Counter: types.Comments, Locator: types.CSS(`article [data-testid="reply"]`), Supported: true},
		},
		Wait: DefaultWait,
	}
}

// ThreadsSpec reads Threads posts. Only the like count is exposed reliably.
func ThreadsSpec() Spec {
	return Spec{
		Platform: Threads,
		Name:     "Threads",
		Domains:  []string{"threads.net", "threads.com"},
		Counters: []CounterSpec{
			{Counter: types.Likes, Locator: types.XPath(`(//div[@role="button"][.//*[local-name()="svg"][@aria-label="Like"]]//span)[1]`), Supported: true},
			{Counter: types.Shares, Supported: false},
			{Counter: types.Comments, Supported: false},
		},
		Wait: DefaultWait,
	}
}

// YouTubeSpec reads watch pages. YouTube does not show a share count.
func YouTubeSpec() Spec {
	return Spec{
		Platform: YouTube,
		Name:     "YouTube",
		Domains:  []string{"youtube.com", "youtu.be"},
		Counters: []CounterSpec{
			{Counter: types.Likes, Locator: types.CSS(`like-button-view-model button .yt-spec-button-shape-next__button-text-content`), Supported: true},
			{Counter: types.Shares, Supported: false},
			{Counter: types.Comments, Locator: types.CSS(`ytd-comments-header-renderer #count .count-text span:first-child`), Supported: true},
		},
		Wait: DefaultWait,
	}
}

// TikTokSpec reads video pages. Counters use data-e2e attributes.
func TikTokSpec() Spec {
	return Spec{
		Platform: TikTok,
		Name:     "TikTok",
		Domains:  []string{"tiktok.com"},
		Counters: []CounterSpec{
			{Counter: types.Likes, Locator: types.CSS(`[data-e2e="like-count"]`), Supported: true},
			{Counter: types.Shares, Locator: types.CSS(`[data-e2e="share-count"]`), Supported: true},
			{Counter: types.Comments, Locator: types.CSS(`[data-e2e="comment-count"]`), Supported: true},
		},
		Wait: DefaultWait,
	}
}

// InstagramSpec reads posts and reels. Share and comment totals are not
// rendered for logged-out visitors.
func InstagramSpec() Spec {
	return Spec{
		Platform: Instagram,
		Name:     "Instagram",
		Domains:  []string{"instagram.com"},
		Counters: []CounterSpec{
			{Counter: types.Likes, Locator: types.CSS(`section a[href$="/liked_by/"] span`), Supported: true},
			{Counter: types.Shares, Supported: false},
			{Counter: types.Comments, Supported: false},
		},
		Wait: DefaultWait,
	}
}

// DefaultSpecs returns the built-in adapters in classification priority order.
func DefaultSpecs() []Spec {
	return []Spec{
		XSpec(),
		ThreadsSpec(),
		YouTubeSpec(),
		TikTokSpec(),
		InstagramSpec(),
	}
}
