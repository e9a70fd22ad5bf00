package render

import (
	"net/url"
)

var shareEndpoints = struct {
	Twitter, LinkedIn, Facebook, VK string
}{
	Twitter:  "https://twitter.com/intent/tweet",
	LinkedIn: "https://www.linkedin.com/sharing/share-offsite/",
	Facebook: "https://www.facebook.com/sharer/sharer.php",
	VK:       "https://vk.com/share.php",
}

type ShareLinks struct {
	Twitter  string
	LinkedIn string
	Facebook string
	VK       string
}

// NewShareLinks builds the social share URLs for one page. Empty text or
// via are left out of the Twitter intent.
func NewShareLinks(pageURL, text, via string) ShareLinks {
	tw := url.Values{}
	if text != "" {
		tw.Add("text", text)
	}
	if pageURL != "" {
		tw.Add("url", pageURL)
	}
	if via != "" {
		tw.Add("via", via)
	}
	return ShareLinks{
		Twitter:  withQuery(shareEndpoints.Twitter, tw),
		LinkedIn: withQuery(shareEndpoints.LinkedIn, url.Values{"url": {pageURL}}),
		Facebook: withQuery(shareEndpoints.Facebook, url.Values{"u": {pageURL}}),
		VK:       withQuery(shareEndpoints.VK, url.Values{"url": {pageURL}}),
	}
}

func withQuery(base string, q url.Values) string {
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}
