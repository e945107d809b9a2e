package outbound

import "context"

// MediaFetcherPort downloads provider-hosted media by URL.
type MediaFetcherPort interface {
	Fetch(ctx context.Context, url string) (data []byte, contentType string, err error)
}
