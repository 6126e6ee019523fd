package venmo

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FetchFeed accumulates peer-to-peer stories from the feed endpoint
// until at least minItems have been collected, threading the cursor
// each page returns into the next fetch. The first fetch uses the
// caller-supplied cursor ("" for the newest page). Stories of other
// sub-types are dropped before they reach the caller. There is no
// iteration cap and no deduplication: a server that keeps answering
// with fresh cursors keeps the loop going until minItems is satisfied
// or a fetch fails.
func (c *Client) FetchFeed(ctx context.Context, minItems int, cursor string) (FeedPage, error) {
	ctx, span := tracer.Start(ctx, "client:FetchFeed")
	defer span.End()

	span.SetAttributes(attribute.KeyValue{
		Key:   "min_items",
		Value: attribute.IntValue(minItems),
	})

	if c.identity == nil {
		span.SetStatus(codes.Error, "identity not loaded")
		return FeedPage{}, fmt.Errorf("%w identity not found", ErrUnauthorized)
	}

	page := FeedPage{NextCursor: cursor}
	first := true
	for first || len(page.Stories) < minItems {
		first = false

		res, err := c.http.R().
			SetContext(ctx).
			SetHeader("accept", "*/*").
			SetAuthToken(c.bearer).
			SetQueryParams(map[string]string{
				"feedType":   "me",
				"externalId": c.identity.Id,
				"nextId":     page.NextCursor,
			}).
			Get(c.accountBaseUrl + "/api/stories")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch stories page")
			return FeedPage{}, fmt.Errorf("%w: %v", ErrFeedFetch, err)
		}
		c.absorbResponse(ctx, res)

		var stories storiesResponse
		err = json.Unmarshal(res.Body(), &stories)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse stories page")
			return FeedPage{}, fmt.Errorf("%w: %v", ErrFeedFetch, err)
		}

		page.NextCursor = stories.NextId
		for _, story := range stories.Stories {
			if story.Title.Payload.SubType != StorySubTypePeerToPeer {
				continue
			}
			page.Stories = append(page.Stories, story)
		}
	}

	return page, nil
}
