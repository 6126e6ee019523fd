package venmo

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFetchFeedPagination(t *testing.T) {
	ctx := context.Background()

	pages := map[string]string{
		"": `{
			"nextId": "cursor-1",
			"stories": [
				{"amount": "+ $5.00", "date": "2024-05-01T10:00:00", "note": {"content": "lunch"},
				 "title": {"payload": {"subType": "p2p"},
				           "sender": {"id": "u2", "displayName": "Alice", "username": "alice"},
				           "receiver": {"id": "u1", "displayName": "Me", "username": "me"}}},
				{"amount": "- $20.00", "date": "2024-04-30T09:00:00", "note": {"content": ""},
				 "title": {"payload": {"subType": "transfer"}}}
			]
		}`,
		"cursor-1": `{
			"nextId": "cursor-2",
			"stories": [
				{"amount": "- $2.50", "date": "2024-04-29T12:00:00", "note": {"content": "coffee"},
				 "title": {"payload": {"subType": "p2p"},
				           "sender": {"id": "u1", "displayName": "Me", "username": "me"},
				           "receiver": {"id": "u3", "displayName": "Bob", "username": "bob"}}},
				{"amount": "+ $8.00", "date": "2024-04-28T08:00:00", "note": {"content": "tickets"},
				 "title": {"payload": {"subType": "p2p"},
				           "sender": {"id": "u3", "displayName": "Bob", "username": "bob"},
				           "receiver": {"id": "u1", "displayName": "Me", "username": "me"}}}
			]
		}`,
	}

	var gotExternalIds []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stories", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "me", r.URL.Query().Get("feedType"))
		require.Equal(t, "Bearer feed-token", r.Header.Get("Authorization"))
		gotExternalIds = append(gotExternalIds, r.URL.Query().Get("externalId"))

		body, ok := pages[r.URL.Query().Get("nextId")]
		require.True(t, ok, "unexpected cursor %q", r.URL.Query().Get("nextId"))
		fmt.Fprint(w, body)
	})

	client, _ := setupTestClient(t, mux)
	client.identity = &Identity{Id: "user-1"}
	client.bearer = "feed-token"

	// page one holds a single p2p story, so the loop has to keep going
	page, err := client.FetchFeed(ctx, 2, "")
	require.NoError(t, err)

	require.Equal(t, []string{"user-1", "user-1"}, gotExternalIds)
	require.Equal(t, "cursor-2", page.NextCursor)
	require.Len(t, page.Stories, 3)

	// the transfer story was filtered out, p2p survived intact
	want := Story{
		Amount: "+ $5.00",
		Date:   "2024-05-01T10:00:00",
		Note:   StoryNote{Content: "lunch"},
		Title: StoryTitle{
			Payload:  StoryPayload{SubType: "p2p"},
			Sender:   &Counterparty{Id: "u2", DisplayName: "Alice", Username: "alice"},
			Receiver: &Counterparty{Id: "u1", DisplayName: "Me", Username: "me"},
		},
	}
	if diff := cmp.Diff(want, page.Stories[0]); diff != "" {
		t.Fatalf("story mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchFeedResumesFromCursor(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stories", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "resume-here", r.URL.Query().Get("nextId"))
		fmt.Fprint(w, `{"nextId": "after", "stories": [
			{"amount": "+ $1.00", "date": "d", "note": {"content": ""},
			 "title": {"payload": {"subType": "p2p"}}}
		]}`)
	})

	client, _ := setupTestClient(t, mux)
	client.identity = &Identity{Id: "user-1"}

	page, err := client.FetchFeed(context.Background(), 1, "resume-here")
	require.NoError(t, err)
	require.Equal(t, "after", page.NextCursor)
	require.Len(t, page.Stories, 1)
}

func TestFetchFeedRequiresIdentity(t *testing.T) {
	client, _ := setupTestClient(t, http.NewServeMux())
	_, err := client.FetchFeed(context.Background(), 1, "")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestFetchFeedParseFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stories", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>rate limited</html>")
	})

	client, _ := setupTestClient(t, mux)
	client.identity = &Identity{Id: "user-1"}

	_, err := client.FetchFeed(context.Background(), 1, "")
	require.ErrorIs(t, err, ErrFeedFetch)
}
