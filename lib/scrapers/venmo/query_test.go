package venmo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// graphqlDouble answers POST /graphql with a canned data payload per
// operation name.
func graphqlDouble(t *testing.T, data map[string]string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		var query graphqlQueryObject
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))

		payload, ok := data[query.OperationName]
		require.True(t, ok, "unexpected operation %q", query.OperationName)
		fmt.Fprintf(w, `{"data": %s}`, payload)
	})
	return mux
}

func TestProfile(t *testing.T) {
	client, _ := setupTestClient(t, graphqlDouble(t, map[string]string{
		"Identity": `{"profile": {"availableIdentities": [{
			"isDenylisted": false,
			"isSuspended": false,
			"displayName": "J Doe",
			"handle": "jdoe",
			"id": "user-1",
			"balance": {"userBalance": {"value": 12.5}}
		}]}}`,
	}))
	client.bearer = "tok"

	identity, err := client.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "user-1", identity.Id)
	require.Equal(t, "jdoe", identity.Handle)
	require.Equal(t, 12.5, identity.Balance.UserBalance.Value)

	// the profile is cached on the session
	require.Equal(t, &identity, client.Identity())
}

func TestProfileNoIdentities(t *testing.T) {
	client, _ := setupTestClient(t, graphqlDouble(t, map[string]string{
		"Identity": `{"profile": {"availableIdentities": []}}`,
	}))
	client.bearer = "tok"

	_, err := client.Profile(context.Background())
	require.ErrorIs(t, err, ErrUserQuery)
}

func TestSearchPeopleRanking(t *testing.T) {
	// server order puts the weaker match first
	client, _ := setupTestClient(t, graphqlDouble(t, map[string]string{
		"People": `{"search": {"people": {"edges": [
			{"node": {"displayName": "Bob Jones", "id": "u-bob", "handle": "bobjones"}},
			{"node": {"displayName": "Alice Smith", "id": "u-alice", "handle": "alicesmith"}}
		]}}}`,
	}))

	people, err := client.SearchPeople(context.Background(), "alicesmith")
	require.NoError(t, err)
	require.Len(t, people, 2)
	require.Equal(t, "u-alice", people[0].Id)

	id, err := client.SearchUser(context.Background(), "alicesmith")
	require.NoError(t, err)
	require.Equal(t, "u-alice", id)
}

func TestSearchUserNoMatch(t *testing.T) {
	client, _ := setupTestClient(t, graphqlDouble(t, map[string]string{
		"People": `{"search": {"people": {"edges": []}}}`,
	}))

	_, err := client.SearchUser(context.Background(), "nobody-by-this-name")
	require.ErrorIs(t, err, ErrNoMatch)
}

func TestFundingInstrumentsSkipsUndecodable(t *testing.T) {
	client, _ := setupTestClient(t, graphqlDouble(t, map[string]string{
		"getUserFundingInstruments": `{"profile": {"wallet": [
			{"id": "fi-1", "name": "Checking x1234", "instrumentType": "bank"},
			{"name": "mystery instrument with no id"}
		]}}`,
	}))

	instruments, err := client.FundingInstruments(context.Background())
	require.NoError(t, err)
	require.Len(t, instruments, 1)
	require.Equal(t, FundingInstrument{
		Id:             "fi-1",
		Name:           "Checking x1234",
		InstrumentType: "bank",
	}, instruments[0])
}

func TestGraphqlMissingData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"errors": [{"message": "not authorized"}]}`)
	})

	client, _ := setupTestClient(t, mux)
	_, err := client.SearchPeople(context.Background(), "anyone")
	require.ErrorIs(t, err, ErrUserQuery)
}
