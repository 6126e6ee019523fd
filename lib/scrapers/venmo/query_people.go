package venmo

import (
	"context"
	"fmt"
	"slices"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const peopleQuery = `query People(
    $input: SearchInput!
    $businessesInput: PaginatedInput
    $peopleInput: PaginatedInput
    $charitiesInput: PaginatedInput
  ) {
    search(input: $input) {
      businesses(input: $businessesInput) {
        edges {
          node {
            ...BusinessesFragment
            avatar {
              url
              __typename
            }
            __typename
          }
          cursor
          __typename
        }
        pageInfo {
          ...PaginationFragment
          __typename
        }
        __typename
      }
      charities(input: $charitiesInput) {
        edges {
          node {
            ...CharityFragment
            avatar {
              url
              __typename
            }
            __typename
          }
          cursor
          __typename
        }
        pageInfo {
          ...PaginationFragment
          __typename
        }
        __typename
      }
      people(input: $peopleInput) {
        edges {
          node {
            displayName
            id
            type
            avatar {
              url
              __typename
            }
            handle
            firstName
            lastName
            isFriend
            __typename
          }
          cursor
          __typename
        }
        pageInfo {
          ...PaginationFragment
          __typename
        }
        __typename
      }
      __typename
    }
  }
  fragment PaginationFragment on PageInfo {
    startCursor
    endCursor
    hasNextPage
    hasPreviousPage
    __typename
  }
  fragment BusinessesFragment on BusinessSearchResult {
    displayName
    id
    type
    handle
    mutualFriends
    paymentInteractions
    isFriend
    isFavorite
    __typename
  }
  fragment CharityFragment on CharitiesSearchResult {
    displayName
    id
    type
    handle
    mutualFriends
    paymentInteractions
    isFriend
    isFavorite
    __typename
  }`

type peopleVariables struct {
	Input struct {
		Name string `json:"name"`
	} `json:"input"`
}

// similarity scores a candidate against the query, taking the better of
// the handle and display-name matches.
func similarity(query string, p Person) float64 {
	byHandle := matchr.JaroWinkler(query, p.Handle, false)
	byName := matchr.JaroWinkler(query, p.DisplayName, false)
	return max(byHandle, byName)
}

// SearchPeople returns every people-search candidate for the query,
// best match first. Candidates are ranked by Jaro-Winkler similarity of
// the query against handle and display name; ties keep server order.
func (c *Client) SearchPeople(ctx context.Context, query string) ([]Person, error) {
	ctx, span := tracer.Start(ctx, "client:SearchPeople")
	defer span.End()

	span.SetAttributes(attribute.KeyValue{
		Key:   "query",
		Value: attribute.StringValue(query),
	})

	variables := peopleVariables{}
	variables.Input.Name = query

	var out struct {
		Search struct {
			People struct {
				Edges []struct {
					Node Person `json:"node"`
				} `json:"edges"`
			} `json:"people"`
		} `json:"search"`
	}
	err := c.graphqlQuery(ctx, "People", peopleQuery, variables, &out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "people query failed")
		return nil, fmt.Errorf("%w %v", ErrUserQuery, err)
	}

	people := make([]Person, len(out.Search.People.Edges))
	for i, edge := range out.Search.People.Edges {
		people[i] = edge.Node
	}

	slices.SortStableFunc(people, func(a, b Person) int {
		sa := similarity(query, a)
		sb := similarity(query, b)
		if sa > sb {
			return -1
		}
		if sa < sb {
			return 1
		}
		return 0
	})

	return people, nil
}

// SearchUser resolves a query to the single best-matching user id. A
// zero-candidate result is ErrNoMatch, distinguishable from a failed
// round trip.
func (c *Client) SearchUser(ctx context.Context, query string) (string, error) {
	people, err := c.SearchPeople(ctx, query)
	if err != nil {
		return "", err
	}
	if len(people) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, query)
	}
	if people[0].Id == "" {
		return "", fmt.Errorf("%w best candidate has no id", ErrUserQuery)
	}
	return people[0].Id, nil
}
