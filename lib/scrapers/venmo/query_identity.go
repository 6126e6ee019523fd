package venmo

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

const identityQuery = `query Identity($input: ProfileInput) {
  profile(input: $input) {
    ... on Profile {
      availableIdentities {
        ... on BusinessIdentity {
          isDenylisted
          isSuspended
          type
          avatar {
            url
            __typename
          }
          displayName
          handle
          id
          profileBackgroundPicture
          balance {
            userBalance {
              value
              __typename
            }
            __typename
          }
          __typename
        }
        ... on Identity {
          isDenylisted
          isSuspended
          type
          avatar {
            url
            __typename
          }
          displayName
          handle
          id
          balance {
            userBalance {
              value
              __typename
            }
            __typename
          }
          __typename
        }
        __typename
      }
      __typename
    }
    __typename
  }
}`

// Profile fetches the first available identity of the authenticated
// account and caches it on the session. It requires a bearer token,
// i.e. a login (current or replayed from a previous run) must have
// happened first.
func (c *Client) Profile(ctx context.Context) (Identity, error) {
	ctx, span := tracer.Start(ctx, "client:Profile")
	defer span.End()

	if c.bearer == "" {
		span.SetStatus(codes.Error, "no bearer token")
		return Identity{}, fmt.Errorf("%w no access token, login first", ErrUnauthorized)
	}

	var out struct {
		Profile struct {
			AvailableIdentities []Identity `json:"availableIdentities"`
		} `json:"profile"`
	}
	err := c.graphqlQuery(ctx, "Identity", identityQuery, nil, &out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "identity query failed")
		return Identity{}, fmt.Errorf("%w %v", ErrUserQuery, err)
	}
	if len(out.Profile.AvailableIdentities) == 0 {
		span.SetStatus(codes.Error, "no available identities")
		return Identity{}, fmt.Errorf("%w no available identities", ErrUserQuery)
	}

	identity := out.Profile.AvailableIdentities[0]
	c.identity = &identity
	return identity, nil
}
