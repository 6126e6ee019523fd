package venmo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
)

const fundingInstrumentsQuery = `query getUserFundingInstruments {
    profile {
      ... on Profile {
        identity {
          ... on Identity {
            capabilities
            __typename
          }
          __typename
        }
        wallet {
          id
          assets {
            logoThumbnail
            __typename
          }
          instrumentType
          name
          fees {
            feeType
            fixedAmount
            variablePercentage
            __typename
          }
          metadata {
            ...BalanceMetadata
            ... on BankFundingInstrumentMetadata {
              bankName
              isVerified
              lastFourDigits
              uniqueIdentifier
              __typename
            }
            ... on CardFundingInstrumentMetadata {
              issuerName
              lastFourDigits
              networkName
              isVenmoCard
              expirationDate
              expirationStatus
              quasiCash
              __typename
            }
            __typename
          }
          roles {
            merchantPayments
            peerPayments
            __typename
          }
          __typename
        }
        __typename
      }
      __typename
    }
  }
  fragment BalanceMetadata on BalanceFundingInstrumentMetadata {
    availableBalance {
      value
      transactionType
      displayString
      __typename
    }
    __typename
  }`

// FundingInstruments lists the wallet's payment methods. Entries that
// fail to decode (unrecognized instrument subtypes and the like) are
// skipped instead of failing the whole call.
func (c *Client) FundingInstruments(ctx context.Context) ([]FundingInstrument, error) {
	ctx, span := tracer.Start(ctx, "client:FundingInstruments")
	defer span.End()

	var out struct {
		Profile struct {
			Wallet []json.RawMessage `json:"wallet"`
		} `json:"profile"`
	}
	err := c.graphqlQuery(ctx, "getUserFundingInstruments", fundingInstrumentsQuery, nil, &out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "funding instruments query failed")
		return nil, fmt.Errorf("%w %v", ErrUserQuery, err)
	}

	var instruments []FundingInstrument
	for _, raw := range out.Profile.Wallet {
		var instrument FundingInstrument
		err := json.Unmarshal(raw, &instrument)
		if err != nil || instrument.Id == "" || instrument.InstrumentType == "" {
			slog.DebugContext(ctx, "skipping undecodable funding instrument", "err", err)
			continue
		}
		instruments = append(instruments, instrument)
	}
	return instruments, nil
}
