package venmo

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type PaymentKind string

const (
	PaymentKindPay     PaymentKind = "pay"
	PaymentKindRequest PaymentKind = "request"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSettled PaymentStatus = "settled"
)

// PaymentParams describes one payment submission. Constructed fresh per
// submission, never reused.
type PaymentParams struct {
	AmountCents  uint
	Note         string
	TargetUserId string
	Kind         PaymentKind
	// optional, the server picks a default when empty
	FundingSourceId string
}

type PaymentResult struct {
	Balance string        `json:"balance"`
	Status  PaymentStatus `json:"status"`
}

type eligibilityQuery struct {
	Action        string `json:"action"`
	AmountInCents uint   `json:"amountInCents"`
	Note          string `json:"note"`
	TargetId      string `json:"targetId"`
	TargetType    string `json:"targetType"`
}

// Eligibility is a short-lived grant certifying that a specific "pay"
// submission is currently permitted. Requested immediately before the
// submission and never persisted or reused.
type Eligibility struct {
	Eligible         bool   `json:"eligible"`
	EligibilityToken string `json:"eligibilityToken"`
}

// FetchEligibility asks the server whether a pay action against the
// target is currently permitted.
func (c *Client) FetchEligibility(ctx context.Context, amountCents uint, note, targetUserId string) (Eligibility, error) {
	ctx, span := tracer.Start(ctx, "client:FetchEligibility")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetHeader("csrf-token", c.csrf).
		SetHeader("xsrf-token", c.csrf).
		SetBody(eligibilityQuery{
			Action:        "pay",
			AmountInCents: amountCents,
			Note:          note,
			TargetId:      targetUserId,
			TargetType:    "user_id",
		}).
		Post(c.accountBaseUrl + "/api/eligibility")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make eligibility request")
		return Eligibility{}, fmt.Errorf("%w %v", ErrPaymentSend, err)
	}
	c.absorbResponse(ctx, res)

	var eligibility Eligibility
	err = json.Unmarshal(res.Body(), &eligibility)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse eligibility response")
		return Eligibility{}, fmt.Errorf("%w %v", ErrPaymentSend, err)
	}
	return eligibility, nil
}

type targetUserDetails struct {
	UserId string `json:"userId"`
}

type paymentQuery struct {
	AmountInCents     uint              `json:"amountInCents"`
	Audience          string            `json:"audience"`
	Note              string            `json:"note"`
	TargetUserDetails targetUserDetails `json:"targetUserDetails"`
	Type              PaymentKind       `json:"type"`
	EligibilityToken  string            `json:"eligibilityToken,omitempty"`
	FundingSourceId   string            `json:"fundingSourceID,omitempty"`
}

// SubmitPayment runs the two-step payment protocol: a Pay submission
// first requests an eligibility grant and attaches its token; an
// ineligible grant (or one without a token) aborts before anything is
// submitted. Request submissions skip the eligibility step entirely.
// There is no retry and no idempotency key.
func (c *Client) SubmitPayment(ctx context.Context, params PaymentParams) (PaymentResult, error) {
	ctx, span := tracer.Start(ctx, "client:SubmitPayment")
	defer span.End()

	span.SetAttributes(
		attribute.KeyValue{
			Key:   "kind",
			Value: attribute.StringValue(string(params.Kind)),
		},
		attribute.KeyValue{
			Key:   "amount_cents",
			Value: attribute.IntValue(int(params.AmountCents)),
		},
	)

	eligibilityToken := ""
	if params.Kind == PaymentKindPay {
		eligibility, err := c.FetchEligibility(ctx, params.AmountCents, params.Note, params.TargetUserId)
		if err != nil {
			return PaymentResult{}, err
		}
		if !eligibility.Eligible || eligibility.EligibilityToken == "" {
			span.SetStatus(codes.Error, "not eligible")
			return PaymentResult{}, fmt.Errorf("%w not eligible", ErrPaymentSend)
		}
		eligibilityToken = eligibility.EligibilityToken
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetHeader("csrf-token", c.csrf).
		SetHeader("xsrf-token", c.csrf).
		SetBody(paymentQuery{
			AmountInCents:     params.AmountCents,
			Audience:          "private",
			Note:              params.Note,
			TargetUserDetails: targetUserDetails{UserId: params.TargetUserId},
			Type:              params.Kind,
			EligibilityToken:  eligibilityToken,
			FundingSourceId:   params.FundingSourceId,
		}).
		Post(c.accountBaseUrl + "/api/payments")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make payment request")
		return PaymentResult{}, fmt.Errorf("%w %v", ErrPaymentSend, err)
	}
	c.absorbResponse(ctx, res)

	var result PaymentResult
	err = json.Unmarshal(res.Body(), &result)
	if err != nil || result.Status == "" {
		span.SetStatus(codes.Error, "failed to parse payment response")
		return PaymentResult{}, fmt.Errorf("%w unparsable response (status %d)", ErrPaymentSend, res.StatusCode())
	}
	return result, nil
}
