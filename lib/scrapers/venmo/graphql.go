package venmo

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// the wire shape every graphql read uses, query documents are fixed
// opaque bundles defined next to their operation.
type graphqlQueryObject struct {
	OperationName string `json:"operationName"`
	Variables     any    `json:"variables,omitempty"`
	Query         string `json:"query"`
}

func (c *Client) graphqlQuery(ctx context.Context, name, query string, variables any, output any) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("graphql:%s", name))
	defer span.End()

	span.SetAttributes(attribute.KeyValue{
		Key:   "name",
		Value: attribute.StringValue(name),
	})
	serialized, err := json.Marshal(variables)
	if err == nil {
		span.SetAttributes(attribute.KeyValue{
			Key:   "variables",
			Value: attribute.StringValue(string(serialized)),
		})
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("accept", "*/*").
		SetHeader("content-type", "application/json").
		SetAuthToken(c.bearer).
		SetBody(graphqlQueryObject{
			OperationName: name,
			Variables:     variables,
			Query:         query,
		}).
		Post(c.apiBaseUrl + "/graphql")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return err
	}
	c.absorbResponse(ctx, res)

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	err = json.Unmarshal(res.Body(), &envelope)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse json response")
		return err
	}
	if len(envelope.Data) == 0 {
		err := fmt.Errorf("response has no data field (status %d)", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse json response")
		return err
	}

	err = json.Unmarshal(envelope.Data, output)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse data object")
		return err
	}
	return nil
}
