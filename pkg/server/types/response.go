package types

import "mdnav-hq/mdnav/pkg/tql/value"

// QueryResponse is the body of a successful POST /v1/query.
type QueryResponse struct {
	// Results are the query results as JSON values, in order.
	Results []value.Value `json:"results"`

	// Count is len(Results).
	Count int `json:"count"`

	// Output is the results rendered in the requested non-JSON format.
	Output string `json:"output,omitempty"`
}
