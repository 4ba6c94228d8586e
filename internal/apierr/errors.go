// Package apierr provides the error taxonomy shared by the GraphQL and REST
// clients of the cluster admin API, and the classifier that turns any of
// their failures into a display message and a couple of boolean facts
// (network problem, access denied).
//
// Transport adapters return the typed errors defined here (GraphQLError,
// TransportError, RequestError, NetworkError). Callers either inspect them
// through the classifier functions in classify.go or check the sentinels
// with errors.Is.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for API interaction failures.
var (
	// ErrAccessDenied indicates the server rejected the call for lack of authorization.
	ErrAccessDenied = errors.New("access denied")

	// ErrAuthFailed indicates the login credentials were rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNetwork indicates the server could not be reached at all.
	ErrNetwork = errors.New("network error")

	// ErrServer indicates the server answered with an application-level failure.
	ErrServer = errors.New("server error")

	// ErrNotFound indicates the requested entity does not exist in the cluster.
	ErrNotFound = errors.New("not found")
)

// Literal messages the backend and the clients agree on.
const (
	// AccessDeniedMessage is the GraphQL error message the backend sends for unauthorized calls.
	AccessDeniedMessage = "Access denied"

	// EmptyRestMessage is returned by RestErrorMessage when the response text is empty.
	EmptyRestMessage = "XMLHttpRequest error with empty message"

	// EmptyGraphQLMessage is used when a GraphQL error entry carries no message.
	EmptyGraphQLMessage = "GraphQL error with empty message"

	// NetworkErrorMessage prefixes every NetworkError message.
	NetworkErrorMessage = "Network Error"
)

// Extension keys the backend attaches to GraphQL error entries.
const (
	ExtClassName = "io.tarantool.errors.class_name"
	ExtStack     = "io.tarantool.errors.stack"
)

// GraphQLErrorItem is one entry of a GraphQL "errors" array.
// Fields are pointers or nil-able so that absent keys stay distinguishable
// from empty ones.
type GraphQLErrorItem struct {
	Message    *string        `json:"message,omitempty"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`

	// rawKeys is the number of keys seen when decoding from JSON,
	// including ones this struct does not model.
	rawKeys int
}

// UnmarshalJSON decodes the entry and remembers how many keys it had.
func (i *GraphQLErrorItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	type plain GraphQLErrorItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = GraphQLErrorItem(p)
	i.rawKeys = len(raw)
	return nil
}

// Location points into the GraphQL document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// keyCount returns the number of keys present on the entry.
func (i GraphQLErrorItem) keyCount() int {
	if i.rawKeys > 0 {
		return i.rawKeys
	}
	n := 0
	if i.Message != nil {
		n++
	}
	if i.Locations != nil {
		n++
	}
	if i.Path != nil {
		n++
	}
	if i.Extensions != nil {
		n++
	}
	return n
}

// Msg returns the message or "" when absent.
func (i GraphQLErrorItem) Msg() string {
	if i.Message == nil {
		return ""
	}
	return *i.Message
}

// NewGraphQLErrorItem builds an entry carrying only a message.
func NewGraphQLErrorItem(message string) GraphQLErrorItem {
	return GraphQLErrorItem{Message: &message}
}

// GraphQLError is returned when a GraphQL response carries a non-empty
// "errors" array. The raw entries are kept in order.
type GraphQLError struct {
	Errors []GraphQLErrorItem
}

func (e *GraphQLError) Error() string {
	if len(e.Errors) == 0 || e.Errors[0].Msg() == "" {
		return EmptyGraphQLMessage
	}
	return e.Errors[0].Msg()
}

// TransportError is a low-level HTTP failure: the server answered, but
// with a non-success status and a body that is not a structured error.
type TransportError struct {
	Status       int
	ResponseText string
}

func (e *TransportError) Error() string {
	if e.ResponseText != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.ResponseText)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Is lets errors.Is(err, ErrServer) match 5xx responses.
func (e *TransportError) Is(target error) bool {
	return target == ErrServer && e.Status >= 500
}

// RequestConfig describes the request that produced a RequestError.
// Adapter names the transport that executed it ("http").
type RequestConfig struct {
	Adapter string
	Method  string
	URL     string
}

// ResponseData is the structured error body the backend sends:
// {"class_name": "...", "err": "..."}.
type ResponseData struct {
	ClassName string `json:"class_name"`
	Err       string `json:"err"`
}

// Response is the HTTP response attached to a RequestError.
type Response struct {
	Status int
	Data   ResponseData
}

// RequestError is a failed REST call whose response was decoded.
// Config is nil when the error did not originate from a request adapter.
type RequestError struct {
	Message  string
	Config   *RequestConfig
	Response *Response
}

func (e *RequestError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrServer) match any decoded error response.
func (e *RequestError) Is(target error) bool {
	return target == ErrServer && e.Response != nil
}

// NetworkError is returned when a request never received a response.
// Its message always starts with NetworkErrorMessage.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return NetworkErrorMessage
	}
	return fmt.Sprintf("%s: %v", NetworkErrorMessage, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNetwork) match any NetworkError.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
