package apierr

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
)

// Shape is the classified form of an error. It is one of GraphQLShape,
// RestShape, AxiosShape or GenericShape.
type Shape interface {
	shape()
}

// GraphQLShape is a single-entry GraphQL error response.
type GraphQLShape struct {
	Message string
}

// RestShape is a transport error with its HTTP status and response text.
type RestShape struct {
	Status int
	Body   string
}

// AxiosShape is a decoded REST error produced by a request adapter.
type AxiosShape struct {
	ClassName string
	Err       string
	Message   string
}

// GenericShape is anything else. HasMessage is false for a nil error.
type GenericShape struct {
	Message    string
	HasMessage bool
}

func (GraphQLShape) shape() {}
func (RestShape) shape()    {}
func (AxiosShape) shape()   {}
func (GenericShape) shape() {}

// Classify selects exactly one shape for err, in the fixed priority order
// GraphQL, Rest, Axios, Generic.
func Classify(err error) Shape {
	switch {
	case IsGraphQLErrorResponse(err):
		return GraphQLShape{Message: GraphQLErrorMessage(err)}
	case IsRestErrorResponse(err):
		te := transportError(err)
		return RestShape{Status: te.Status, Body: te.ResponseText}
	case IsAxiosError(err):
		re := requestError(err)
		s := AxiosShape{Message: re.Message}
		if re.Response != nil {
			s.ClassName = re.Response.Data.ClassName
			s.Err = re.Response.Data.Err
		}
		return s
	case err == nil:
		return GenericShape{}
	default:
		return GenericShape{Message: err.Error(), HasMessage: true}
	}
}

// Kind is the error taxonomy the UI layer renders against.
type Kind int

const (
	KindGeneric Kind = iota
	KindGraphQLApplication
	KindRestTransport
	KindAxiosApplication
	KindNetworkConnectivity
)

func (k Kind) String() string {
	switch k {
	case KindGraphQLApplication:
		return "GraphqlApplicationError"
	case KindRestTransport:
		return "RestTransportError"
	case KindAxiosApplication:
		return "AxiosApplicationError"
	case KindNetworkConnectivity:
		return "NetworkConnectivityError"
	default:
		return "GenericError"
	}
}

// Category maps err onto the taxonomy.
func Category(err error) Kind {
	switch Classify(err).(type) {
	case GraphQLShape:
		return KindGraphQLApplication
	case RestShape:
		return KindRestTransport
	case AxiosShape:
		return KindAxiosApplication
	}
	if IsNetworkError(err) {
		return KindNetworkConnectivity
	}
	return KindGeneric
}

func graphQLError(err error) *GraphQLError {
	var ge *GraphQLError
	if errors.As(err, &ge) {
		return ge
	}
	return nil
}

func transportError(err error) *TransportError {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}
	return nil
}

func requestError(err error) *RequestError {
	var re *RequestError
	if errors.As(err, &re) {
		return re
	}
	return nil
}

// IsGraphQLErrorResponse reports whether err is a GraphQL error response
// with exactly one entry, and that entry has exactly one key, a non-nil
// message. It is safe on any input.
func IsGraphQLErrorResponse(err error) bool {
	ge := graphQLError(err)
	if ge == nil || len(ge.Errors) != 1 {
		return false
	}
	item := ge.Errors[0]
	return item.keyCount() == 1 && item.Message != nil
}

// GraphQLErrorMessage returns the message of the single GraphQL error entry.
// The caller must have checked IsGraphQLErrorResponse; calling it on any
// other error is a programming error and panics.
func GraphQLErrorMessage(err error) string {
	if !IsGraphQLErrorResponse(err) {
		panic("apierr: GraphQLErrorMessage called on a non-GraphQL error response")
	}
	return *graphQLError(err).Errors[0].Message
}

// IsGraphQLAccessDeniedError reports a GraphQL error response whose message is "Access denied".
func IsGraphQLAccessDeniedError(err error) bool {
	return IsGraphQLErrorResponse(err) && GraphQLErrorMessage(err) == AccessDeniedMessage
}

// IsRestErrorResponse reports whether err is (or wraps) a TransportError.
func IsRestErrorResponse(err error) bool {
	return transportError(err) != nil
}

// RestErrorMessage returns the response text of a transport error, or
// EmptyRestMessage when there is none.
func RestErrorMessage(err error) string {
	if te := transportError(err); te != nil && te.ResponseText != "" {
		return te.ResponseText
	}
	return EmptyRestMessage
}

// IsRestAccessDeniedError reports a transport error with status 401.
func IsRestAccessDeniedError(err error) bool {
	te := transportError(err)
	return te != nil && te.Status == http.StatusUnauthorized
}

// IsAccessDeniedError dispatches to the GraphQL or Rest access-denied check
// depending on the shape of err. Any other shape is not access denied.
func IsAccessDeniedError(err error) bool {
	switch {
	case IsGraphQLErrorResponse(err):
		return IsGraphQLAccessDeniedError(err)
	case IsRestErrorResponse(err):
		return IsRestAccessDeniedError(err)
	default:
		return false
	}
}

// IsAxiosError reports a RequestError carrying a non-empty Config.Adapter.
func IsAxiosError(err error) bool {
	re := requestError(err)
	return re != nil && re.Config != nil && re.Config.Adapter != ""
}

// AxiosErrorMessage returns "<class_name>: <err>" when the response body
// carries both fields, otherwise the plain error message.
func AxiosErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	re := requestError(err)
	if re == nil {
		return err.Error()
	}
	if re.Response != nil && re.Response.Data.ClassName != "" && re.Response.Data.Err != "" {
		return re.Response.Data.ClassName + ": " + re.Response.Data.Err
	}
	return re.Message
}

// ErrorMessage is the top-level dispatcher: GraphQL first, then Rest, then
// the plain error message. A nil error yields "".
func ErrorMessage(err error) string {
	switch {
	case IsGraphQLErrorResponse(err):
		return GraphQLErrorMessage(err)
	case IsRestErrorResponse(err):
		return RestErrorMessage(err)
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

const networkErrorPrefix = "network error"

// IsNetworkError reports a generic error whose message, lower-cased,
// starts with "network error". The match is a prefix match only. When
// err wraps a NetworkError, the wrapped error's message is inspected
// so that call-site context does not hide it.
func IsNetworkError(err error) bool {
	if err == nil || IsGraphQLErrorResponse(err) || IsRestErrorResponse(err) {
		return false
	}
	msg := err.Error()
	var ne *NetworkError
	if errors.As(err, &ne) {
		msg = ne.Error()
	}
	return strings.HasPrefix(strings.ToLower(msg), networkErrorPrefix)
}

var proxyRefused = regexp.MustCompile(`^Proxy error:.+ECONNREFUSED`)

// IsDeadServerError reports a transport error that means the server
// process is gone: an empty response text, or a dev-proxy refusal.
func IsDeadServerError(err error) bool {
	te := transportError(err)
	if te == nil {
		return false
	}
	return te.ResponseText == "" || proxyRefused.MatchString(te.ResponseText)
}

// Formatted is a GraphQL error prepared for display.
type Formatted struct {
	ClassName string
	Stack     string
	Message   string
	Markdown  string
}

// FormatGraphQLError extracts the backend class name and stack trace from
// the first entry of a GraphQL error response. Unlike
// IsGraphQLErrorResponse it accepts responses with several entries and
// entries carrying extensions. Other errors yield a zero Formatted.
func FormatGraphQLError(err error) Formatted {
	ge := graphQLError(err)
	if ge == nil || len(ge.Errors) == 0 || ge.Errors[0].Message == nil {
		return Formatted{}
	}

	first := ge.Errors[0]
	var f Formatted
	if first.Extensions != nil {
		f.ClassName, _ = first.Extensions[ExtClassName].(string)
		f.Stack, _ = first.Extensions[ExtStack].(string)
	}

	f.Message = first.Msg()
	if f.ClassName != "" {
		f.Message = f.ClassName + ": " + f.Message
	}
	if f.Message == "" {
		f.Message = ge.Error()
	}

	f.Markdown = f.Message
	if f.Stack != "" {
		f.Markdown += "\n\n```\n" + f.Stack + "\n```\n"
	}
	return f
}
