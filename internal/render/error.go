package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/clusteradm/internal/apierr"
)

// Splash titles.
const (
	TitleConnection   = "Connection problem"
	TitleAccessDenied = "Access denied"
	TitleAuthFailed   = "Authentication failed"
	TitleServer       = "Server error"
	TitleError        = "Error"
)

// ErrorOptions controls error rendering.
type ErrorOptions struct {
	// URL is the cluster the command talked to.
	URL string
	// Verbose appends the backend class name and stack of GraphQL errors.
	Verbose bool
}

// Splash is an error prepared for display.
type Splash struct {
	Title  string
	Body   string
	Hint   string
	Detail string
}

// Describe builds the splash for err.
func Describe(err error, opts ErrorOptions) Splash {
	switch {
	case apierr.IsAccessDeniedError(err) || errors.Is(err, apierr.ErrAccessDenied):
		return Splash{
			Title: TitleAccessDenied,
			Body:  "The cluster refused this operation for the current session.",
			Hint:  "Run `clusteradm login` and try again.",
		}

	case apierr.IsNetworkError(err) || deadServer(err):
		body := "The cluster did not answer."
		if opts.URL != "" {
			body = fmt.Sprintf("The cluster at %s did not answer.", opts.URL)
		}
		s := Splash{
			Title: TitleConnection,
			Body:  body,
			Hint:  "Check that the instance is running and that --url points at its HTTP port.",
		}
		if opts.Verbose {
			s.Detail = err.Error()
		}
		return s

	case errors.Is(err, apierr.ErrAuthFailed):
		return Splash{
			Title: TitleAuthFailed,
			Body:  "Invalid username or password.",
		}
	}

	s := Splash{Title: TitleError, Body: apierr.ErrorMessage(err)}
	switch apierr.Category(err) {
	case apierr.KindGraphQLApplication, apierr.KindRestTransport:
		s.Title = TitleServer
	case apierr.KindAxiosApplication:
		s.Title = TitleServer
		s.Body = apierr.AxiosErrorMessage(err)
	default:
		var ge *apierr.GraphQLError
		if errors.As(err, &ge) {
			s.Title = TitleServer
		}
	}

	if opts.Verbose {
		if f := apierr.FormatGraphQLError(err); f.Message != "" {
			s.Detail = f.Markdown
		}
	}
	return s
}

// deadServer reports a gateway-level failure with no usable body, the way
// a reverse proxy answers when the instance behind it is down.
func deadServer(err error) bool {
	return errors.Is(err, apierr.ErrServer) && apierr.IsDeadServerError(err)
}

// Error writes the splash for err to w. A nil error writes nothing.
func Error(w io.Writer, err error, opts ErrorOptions) {
	if err == nil {
		return
	}
	s := Describe(err, opts)

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title))
	b.WriteString("\n\n")
	b.WriteString(s.Body)
	if s.Hint != "" {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(s.Hint))
	}
	if s.Detail != "" {
		b.WriteString("\n\n")
		b.WriteString(strings.TrimRight(s.Detail, "\n"))
	}

	fmt.Fprintln(w, boxStyle.Render(b.String()))
}
