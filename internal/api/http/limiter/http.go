package limiter

import (
	"fmt"
	"net/http"

	"github.com/m-zajac/gitpulse/internal/app"
	"golang.org/x/time/rate"
)

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// limitedHTTPDoer wraps HTTPDoer and allows Dos with maximum rate limit.
type limitedHTTPDoer struct {
	doer    HTTPDoer
	limiter *rate.Limiter
}

// NewHTTPDoer creates rate limited HTTPDoer.
// maxRate - maximum number of Dos per second.
// burst - number of Dos allowed at once, values below 1 are treated as 1.
// Stats of all projects are fetched at the same time, so burst should roughly match the number of projects.
func NewHTTPDoer(doer HTTPDoer, maxRate float64, burst int) HTTPDoer {
	if burst < 1 {
		burst = 1
	}
	return &limitedHTTPDoer{
		doer:    doer,
		limiter: rate.NewLimiter(rate.Limit(maxRate), burst),
	}
}

// Do executes http request. If limit is exceeded, blocks until call rate is within limit.
// Returns app.TooManyRequestsError when request context ends before the call is allowed.
func (d *limitedHTTPDoer) Do(r *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(r.Context()); err != nil {
		return nil, app.TooManyRequestsError(fmt.Sprintf("waiting for backend request limiter: %v", err))
	}

	return d.doer.Do(r)
}
