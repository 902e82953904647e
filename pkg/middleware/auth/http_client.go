package auth

import "net/http"

// HTTPDoer is the minimal client contract used for assertion key fetches.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
