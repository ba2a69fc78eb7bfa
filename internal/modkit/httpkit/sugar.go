package httpkit

import (
	"net/http"

	phttp "cngalcal/internal/platform/net/http"
)

// Get registers a no-body handler behind the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post registers a no-body POST handler behind the envelope adapter
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}

// PostJSON binds and validates T from the body before calling h
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// GetRaw serves a document such as a calendar or a feed for GET and HEAD
func GetRaw(r Router, path string, h func(*http.Request) (Raw, error)) {
	phttp.GetRaw(r, path, h)
	r.Head(path, Handle(func(req *http.Request) Response {
		doc, err := h(req)
		if err != nil {
			return Error(err)
		}
		return doc.Response()
	}))
}
