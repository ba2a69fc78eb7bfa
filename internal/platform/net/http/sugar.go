package http

import "net/http"

// GetJSON mounts a pure JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// PostJSON mounts a JSON handler for POST that binds T from the body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(h))
}

// PostNoBody mounts a JSON handler for POST that ignores the body
func PostNoBody(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, JSONHandlerNoBody(h))
}

// GetRaw mounts a handler that serves a non-JSON document such as a calendar or a feed
func GetRaw(r Router, path string, h func(*http.Request) (Raw, error)) {
	r.Get(path, Handle(func(req *http.Request) Response {
		doc, err := h(req)
		if err != nil {
			return Error(err)
		}
		return doc.Response()
	}))
}
