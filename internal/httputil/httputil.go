// Package httputil provides HTTP method constants and helpers shared by the
// document model, the loader and the command line.
package httputil

import (
	"slices"
	"strings"
)

// HTTP Method Constants
const (
	MethodGet     = "get"
	MethodPost    = "post"
	MethodPut     = "put"
	MethodDelete  = "delete"
	MethodPatch   = "patch"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodTrace   = "trace"
)

// Methods lists the path item method fields in presentation order.
var Methods = []string{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodPatch,
	MethodOptions,
	MethodHead,
	MethodTrace,
}

// IsMethod reports whether key is one of Methods. Path item fields are lower
// case, so "GET" is not a method key.
func IsMethod(key string) bool {
	return slices.Contains(Methods, key)
}

// NormalizeMethod lower-cases method and reports whether it is known.
func NormalizeMethod(method string) (string, bool) {
	m := strings.ToLower(strings.TrimSpace(method))
	return m, IsMethod(m)
}

// IsSuccess reports whether an HTTP status code is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= 200 && status <= 299
}
