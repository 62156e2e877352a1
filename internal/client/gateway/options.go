package gateway

import "net/url"

type requestOptions struct {
	form        url.Values
	query       url.Values
	blob        bool
	credential  string
	overrideTok bool
}

// Option tweaks a single request.
type Option func(*requestOptions)

// Form sends values as application/x-www-form-urlencoded instead of a JSON
// body.
func Form(values url.Values) Option {
	return func(o *requestOptions) { o.form = values }
}

// WithQuery appends values to the request URL.
func WithQuery(values url.Values) Option {
	return func(o *requestOptions) { o.query = values }
}

// AsBlob asks for the body as raw bytes. Call stores it, unchanged, into a
// *[]byte target.
func AsBlob() Option {
	return func(o *requestOptions) { o.blob = true }
}

// WithCredential attaches tok instead of the session's current credential.
func WithCredential(tok string) Option {
	return func(o *requestOptions) {
		o.credential = tok
		o.overrideTok = true
	}
}

// WithoutCredential sends the request anonymously.
func WithoutCredential() Option {
	return WithCredential("")
}
