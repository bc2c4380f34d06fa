// Package api handles incoming HTTP requests for the demonstration endpoints,
// request validation, and response formatting. Query and body failures are
// funneled through ValidationErrorHandler so that every invalid request is
// logged and answered with the same 422 shape.
package api
