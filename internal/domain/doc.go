// Package domain contains the arithmetic behind the demonstration endpoints and
// the application error taxonomy shared by every layer. It has no knowledge of
// HTTP beyond the status code each error kind maps to.
package domain
