// Package service contains the application use cases. It orchestrates the
// domain rules, the credential primitives in service/auth and the stores in
// internal/store, and owns transaction boundaries.
//
// Services receive their dependencies through constructor injection and never
// depend on a specific database implementation. Errors from the layers below
// are wrapped so the API layer can classify them with errors.Is.
package service
