// Package api adapts HTTP requests to the auth and task services. Handlers
// decode and shape-check JSON bodies, read the caller from the request
// context, and translate service errors into status codes and
// {"error": "..."} bodies that never carry internal detail.
package api
