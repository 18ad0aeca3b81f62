// Package sanitizer provides input normalization functions applied before
// validation and storage.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Names: whitespace normalization only (case is preserved)
//   - Emails: trim and lowercase (email addresses compare case-insensitively
//     in this system)
package sanitizer
