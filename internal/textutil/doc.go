// Package textutil provides small text hygiene helpers for user-supplied
// brief content.
package textutil
