// Package keydate extracts calendar dates from object keys.
// A key qualifies for listing when it contains a YYYY-MM-DD substring
// that is a real calendar date; everything else about the key is free-form.
package keydate
