// Package persist stores form edit sessions in a string-keyed blob store.
//
// A Bridge writes the full FormEditState as JSON under "dntel-form-{formId}"
// and reads "form-{formId}" when the primary key is missing. Unreadable blobs
// are logged and treated as absent so a form always opens.
package persist
