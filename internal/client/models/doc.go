// Package models defines the JSON documents exchanged with the dashboard
// backend together with a few pure helpers used to present them.
//
// Struct tags carry both the wire names and the validation rules applied by
// the API client when a response is decoded.
package models
