package net

import (
	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
)

// Wire is the uniform response envelope.
// Success carries Data; failure carries Error. Meta rides along list
// responses only
type Wire struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *perr.Wire `json:"error,omitempty"`
	Meta  *WireMeta  `json:"meta,omitempty"`
}

// WireMeta carries list pagination detail
type WireMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// WireOK builds a success envelope
func WireOK(data any) Wire { return Wire{OK: true, Data: data} }

// WireList builds a success envelope with list meta
func WireList(data any, total, limit, offset int) Wire {
	return Wire{OK: true, Data: data, Meta: &WireMeta{Total: total, Limit: limit, Offset: offset}}
}

// WireErr builds a failure envelope from any error, mapping through
// the platform error taxonomy
func WireErr(err error) Wire {
	w := perr.WireFrom(err)
	return Wire{OK: false, Error: &w}
}
