package controllers

import "github.com/rzbill/lodex/internal/catalog"

// seedReq represents a request to insert generated items.
type seedReq struct {
	Collection string `json:"collection"`
	Count      int    `json:"count"`
	Seed       uint64 `json:"seed"`
}

// clearReq represents a request to delete every item of a collection.
type clearReq struct {
	Collection string `json:"collection"`
}

// itemsResp is a page of items. Reverse pages are descending.
type itemsResp struct {
	Items []catalog.Item `json:"items"`
}

type countResp struct {
	Count int `json:"count"`
}

type seedResp struct {
	Inserted int `json:"inserted"`
}
