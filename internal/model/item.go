package model

import "time"

// Item represents one inventory record. JSON tags match the storage blob
// layout, so blobs written by older versions load unchanged.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Photo     string `json:"photo"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Location  string `json:"location"`
	Category  string `json:"category"`
	CreatedAt int64  `json:"createdAt"` // milliseconds since epoch
}

// Placeholder values applied when a field is missing or invalid on import.
const (
	DefaultName     = "未命名物品"
	DefaultCategory = "未分類"
	DefaultQuantity = 1
)

// Created returns the creation timestamp as a time.Time.
func (i Item) Created() time.Time {
	return time.UnixMilli(i.CreatedAt)
}
