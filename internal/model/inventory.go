package model

import "time"

const MovementTypeRemoteSync = "remote_sync"

type InventoryMovement struct {
	ID             string    `db:"id"`
	ProductID      string    `db:"product_id"`
	MovementType   string    `db:"movement_type"`
	QuantityChange float64   `db:"quantity_change"`
	QuantityBefore float64   `db:"quantity_before"`
	QuantityAfter  float64   `db:"quantity_after"`
	ReferenceType  *string   `db:"reference_type"`
	ReferenceID    *string   `db:"reference_id"`
	Notes          string    `db:"notes"`
	CreatedAt      time.Time `db:"created_at"`
}
